package testdoubles

import (
	"context"
	"sync"
)

// ContextualLoggerSpy is a ContextualLogger implementation that captures contextual
// logging calls for testing, so context-aware instrumentation can be asserted on
// without a logging backend.
type ContextualLoggerSpy struct {
	debugRecords []SpyContextualLogRecord
	infoRecords  []SpyContextualLogRecord
	warnRecords  []SpyContextualLogRecord
	errorRecords []SpyContextualLogRecord
	mu           sync.Mutex
	recordCalls  bool
}

// SpyContextualLogRecord represents a recorded contextual log call.
type SpyContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy instance.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{
		recordCalls: recordCalls,
	}
}

// DebugContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	if s.recordCalls {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.debugRecords = append(s.debugRecords, SpyContextualLogRecord{
			Level:   "debug",
			Message: msg,
			Args:    args,
			Context: ctx,
		})
	}
}

// InfoContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	if s.recordCalls {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.infoRecords = append(s.infoRecords, SpyContextualLogRecord{
			Level:   "info",
			Message: msg,
			Args:    args,
			Context: ctx,
		})
	}
}

// WarnContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	if s.recordCalls {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.warnRecords = append(s.warnRecords, SpyContextualLogRecord{
			Level:   "warn",
			Message: msg,
			Args:    args,
			Context: ctx,
		})
	}
}

// ErrorContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	if s.recordCalls {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.errorRecords = append(s.errorRecords, SpyContextualLogRecord{
			Level:   "error",
			Message: msg,
			Args:    args,
			Context: ctx,
		})
	}
}

// Reset clears all recorded log calls.
func (s *ContextualLoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.debugRecords = s.debugRecords[:0]
	s.infoRecords = s.infoRecords[:0]
	s.warnRecords = s.warnRecords[:0]
	s.errorRecords = s.errorRecords[:0]
}

// GetDebugRecords returns a copy of all captured debug-level records.
func (s *ContextualLoggerSpy) GetDebugRecords() []SpyContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyLogRecords(s.debugRecords)
}

// GetInfoRecords returns a copy of all captured info-level records.
func (s *ContextualLoggerSpy) GetInfoRecords() []SpyContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyLogRecords(s.infoRecords)
}

// GetWarnRecords returns a copy of all captured warn-level records.
func (s *ContextualLoggerSpy) GetWarnRecords() []SpyContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyLogRecords(s.warnRecords)
}

// GetErrorRecords returns a copy of all captured error-level records.
func (s *ContextualLoggerSpy) GetErrorRecords() []SpyContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyLogRecords(s.errorRecords)
}

// HasDebugRecord checks if there is a debug-level record with the specified message.
func (s *ContextualLoggerSpy) HasDebugRecord(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return hasRecordWithMessage(s.debugRecords, message)
}

// HasInfoRecord checks if there is an info-level record with the specified message.
func (s *ContextualLoggerSpy) HasInfoRecord(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return hasRecordWithMessage(s.infoRecords, message)
}

// HasWarnRecord checks if there is a warn-level record with the specified message.
func (s *ContextualLoggerSpy) HasWarnRecord(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return hasRecordWithMessage(s.warnRecords, message)
}

// HasErrorRecord checks if there is an error-level record with the specified message.
func (s *ContextualLoggerSpy) HasErrorRecord(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return hasRecordWithMessage(s.errorRecords, message)
}

func hasRecordWithMessage(records []SpyContextualLogRecord, message string) bool {
	for _, record := range records {
		if record.Message == message {
			return true
		}
	}

	return false
}

func copyLogRecords(records []SpyContextualLogRecord) []SpyContextualLogRecord {
	recordsCopy := make([]SpyContextualLogRecord, len(records))
	copy(recordsCopy, records)

	return recordsCopy
}
