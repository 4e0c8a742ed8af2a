package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/composable-projections-go/projection/delivery"
	"github.com/AntonStoeckl/composable-projections-go/projection/delivery/postgresengine/internal/adapters"
)

const (
	defaultEventsTableName      = "events"
	defaultCheckpointsTableName = "projection_checkpoints"

	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgBuildUpsertQueryFailed   = "failed to build upsert query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgDBExecFailed             = "database execution failed during checkpoint save"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgEventsFetched            = "events fetched"
	logMsgCheckpointLoaded         = "checkpoint loaded"
	logMsgCheckpointSaved          = "checkpoint saved"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "delivery engine operation: "

	logAttrError          = "error"
	logAttrQuery          = "query"
	logAttrEventType      = "event_type"
	logAttrEventCount     = "event_count"
	logAttrDurationMS     = "duration_ms"
	logAttrProjectionName = "projection_name"
	logAttrSequenceNumber = "sequence_number"
	logAttrAfterSequence  = "after_sequence"

	logActionFetchEvents    = "fetch events"
	logActionLoadCheckpoint = "load checkpoint"
	logActionSaveCheckpoint = "save checkpoint"

	colSequenceNumber = "sequence_number"
	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	colProjectionName = "projection_name"
	colUpdatedAt      = "updated_at"

	dialectPostgres = "postgres"
)

var ErrNilDatabaseConnectionSupplied = errors.New("nil database connection supplied")
var ErrEmptyEventsTableNameSupplied = errors.New("empty eventsTableName supplied")
var ErrEmptyCheckpointsTableNameSupplied = errors.New("empty checkpointsTableName supplied")
var ErrBuildingQueryFailed = errors.New("building sql query failed")
var ErrScanningDBRowFailed = errors.New("scanning database row failed")
var ErrBuildingStorableEventFailed = errors.New("building storable event failed")

type sqlQueryString = string

/***** EventFeed *****/

// EventFeed reads serialized events from a Postgres events table in sequence order.
// It implements delivery.EventFeed and leverages a database adapter with
// customizable logging and events table configuration.
type EventFeed struct {
	db              adapters.DBAdapter
	eventsTableName string
	logger          delivery.Logger
}

// FeedOption defines a functional option for configuring an EventFeed.
type FeedOption func(*EventFeed) error

// WithEventsTableName sets the events table name for the EventFeed.
func WithEventsTableName(tableName string) FeedOption {
	return func(f *EventFeed) error {
		if tableName == "" {
			return ErrEmptyEventsTableNameSupplied
		}

		f.eventsTableName = tableName

		return nil
	}
}

// WithFeedLogger sets the logger for the EventFeed.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Event counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithFeedLogger(logger delivery.Logger) FeedOption {
	return func(f *EventFeed) error {
		f.logger = logger
		return nil
	}
}

// NewEventFeedFromPGXPool creates a new EventFeed using a pgx Pool with optional configuration.
func NewEventFeedFromPGXPool(db *pgxpool.Pool, options ...FeedOption) (EventFeed, error) {
	if db == nil {
		return EventFeed{}, ErrNilDatabaseConnectionSupplied
	}

	return buildEventFeed(adapters.NewPGXAdapter(db), options...)
}

// NewEventFeedFromSQLDB creates a new EventFeed using a sql.DB with optional configuration.
func NewEventFeedFromSQLDB(db *sql.DB, options ...FeedOption) (EventFeed, error) {
	if db == nil {
		return EventFeed{}, ErrNilDatabaseConnectionSupplied
	}

	return buildEventFeed(adapters.NewSQLAdapter(db), options...)
}

// NewEventFeedFromSQLX creates a new EventFeed using a sqlx.DB with optional configuration.
func NewEventFeedFromSQLX(db *sqlx.DB, options ...FeedOption) (EventFeed, error) {
	if db == nil {
		return EventFeed{}, ErrNilDatabaseConnectionSupplied
	}

	return buildEventFeed(adapters.NewSQLXAdapter(db), options...)
}

func buildEventFeed(db adapters.DBAdapter, options ...FeedOption) (EventFeed, error) {
	feed := EventFeed{
		db:              db,
		eventsTableName: defaultEventsTableName,
	}

	for _, option := range options {
		if err := option(&feed); err != nil {
			return EventFeed{}, err
		}
	}

	return feed, nil
}

type eventResultRow struct {
	sequenceNumber delivery.SequenceNumberUint
	eventType      string
	occurredAt     time.Time
	payload        []byte
	metadata       []byte
}

// FetchAfter retrieves up to limit events with a sequence number greater than
// afterSequenceNumber, ordered by sequence number ascending.
//
// Database failures are wrapped with delivery.ErrFetchingEventsFailed so the
// Processor treats them as transient; scan and build failures are permanent.
func (f EventFeed) FetchAfter(
	ctx context.Context,
	afterSequenceNumber delivery.SequenceNumberUint,
	limit int,
) (delivery.StorableEvents, error) {

	var empty delivery.StorableEvents

	sqlQuery, buildQueryErr := f.buildSelectQuery(afterSequenceNumber, limit)
	if buildQueryErr != nil {
		if f.logger != nil {
			f.logger.Error(logMsgBuildSelectQueryFailed, logAttrError, buildQueryErr.Error())
		}
		return empty, buildQueryErr
	}

	rows, duration, queryErr := f.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		return empty, queryErr
	}
	defer closeRows(f.logger, rows)

	storableEvents, scanErr := f.processQueryResults(rows)
	if scanErr != nil {
		return empty, scanErr
	}

	logOperation(
		f.logger,
		logMsgEventsFetched,
		logAttrEventCount, len(storableEvents),
		logAttrAfterSequence, afterSequenceNumber,
		logAttrDurationMS, durationToMilliseconds(duration))

	return storableEvents, nil
}

func (f EventFeed) buildSelectQuery(
	afterSequenceNumber delivery.SequenceNumberUint,
	limit int,
) (sqlQueryString, error) {

	selectStmt := goqu.Dialect(dialectPostgres).
		From(f.eventsTableName).
		Select(colSequenceNumber, colEventType, colOccurredAt, colPayload, colMetadata).
		Where(goqu.C(colSequenceNumber).Gt(afterSequenceNumber)).
		Order(goqu.I(colSequenceNumber).Asc())

	if limit > 0 {
		selectStmt = selectStmt.Limit(uint(limit))
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// executeQuery executes the SQL query and returns rows with timing information.
func (f EventFeed) executeQuery(ctx context.Context, sqlQuery string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := f.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	logQueryWithDuration(f.logger, sqlQuery, logActionFetchEvents, duration)

	if queryErr != nil {
		if f.logger != nil {
			f.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		return nil, duration, errors.Join(delivery.ErrFetchingEventsFailed, queryErr)
	}

	return rows, duration, nil
}

// processQueryResults processes database rows and converts them to storable events.
func (f EventFeed) processQueryResults(rows adapters.DBRows) (delivery.StorableEvents, error) {
	var empty delivery.StorableEvents
	result := eventResultRow{}
	storableEvents := make(delivery.StorableEvents, 0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.sequenceNumber, &result.eventType, &result.occurredAt, &result.payload, &result.metadata)
		if rowScanErr != nil {
			if f.logger != nil {
				f.logger.Error(logMsgScanRowFailed, logAttrError, rowScanErr.Error())
			}

			return empty, errors.Join(ErrScanningDBRowFailed, rowScanErr)
		}

		event, buildStorableErr := delivery.BuildStorableEvent(
			result.sequenceNumber, result.eventType, result.occurredAt, result.payload, result.metadata,
		)
		if buildStorableErr != nil {
			if f.logger != nil {
				f.logger.Error(logMsgBuildStorableEventFailed, logAttrError, buildStorableErr.Error(), logAttrEventType, result.eventType)
			}

			return empty, errors.Join(ErrBuildingStorableEventFailed, buildStorableErr)
		}

		storableEvents = append(storableEvents, event)
	}

	return storableEvents, nil
}

/***** CheckpointStore *****/

// CheckpointStore persists projection positions in a Postgres checkpoints table,
// one row per projection. It implements delivery.CheckpointStore and leverages a
// database adapter with customizable logging and checkpoints table configuration.
type CheckpointStore struct {
	db                   adapters.DBAdapter
	checkpointsTableName string
	logger               delivery.Logger
}

// StoreOption defines a functional option for configuring a CheckpointStore.
type StoreOption func(*CheckpointStore) error

// WithCheckpointsTableName sets the checkpoints table name for the CheckpointStore.
func WithCheckpointsTableName(tableName string) StoreOption {
	return func(s *CheckpointStore) error {
		if tableName == "" {
			return ErrEmptyCheckpointsTableNameSupplied
		}

		s.checkpointsTableName = tableName

		return nil
	}
}

// WithStoreLogger sets the logger for the CheckpointStore.
func WithStoreLogger(logger delivery.Logger) StoreOption {
	return func(s *CheckpointStore) error {
		s.logger = logger
		return nil
	}
}

// NewCheckpointStoreFromPGXPool creates a new CheckpointStore using a pgx Pool with optional configuration.
func NewCheckpointStoreFromPGXPool(db *pgxpool.Pool, options ...StoreOption) (CheckpointStore, error) {
	if db == nil {
		return CheckpointStore{}, ErrNilDatabaseConnectionSupplied
	}

	return buildCheckpointStore(adapters.NewPGXAdapter(db), options...)
}

// NewCheckpointStoreFromSQLDB creates a new CheckpointStore using a sql.DB with optional configuration.
func NewCheckpointStoreFromSQLDB(db *sql.DB, options ...StoreOption) (CheckpointStore, error) {
	if db == nil {
		return CheckpointStore{}, ErrNilDatabaseConnectionSupplied
	}

	return buildCheckpointStore(adapters.NewSQLAdapter(db), options...)
}

// NewCheckpointStoreFromSQLX creates a new CheckpointStore using a sqlx.DB with optional configuration.
func NewCheckpointStoreFromSQLX(db *sqlx.DB, options ...StoreOption) (CheckpointStore, error) {
	if db == nil {
		return CheckpointStore{}, ErrNilDatabaseConnectionSupplied
	}

	return buildCheckpointStore(adapters.NewSQLXAdapter(db), options...)
}

func buildCheckpointStore(db adapters.DBAdapter, options ...StoreOption) (CheckpointStore, error) {
	store := CheckpointStore{
		db:                   db,
		checkpointsTableName: defaultCheckpointsTableName,
	}

	for _, option := range options {
		if err := option(&store); err != nil {
			return CheckpointStore{}, err
		}
	}

	return store, nil
}

// Load retrieves the checkpoint for the given projection.
// Returns delivery.ErrNoCheckpointFound when no row exists for the projection yet.
//
// Database failures are wrapped with delivery.ErrLoadingCheckpointFailed so the
// Processor treats them as transient.
func (s CheckpointStore) Load(ctx context.Context, projectionName string) (delivery.Checkpoint, error) {
	var empty delivery.Checkpoint

	if projectionName == "" {
		return empty, delivery.ErrEmptyProjectionNameSupplied
	}

	sqlQuery, buildQueryErr := s.buildSelectQuery(projectionName)
	if buildQueryErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBuildSelectQueryFailed, logAttrError, buildQueryErr.Error())
		}
		return empty, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	logQueryWithDuration(s.logger, sqlQuery, logActionLoadCheckpoint, duration)

	if queryErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		return empty, errors.Join(delivery.ErrLoadingCheckpointFailed, queryErr)
	}
	defer closeRows(s.logger, rows)

	if !rows.Next() {
		return empty, delivery.ErrNoCheckpointFound
	}

	checkpoint := delivery.Checkpoint{ProjectionName: projectionName}

	rowScanErr := rows.Scan(&checkpoint.SequenceNumber, &checkpoint.UpdatedAt)
	if rowScanErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgScanRowFailed, logAttrError, rowScanErr.Error())
		}

		return empty, errors.Join(ErrScanningDBRowFailed, rowScanErr)
	}

	logOperation(
		s.logger,
		logMsgCheckpointLoaded,
		logAttrProjectionName, projectionName,
		logAttrSequenceNumber, checkpoint.SequenceNumber,
		logAttrDurationMS, durationToMilliseconds(duration))

	return checkpoint, nil
}

// Save upserts the checkpoint row for the checkpoint's projection.
//
// Database failures are wrapped with delivery.ErrSavingCheckpointFailed so the
// Processor treats them as transient.
func (s CheckpointStore) Save(ctx context.Context, checkpoint delivery.Checkpoint) error {
	if validateErr := checkpoint.Validate(); validateErr != nil {
		return validateErr
	}

	sqlQuery, buildQueryErr := s.buildUpsertQuery(checkpoint)
	if buildQueryErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBuildUpsertQueryFailed, logAttrError, buildQueryErr.Error())
		}
		return buildQueryErr
	}

	start := time.Now()
	_, execErr := s.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	logQueryWithDuration(s.logger, sqlQuery, logActionSaveCheckpoint, duration)

	if execErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		}

		return errors.Join(delivery.ErrSavingCheckpointFailed, execErr)
	}

	logOperation(
		s.logger,
		logMsgCheckpointSaved,
		logAttrProjectionName, checkpoint.ProjectionName,
		logAttrSequenceNumber, checkpoint.SequenceNumber,
		logAttrDurationMS, durationToMilliseconds(duration))

	return nil
}

func (s CheckpointStore) buildSelectQuery(projectionName string) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.checkpointsTableName).
		Select(colSequenceNumber, colUpdatedAt).
		Where(goqu.Ex{colProjectionName: projectionName})

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s CheckpointStore) buildUpsertQuery(checkpoint delivery.Checkpoint) (sqlQueryString, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.checkpointsTableName).
		Rows(goqu.Record{
			colProjectionName: checkpoint.ProjectionName,
			colSequenceNumber: checkpoint.SequenceNumber,
			colUpdatedAt:      checkpoint.UpdatedAt,
		}).
		OnConflict(goqu.DoUpdate(colProjectionName, goqu.Record{
			colSequenceNumber: checkpoint.SequenceNumber,
			colUpdatedAt:      checkpoint.UpdatedAt,
		}))

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

/***** shared helpers *****/

// closeRows safely closes database rows and logs any errors.
func closeRows(logger delivery.Logger, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if logger != nil {
			logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func logQueryWithDuration(
	logger delivery.Logger,
	sqlQuery string,
	action string,
	duration time.Duration,
) {

	if logger != nil {
		logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func logOperation(logger delivery.Logger, action string, args ...any) {
	if logger != nil {
		logger.Info(logMsgOperation+action, args...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
