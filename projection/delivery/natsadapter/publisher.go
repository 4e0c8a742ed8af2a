// Package natsadapter publishes projection progress notifications to NATS.
//
// ProgressPublisher implements delivery.ProgressListener: every time a
// processor run advances a projection, a JSON document is published to
// "<prefix>.<projectionName>". Downstream consumers can use this to drive
// dashboards, cache invalidation, or read-your-writes waiting.
//
// Progress notification is fire-and-forget. Publish failures are logged and
// never interrupt event delivery.
package natsadapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"

	"github.com/AntonStoeckl/composable-projections-go/projection/delivery"
)

const (
	defaultSubjectPrefix = "projections.progress"

	headerMessageID = "Nats-Msg-Id"

	logMsgProgressPublished     = "projection progress published"
	logMsgPublishProgressFailed = "publishing projection progress failed"

	logAttrProjectionName = "projection_name"
	logAttrSubject        = "subject"
	logAttrError          = "error"
)

var ErrEmptyNATSURLSupplied = errors.New("empty NATS url supplied")
var ErrNilClientSupplied = errors.New("nil client supplied")
var ErrEmptySubjectPrefixSupplied = errors.New("empty subjectPrefix supplied")
var ErrConnectingToNATSFailed = errors.New("connecting to NATS failed")

// Client is a minimal publisher interface decoupled from the concrete NATS connection.
// Wrap an existing *nats.Conn or supply a fake in tests.
type Client interface {
	Publish(subject string, data []byte, headers map[string]string) error
}

// Config carries the connection settings for Connect.
type Config struct {
	URL           string
	Name          string
	ConnTimeout   time.Duration
	MaxReconnects int
}

// progressDocument is the JSON shape published per progress notification.
type progressDocument struct {
	ProjectionName  string    `json:"projection_name"`
	SequenceNumber  uint      `json:"sequence_number"`
	EventsProcessed int       `json:"events_processed"`
	ProcessedAt     time.Time `json:"processed_at"`
}

type natsConnClient struct {
	nc *nats.Conn
}

func (c natsConnClient) Publish(subject string, data []byte, headers map[string]string) error {
	msg := &nats.Msg{Subject: subject, Data: data}

	if len(headers) > 0 {
		msg.Header = nats.Header{}
		for key, val := range headers {
			msg.Header.Add(key, val)
		}
	}

	if publishErr := c.nc.PublishMsg(msg); publishErr != nil {
		return publishErr
	}

	return c.nc.Flush()
}

// Connect creates a NATS connection, wraps it as a Client and returns a cleanup func.
// The cleanup drains in-flight messages before closing.
func Connect(config Config) (Client, func(), error) {
	if config.URL == "" {
		return nil, nil, ErrEmptyNATSURLSupplied
	}

	opts := make([]nats.Option, 0, 3)
	if config.Name != "" {
		opts = append(opts, nats.Name(config.Name))
	}

	if config.ConnTimeout > 0 {
		opts = append(opts, nats.Timeout(config.ConnTimeout))
	}

	if config.MaxReconnects != 0 {
		opts = append(opts, nats.MaxReconnects(config.MaxReconnects))
	}

	nc, connectErr := nats.Connect(config.URL, opts...)
	if connectErr != nil {
		return nil, nil, errors.Join(ErrConnectingToNATSFailed, connectErr)
	}

	cleanup := func() {
		if nc != nil && !nc.IsClosed() {
			_ = nc.Drain() //nolint:errcheck // best-effort shutdown; cannot return error here
			nc.Close()
		}
	}

	return natsConnClient{nc: nc}, cleanup, nil
}

// ProgressPublisher publishes projection progress to NATS.
// It implements delivery.ProgressListener.
type ProgressPublisher struct {
	client        Client
	subjectPrefix string
	logger        delivery.Logger
}

var _ delivery.ProgressListener = ProgressPublisher{}

// Option defines a functional option for configuring a ProgressPublisher.
type Option func(*ProgressPublisher) error

// WithSubjectPrefix sets the subject prefix progress is published under.
func WithSubjectPrefix(subjectPrefix string) Option {
	return func(p *ProgressPublisher) error {
		if subjectPrefix == "" {
			return ErrEmptySubjectPrefixSupplied
		}

		p.subjectPrefix = subjectPrefix

		return nil
	}
}

// WithLogger sets the logger for the ProgressPublisher.
func WithLogger(logger delivery.Logger) Option {
	return func(p *ProgressPublisher) error {
		p.logger = logger
		return nil
	}
}

// NewProgressPublisher creates a ProgressPublisher on the given client with optional configuration.
func NewProgressPublisher(client Client, options ...Option) (ProgressPublisher, error) {
	if client == nil {
		return ProgressPublisher{}, ErrNilClientSupplied
	}

	publisher := ProgressPublisher{
		client:        client,
		subjectPrefix: defaultSubjectPrefix,
	}

	for _, option := range options {
		if err := option(&publisher); err != nil {
			return ProgressPublisher{}, err
		}
	}

	return publisher, nil
}

// ProjectionProgressed publishes the progress document to "<prefix>.<projectionName>".
// Each message carries a unique Nats-Msg-Id header for consumer-side de-duplication.
func (p ProgressPublisher) ProjectionProgressed(ctx context.Context, progress delivery.Progress) {
	if ctx.Err() != nil {
		return
	}

	document := progressDocument{
		ProjectionName:  progress.ProjectionName,
		SequenceNumber:  progress.SequenceNumber,
		EventsProcessed: progress.EventsProcessed,
		ProcessedAt:     progress.ProcessedAt,
	}

	body, marshalErr := jsoniter.ConfigFastest.Marshal(document)
	if marshalErr != nil {
		p.logFailure(progress.ProjectionName, "", marshalErr)
		return
	}

	subject := p.subjectFor(progress.ProjectionName)
	headers := map[string]string{headerMessageID: uuid.NewString()}

	if publishErr := p.client.Publish(subject, body, headers); publishErr != nil {
		p.logFailure(progress.ProjectionName, subject, publishErr)
		return
	}

	if p.logger != nil {
		p.logger.Debug(logMsgProgressPublished,
			logAttrProjectionName, progress.ProjectionName,
			logAttrSubject, subject)
	}
}

func (p ProgressPublisher) subjectFor(projectionName string) string {
	return fmt.Sprintf("%s.%s", p.subjectPrefix, projectionName)
}

func (p ProgressPublisher) logFailure(projectionName string, subject string, err error) {
	if p.logger == nil {
		return
	}

	p.logger.Warn(logMsgPublishProgressFailed,
		logAttrProjectionName, projectionName,
		logAttrSubject, subject,
		logAttrError, err.Error())
}
