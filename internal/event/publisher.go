// Package event publishes generated records to Kafka.
package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/utafrali/catalog-datagen/internal/domain"
	"github.com/utafrali/catalog-datagen/pkg/kafka"
	"github.com/utafrali/catalog-datagen/pkg/logger"
)

const (
	// Source is stamped on every event.
	Source = "catalog-datagen"
	// ActionGenerated is the action part of topics and event types.
	ActionGenerated = "generated"

	// MetadataRow holds the zero-based row of the record in its output
	// file, so consumers can restore file order across partitions.
	MetadataRow = "row"

	defaultBatchSize = 500
)

// ErrCircuitOpen is returned once the breaker has tripped and publishing
// is being skipped.
var ErrCircuitOpen = gobreaker.ErrOpenState

// Publisher is the subset of *kafka.Producer the record publisher needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, events ...*kafka.Event) error
}

// BreakerConfig configures the circuit breaker around the broker.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig trips after half of at least 5 batches fail.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "kafka-publisher",
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// RecordPublisher turns table rows into events and publishes them in
// batches through a circuit breaker.
type RecordPublisher struct {
	publisher Publisher
	breaker   *gobreaker.CircuitBreaker[struct{}]
	batchSize int
	logger    *slog.Logger
}

// NewRecordPublisher wraps p. batchSize <= 0 uses 500.
func NewRecordPublisher(p Publisher, cfg BreakerConfig, batchSize int, log *slog.Logger) *RecordPublisher {
	if log == nil {
		log = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}
	return &RecordPublisher{
		publisher: p,
		breaker:   gobreaker.NewCircuitBreaker[struct{}](settings),
		batchSize: batchSize,
		logger:    log,
	}
}

// Topic returns the topic records of entity are published to.
func Topic(entity string) string {
	return kafka.Topic(entity, ActionGenerated)
}

// PublishTable publishes every record of table as one event keyed by its
// first column. The run ID from ctx becomes the correlation ID. It returns
// how many events were published before the first failure.
func (p *RecordPublisher) PublishTable(ctx context.Context, entity string, table *domain.Table) (int, error) {
	if table == nil {
		return 0, nil
	}
	topic := Topic(entity)
	runID := logger.RunIDFromContext(ctx)

	published := 0
	for from := 0; from < table.Len(); from += p.batchSize {
		to := min(from+p.batchSize, table.Len())

		batch := make([]*kafka.Event, 0, to-from)
		for i, rec := range table.Records[from:to] {
			ev, err := newRecordEvent(topic, entity, from+i, rec)
			if err != nil {
				return published, err
			}
			batch = append(batch, ev.WithCorrelationID(runID))
		}

		_, err := p.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, p.publisher.Publish(ctx, topic, batch...)
		})
		if err != nil {
			if errors.Is(err, ErrCircuitOpen) {
				p.logger.WarnContext(ctx, "publisher circuit open, skipping remaining records",
					slog.String("topic", topic),
					slog.Int("skipped", table.Len()-from),
				)
			}
			return published, fmt.Errorf("publish %s records: %w", entity, err)
		}
		published += len(batch)
	}
	return published, nil
}

func newRecordEvent(topic, entity string, row int, rec *domain.Record) (*kafka.Event, error) {
	var key string
	if keys := rec.Keys(); len(keys) > 0 {
		key, _ = rec.Get(keys[0])
	}
	ev, err := kafka.NewEvent(topic, key, entity, Source, rec)
	if err != nil {
		return nil, fmt.Errorf("build %s event %s: %w", entity, key, err)
	}
	return ev.WithMetadata(MetadataRow, strconv.Itoa(row)), nil
}

// State reports the breaker state.
func (p *RecordPublisher) State() gobreaker.State {
	return p.breaker.State()
}
