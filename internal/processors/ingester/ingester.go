package ingester

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mesh-metrics-backend/internal/ingest"
	"mesh-metrics-backend/internal/worker"

	k "mesh-metrics-backend/internal/kafka" // alias to avoid name conflict

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
)

const deadLetterRetries = 5

var (
	ErrReadMessage   = errors.New("error reading message")
	ErrJSONParse     = errors.New("error parsing JSON")
	ErrInvalidEvent  = errors.New("invalid event")
	ErrWriteMessage  = errors.New("error writing message")
	ErrPersist       = errors.New("error persisting event")
	ErrCommitMessage = errors.New("error committing message")
)

type Config struct {
	Brokers         []string
	ConsumerGroupID string
	ConsumerTopic   string
	DeadLetterTopic string
	Pipeline        *ingest.Pipeline
}

type Ingester struct {
	brokers  []string
	worker   *worker.Worker
	reader   k.Reader
	writer   k.Writer
	pipeline *ingest.Pipeline
	retry    func() backoff.BackOff
}

func New(cfg Config) *Ingester {
	ingester := newIngester(
		kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			GroupID: cfg.ConsumerGroupID,
			Topic:   cfg.ConsumerTopic,
		}),
		&kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.DeadLetterTopic,
			AllowAutoTopicCreation: true,
		},
		cfg.Pipeline,
	)
	ingester.brokers = cfg.Brokers
	return ingester
}

func newIngester(reader k.Reader, writer k.Writer, pipeline *ingest.Pipeline) *Ingester {
	ingester := &Ingester{
		reader:   reader,
		writer:   writer,
		pipeline: pipeline,
		retry: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), deadLetterRetries)
		},
	}
	ingester.worker = worker.New(worker.Config{
		Name:       "ingester-worker",
		Processor:  ingester,
		ErrorDelay: time.Second,
	})
	return ingester
}

// Blocking operation
func (i *Ingester) Run(ctx context.Context) {
	if err := i.waitForBroker(ctx, 30*time.Second, 5*time.Second); err != nil {
		slog.WarnContext(ctx, "Starting without a reachable broker", "error", err)
	}
	i.worker.Run(ctx)
}

func (i *Ingester) waitForBroker(ctx context.Context, maxWait time.Duration, interval time.Duration) error {
	deadline := time.Now().Add(maxWait)
	for time.Now().Before(deadline) {
		for _, broker := range i.brokers {
			dialCtx, cancel := context.WithTimeout(ctx, interval)
			conn, err := kafka.DialContext(dialCtx, "tcp", broker)
			cancel()
			if err == nil {
				conn.Close()
				slog.InfoContext(ctx, "Broker is ready", "broker", broker)
				return nil
			}
			slog.InfoContext(ctx, "Broker not ready", "broker", broker, "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("brokers %v not reachable after %s", i.brokers, maxWait)
}

func (i *Ingester) Close(ctx context.Context) {
	slog.InfoContext(ctx, "Closing ingester resources...")
	i.reader.Close()
	i.writer.Close()
}

// Offsets are committed only once the event is stored or dead-lettered.
func (i *Ingester) ProcessMessage(ctx context.Context) error {
	const fn = "Ingester:ProcessMessage"
	m, err := i.reader.FetchMessage(ctx)
	if err != nil {
		return fmt.Errorf("%s:%w:%w", fn, ErrReadMessage, err)
	}

	receivedAt := m.Time
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	ev, err := i.pipeline.Decode(m.Value, ingest.Fallback{
		ID:        ingest.DeliveryID(m.Topic, m.Partition, m.Offset),
		CreatedAt: receivedAt,
	})
	if err != nil {
		if dlErr := i.deadLetter(ctx, m, err); dlErr != nil {
			return fmt.Errorf("%s:%w:%w", fn, ErrWriteMessage, dlErr)
		}
		if cErr := i.reader.CommitMessages(ctx, m); cErr != nil {
			return fmt.Errorf("%s:%w:%w", fn, ErrCommitMessage, cErr)
		}
		if errors.Is(err, ingest.ErrDecodeFailed) {
			return fmt.Errorf("%s:%w:%w", fn, ErrJSONParse, err)
		}
		return fmt.Errorf("%s:%w:%w", fn, ErrInvalidEvent, err)
	}

	if err := i.pipeline.Persist(ctx, ev); err != nil {
		return fmt.Errorf("%s:%w:%w", fn, ErrPersist, err)
	}
	if err := i.reader.CommitMessages(ctx, m); err != nil {
		return fmt.Errorf("%s:%w:%w", fn, ErrCommitMessage, err)
	}
	slog.DebugContext(ctx, "Stored event",
		"id", ev.ID,
		"payload_type", ev.PayloadType,
		"offset", m.Offset,
	)
	return nil
}

func (i *Ingester) deadLetter(ctx context.Context, m kafka.Message, cause error) error {
	record := k.DeadLetterRecord{
		Error:     cause.Error(),
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Payload:   string(m.Value),
	}
	out, err := json.Marshal(record)
	if err != nil {
		return err
	}
	slog.WarnContext(ctx, "Dead-lettering message",
		"error", cause,
		"topic", m.Topic,
		"partition", m.Partition,
		"offset", m.Offset,
	)
	write := func() error {
		return i.writer.WriteMessages(ctx, kafka.Message{Key: m.Key, Value: out})
	}
	return backoff.Retry(write, backoff.WithContext(i.retry(), ctx))
}
