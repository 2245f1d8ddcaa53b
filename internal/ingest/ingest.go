package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"mesh-metrics-backend/internal/db"
	"mesh-metrics-backend/internal/events"
)

var (
	ErrDecodeFailed  = errors.New("event decode failed")
	ErrInvalidEvent  = errors.New("invalid event")
	ErrPersistFailed = errors.New("event persist failed")
)

// namespace seeds the name-based ids derived for events delivered without one.
var namespace = uuid.MustParse("6f0c8a52-3b1e-4f8e-9d0a-2c7d5e1b9a40")

// Store is the event log the pipeline writes into.
type Store interface {
	InsertEvents(ctx context.Context, evs []events.Event) error
}

// Fallback supplies the id and timestamp used when the envelope omits them.
type Fallback struct {
	ID        string
	CreatedAt time.Time
}

// DeliveryID derives a stable event id from a Kafka message coordinate.
func DeliveryID(topic string, partition int, offset int64) string {
	return uuid.NewSHA1(namespace, fmt.Appendf(nil, "%s/%d/%d", topic, partition, offset)).String()
}

// ContentID derives a stable event id from the raw message bytes.
func ContentID(raw []byte) string {
	return uuid.NewSHA1(namespace, raw).String()
}

type Config struct {
	Store           Store
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxElapsedTime of zero retries until the context ends.
	MaxElapsedTime time.Duration
}

type Pipeline struct {
	store    Store
	validate *validator.Validate
	newRetry func() backoff.BackOff
}

type header struct {
	ID          string             `validate:"required,max=256"`
	CreatedAt   time.Time          `validate:"required"`
	PayloadType events.PayloadType `validate:"required,watched"`
}

func New(cfg Config) *Pipeline {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("watched", func(fl validator.FieldLevel) bool {
		return events.IsWatched(events.PayloadType(fl.Field().String()))
	})

	return &Pipeline{
		store:    cfg.Store,
		validate: v,
		newRetry: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			if cfg.InitialInterval > 0 {
				b.InitialInterval = cfg.InitialInterval
			}
			if cfg.MaxInterval > 0 {
				b.MaxInterval = cfg.MaxInterval
			}
			b.MaxElapsedTime = cfg.MaxElapsedTime
			return b
		},
	}
}

// Decode parses a raw envelope and prepares it for storage.
func (p *Pipeline) Decode(raw []byte, fb Fallback) (events.Event, error) {
	const fn = "Pipeline:Decode"
	var env events.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return events.Event{}, fmt.Errorf("%s:%w:%w", fn, ErrDecodeFailed, err)
	}
	return p.Prepare(env, fb)
}

// Prepare decodes the payload variant of env, fills in the fallback id and
// timestamp, and validates the result.
func (p *Pipeline) Prepare(env events.Envelope, fb Fallback) (events.Event, error) {
	const fn = "Pipeline:Prepare"
	ev, err := env.Decode()
	if err != nil {
		return events.Event{}, fmt.Errorf("%s:%w:%w", fn, ErrDecodeFailed, err)
	}
	if ev.ID == "" {
		ev.ID = fb.ID
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = fb.CreatedAt
	}
	ev.CreatedAt = ev.CreatedAt.UTC()

	if err := p.validate.Struct(header{ID: ev.ID, CreatedAt: ev.CreatedAt, PayloadType: ev.PayloadType}); err != nil {
		return events.Event{}, fmt.Errorf("%s:%w:%w", fn, ErrInvalidEvent, err)
	}
	if err := p.validate.Struct(ev.Payload()); err != nil {
		return events.Event{}, fmt.Errorf("%s:%w:%w", fn, ErrInvalidEvent, err)
	}
	return ev, nil
}

// Persist writes evs to the store, retrying transient failures with
// exponential backoff until it succeeds or ctx ends.
func (p *Pipeline) Persist(ctx context.Context, evs ...events.Event) error {
	const fn = "Pipeline:Persist"
	if len(evs) == 0 {
		return nil
	}
	op := func() error {
		err := p.store.InsertEvents(ctx, evs)
		if errors.Is(err, db.ErrEncodeFailed) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		slog.WarnContext(ctx, "Persisting events failed, retrying",
			"error", err,
			"events", len(evs),
			"retry_in", wait,
		)
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(p.newRetry(), ctx), notify); err != nil {
		return fmt.Errorf("%s:%w:%w", fn, ErrPersistFailed, err)
	}
	return nil
}
