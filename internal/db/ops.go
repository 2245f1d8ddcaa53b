package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4"

	"mesh-metrics-backend/internal/events"
)

var (
	ErrInsertFailed           = errors.New("insert operation failed")
	ErrTransactionStartFailed = errors.New("transaction start failed")
	ErrSelectFailed           = errors.New("select operation failed")
	ErrEncodeFailed           = errors.New("event encode failed")
	ErrDecodeFailed           = errors.New("event decode failed")
)

// InsertEvents stores events in one transaction. Events whose id is
// already stored are skipped, so redelivered messages are harmless.
func (db *DB) InsertEvents(ctx context.Context, evs []events.Event) (err error) {
	const fn = "DB:InsertEvents"
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s:%w:%w", fn, ErrTransactionStartFailed, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	for _, ev := range evs {
		payload, mErr := json.Marshal(ev.Payload())
		if mErr != nil {
			return fmt.Errorf("%s:%w:%w", fn, ErrEncodeFailed, mErr)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO events (
				id,
				created_at,
				payload_type,
				payload
			) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
		`, ev.ID, ev.CreatedAt, string(ev.PayloadType), payload)
		if err != nil {
			return fmt.Errorf("%s:%w:%w", fn, ErrInsertFailed, err)
		}
	}
	return nil
}

// LoadEventsBetween returns the events of the given payload types created
// within [start, end], oldest first.
func (db *DB) LoadEventsBetween(ctx context.Context, start, end time.Time, types []events.PayloadType) ([]events.Event, error) {
	const fn = "DB:LoadEventsBetween"
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	var rows []EventRow
	err := pgxscan.Select(ctx, db.pool, &rows, `
			SELECT
				id,
				created_at,
				payload_type,
				payload
			FROM events
			WHERE created_at >= $1
			AND created_at <= $2
			AND payload_type = ANY($3)
			ORDER BY created_at ASC, id ASC
		`, start, end, names)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []events.Event{}, nil
		}
		return nil, fmt.Errorf("%s:%w:%w", fn, ErrSelectFailed, err)
	}

	out := make([]events.Event, 0, len(rows))
	for _, row := range rows {
		ev, err := row.Event()
		if err != nil {
			return nil, fmt.Errorf("%s:%w:%w", fn, ErrDecodeFailed, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func (r EventRow) Event() (events.Event, error) {
	createdAt := r.CreatedAt
	return events.Envelope{
		ID:          r.ID,
		CreatedAt:   &createdAt,
		PayloadType: events.PayloadType(r.PayloadType),
		Payload:     r.Payload,
	}.Decode()
}
