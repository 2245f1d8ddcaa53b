package db

import "time"

// EventRow is one row of the events table.
type EventRow struct {
	ID          string    `db:"id"`
	CreatedAt   time.Time `db:"created_at"`
	PayloadType string    `db:"payload_type"`
	Payload     []byte    `db:"payload"`
}
