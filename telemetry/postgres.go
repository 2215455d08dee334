package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createEventsTable = `
	CREATE TABLE IF NOT EXISTS navigation_events (
		event_id   UUID PRIMARY KEY,
		session_id UUID,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ,
		payload    JSONB NOT NULL
	)
`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresSink stores events as JSONB rows in the navigation_events table.
type PostgresSink struct {
	db execer
}

// NewPostgresSink creates a sink writing through pool.
func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{db: pool}
}

// EnsureSchema creates the events table if it does not exist.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createEventsTable); err != nil {
		return fmt.Errorf("postgres: failed to create events table: %w", err)
	}
	return nil
}

// Send inserts one event row.
func (s *PostgresSink) Send(ctx context.Context, name string, attrs map[string]any) error {
	payload, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode %s event: %w", name, err)
	}

	query := `
		INSERT INTO navigation_events (event_id, session_id, name, created_at, payload)
		VALUES ($1::text::uuid, NULLIF($2::text, '')::uuid, $3, NULLIF($4::text, '')::timestamptz, $5::text::jsonb)
	`
	_, err = s.db.Exec(ctx, query,
		stringAttr(attrs, "eventId"), stringAttr(attrs, "sessionIdentifier"), name,
		stringAttr(attrs, "created"), string(payload),
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save %s event: %w", name, err)
	}
	return nil
}

func stringAttr(attrs map[string]any, key string) string {
	s, _ := attrs[key].(string)
	return s
}
