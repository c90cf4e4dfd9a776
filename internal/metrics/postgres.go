package metrics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// DefaultTable is the table metric events are inserted into.
const DefaultTable = "metric_events"

// PostgresSink inserts data points into a PostgreSQL table.
type PostgresSink struct {
	pool  *pgxpool.Pool
	table string // quoted identifier
}

// NewPostgresSink connects to databaseURL and verifies the connection.
func NewPostgresSink(ctx context.Context, databaseURL, table string) (*PostgresSink, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if table == "" {
		table = DefaultTable
	}

	return &PostgresSink{pool: pool, table: pq.QuoteIdentifier(table)}, nil
}

// EnsureSchema creates the events table if it does not exist.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          BIGSERIAL PRIMARY KEY,
			namespace   TEXT NOT NULL,
			metric_name TEXT NOT NULL,
			value       DOUBLE PRECISION NOT NULL,
			unit        TEXT NOT NULL,
			dimensions  JSONB NOT NULL DEFAULT '{}'::jsonb,
			recorded_at TIMESTAMPTZ NOT NULL
		)
	`, s.table)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create metric events table: %w", err)
	}
	return nil
}

// PutMetricData implements Sink. All rows are sent in one batch.
func (s *PostgresSink) PutMetricData(ctx context.Context, namespace string, data []Datum) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (namespace, metric_name, value, unit, dimensions, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.table)

	batch := &pgx.Batch{}
	for _, d := range data {
		dims := make(map[string]string, len(d.Dimensions))
		for _, dim := range d.Dimensions {
			dims[dim.Name] = dim.Value
		}
		encoded, err := json.Marshal(dims)
		if err != nil {
			return fmt.Errorf("marshal dimensions: %w", err)
		}
		batch.Queue(query, namespace, d.Name, d.Value, string(d.Unit), encoded, d.Timestamp)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert metric events: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *PostgresSink) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresSink) Close() {
	s.pool.Close()
}
