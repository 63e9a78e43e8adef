package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/agent-registry/internal/schema"
)

// ErrNoRecords is returned when the catalog table is empty and the caller
// asked for records to exist
var ErrNoRecords = errors.New("no catalog records")

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// PostgresSource reads raw catalog records from the catalog_records table.
// The key column is the slug each document is expected to carry.
type PostgresSource struct {
	pool *pgxpool.Pool

	// RequireRecords turns an empty table into ErrNoRecords
	RequireRecords bool
}

// NewPostgresSource connects to PostgreSQL and verifies the connection
func NewPostgresSource(ctx context.Context, cfg PostgresConfig) (*PostgresSource, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 1
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresSource{pool: pool}, nil
}

// Pool exposes the connection pool, used to run migrations
func (s *PostgresSource) Pool() *pgxpool.Pool {
	return s.pool
}

// Name describes the source for logs and reports
func (s *PostgresSource) Name() string {
	return "postgres:catalog_records"
}

// Records returns every stored document ordered by key
func (s *PostgresSource) Records(ctx context.Context) ([]schema.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT key, format, document
		FROM catalog_records
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog records: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (schema.Record, error) {
		var key, format string
		var document []byte
		if err := row.Scan(&key, &format, &document); err != nil {
			return schema.Record{}, err
		}
		return recordFromRow(key, format, document), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog records: %w", err)
	}

	if len(records) == 0 && s.RequireRecords {
		return nil, ErrNoRecords
	}
	return records, nil
}

// Upsert stores raw documents keyed by their expected slug, replacing any
// previous document with the same key
func (s *PostgresSource) Upsert(ctx context.Context, records []schema.Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rec := range records {
		if rec.ExpectedSlug == "" {
			return fmt.Errorf("record %s has no key", rec.Source)
		}
		format := rec.Format
		if format == "" {
			format = schema.FormatJSON
		}
		batch.Queue(`
			INSERT INTO catalog_records (key, format, document, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (key) DO UPDATE
			SET format = EXCLUDED.format, document = EXCLUDED.document, updated_at = NOW()
		`, rec.ExpectedSlug, string(format), rec.Data)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert catalog records: %w", err)
	}
	return tx.Commit(ctx)
}

// Ping checks database connectivity
func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}

func recordFromRow(key, format string, document []byte) schema.Record {
	return schema.Record{
		Source:       "catalog_records/" + key,
		ExpectedSlug: key,
		Format:       schema.Format(format),
		Data:         document,
	}
}
