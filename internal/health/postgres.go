package health

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresChecker pings PostgreSQL through database/sql
type PostgresChecker struct {
	db *sql.DB
}

// NewPostgresChecker opens a small dedicated pool for health checks. The
// connection is established lazily on the first check.
func NewPostgresChecker(dsn string) (*PostgresChecker, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return &PostgresChecker{db: db}, nil
}

// HealthCheck verifies PostgreSQL connectivity
func (p *PostgresChecker) HealthCheck(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the health-check pool
func (p *PostgresChecker) Close() error {
	return p.db.Close()
}
