// Package registry wires ingestion sources through validation into a catalog
// snapshot.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/schema"
)

// ErrInvalidBatch is returned in strict mode when any record failed validation
var ErrInvalidBatch = errors.New("catalog batch is invalid")

// Source yields the raw records of one ingestion backend
type Source interface {
	Name() string
	Records(ctx context.Context) ([]schema.Record, error)
}

// Options controls how a batch with failures is handled
type Options struct {
	// Lenient builds the catalog from the records that passed every check
	// instead of rejecting the whole batch.
	Lenient bool
}

// Build reads src, validates the batch and indexes the result. The report is
// returned whenever records could be read, including alongside
// ErrInvalidBatch.
func Build(ctx context.Context, src Source, opts Options) (*catalog.Catalog, *schema.BatchReport, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}

	report := schema.ValidateBatch(records)
	for _, res := range report.Failed() {
		slog.Warn("invalid catalog record", "source", res.Source, "error", res.Error())
	}

	if !report.OK() && !opts.Lenient {
		return nil, report, fmt.Errorf("%w: %d of %d records failed", ErrInvalidBatch, report.ErrorCount(), report.Total())
	}

	c, err := catalog.Build(report.Entries())
	if err != nil {
		return nil, report, fmt.Errorf("failed to build catalog: %w", err)
	}

	slog.Info("catalog built",
		"source", src.Name(),
		"version", c.Version(),
		"entries", c.Len(),
		"rejected", report.ErrorCount(),
	)
	return c, report, nil
}

// StaticSource serves a fixed set of records
type StaticSource struct {
	Label string
	Items []schema.Record
}

// Name describes the source for logs and reports
func (s StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

// Records returns the fixed records
func (s StaticSource) Records(context.Context) ([]schema.Record, error) {
	return s.Items, nil
}
