// Package refresh periodically rebuilds the catalog and swaps it in.
package refresh

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/registry"
	"github.com/terra-clan/agent-registry/internal/schema"
)

// SwapFunc is called after a new snapshot has been published
type SwapFunc func(ctx context.Context, prev, next *catalog.Catalog)

// Refresher rebuilds the catalog from a source and publishes it through a
// Holder. A failed rebuild leaves the current snapshot in place.
type Refresher struct {
	holder   *catalog.Holder
	source   registry.Source
	opts     registry.Options
	interval time.Duration

	mu          sync.Mutex
	fingerprint string
	onSwap      []SwapFunc
}

// New creates a refresher. An interval of zero disables the periodic loop;
// Refresh can still be called directly.
func New(holder *catalog.Holder, source registry.Source, opts registry.Options, interval time.Duration) *Refresher {
	return &Refresher{
		holder:   holder,
		source:   source,
		opts:     opts,
		interval: interval,
	}
}

// OnSwap registers fn to run after every published snapshot
func (r *Refresher) OnSwap(fn SwapFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSwap = append(r.onSwap, fn)
}

// Start begins the refresh worker in a goroutine
func (r *Refresher) Start(ctx context.Context) {
	if r.interval <= 0 {
		slog.Info("catalog refresh disabled")
		return
	}
	go r.run(ctx)
}

func (r *Refresher) run(ctx context.Context) {
	slog.Info("catalog refresh worker started", "interval", r.interval, "source", r.source.Name())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("catalog refresh worker stopped")
			return
		case <-ticker.C:
			if _, err := r.Refresh(ctx); err != nil {
				slog.Error("catalog refresh failed, keeping current snapshot", "error", err)
			}
		}
	}
}

// Refresh rebuilds the catalog once. It reports whether a new snapshot was
// published; unchanged source content keeps the current snapshot.
func (r *Refresher) Refresh(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.source.Records(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", r.source.Name(), err)
	}

	fp := fingerprint(records)
	if fp == r.fingerprint && r.holder.Load() != nil {
		slog.Debug("catalog source unchanged", "source", r.source.Name())
		return false, nil
	}

	next, _, err := registry.Build(ctx, registry.StaticSource{Label: r.source.Name(), Items: records}, r.opts)
	if err != nil {
		return false, err
	}

	prev := r.holder.Swap(next)
	r.fingerprint = fp

	prevVersion := ""
	if prev != nil {
		prevVersion = prev.Version()
	}
	slog.Info("catalog snapshot swapped",
		"previous", prevVersion,
		"version", next.Version(),
		"entries", next.Len(),
	)

	for _, fn := range r.onSwap {
		fn(ctx, prev, next)
	}
	return true, nil
}

// fingerprint hashes the raw records so identical content skips a rebuild
func fingerprint(records []schema.Record) string {
	h := sha256.New()
	for _, rec := range records {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%d\x00", rec.Source, rec.ExpectedSlug, rec.Format, len(rec.Data))
		h.Write(rec.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}
