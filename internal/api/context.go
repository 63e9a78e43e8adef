package api

import (
	"context"
	"net/http"

	"github.com/terra-clan/agent-registry/internal/catalog"
)

type contextKey string

const snapshotContextKey contextKey = "catalog_snapshot"

// SnapshotFromContext extracts the catalog snapshot pinned for the request
func SnapshotFromContext(ctx context.Context) *catalog.Catalog {
	c, ok := ctx.Value(snapshotContextKey).(*catalog.Catalog)
	if !ok {
		return nil
	}
	return c
}

// ContextWithSnapshot pins a catalog snapshot to the context
func ContextWithSnapshot(ctx context.Context, c *catalog.Catalog) context.Context {
	return context.WithValue(ctx, snapshotContextKey, c)
}

// snapshotMiddleware loads the current snapshot once so every handler of the
// request reads the same one, even if a refresh swaps it mid-request
func (s *Server) snapshotMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := s.holder.Load()
		if c == nil {
			respondError(w, http.StatusServiceUnavailable, "not_ready", "catalog not loaded")
			return
		}
		w.Header().Set("X-Catalog-Version", c.Version())
		next.ServeHTTP(w, r.WithContext(ContextWithSnapshot(r.Context(), c)))
	})
}
