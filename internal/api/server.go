package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terra-clan/agent-registry/internal/cache"
	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/config"
	"github.com/terra-clan/agent-registry/internal/health"
)

// Server represents the HTTP query surface
type Server struct {
	config config.ServerConfig
	router *chi.Mux
	holder *catalog.Holder
	cache  cache.Cache
	health *health.Registry
	hub    *Hub
}

// NewServer creates a new API server reading snapshots from holder. A nil
// cache disables response caching, a nil registry reports no dependencies.
func NewServer(cfg config.ServerConfig, holder *catalog.Holder, c cache.Cache, h *health.Registry) *Server {
	if c == nil {
		c = cache.Noop{}
	}
	if h == nil {
		h = health.NewRegistry()
	}
	s := &Server{
		config: cfg,
		holder: holder,
		cache:  c,
		health: h,
		hub:    NewHub(),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the snapshot watch hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// SnapshotSwapped drops cached responses and notifies watchers. It matches the
// refresh worker's swap callback.
func (s *Server) SnapshotSwapped(ctx context.Context, prev, next *catalog.Catalog) {
	s.cache.InvalidateAll(ctx)
	s.hub.Broadcast(snapshotEvent(next))
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// The catalog is public and read-only
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Catalog-Version", "X-Cache"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// Long-lived, so it stays outside the request timeout
	r.With(s.snapshotMiddleware).Get("/api/v1/watch", s.handleWatch)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(s.snapshotMiddleware)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/tools", s.handleQueryTools)
			r.Get("/tools/{slug}", s.handleGetTool)
			r.Get("/meta", s.handleMeta)
			r.Get("/categories", s.handleListCategories)
			r.Get("/by-category/{category}", s.handleByCategory)
			r.Get("/by-interface/{interface}", s.handleByInterface)
		})

		// Same documents as the static export
		r.Get("/api/tools.json", s.handleStaticTools)
		r.Get("/api/meta.json", s.handleStaticMeta)
		r.Get("/api/by-category/{category}.json", s.handleStaticByCategory)
		r.Get("/api/by-interface/{interface}.json", s.handleStaticByInterface)
	})

	r.Get("/api/openapi.json", s.handleOpenAPI)

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
