package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/agent-registry/internal/cache"
	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/export"
	"github.com/terra-clan/agent-registry/internal/models"
)

// QueryResult is the data of GET /api/v1/tools. Facet counts describe the
// filtered result, not the whole catalog.
type QueryResult struct {
	Tools         []models.Tool   `json:"tools"`
	Total         int             `json:"total"`
	CatalogTotal  int             `json:"catalogTotal"`
	ActiveFilters int             `json:"activeFilters"`
	Filter        catalog.Filter  `json:"filter"`
	Sort          catalog.SortKey `json:"sort"`
	Facets        catalog.Facets  `json:"facets"`
	Version       string          `json:"version"`
}

// Catalog handlers

func (s *Server) handleQueryTools(w http.ResponseWriter, r *http.Request) {
	c := SnapshotFromContext(r.Context())
	filter, sort := parseQuery(r.URL.Query())

	s.cached(w, r, cache.Key(c.Version(), queryCacheKey(filter, sort)), func() ([]byte, error) {
		tools := catalog.Query(c, filter, sort)
		return envelope(QueryResult{
			Tools:         tools,
			Total:         len(tools),
			CatalogTotal:  c.Len(),
			ActiveFilters: filter.ActiveCount(),
			Filter:        filter,
			Sort:          sort,
			Facets:        catalog.CountFacets(tools),
			Version:       c.Version(),
		})
	})
}

func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	c := SnapshotFromContext(r.Context())
	slug := chi.URLParam(r, "slug")

	tool, ok := c.Get(slug)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "tool not found")
		return
	}
	respondJSON(w, http.StatusOK, tool)
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	c := SnapshotFromContext(r.Context())
	s.cached(w, r, cache.Key(c.Version(), "meta"), func() ([]byte, error) {
		return envelope(export.Meta(c))
	})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	c := SnapshotFromContext(r.Context())
	categories := catalog.CategoryTable(c)
	respondJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
		"total":      len(categories),
	})
}

func (s *Server) handleByCategory(w http.ResponseWriter, r *http.Request) {
	c := SnapshotFromContext(r.Context())
	category := models.Category(chi.URLParam(r, "category"))
	if !category.Valid() {
		respondError(w, http.StatusNotFound, "not_found", "category not found")
		return
	}

	tools := export.ByCategory(c, category)
	respondJSON(w, http.StatusOK, map[string]any{
		"category": category.Info(),
		"tools":    tools,
		"total":    len(tools),
	})
}

func (s *Server) handleByInterface(w http.ResponseWriter, r *http.Request) {
	c := SnapshotFromContext(r.Context())
	iface := models.Interface(chi.URLParam(r, "interface"))
	if !iface.Valid() {
		respondError(w, http.StatusNotFound, "not_found", "interface not found")
		return
	}

	tools := export.ByInterface(c, iface)
	respondJSON(w, http.StatusOK, map[string]any{
		"interface": iface,
		"label":     iface.Label(),
		"tools":     tools,
		"total":     len(tools),
	})
}

// cached serves key from the response cache, or renders, stores and serves it
func (s *Server) cached(w http.ResponseWriter, r *http.Request, key string, render func() ([]byte, error)) {
	if body, ok := s.cache.Get(r.Context(), key); ok {
		w.Header().Set("X-Cache", "HIT")
		respondRaw(w, http.StatusOK, body)
		return
	}

	body, err := render()
	if err != nil {
		slog.Error("failed to render response", "key", key, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to render response")
		return
	}

	s.cache.Set(r.Context(), key, body)
	w.Header().Set("X-Cache", "MISS")
	respondRaw(w, http.StatusOK, body)
}
