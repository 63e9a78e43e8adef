package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/agent-registry/internal/cache"
	"github.com/terra-clan/agent-registry/internal/export"
	"github.com/terra-clan/agent-registry/internal/models"
)

// Static-compatible handlers serve the export documents without the response
// envelope, byte for byte what `registry export` writes.

func (s *Server) handleStaticTools(w http.ResponseWriter, r *http.Request) {
	c := SnapshotFromContext(r.Context())
	s.staticDocument(w, r, export.ToolsPath, func() any { return export.Tools(c) })
}

func (s *Server) handleStaticMeta(w http.ResponseWriter, r *http.Request) {
	c := SnapshotFromContext(r.Context())
	s.staticDocument(w, r, export.MetaPath, func() any { return export.Meta(c) })
}

func (s *Server) handleStaticByCategory(w http.ResponseWriter, r *http.Request) {
	c := SnapshotFromContext(r.Context())
	category := models.Category(chi.URLParam(r, "category"))
	if !category.Valid() {
		http.NotFound(w, r)
		return
	}
	s.staticDocument(w, r, export.CategoryPath(category), func() any { return export.ByCategory(c, category) })
}

func (s *Server) handleStaticByInterface(w http.ResponseWriter, r *http.Request) {
	c := SnapshotFromContext(r.Context())
	iface := models.Interface(chi.URLParam(r, "interface"))
	if !iface.Valid() {
		http.NotFound(w, r)
		return
	}
	s.staticDocument(w, r, export.InterfacePath(iface), func() any { return export.ByInterface(c, iface) })
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	body, err := export.Marshal(export.OpenAPI(s.config.PublicBaseURL))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to render document")
		return
	}
	w.Header().Set("Cache-Control", export.CacheControl)
	respondRaw(w, http.StatusOK, body)
}

func (s *Server) staticDocument(w http.ResponseWriter, r *http.Request, path string, doc func() any) {
	c := SnapshotFromContext(r.Context())
	w.Header().Set("Cache-Control", export.CacheControl)
	s.cached(w, r, cache.Key(c.Version(), "static:"+path), func() ([]byte, error) {
		return export.Marshal(doc())
	})
}
