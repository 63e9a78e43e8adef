package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/config"
	"github.com/terra-clan/agent-registry/internal/health"
	"github.com/terra-clan/agent-registry/internal/models"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *memoryCache) InvalidateAll(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string][]byte)
}

func (m *memoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func tool(slug string, category models.Category, score int, mcp, free bool) models.Tool {
	return models.Tool{
		Name:            strings.ToUpper(slug[:1]) + slug[1:],
		Slug:            slug,
		Description:     "Tool " + slug + " for agents",
		Website:         "https://" + slug + ".example.com",
		Category:        category,
		AgentFirstScore: score,
		Interfaces:      models.Interfaces{API: true, MCP: mcp},
		Signup:          models.Signup{Method: models.SignupAPI, AllowsBots: true},
		SDKLanguages:    []string{"go"},
		Pricing:         models.Pricing{HasFree: free, Model: models.PricingUsageBased},
		Tags:            []string{"agents"},
		AddedAt:         time.Date(2025, 2, score, 0, 0, 0, 0, time.UTC),
		Verified:        score >= 9,
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Build([]models.Tool{
		tool("alpha", models.CategorySearch, 9, true, true),
		tool("bravo", models.CategoryData, 9, false, false),
		tool("charlie", models.CategorySearch, 5, true, false),
	})
	require.NoError(t, err)
	return c
}

func newTestServer(t *testing.T, c *catalog.Catalog) (*Server, *memoryCache) {
	t.Helper()
	mc := newMemoryCache()
	s := NewServer(config.ServerConfig{PublicBaseURL: "https://registry.example.com"}, catalog.NewHolder(c), mc, nil)
	return s, mc
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

type envelopeResp[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   *apiError `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func slugsOf(tools []models.Tool) []string {
	out := make([]string, len(tools))
	for i, tl := range tools {
		out[i] = tl.Slug
	}
	return out
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, testCatalog(t))
	rec := get(t, s.Router(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[envelopeResp[map[string]string]](t, rec).Success)
}

func TestReady(t *testing.T) {
	t.Run("not loaded", func(t *testing.T) {
		s, _ := newTestServer(t, nil)
		rec := get(t, s.Router(), "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "not_ready", decode[envelopeResp[any]](t, rec).Error.Code)

		rec = get(t, s.Router(), "/api/v1/tools")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("dependency down", func(t *testing.T) {
		reg := health.NewRegistry()
		reg.Register("redis", health.CheckFunc(func(context.Context) error { return errors.New("down") }))
		s := NewServer(config.ServerConfig{}, catalog.NewHolder(testCatalog(t)), nil, reg)

		rec := get(t, s.Router(), "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("ready", func(t *testing.T) {
		c := testCatalog(t)
		s, _ := newTestServer(t, c)
		rec := get(t, s.Router(), "/ready")
		require.Equal(t, http.StatusOK, rec.Code)
		data := decode[envelopeResp[map[string]any]](t, rec).Data
		assert.Equal(t, c.Version(), data["version"])
	})
}

func TestQueryTools(t *testing.T) {
	c := testCatalog(t)
	s, _ := newTestServer(t, c)

	tests := []struct {
		name   string
		query  string
		want   []string
		active int
	}{
		{"default score sort keeps ties in order", "", []string{"alpha", "bravo", "charlie"}, 0},
		{"min score", "?minScore=6", []string{"alpha", "bravo"}, 1},
		{"interface", "?interface=mcp", []string{"alpha", "charlie"}, 1},
		{"categories OR comma", "?category=search,data", []string{"alpha", "bravo", "charlie"}, 2},
		{"categories OR repeated", "?category=data&category=search&minScore=6", []string{"alpha", "bravo"}, 3},
		{"search", "?q=CHAR", []string{"charlie"}, 1},
		{"has free", "?hasFree=false", []string{"bravo", "charlie"}, 1},
		{"mcp only", "?mcpOnly=true&sort=alphabetical", []string{"alpha", "charlie"}, 1},
		{"newest", "?sort=newest", []string{"alpha", "bravo", "charlie"}, 0},
		{"unknown values ignored", "?category=gaming&interface=grpc&signup=email&sort=popular&minScore=abc&hasFree=maybe", []string{"alpha", "bravo", "charlie"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s.Router(), "/api/v1/tools"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			resp := decode[envelopeResp[QueryResult]](t, rec)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.want, slugsOf(resp.Data.Tools))
			assert.Equal(t, len(tt.want), resp.Data.Total)
			assert.Equal(t, 3, resp.Data.CatalogTotal)
			assert.Equal(t, tt.active, resp.Data.ActiveFilters)
			assert.Equal(t, c.Version(), resp.Data.Version)
			assert.Equal(t, c.Version(), rec.Header().Get("X-Catalog-Version"))
		})
	}
}

func TestQueryTools_FacetsDescribeFilteredResult(t *testing.T) {
	s, _ := newTestServer(t, testCatalog(t))
	rec := get(t, s.Router(), "/api/v1/tools?interface=mcp")
	resp := decode[envelopeResp[QueryResult]](t, rec)

	assert.Equal(t, map[string]int{"search": 2}, resp.Data.Facets.Categories)
	assert.Equal(t, 2, resp.Data.Facets.Interfaces["mcp"])
	assert.Equal(t, 0, resp.Data.Facets.Interfaces["graphql"])
	assert.Equal(t, map[string]int{"api": 2}, resp.Data.Facets.SignupMethods)
}

func TestQueryTools_Cached(t *testing.T) {
	s, mc := newTestServer(t, testCatalog(t))

	first := get(t, s.Router(), "/api/v1/tools?category=search")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, 1, mc.Len())

	second := get(t, s.Router(), "/api/v1/tools?category=search")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	s.SnapshotSwapped(context.Background(), nil, testCatalog(t))
	assert.Equal(t, 0, mc.Len())
}

func TestGetTool(t *testing.T) {
	s, _ := newTestServer(t, testCatalog(t))

	rec := get(t, s.Router(), "/api/v1/tools/bravo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bravo", decode[envelopeResp[models.Tool]](t, rec).Data.Slug)

	rec = get(t, s.Router(), "/api/v1/tools/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[envelopeResp[any]](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestMeta(t *testing.T) {
	s, _ := newTestServer(t, testCatalog(t))
	rec := get(t, s.Router(), "/api/v1/meta")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode[envelopeResp[map[string]any]](t, rec).Data
	assert.Equal(t, float64(3), data["total"])
	assert.Equal(t, float64(2), data["verifiedCount"])
	assert.Equal(t, 7.7, data["averageScore"])
	assert.Len(t, data["categoryCounts"], 2)
	assert.Len(t, data["interfaceCounts"], 6)
	assert.Contains(t, data, "apiEndpoints")
}

func TestCategories(t *testing.T) {
	s, _ := newTestServer(t, testCatalog(t))
	rec := get(t, s.Router(), "/api/v1/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode[envelopeResp[struct {
		Categories []models.CategoryInfo `json:"categories"`
		Total      int                   `json:"total"`
	}]](t, rec).Data
	assert.Equal(t, len(models.AllCategories()), data.Total)
	assert.Equal(t, models.CategorySearch, data.Categories[0].ID)
	assert.Equal(t, 2, data.Categories[0].Count)
}

func TestByCategoryAndInterface(t *testing.T) {
	s, _ := newTestServer(t, testCatalog(t))

	tests := []struct {
		path   string
		status int
		want   []string
	}{
		{"/api/v1/by-category/search", http.StatusOK, []string{"alpha", "charlie"}},
		{"/api/v1/by-category/payments", http.StatusOK, []string{}},
		{"/api/v1/by-category/gaming", http.StatusNotFound, nil},
		{"/api/v1/by-interface/mcp", http.StatusOK, []string{"alpha", "charlie"}},
		{"/api/v1/by-interface/grpc", http.StatusNotFound, nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, s.Router(), tt.path)
			require.Equal(t, tt.status, rec.Code)
			if tt.want == nil {
				return
			}
			data := decode[envelopeResp[struct {
				Tools []models.Tool `json:"tools"`
			}]](t, rec).Data
			assert.Equal(t, tt.want, slugsOf(data.Tools))
		})
	}
}

func TestStaticDocuments(t *testing.T) {
	s, _ := newTestServer(t, testCatalog(t))

	rec := get(t, s.Router(), "/api/tools.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, slugsOf(decode[[]models.Tool](t, rec)))

	rec = get(t, s.Router(), "/api/by-category/search.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"alpha", "charlie"}, slugsOf(decode[[]models.Tool](t, rec)))

	rec = get(t, s.Router(), "/api/by-interface/cli.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = get(t, s.Router(), "/api/by-interface/grpc.json")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, s.Router(), "/api/meta.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]any](t, rec), "lastUpdated")

	rec = get(t, s.Router(), "/api/openapi.json")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[map[string]any](t, rec)
	assert.Equal(t, "3.1.0", doc["openapi"])
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, testCatalog(t))
	req := httptest.NewRequest(http.MethodGet, "/api/tools.json", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSnapshotPinnedPerRequest(t *testing.T) {
	c := testCatalog(t)
	holder := catalog.NewHolder(c)
	s := NewServer(config.ServerConfig{}, holder, nil, nil)

	rec := get(t, s.Router(), "/api/v1/tools")
	assert.Equal(t, c.Version(), rec.Header().Get("X-Catalog-Version"))

	next := testCatalog(t)
	holder.Swap(next)
	rec = get(t, s.Router(), "/api/v1/tools")
	assert.Equal(t, next.Version(), rec.Header().Get("X-Catalog-Version"))
}

func TestWatch(t *testing.T) {
	c := testCatalog(t)
	s, _ := newTestServer(t, c)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/watch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var ev SnapshotEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "snapshot", ev.Type)
	assert.Equal(t, c.Version(), ev.Version)
	assert.Equal(t, 3, ev.Total)

	require.Eventually(t, func() bool { return s.Hub().Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	next := testCatalog(t)
	s.SnapshotSwapped(context.Background(), c, next)

	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, next.Version(), ev.Version)

	s.Hub().Close()
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestHub_DropsSlowWatcher(t *testing.T) {
	h := NewHub()
	ch, ok := h.subscribe()
	require.True(t, ok)

	ev := SnapshotEvent{Type: "snapshot"}
	for i := 0; i < watchBuffer; i++ {
		h.Broadcast(ev)
	}
	assert.Equal(t, 1, h.Len())

	h.Broadcast(ev)
	assert.Equal(t, 0, h.Len())

	n := 0
	for range ch {
		n++
	}
	assert.Equal(t, watchBuffer, n)

	h.Close()
	_, ok = h.subscribe()
	assert.False(t, ok)
}
