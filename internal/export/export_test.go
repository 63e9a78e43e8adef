package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/models"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	mk := func(slug string, cat models.Category, score int, mcp bool) models.Tool {
		return models.Tool{
			Name:            slug,
			Slug:            slug,
			Description:     "Description of " + slug,
			Website:         "https://example.com/" + slug,
			Category:        cat,
			AgentFirstScore: score,
			Interfaces:      models.Interfaces{API: true, MCP: mcp},
			Signup:          models.Signup{Method: models.SignupAPI},
			SDKLanguages:    []string{},
			Pricing:         models.Pricing{Model: models.PricingFree, HasFree: true},
			Tags:            []string{},
			AddedAt:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Verified:        score > 8,
		}
	}
	c, err := catalog.Build([]models.Tool{
		mk("low", models.CategorySearch, 4, false),
		mk("high", models.CategorySearch, 10, true),
		mk("mid", models.CategoryData, 7, true),
	})
	require.NoError(t, err)
	return c
}

func slugsOf(tools []models.Tool) []string {
	out := make([]string, len(tools))
	for i, t := range tools {
		out[i] = t.Slug
	}
	return out
}

func TestDocuments(t *testing.T) {
	c := testCatalog(t)
	docs := Documents(c, "https://registry.example.com/")

	assert.Len(t, docs, 3+len(models.AllCategories())+len(models.AllInterfaces()))

	assert.Equal(t, []string{"high", "mid", "low"}, slugsOf(docs[ToolsPath].([]models.Tool)))
	assert.Equal(t, []string{"high", "low"}, slugsOf(docs["by-category/search.json"].([]models.Tool)))
	assert.Empty(t, docs["by-category/payments.json"])
	assert.Equal(t, []string{"high", "mid"}, slugsOf(docs["by-interface/mcp.json"].([]models.Tool)))

	meta := docs[MetaPath].(MetaDocument)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 1, meta.VerifiedCount)
	assert.Equal(t, 7.0, meta.AverageScore)
	assert.Equal(t, c.Version(), meta.Version)
	assert.Equal(t, "/api/by-category/{category}.json", meta.APIEndpoints.ByCategory)
}

func TestMetaDocument_JSONShape(t *testing.T) {
	data, err := Marshal(Meta(testCatalog(t)))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	for _, key := range []string{"total", "verifiedCount", "averageScore", "categoryCounts", "interfaceCounts", "lastUpdated", "version", "apiEndpoints"} {
		assert.Contains(t, got, key)
	}
	assert.Len(t, got["categoryCounts"], 2)
	assert.Len(t, got["interfaceCounts"], 6)
}

func TestOpenAPI(t *testing.T) {
	doc := OpenAPI("https://registry.example.com/")
	assert.Equal(t, "3.1.0", doc["openapi"])
	assert.Equal(t, []object{{"url": "https://registry.example.com"}}, doc["servers"])

	paths := doc["paths"].(object)
	for _, p := range []string{"/api/tools.json", "/api/meta.json", "/api/by-category/{category}.json", "/api/by-interface/{interface}.json", "/api/v1/tools"} {
		assert.Contains(t, paths, p)
	}

	_, err := Marshal(doc)
	require.NoError(t, err)

	_, hasServers := OpenAPI("")["servers"]
	assert.False(t, hasServers)
}

func TestWriteDir(t *testing.T) {
	dir := t.TempDir()
	written, err := WriteDir(dir, testCatalog(t), "")
	require.NoError(t, err)

	assert.Contains(t, written, "tools.json")
	assert.Contains(t, written, "by-interface/graphql.json")

	data, err := os.ReadFile(filepath.Join(dir, "by-category", "data.json"))
	require.NoError(t, err)

	var tools []models.Tool
	require.NoError(t, json.Unmarshal(data, &tools))
	require.Len(t, tools, 1)
	assert.Equal(t, "mid", tools[0].Slug)

	empty, err := os.ReadFile(filepath.Join(dir, "by-category", "payments.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(empty))
}
