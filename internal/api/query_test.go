package api

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/models"
)

func TestParseQuery(t *testing.T) {
	q, err := url.ParseQuery("q=+scraper+&category=Search,data&category=gaming&interface=mcp,api,mcp&signup=api&minScore=7&hasFree=true&mcpOnly=1&sort=Alphabetical")
	require.NoError(t, err)

	f, sort := parseQuery(q)
	assert.Equal(t, "scraper", f.Search)
	assert.Equal(t, []models.Category{models.CategorySearch, models.CategoryData}, f.Categories)
	assert.Equal(t, []models.Interface{models.InterfaceMCP, models.InterfaceAPI}, f.Interfaces)
	assert.Equal(t, []models.SignupMethod{models.SignupAPI}, f.SignupMethods)
	assert.Equal(t, 7, f.MinScore)
	require.NotNil(t, f.HasFree)
	assert.True(t, *f.HasFree)
	assert.True(t, f.MCPOnly)
	assert.Equal(t, catalog.SortAlphabetical, sort)
}

func TestParseQuery_MalformedValuesDropped(t *testing.T) {
	q, err := url.ParseQuery("minScore=high&hasFree=perhaps&mcpOnly=sure&sort=random&category=,,")
	require.NoError(t, err)

	f, sort := parseQuery(q)
	assert.Zero(t, f.MinScore)
	assert.Nil(t, f.HasFree)
	assert.False(t, f.MCPOnly)
	assert.Empty(t, f.Categories)
	assert.Equal(t, catalog.DefaultSort, sort)
	assert.Zero(t, f.ActiveCount())
}

func TestQueryCacheKey(t *testing.T) {
	a, sa := parseQuery(url.Values{"category": {"search"}, "sort": {"score"}})
	b, sb := parseQuery(url.Values{"category": {"search", "gaming"}})
	assert.Equal(t, queryCacheKey(a, sa), queryCacheKey(b, sb))

	c, sc := parseQuery(url.Values{"category": {"data"}})
	assert.NotEqual(t, queryCacheKey(a, sa), queryCacheKey(c, sc))
}
