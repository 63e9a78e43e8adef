// Package export renders the static JSON API: pre-computed documents that can
// be written to disk and served by any static file host, or served live.
package export

import (
	"time"

	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/models"
)

// Static document paths, relative to the API root
const (
	ToolsPath   = "tools.json"
	MetaPath    = "meta.json"
	OpenAPIPath = "openapi.json"

	byCategoryDir  = "by-category"
	byInterfaceDir = "by-interface"
	apiRoot        = "/api/"
)

// CacheControl is sent with every static document
const CacheControl = "public, max-age=3600"

// CategoryPath is the document path of one category listing
func CategoryPath(c models.Category) string {
	return byCategoryDir + "/" + string(c) + ".json"
}

// InterfacePath is the document path of one interface listing
func InterfacePath(i models.Interface) string {
	return byInterfaceDir + "/" + string(i) + ".json"
}

// Endpoints lists the static API routes advertised in the meta document
type Endpoints struct {
	All         string `json:"all"`
	Meta        string `json:"meta"`
	ByCategory  string `json:"byCategory"`
	ByInterface string `json:"byInterface"`
	OpenAPI     string `json:"openapi"`
}

// DefaultEndpoints returns the routes relative to the site root
func DefaultEndpoints() Endpoints {
	return Endpoints{
		All:         apiRoot + ToolsPath,
		Meta:        apiRoot + MetaPath,
		ByCategory:  apiRoot + byCategoryDir + "/{category}.json",
		ByInterface: apiRoot + byInterfaceDir + "/{interface}.json",
		OpenAPI:     apiRoot + OpenAPIPath,
	}
}

// MetaDocument is the meta.json payload
type MetaDocument struct {
	catalog.Meta
	LastUpdated  time.Time `json:"lastUpdated"`
	Version      string    `json:"version"`
	APIEndpoints Endpoints `json:"apiEndpoints"`
}

// Meta builds the meta document of c
func Meta(c *catalog.Catalog) MetaDocument {
	return MetaDocument{
		Meta:         catalog.Summarize(c),
		LastUpdated:  c.BuiltAt(),
		Version:      c.Version(),
		APIEndpoints: DefaultEndpoints(),
	}
}

// Tools lists every entry by descending score
func Tools(c *catalog.Catalog) []models.Tool {
	return catalog.Query(c, catalog.Filter{}, catalog.SortScore)
}

// ByCategory lists one category by descending score
func ByCategory(c *catalog.Catalog, category models.Category) []models.Tool {
	return catalog.SortTools(c.ByCategory(category), catalog.SortScore)
}

// ByInterface lists the entries exposing i by descending score
func ByInterface(c *catalog.Catalog, i models.Interface) []models.Tool {
	return catalog.SortTools(c.ByInterface(i), catalog.SortScore)
}

// Documents renders every static document keyed by its path. Every category
// and interface gets a document, empty ones included.
func Documents(c *catalog.Catalog, baseURL string) map[string]any {
	docs := map[string]any{
		ToolsPath:   Tools(c),
		MetaPath:    Meta(c),
		OpenAPIPath: OpenAPI(baseURL),
	}
	for _, cat := range models.AllCategories() {
		docs[CategoryPath(cat)] = ByCategory(c, cat)
	}
	for _, i := range models.AllInterfaces() {
		docs[InterfacePath(i)] = ByInterface(c, i)
	}
	return docs
}
