package export

import (
	"strings"

	"github.com/terra-clan/agent-registry/internal/models"
)

type object = map[string]any

func enumOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func ref(name string) object {
	return object{"$ref": "#/components/schemas/" + name}
}

func arrayOf(items object) object {
	return object{"type": "array", "items": items}
}

func jsonContent(description string, schema object) object {
	return object{
		"description": description,
		"content":     object{"application/json": object{"schema": schema}},
	}
}

func getOperation(id, summary, description, tag string, params []object, ok object) object {
	op := object{
		"operationId": id,
		"summary":     summary,
		"description": description,
		"tags":        []string{tag},
		"responses":   object{"200": ok},
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	return object{"get": op}
}

func pathParam(name string, enum []string, example string) object {
	return object{
		"name":     name,
		"in":       "path",
		"required": true,
		"schema":   object{"type": "string", "enum": enum},
		"example":  example,
	}
}

func queryParam(name, description string, schema object) object {
	return object{"name": name, "in": "query", "required": false, "description": description, "schema": schema}
}

// OpenAPI describes the static documents and the live query API. baseURL, when
// set, is advertised as the only server.
func OpenAPI(baseURL string) map[string]any {
	categories := enumOf(models.AllCategories())
	interfaces := enumOf(models.AllInterfaces())
	signups := enumOf(models.AllSignupMethods())
	str := object{"type": "string"}
	boolean := object{"type": "boolean"}
	integer := object{"type": "integer"}
	list := func(enum []string) object {
		return arrayOf(object{"type": "string", "enum": enum})
	}

	toolList := arrayOf(ref("Tool"))
	paths := object{
		"/api/tools.json": getOperation("listTools", "List all tools",
			"Returns all tools in the registry, sorted by agent-first score descending.", "Registry", nil,
			jsonContent("Array of tool entries", toolList)),
		"/api/meta.json": getOperation("getMeta", "Registry metadata & stats",
			"Returns aggregate stats: total tools, counts by category and interface, average score.", "Registry", nil,
			jsonContent("Registry metadata", ref("Meta"))),
		"/api/by-category/{category}.json": getOperation("getByCategory", "Filter by category",
			"Returns tools filtered to a single category.", "Filters",
			[]object{pathParam("category", categories, string(models.CategorySearch))},
			jsonContent("Array of tools in the given category", toolList)),
		"/api/by-interface/{interface}.json": getOperation("getByInterface", "Filter by interface type",
			"Returns tools that support the given programmatic interface.", "Filters",
			[]object{pathParam("interface", interfaces, string(models.InterfaceMCP))},
			jsonContent("Array of tools with the given interface", toolList)),
		"/api/v1/tools": getOperation("queryTools", "Query tools",
			"Filters and sorts the catalog. Unknown filter values are ignored. Facet counts describe the filtered result.", "Query",
			[]object{
				queryParam("q", "Case-insensitive text matched against name, description, tags and category", str),
				queryParam("category", "Categories to include (OR); repeat or comma-separate", list(categories)),
				queryParam("interface", "Interfaces every result must expose (AND)", list(interfaces)),
				queryParam("signup", "Signup methods to include (OR)", list(signups)),
				queryParam("minScore", "Minimum agent-first score", object{"type": "integer", "minimum": 1, "maximum": 10}),
				queryParam("hasFree", "Require or exclude a free tier", boolean),
				queryParam("mcpOnly", "Only tools with an MCP server", boolean),
				queryParam("sort", "Result order", object{"type": "string", "enum": []string{"score", "alphabetical", "newest"}, "default": "score"}),
			},
			jsonContent("Query result", envelope(ref("QueryResult")))),
		"/api/v1/tools/{slug}": getOperation("getTool", "Get one tool",
			"Returns a single tool by slug.", "Query",
			[]object{{"name": "slug", "in": "path", "required": true, "schema": str}},
			jsonContent("Tool entry", envelope(ref("Tool")))),
		"/api/v1/meta": getOperation("getLiveMeta", "Live registry metadata",
			"Aggregate stats of the snapshot currently served.", "Query", nil,
			jsonContent("Registry metadata", envelope(ref("Meta")))),
		"/api/v1/categories": getOperation("listCategories", "List categories",
			"Every category with its display metadata and entry count, zero counts included.", "Query", nil,
			jsonContent("Categories", envelope(arrayOf(ref("Category"))))),
	}

	tool := object{
		"type": "object",
		"required": []string{"name", "slug", "description", "website", "category", "agentFirstScore", "interfaces",
			"signup", "allFeaturesViaAPI", "sdkLanguages", "pricing", "tags", "addedAt", "verified"},
		"properties": object{
			"name":            object{"type": "string", "example": "Browserbase"},
			"slug":            object{"type": "string", "pattern": "^[a-z0-9-]+$", "description": "URL-safe identifier"},
			"description":     object{"type": "string", "minLength": 10, "maxLength": 300},
			"website":         object{"type": "string", "format": "uri"},
			"logoUrl":         object{"type": "string", "format": "uri"},
			"category":        object{"type": "string", "enum": categories},
			"agentFirstScore": object{"type": "integer", "minimum": 1, "maximum": 10, "description": "How agent-native the tool is. 10 = built exclusively for agents."},
			"interfaces":      flags(interfaces, boolean),
			"signup": object{
				"type": "object",
				"properties": object{
					"method":       object{"type": "string", "enum": signups},
					"hasAgentAuth": boolean,
					"allowsBots":   boolean,
				},
			},
			"allFeaturesViaAPI": boolean,
			"sdkLanguages":      arrayOf(str),
			"mcpServerUrl":      object{"type": []string{"string", "null"}, "format": "uri"},
			"pricing": object{
				"type": "object",
				"properties": object{
					"hasFree": boolean,
					"model":   object{"type": "string", "enum": enumOf(models.AllPricingModels())},
				},
			},
			"tags":     arrayOf(str),
			"addedAt":  object{"type": "string", "format": "date-time"},
			"verified": boolean,
		},
	}

	category := object{
		"type": "object",
		"properties": object{
			"id":          object{"type": "string", "enum": categories},
			"label":       str,
			"emoji":       str,
			"description": str,
			"count":       integer,
		},
	}

	meta := object{
		"type": "object",
		"properties": object{
			"total":           integer,
			"verifiedCount":   integer,
			"averageScore":    object{"type": "number"},
			"categoryCounts":  arrayOf(ref("Category")),
			"interfaceCounts": flags(interfaces, integer),
			"lastUpdated":     object{"type": "string", "format": "date-time"},
			"version":         str,
			"apiEndpoints":    flags([]string{"all", "meta", "byCategory", "byInterface", "openapi"}, str),
		},
	}

	counts := object{"type": "object", "additionalProperties": integer}
	query := object{
		"type": "object",
		"properties": object{
			"tools":         toolList,
			"total":         integer,
			"catalogTotal":  integer,
			"activeFilters": integer,
			"version":       str,
			"facets": object{
				"type": "object",
				"properties": object{
					"categories":    counts,
					"interfaces":    counts,
					"signupMethods": counts,
				},
			},
		},
	}

	doc := object{
		"openapi": "3.1.0",
		"info": object{
			"title":       "Agent Registry API",
			"version":     "1.0.0",
			"description": "Read-only catalog of agent-first tools. Static JSON documents plus a live query API; no auth required.",
			"license":     object{"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
		},
		"paths": paths,
		"components": object{
			"schemas": object{
				"Tool":        tool,
				"Category":    category,
				"Meta":        meta,
				"QueryResult": query,
			},
		},
		"tags": []object{
			{"name": "Registry", "description": "Core registry endpoints"},
			{"name": "Filters", "description": "Pre-filtered collections"},
			{"name": "Query", "description": "Live query API"},
		},
	}

	if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
		doc["servers"] = []object{{"url": baseURL}}
	}
	return doc
}

func flags(keys []string, schema object) object {
	props := make(object, len(keys))
	for _, k := range keys {
		props[k] = schema
	}
	return object{"type": "object", "properties": props}
}

func envelope(data object) object {
	return object{
		"type": "object",
		"properties": object{
			"success": object{"type": "boolean"},
			"data":    data,
		},
	}
}
