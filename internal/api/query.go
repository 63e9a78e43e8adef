package api

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/models"
)

// parseQuery turns query parameters into a normalized filter and sort key.
// Malformed or unknown values are dropped, never rejected.
func parseQuery(q url.Values) (catalog.Filter, catalog.SortKey) {
	f := catalog.Filter{
		Search:        q.Get("q"),
		Categories:    listParam[models.Category](q, "category"),
		Interfaces:    listParam[models.Interface](q, "interface"),
		SignupMethods: listParam[models.SignupMethod](q, "signup"),
	}

	if v := q.Get("minScore"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			f.MinScore = n
		} else {
			slog.Debug("ignoring malformed minScore", "value", v)
		}
	}
	if v := q.Get("hasFree"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.HasFree = &b
		} else {
			slog.Debug("ignoring malformed hasFree", "value", v)
		}
	}
	if v := q.Get("mcpOnly"); v != "" {
		f.MCPOnly, _ = strconv.ParseBool(v)
	}

	sort, ok := catalog.ParseSortKey(q.Get("sort"))
	if !ok && q.Get("sort") != "" {
		slog.Debug("ignoring unknown sort key", "value", q.Get("sort"))
	}

	return f.Normalize(), sort
}

// listParam collects a repeatable, comma-separated parameter
func listParam[T ~string](q url.Values, key string) []T {
	var out []T
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				out = append(out, T(part))
			}
		}
	}
	return out
}

// queryCacheKey identifies a normalized query
func queryCacheKey(f catalog.Filter, sort catalog.SortKey) string {
	data, err := json.Marshal(struct {
		Filter catalog.Filter  `json:"f"`
		Sort   catalog.SortKey `json:"s"`
	}{f, sort})
	if err != nil {
		return ""
	}
	return "tools:" + string(data)
}
