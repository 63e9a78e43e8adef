package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/terra-clan/agent-registry/internal/models"
)

// SortKey selects the ordering applied after filtering
type SortKey string

const (
	SortScore        SortKey = "score"
	SortAlphabetical SortKey = "alphabetical"
	SortNewest       SortKey = "newest"
)

// DefaultSort is used when no or an unknown sort key is given
const DefaultSort = SortScore

// ParseSortKey maps s to a sort key. Unknown values fall back to DefaultSort
// with ok=false.
func ParseSortKey(s string) (key SortKey, ok bool) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortScore, SortAlphabetical, SortNewest:
		return k, true
	}
	return DefaultSort, false
}

// Filter describes one facet query. The zero value matches everything.
//
// Categories and SignupMethods combine by OR within the facet, Interfaces by
// AND. Different facets combine by AND. Unknown enum values are ignored.
type Filter struct {
	Search        string                `json:"search,omitempty"`
	Categories    []models.Category     `json:"categories,omitempty"`
	Interfaces    []models.Interface    `json:"interfaces,omitempty"`
	SignupMethods []models.SignupMethod `json:"signupMethods,omitempty"`
	MinScore      int                   `json:"minScore,omitempty"`
	HasFree       *bool                 `json:"hasFree,omitempty"`
	MCPOnly       bool                  `json:"mcpOnly,omitempty"`
}

// Normalize returns a copy of f with the search text trimmed and unknown or
// repeated enum values removed
func (f Filter) Normalize() Filter {
	out := f
	out.Search = strings.TrimSpace(f.Search)
	out.Categories = known(f.Categories, models.Category.Valid)
	out.Interfaces = known(f.Interfaces, models.Interface.Valid)
	out.SignupMethods = known(f.SignupMethods, models.SignupMethod.Valid)
	if f.HasFree != nil {
		v := *f.HasFree
		out.HasFree = &v
	}
	return out
}

func known[T comparable](values []T, valid func(T) bool) []T {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[T]struct{}, len(values))
	var out []T
	for _, v := range values {
		if _, dup := seen[v]; dup || !valid(v) {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ActiveCount is the number of filter controls currently constraining the
// result. Each selected enum value counts once.
func (f Filter) ActiveCount() int {
	n := f.Normalize()
	count := len(n.Categories) + len(n.Interfaces) + len(n.SignupMethods)
	if n.Search != "" {
		count++
	}
	if n.MinScore > 1 {
		count++
	}
	if n.HasFree != nil {
		count++
	}
	if n.MCPOnly {
		count++
	}
	return count
}

// matcher is a normalized filter prepared for repeated matching
type matcher struct {
	search     string
	categories map[models.Category]struct{}
	interfaces []models.Interface
	signup     map[models.SignupMethod]struct{}
	minScore   int
	hasFree    *bool
	mcpOnly    bool
}

func newMatcher(f Filter) matcher {
	n := f.Normalize()
	m := matcher{
		search:     strings.ToLower(n.Search),
		interfaces: n.Interfaces,
		minScore:   n.MinScore,
		hasFree:    n.HasFree,
		mcpOnly:    n.MCPOnly,
	}
	if len(n.Categories) > 0 {
		m.categories = make(map[models.Category]struct{}, len(n.Categories))
		for _, c := range n.Categories {
			m.categories[c] = struct{}{}
		}
	}
	if len(n.SignupMethods) > 0 {
		m.signup = make(map[models.SignupMethod]struct{}, len(n.SignupMethods))
		for _, s := range n.SignupMethods {
			m.signup[s] = struct{}{}
		}
	}
	return m
}

func (m matcher) match(t *models.Tool, haystack string) bool {
	if m.search != "" && !strings.Contains(haystack, m.search) {
		return false
	}
	if m.categories != nil {
		if _, ok := m.categories[t.Category]; !ok {
			return false
		}
	}
	for _, i := range m.interfaces {
		if !t.Interfaces.Has(i) {
			return false
		}
	}
	if m.signup != nil {
		if _, ok := m.signup[t.Signup.Method]; !ok {
			return false
		}
	}
	if t.AgentFirstScore < m.minScore {
		return false
	}
	if m.hasFree != nil && t.Pricing.HasFree != *m.hasFree {
		return false
	}
	if m.mcpOnly && !t.Interfaces.MCP {
		return false
	}
	return true
}

// Query filters the catalog and sorts the matches. It has no side effects and
// returns the same order for the same inputs; ties keep insertion order.
func Query(c *Catalog, f Filter, key SortKey) []models.Tool {
	if c == nil {
		return []models.Tool{}
	}

	m := newMatcher(f)
	idx := make([]int, 0, len(c.entries))
	for i := range c.entries {
		if m.match(&c.entries[i], c.haystacks[i]) {
			idx = append(idx, i)
		}
	}

	c.sortIndexes(idx, key)
	return c.collect(idx)
}

// sortIndexes orders idx, which must be ascending, with a stable sort
func (c *Catalog) sortIndexes(idx []int, key SortKey) {
	switch key {
	case SortAlphabetical:
		// collators keep internal buffers and must not be shared
		col := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(idx, func(a, b int) bool {
			return col.CompareString(c.entries[idx[a]].Name, c.entries[idx[b]].Name) < 0
		})
	case SortNewest:
		sort.SliceStable(idx, func(a, b int) bool {
			return c.entries[idx[a]].AddedAt.After(c.entries[idx[b]].AddedAt)
		})
	default:
		sort.SliceStable(idx, func(a, b int) bool {
			return c.entries[idx[a]].AgentFirstScore > c.entries[idx[b]].AgentFirstScore
		})
	}
}

// SortTools returns a stably sorted copy of entries. The input order is the
// tie-breaker.
func SortTools(entries []models.Tool, key SortKey) []models.Tool {
	c := &Catalog{entries: entries}
	idx := c.indexes()
	c.sortIndexes(idx, key)
	return c.collect(idx)
}
