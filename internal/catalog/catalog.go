// Package catalog holds the immutable in-memory snapshot of validated tools
// together with the pure query functions that read it.
//
// A Catalog is never modified after Build returns. Every accessor hands out
// copies, so the snapshot can be shared by any number of goroutines without
// locking. Refreshing means building a new Catalog and swapping it into a
// Holder.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/agent-registry/internal/models"
)

// ErrDuplicateSlug is returned by Build when two entries share a slug
var ErrDuplicateSlug = errors.New("duplicate slug")

// Catalog is an immutable, indexed snapshot of tools
type Catalog struct {
	entries    []models.Tool
	haystacks  []string
	bySlug     map[string]int
	byCategory map[models.Category][]int

	version string
	builtAt time.Time
}

// Build indexes entries that already passed validation. Insertion order is
// kept as the canonical default order.
func Build(entries []models.Tool) (*Catalog, error) {
	c := &Catalog{
		entries:    make([]models.Tool, len(entries)),
		haystacks:  make([]string, len(entries)),
		bySlug:     make(map[string]int, len(entries)),
		byCategory: make(map[models.Category][]int),
		version:    uuid.New().String(),
		builtAt:    time.Now().UTC(),
	}

	for i, e := range entries {
		if prev, exists := c.bySlug[e.Slug]; exists {
			return nil, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateSlug, e.Slug, prev, i)
		}
		c.entries[i] = e.Clone()
		c.haystacks[i] = searchText(e)
		c.bySlug[e.Slug] = i
		c.byCategory[e.Category] = append(c.byCategory[e.Category], i)
	}

	return c, nil
}

// searchText is the lowercased text free-text search matches against
func searchText(t models.Tool) string {
	parts := make([]string, 0, len(t.Tags)+3)
	parts = append(parts, t.Name, t.Description)
	parts = append(parts, t.Tags...)
	parts = append(parts, string(t.Category))
	return strings.ToLower(strings.Join(parts, " "))
}

// Version identifies this snapshot; a rebuild always gets a new one
func (c *Catalog) Version() string {
	return c.version
}

// BuiltAt is when the snapshot was built
func (c *Catalog) BuiltAt() time.Time {
	return c.builtAt
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Get looks up an entry by slug
func (c *Catalog) Get(slug string) (models.Tool, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return models.Tool{}, false
	}
	return c.entries[i].Clone(), true
}

// All returns every entry in insertion order
func (c *Catalog) All() []models.Tool {
	return c.collect(c.indexes())
}

// ByCategory returns the entries of one category in insertion order. Unknown
// or empty categories yield an empty slice.
func (c *Catalog) ByCategory(category models.Category) []models.Tool {
	return c.collect(c.byCategory[category])
}

// ByInterface returns the entries exposing the given interface, in insertion order
func (c *Catalog) ByInterface(i models.Interface) []models.Tool {
	var idx []int
	for n := range c.entries {
		if c.entries[n].Interfaces.Has(i) {
			idx = append(idx, n)
		}
	}
	return c.collect(idx)
}

func (c *Catalog) indexes() []int {
	idx := make([]int, len(c.entries))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func (c *Catalog) collect(idx []int) []models.Tool {
	out := make([]models.Tool, len(idx))
	for i, n := range idx {
		out[i] = c.entries[n].Clone()
	}
	return out
}
