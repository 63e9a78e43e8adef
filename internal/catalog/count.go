package catalog

import (
	"math"

	"github.com/terra-clan/agent-registry/internal/models"
)

// Facet names a countable dimension
type Facet string

const (
	FacetCategory  Facet = "category"
	FacetInterface Facet = "interface"
	FacetSignup    Facet = "signup"
)

// CountBy counts entries per facet value over exactly the entries given;
// callers decide whether that is the whole catalog or a filtered result.
//
// Category and signup counts only contain values with at least one entry.
// Interface counts always contain all six keys, each counted independently.
func CountBy(entries []models.Tool, facet Facet) map[string]int {
	out := make(map[string]int)
	switch facet {
	case FacetCategory:
		for _, e := range entries {
			out[string(e.Category)]++
		}
	case FacetSignup:
		for _, e := range entries {
			out[string(e.Signup.Method)]++
		}
	case FacetInterface:
		for _, i := range models.AllInterfaces() {
			out[string(i)] = 0
		}
		for _, e := range entries {
			for _, i := range e.Interfaces.Enabled() {
				out[string(i)]++
			}
		}
	}
	return out
}

// Facets groups the counts shown next to filter controls
type Facets struct {
	Categories    map[string]int `json:"categories"`
	Interfaces    map[string]int `json:"interfaces"`
	SignupMethods map[string]int `json:"signupMethods"`
}

// CountFacets computes every facet count over entries
func CountFacets(entries []models.Tool) Facets {
	return Facets{
		Categories:    CountBy(entries, FacetCategory),
		Interfaces:    CountBy(entries, FacetInterface),
		SignupMethods: CountBy(entries, FacetSignup),
	}
}

// Meta is the aggregate summary of a catalog
type Meta struct {
	Total           int                   `json:"total"`
	VerifiedCount   int                   `json:"verifiedCount"`
	AverageScore    float64               `json:"averageScore"`
	CategoryCounts  []models.CategoryInfo `json:"categoryCounts"`
	InterfaceCounts map[string]int        `json:"interfaceCounts"`
}

// Summarize computes the meta document over the full catalog. Categories
// appear in canonical order and only when they hold at least one entry; the
// average score is rounded to one decimal.
func Summarize(c *Catalog) Meta {
	all := c.All()
	meta := Meta{
		Total:           len(all),
		CategoryCounts:  []models.CategoryInfo{},
		InterfaceCounts: CountBy(all, FacetInterface),
	}

	sum := 0
	for _, e := range all {
		sum += e.AgentFirstScore
		if e.Verified {
			meta.VerifiedCount++
		}
	}
	if len(all) > 0 {
		meta.AverageScore = math.Round(float64(sum)/float64(len(all))*10) / 10
	}

	for _, info := range CategoryTable(c) {
		if info.Count > 0 {
			meta.CategoryCounts = append(meta.CategoryCounts, info)
		}
	}
	return meta
}

// CategoryTable lists every category in canonical order with its entry count,
// zero counts included
func CategoryTable(c *Catalog) []models.CategoryInfo {
	cats := models.AllCategories()
	out := make([]models.CategoryInfo, len(cats))
	for i, cat := range cats {
		info := cat.Info()
		info.Count = len(c.byCategory[cat])
		out[i] = info
	}
	return out
}
