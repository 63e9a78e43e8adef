package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terra-clan/agent-registry/internal/models"
)

// Result is the outcome of validating one record inside a batch
type Result struct {
	Source string       `json:"source"`
	Entry  *models.Tool `json:"entry,omitempty"`
	Err    *RecordError `json:"errors,omitempty"`
	Batch  []BatchError `json:"batchErrors,omitempty"`
}

// OK reports whether the record passed both per-record and batch checks
func (r Result) OK() bool {
	return r.Err == nil && len(r.Batch) == 0
}

// Error flattens every problem of the record into one error, or nil
func (r Result) Error() error {
	if r.OK() {
		return nil
	}
	var errs []error
	if r.Err != nil {
		errs = append(errs, r.Err)
	}
	for _, b := range r.Batch {
		errs = append(errs, b)
	}
	return fmt.Errorf("%s: %w", r.Source, errors.Join(errs...))
}

// BatchReport holds one Result per input record, in input order
type BatchReport struct {
	Results []Result `json:"results"`
}

// ValidateRecord decodes and validates a single record
func ValidateRecord(rec Record) Result {
	entry, err := Parse(rec.Data, rec.Format)
	return Result{Source: rec.Source, Entry: entry, Err: err}
}

// ValidateBatch validates every record and then applies the cross-record
// rules: a slug must equal the identifier its source expects, and a slug may
// appear only once. Duplicate slugs are reported against every record that
// shares them.
func ValidateBatch(records []Record) *BatchReport {
	report := &BatchReport{Results: make([]Result, len(records))}
	bySlug := make(map[string][]int)

	for i, rec := range records {
		res := ValidateRecord(rec)
		if res.Entry != nil {
			slug := res.Entry.Slug
			if rec.ExpectedSlug != "" && slug != rec.ExpectedSlug {
				res.Batch = append(res.Batch, BatchError{
					Kind:     BatchSlugMismatch,
					Slug:     slug,
					Expected: rec.ExpectedSlug,
					Message:  fmt.Sprintf("slug %q does not match identifier %q", slug, rec.ExpectedSlug),
				})
			}
			bySlug[slug] = append(bySlug[slug], i)
		}
		report.Results[i] = res
	}

	for slug, idx := range bySlug {
		if len(idx) < 2 {
			continue
		}
		sources := make([]string, len(idx))
		for j, i := range idx {
			sources[j] = report.Results[i].Source
		}
		for _, i := range idx {
			report.Results[i].Batch = append(report.Results[i].Batch, BatchError{
				Kind:    BatchDuplicateSlug,
				Slug:    slug,
				Sources: sources,
				Message: fmt.Sprintf("duplicate slug %q shared by %s", slug, strings.Join(sources, ", ")),
			})
		}
	}

	return report
}

// OK reports whether every record passed. An empty batch is valid.
func (r *BatchReport) OK() bool {
	return r.ErrorCount() == 0
}

// Total is the number of records in the batch
func (r *BatchReport) Total() int {
	return len(r.Results)
}

// ValidCount is the number of records that passed every check
func (r *BatchReport) ValidCount() int {
	return r.Total() - r.ErrorCount()
}

// ErrorCount is the number of records with at least one problem
func (r *BatchReport) ErrorCount() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}

// Entries returns the tools of records that passed every check, in input order
func (r *BatchReport) Entries() []models.Tool {
	out := make([]models.Tool, 0, len(r.Results))
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, *res.Entry)
		}
	}
	return out
}

// Failed returns the results that did not pass
func (r *BatchReport) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Err joins every failure of the batch, or returns nil when the batch is valid
func (r *BatchReport) Err() error {
	var errs []error
	for _, res := range r.Results {
		if err := res.Error(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
