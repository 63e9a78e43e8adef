package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/models"
	"github.com/terra-clan/agent-registry/internal/schema"
)

type Options struct {
	NoColor bool
	Out     io.Writer
}

type Renderer struct {
	out    io.Writer
	styles styles
}

type styles struct {
	info    lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	error   lipgloss.Style
	label   lipgloss.Style
	name    lipgloss.Style
	badge   lipgloss.Style
	summary lipgloss.Style
}

func NewRenderer(opts Options) *Renderer {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	isTTY := out == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
	profile := termenv.EnvColorProfile()
	if opts.NoColor || !isTTY {
		profile = termenv.Ascii
	}
	lipgloss.SetColorProfile(profile)

	return &Renderer{
		out: out,
		styles: styles{
			info:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
			ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
			warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
			error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			name:    lipgloss.NewStyle().Foreground(lipgloss.Color("105")).Bold(true),
			badge:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			summary: lipgloss.NewStyle().Bold(true),
		},
	}
}

func (r *Renderer) Info(message string) {
	r.println(r.styles.info.Render(message))
}

func (r *Renderer) Error(message string) {
	r.println(r.styles.error.Render(message))
}

// Validation prints one line per record, followed by the problems of the
// records that failed
func (r *Renderer) Validation(res schema.Result) {
	if res.OK() {
		r.println("✅ " + res.Source)
		return
	}

	r.println("❌ " + r.styles.error.Render(res.Source))
	if res.Err != nil {
		for _, msg := range res.Err.Record {
			r.println("   " + msg)
		}
		for _, f := range res.Err.Fields {
			r.println("   " + r.styles.label.Render(f.Field) + ": " + f.Message)
		}
	}
	for _, b := range res.Batch {
		r.println("   " + r.styles.warn.Render(string(b.Kind)) + ": " + b.Message)
	}
}

func (r *Renderer) ValidationSummary(report *schema.BatchReport) {
	valid := fmt.Sprintf("%d valid", report.ValidCount())
	errors := fmt.Sprintf("%d errors", report.ErrorCount())
	total := fmt.Sprintf("%d total", report.Total())

	errStyle := r.styles.label
	if report.ErrorCount() > 0 {
		errStyle = r.styles.error
	}
	r.println("")
	r.println(r.styles.ok.Render(valid) + "  " + errStyle.Render(errors) + "  " + r.styles.summary.Render(total))
}

func (r *Renderer) Written(dir string, paths []string) {
	for _, p := range paths {
		r.println(r.styles.ok.Render("wrote") + " " + p)
	}
	r.println(r.styles.summary.Render(fmt.Sprintf("exported %d documents to %s", len(paths), dir)))
}

// Tool prints a one-line summary of an entry with its interface badges
func (r *Renderer) Tool(t models.Tool) {
	score := fmt.Sprintf("%2d %-9s", t.AgentFirstScore, models.ScoreLabel(t.AgentFirstScore))
	style := r.styles.label
	switch models.TierForScore(t.AgentFirstScore) {
	case models.ScoreTierHigh:
		style = r.styles.ok
	case models.ScoreTierMedium:
		style = r.styles.warn
	}

	var badges []string
	for _, i := range models.AllInterfaces() {
		if t.Interfaces.Has(i) {
			badges = append(badges, i.Label())
		}
	}

	line := style.Render(score) + " " + r.styles.name.Render(t.Name) + " " +
		r.styles.label.Render("("+t.Slug+", "+t.Category.Emoji()+" "+t.Category.Label()+")")
	if len(badges) > 0 {
		line += " " + r.styles.badge.Render(strings.Join(badges, " "))
	}
	if t.Verified {
		line += " " + r.styles.ok.Render("verified")
	}
	r.println(line)
}

func (r *Renderer) QuerySummary(shown, total, activeFilters int) {
	msg := fmt.Sprintf("%d of %d tools", shown, total)
	if activeFilters > 0 {
		msg += fmt.Sprintf(", %d active filters", activeFilters)
	}
	r.println("")
	r.println(r.styles.summary.Render(msg))
}

// Facets prints the counts in canonical enum order
func (r *Renderer) Facets(f catalog.Facets) {
	r.facetLine("categories", keysOf(models.AllCategories()), f.Categories)
	r.facetLine("interfaces", keysOf(models.AllInterfaces()), f.Interfaces)
	r.facetLine("signup", keysOf(models.AllSignupMethods()), f.SignupMethods)
}

func (r *Renderer) facetLine(label string, order []string, counts map[string]int) {
	var parts []string
	for _, key := range order {
		if n, ok := counts[key]; ok {
			parts = append(parts, fmt.Sprintf("%s %d", key, n))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "none")
	}
	r.println(r.styles.label.Render(label+":") + " " + strings.Join(parts, ", "))
}

func (r *Renderer) println(message string) {
	fmt.Fprintln(r.out, message)
}

func keysOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
