package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/export"
	"github.com/terra-clan/agent-registry/internal/loader"
	"github.com/terra-clan/agent-registry/internal/models"
	"github.com/terra-clan/agent-registry/internal/registry"
	"github.com/terra-clan/agent-registry/internal/schema"
	"github.com/terra-clan/agent-registry/internal/storage"
)

type ValidateCmd struct{}

type ExportCmd struct {
	Out     string `help:"Output directory." default:"dist/api" type:"path"`
	BaseURL string `help:"Public base URL listed in openapi.json." env:"PUBLIC_BASE_URL"`
}

type QueryCmd struct {
	Search    string   `name:"q" help:"Case-insensitive text search."`
	Category  []string `help:"Categories, any of (repeatable or comma separated)."`
	Interface []string `help:"Interfaces, all of (repeatable or comma separated)."`
	Signup    []string `help:"Signup methods, any of."`
	MinScore  int      `help:"Minimum agent-first score." default:"1"`
	HasFree   string   `help:"Free tier filter." enum:"any,true,false" default:"any"`
	MCPOnly   bool     `name:"mcp-only" help:"Only tools with an MCP server."`
	Sort      string   `help:"Sort order." enum:"score,alphabetical,newest" default:"score"`
	JSON      bool     `name:"json" help:"Print the matching entries as JSON."`
}

type ImportCmd struct {
	DSN           string `name:"dsn" help:"PostgreSQL DSN." env:"DATABASE_DSN" required:""`
	MigrationsDir string `help:"Migrations to apply first." default:"./migrations" type:"path"`
}

// validate reads and validates the directory, printing every result
func validate(ctx *Context) (*schema.BatchReport, []schema.Record, error) {
	records, err := loader.NewDirSource(ctx.Dir).Records(ctx.Ctx)
	if err != nil {
		return nil, nil, err
	}

	report := schema.ValidateBatch(records)
	for _, res := range report.Results {
		ctx.Renderer.Validation(res)
	}
	ctx.Renderer.ValidationSummary(report)

	if !report.OK() {
		return report, records, fmt.Errorf("%w: %d of %d records failed", registry.ErrInvalidBatch, report.ErrorCount(), report.Total())
	}
	return report, records, nil
}

func (c *ValidateCmd) Run(ctx *Context) error {
	_, _, err := validate(ctx)
	return err
}

func (c *ExportCmd) Run(ctx *Context) error {
	report, _, err := validate(ctx)
	if err != nil {
		return err
	}

	cat, err := catalog.Build(report.Entries())
	if err != nil {
		return err
	}

	paths, err := export.WriteDir(c.Out, cat, c.BaseURL)
	if err != nil {
		return err
	}
	ctx.Renderer.Written(c.Out, paths)
	return nil
}

func (c *QueryCmd) Run(ctx *Context) error {
	cat, _, err := registry.Build(ctx.Ctx, loader.NewDirSource(ctx.Dir), registry.Options{})
	if err != nil {
		return err
	}

	filter := c.filter()
	sort, _ := catalog.ParseSortKey(c.Sort)
	tools := catalog.Query(cat, filter, sort)

	if c.JSON {
		data, err := export.Marshal(tools)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	for _, t := range tools {
		ctx.Renderer.Tool(t)
	}
	ctx.Renderer.QuerySummary(len(tools), cat.Len(), filter.ActiveCount())
	ctx.Renderer.Facets(catalog.CountFacets(tools))
	return nil
}

func (c *QueryCmd) filter() catalog.Filter {
	f := catalog.Filter{
		Search:        c.Search,
		Categories:    enumValues[models.Category](c.Category),
		Interfaces:    enumValues[models.Interface](c.Interface),
		SignupMethods: enumValues[models.SignupMethod](c.Signup),
		MinScore:      c.MinScore,
		MCPOnly:       c.MCPOnly,
	}
	if c.HasFree != "any" {
		v := c.HasFree == "true"
		f.HasFree = &v
	}
	return f.Normalize()
}

func enumValues[T ~string](values []string) []T {
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = T(v)
	}
	return out
}

func (c *ImportCmd) Run(ctx *Context) error {
	_, records, err := validate(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("no records to import")
	}

	pg, err := storage.NewPostgresSource(ctx.Ctx, storage.PostgresConfig{DSN: c.DSN})
	if err != nil {
		return err
	}
	defer pg.Close()

	applied, err := pg.MigrateDir(ctx.Ctx, c.MigrationsDir)
	if err != nil {
		return err
	}
	for _, name := range applied {
		ctx.Renderer.Info("applied migration " + name)
	}

	if err := pg.Upsert(ctx.Ctx, records); err != nil {
		return err
	}
	ctx.Renderer.Info(fmt.Sprintf("imported %d records into %s", len(records), pg.Name()))
	return nil
}
