package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/terra-clan/agent-registry/internal/ui"
)

type CLI struct {
	NoColor  bool        `help:"Disable color output."`
	Dir      string      `help:"Directory holding one record per tool." default:"./data/tools" type:"path"`
	Debug    bool        `help:"Log pipeline details to stderr."`
	Validate ValidateCmd `cmd:"" help:"Validate every record and fail on any error."`
	Export   ExportCmd   `cmd:"" help:"Write the static JSON API."`
	Query    QueryCmd    `cmd:"" help:"Filter and sort the catalog."`
	Import   ImportCmd   `cmd:"" help:"Validate records and upsert them into PostgreSQL."`
}

type Context struct {
	Ctx      context.Context
	Dir      string
	Renderer *ui.Renderer
}

func main() {
	var cli CLI
	parser := kong.Must(&cli,
		kong.Name("registry"),
		kong.Description("Catalog of agent-first tools."),
		kong.UsageOnError(),
	)
	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	setupLogging(cli.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	noColor := cli.NoColor || os.Getenv("NO_COLOR") != ""
	renderer := ui.NewRenderer(ui.Options{NoColor: noColor, Out: os.Stdout})

	if err := kctx.Run(&Context{Ctx: ctx, Dir: cli.Dir, Renderer: renderer}); err != nil {
		renderer.Error(err.Error())
		stop()
		os.Exit(1)
	}
}

// setupLogging keeps pipeline logs off stdout, which belongs to the renderer
func setupLogging(debug bool) {
	level := slog.LevelError
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
