// Command startlist converts ski start lists into ranked CSV files.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"unicode"

	"github.com/alecthomas/kong"

	"github.com/tsawler/startlist"
	"github.com/tsawler/startlist/config"
	"github.com/tsawler/startlist/export"
	"github.com/tsawler/startlist/logging"
	"github.com/tsawler/startlist/model"
	"github.com/tsawler/startlist/server"
	"github.com/tsawler/startlist/store"
)

const version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Convert ConvertCmd `cmd:"" help:"Convert a start list into full and filtered CSV files"`
	Serve   ServeCmd   `cmd:"" help:"Start the HTTP service"`
	Runs    RunsGroup  `cmd:"" help:"Inspect stored conversions"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// Globals are flags shared by every command.
type Globals struct {
	Config    string `name:"config" short:"c" help:"YAML config file" type:"existingfile"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`

	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
}

// RunsGroup contains run history operations.
type RunsGroup struct {
	List   RunsListCmd   `cmd:"" help:"List recent runs"`
	Show   RunsShowCmd   `cmd:"" help:"Show one run"`
	Delete RunsDeleteCmd `cmd:"" help:"Delete one run"`
}

// load reads the config file and applies the logging flags.
func (g *Globals) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadOrDefault(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, format := cfg.Logging()
	return cfg, logging.Init(g.errOut(), level, format), nil
}

func (g *Globals) context() context.Context {
	if g.ctx == nil {
		return context.Background()
	}
	return g.ctx
}

func (g *Globals) out() io.Writer {
	if g.stdout == nil {
		return os.Stdout
	}
	return g.stdout
}

func (g *Globals) errOut() io.Writer {
	if g.stderr == nil {
		return os.Stderr
	}
	return g.stderr
}

// ConvertCmd converts one document.
type ConvertCmd struct {
	File       string `arg:"" help:"PDF, HTML or text start list" type:"existingfile"`
	Marker     string `help:"Organisation marker for the filtered list (default from config)"`
	OutDir     string `name:"out-dir" short:"o" help:"Directory for the CSV files" type:"path" default:"."`
	SinglePass bool   `name:"single-pass" help:"Keep only marker lines while parsing"`
	NoClass    bool   `name:"no-class" help:"Do not track class headers"`
	NoTime     bool   `name:"no-time" help:"Leave the start time column out of the CSV files"`
	Norwegian  bool   `help:"Use Norwegian column captions"`
	Pages      string `help:"Pages to read, e.g. 1-3,5"`
}

func (c *ConvertCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}

	if c.Marker != "" {
		cfg.Marker = c.Marker
	}
	if c.SinglePass {
		cfg.Mode = config.ModeSinglePass
	}
	if c.NoClass {
		cfg.TrackClasses = false
	}
	if c.NoTime {
		cfg.Export.IncludeStartTime = false
	}
	if c.Norwegian {
		cfg.Export.Headers = config.HeadersNorwegian
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	conv := cfg.Apply(startlist.Open(c.File).WithLogger(logger))
	if c.Pages != "" {
		pages, err := parsePages(c.Pages)
		if err != nil {
			return err
		}
		conv = conv.Pages(pages...)
	}

	result, warnings, err := conv.Convert(g.context())
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", c.File, err)
	}
	for _, w := range warnings {
		if w.Code != startlist.WarnNoRecords {
			logger.Warn(w.Message, "code", w.Code.String(), "page", w.Page)
		}
	}

	if result.Empty() {
		fmt.Fprintln(g.out(), startlist.NoRecordsMessage)
		return nil
	}

	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(c.File), filepath.Ext(c.File))
	exporter := export.NewExporterWithOptions(cfg.ExportOptions())

	fullPath := filepath.Join(c.OutDir, base+"_full.csv")
	if err := exporter.ExportToFile(result.Full, fullPath); err != nil {
		return err
	}
	fmt.Fprintf(g.out(), "Wrote %d participants to %s\n", result.Full.Len(), fullPath)

	filteredPath := filepath.Join(c.OutDir, filteredName(base, cfg.Marker))
	if err := exporter.ExportToFile(result.Filtered, filteredPath); err != nil {
		return err
	}
	fmt.Fprintf(g.out(), "Wrote %d participants matching %q to %s\n",
		result.Filtered.Len(), cfg.Marker, filteredPath)
	return nil
}

// ServeCmd starts the HTTP service.
type ServeCmd struct {
	Addr string `help:"Listen address (default from config)"`
	DB   string `name:"db" help:"Run history database (default from config)" type:"path"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	if c.DB != "" {
		cfg.Store.Path = c.DB
	}

	st, err := store.Open(g.context(), cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := server.New(server.Config{
		Store:          st,
		Logger:         logger,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Configure:      cfg.Apply,
		Export:         cfg.ExportOptions(),
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(g.context(), cfg.Server.Addr)
}

// RunsListCmd lists stored runs.
type RunsListCmd struct {
	DB    string `name:"db" help:"Run history database (default from config)" type:"path"`
	Limit int    `help:"Maximum number of runs" default:"20"`
}

func (c *RunsListCmd) Run(g *Globals) error {
	_, st, err := openStore(g, c.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(g.context(), c.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(g.out(), "No runs stored.")
		return nil
	}

	tw := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tMARKER\tFULL\tFILTERED")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Source, run.Marker, run.FullCount, run.FilteredCount)
	}
	return tw.Flush()
}

// RunsShowCmd prints one run.
type RunsShowCmd struct {
	ID      string `arg:"" help:"Run ID"`
	DB      string `name:"db" help:"Run history database (default from config)" type:"path"`
	Dataset string `help:"Print a dataset as CSV (full or filtered)"`
}

func (c *RunsShowCmd) Run(g *Globals) error {
	cfg, st, err := openStore(g, c.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Get(g.context(), c.ID)
	if err != nil {
		return err
	}

	if c.Dataset == "" {
		out := g.out()
		fmt.Fprintf(out, "ID:        %s\n", run.ID)
		fmt.Fprintf(out, "Created:   %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Source:    %s\n", run.Source)
		fmt.Fprintf(out, "BLAKE3:    %s\n", run.Digest)
		fmt.Fprintf(out, "Marker:    %s\n", run.Marker)
		fmt.Fprintf(out, "Full:      %d\n", run.FullCount)
		fmt.Fprintf(out, "Filtered:  %d\n", run.FilteredCount)
		fmt.Fprintf(out, "Lines:     %d (headers %d, discarded %d)\n",
			run.Stats.Lines, run.Stats.Headers, run.Stats.Discarded())
		return nil
	}

	kind, ok := model.ParseDatasetKind(c.Dataset)
	if !ok {
		return fmt.Errorf("unknown dataset %q (use full or filtered)", c.Dataset)
	}
	ds, err := st.Dataset(g.context(), run.ID, kind)
	if err != nil {
		return err
	}
	return export.NewExporterWithOptions(cfg.ExportOptions()).Export(ds, g.out())
}

// RunsDeleteCmd removes one run.
type RunsDeleteCmd struct {
	ID string `arg:"" help:"Run ID"`
	DB string `name:"db" help:"Run history database (default from config)" type:"path"`
}

func (c *RunsDeleteCmd) Run(g *Globals) error {
	_, st, err := openStore(g, c.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(g.context(), c.ID); err != nil {
		return err
	}
	fmt.Fprintf(g.out(), "Deleted run %s\n", c.ID)
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintf(g.out(), "startlist version %s\n", version)
	return nil
}

func openStore(g *Globals, path string) (*config.Config, *store.Store, error) {
	cfg, _, err := g.load()
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		path = cfg.Store.Path
	}
	st, err := store.Open(g.context(), path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

// parsePages parses a page list such as "1-3,5".
func parsePages(s string) ([]int, error) {
	var pages []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		if start < 1 || end < start {
			return nil, fmt.Errorf("invalid page range %q", part)
		}
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages in %q", s)
	}
	return pages, nil
}

// fileSafe makes a marker usable in a file name.
func fileSafe(marker string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, marker)
	if safe == "" {
		return "filtered"
	}
	return safe
}

// filteredName returns the filtered CSV file name. A marker that would
// produce the full list's name gets a prefix instead.
func filteredName(base, marker string) string {
	suffix := fileSafe(marker)
	if strings.EqualFold(suffix, "full") {
		suffix = "filtered_" + suffix
	}
	return base + "_" + suffix + ".csv"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	cli.ctx = ctx
	kctx := kong.Parse(&cli,
		kong.Name("startlist"),
		kong.Description("Convert ski start lists into ranked CSV files"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := kctx.Run(&cli.Globals)
	kctx.FatalIfErrorf(err)
}
