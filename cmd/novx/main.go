// Command novx converts novx fiction projects to and from office
// documents. With -mcp it serves the same conversions as MCP tools over
// stdio.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/rpggio/novx/internal/config"
	"github.com/rpggio/novx/internal/converter"
	"github.com/rpggio/novx/internal/domain/activity"
	"github.com/rpggio/novx/internal/format"
	"github.com/rpggio/novx/internal/mcp"
	"github.com/rpggio/novx/internal/sqlite"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type flags struct {
	suffix    string
	mcp       bool
	yes       bool
	history   int
	character string
	plotLine  string
	tag       string
}

func parseFlags(args []string) (flags, []string, error) {
	var f flags
	fs := flag.NewFlagSet("novx", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: novx [flags] <file>\n       novx -mcp\n       novx -history N\n\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&f.suffix, "suffix", "", "export kind when <file> is a project, e.g. _manuscript")
	fs.BoolVar(&f.mcp, "mcp", false, "serve conversions as MCP tools over stdio")
	fs.BoolVar(&f.yes, "yes", false, "overwrite existing targets without asking")
	fs.IntVar(&f.history, "history", 0, "list the N most recent conversions and exit")
	fs.StringVar(&f.character, "character", "", "export only sections with this character ID")
	fs.StringVar(&f.plotLine, "plot-line", "", "export only sections of this plot line ID")
	fs.StringVar(&f.tag, "tag", "", "export only sections with this tag")
	if err := fs.Parse(args); err != nil {
		return f, nil, err
	}
	return f, fs.Args(), nil
}

func main() {
	f, args, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if !f.mcp && f.history == 0 && len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: novx [flags] <file>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout stays clean for JSON-RPC and results.
	logWriter := io.Writer(os.Stderr)
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	var (
		history    converter.History
		historySvc mcp.HistoryService
	)
	if cfg.History.Enabled {
		db, err := openHistory(cfg.History.Path)
		if err != nil {
			logger.Error("failed to open history", "path", cfg.History.Path, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		svc := activity.NewService(sqlite.NewHistoryRepository(db), logger)
		history, historySvc = svc, svc
	}

	if f.history > 0 {
		if historySvc == nil {
			fmt.Fprintln(os.Stderr, "conversion history is disabled")
			os.Exit(1)
		}
		if err := printHistory(context.Background(), os.Stdout, historySvc, f.history); err != nil {
			logger.Error("failed to list history", "error", err)
			os.Exit(1)
		}
		return
	}

	opts := converter.Options{
		AskBeforeOverwrite: cfg.Convert.AskBeforeOverwrite && !f.yes,
		LockOnExport:       cfg.Convert.LockOnExport,
		Backup:             cfg.Convert.Backup,
		StylesPath:         cfg.Convert.StylesPath,
	}

	if f.mcp {
		conv := converter.New(opts, nil, history, logger)
		runStdioMode(logger, mcp.NewServer(mcp.Config{
			Converter: conv,
			History:   historySvc,
			Logger:    logger,
		}))
		return
	}

	var decider converter.Decider
	if opts.AskBeforeOverwrite {
		prompt, err := newPromptDecider()
		if err != nil {
			logger.Error("failed to open prompt", "error", err)
			os.Exit(1)
		}
		defer prompt.Close()
		decider = prompt
	}

	conv := converter.New(opts, decider, history, logger)
	res, err := conv.Run(context.Background(), converter.Request{
		Path:   args[0],
		Suffix: f.suffix,
		Select: format.Selection{
			Character: f.character,
			PlotLine:  f.plotLine,
			Tag:       f.tag,
		},
	})
	switch {
	case err == nil:
		fmt.Println(res.Message)
	case converter.IsNotification(err):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	case errors.Is(err, format.ErrUnsupportedType):
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	default:
		logger.Error("conversion failed", "path", args[0], "error", err)
		os.Exit(1)
	}
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	transport := &sdkmcp.StdioTransport{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func openHistory(path string) (*sqlite.DB, error) {
	if err := ensureDBDir(path); err != nil {
		return nil, fmt.Errorf("prepare history path: %w", err)
	}
	db, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func printHistory(ctx context.Context, w io.Writer, svc mcp.HistoryService, limit int) error {
	entries, err := svc.Recent(ctx, activity.ListOptions{Limit: limit})
	if err != nil {
		return err
	}
	for _, e := range entries {
		target := e.Target
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(w, "%-14s %-11s %-9s %s -> %s\n", humanize.Time(e.CreatedAt), e.Stage, e.Status, e.Source, target)
		if e.Status != activity.StatusSucceeded && e.Message != "" {
			fmt.Fprintf(w, "%14s %s\n", "", e.Message)
		}
	}
	return nil
}
