package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/fmkit"
	"github.com/fwojciec/fmkit/directory"
	"github.com/fwojciec/fmkit/fs"
	"github.com/fwojciec/fmkit/goquery"
	fmhttp "github.com/fwojciec/fmkit/http"
	"github.com/fwojciec/fmkit/rod"
	fmslog "github.com/fwojciec/fmkit/slog"
	"github.com/fwojciec/fmkit/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	m.Stdin = os.Stdin

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Environment overrides the process environment. Set before calling Run().
	Environment map[string]string

	// Stdin feeds the browse command.
	Stdin io.ReadCloser

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Fetcher replaces the fetcher built from configuration. Used by tests.
	Fetcher fmkit.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := LoadConfig(m.Environment)
	if err != nil {
		return err
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("fmkit"),
		kong.Description("Browse the Football Manager nations directory"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"addr": cfg.Addr},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'fmkit --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	if cli.Verbose {
		cfg.Verbose = true
	}
	if cli.Browser {
		cfg.Browser = true
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	m.DB = sqlite.NewDB(cfg.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set FMKIT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cfg.DBPath, err)
	}
	defer m.Close()

	deps := &Dependencies{
		Ctx:      ctx,
		Stdin:    m.Stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Logger:   logger,
		Config:   cfg,
		Settings: sqlite.NewSettingsService(m.DB),
		Faces:    fs.NewFaceCounter(),
	}

	switch kongCtx.Command() {
	case "nations", "browse", "serve":
		fetcher := m.Fetcher
		if fetcher == nil {
			if fetcher, err = newFetcher(cfg); err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or unset FMKIT_BROWSER")
				return fmt.Errorf("failed to start browser: %w", err)
			}
		}
		fetcher = fmslog.NewLoggingFetcher(fetcher, logger)
		defer fetcher.Close()

		store := fmslog.NewLoggingNationStore(sqlite.NewNationStore(m.DB), logger)
		service := &directory.Service{
			Fetcher:   fetcher,
			Extractor: fmslog.NewLoggingExtractor(goquery.NewNationExtractor(), logger),
			Store:     store,
			SourceURL: cfg.SourceURL,
			Logger:    logger,
		}
		deps.Session = directory.NewSession(fmslog.NewLoggingNationService(service, logger))
		if err := restore(ctx, deps.Session, store); err != nil {
			return fmt.Errorf("failed to load stored nations: %w", err)
		}
	}

	return kongCtx.Run(deps)
}

// newFetcher builds the fetcher selected by cfg.
func newFetcher(cfg Config) (fmkit.Fetcher, error) {
	if cfg.Browser {
		return rod.NewFetcher(
			rod.WithFetchTimeout(cfg.Timeout),
			rod.WithUserAgent(cfg.UserAgent),
			rod.WithRateLimit(cfg.FetchRate()),
		)
	}
	return fmhttp.NewFetcher(
		fmhttp.WithTimeout(cfg.Timeout),
		fmhttp.WithUserAgent(cfg.UserAgent),
		fmhttp.WithRateLimit(cfg.FetchRate()),
	), nil
}

// restore seeds session with the last stored snapshot, if any.
func restore(ctx context.Context, session *directory.Session, store fmkit.NationStore) error {
	snapshot, err := store.FindLatestSnapshot(ctx)
	if fmkit.ErrorCode(err) == fmkit.ENOTFOUND {
		return nil
	}
	if err != nil {
		return err
	}
	nations, err := store.FindNations(ctx)
	if err != nil {
		return err
	}
	session.Restore(nations, snapshot.FetchedAt)
	return nil
}

