package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sitemapper/internal/config"
	"sitemapper/internal/crawler"
	"sitemapper/internal/database"
	intlog "sitemapper/internal/log"
	"sitemapper/internal/model"
	"sitemapper/internal/render"
	"sitemapper/internal/report"
	"sitemapper/internal/sitemap"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <seed-url>",
		Short: "Crawl a website and generate a sitemap",
		Long: `Generate crawls every page reachable from the seed URL within its
network location (host and port), rendering each page in a headless
browser so links emitted by client-side scripts are found, and writes
the discovered pages as a sitemaps.org 0.9 XML sitemap.

Examples:
  # Crawl a site and write sitemap.xml
  sitemapper generate https://example.com/

  # Faster crawl with more workers and no politeness delay
  sitemapper generate --workers 8 --delay 0s https://example.com/

  # Static sites render fine without a browser
  sitemapper generate --no-js https://example.com/

  # Write the summary as JSON for tooling
  sitemapper generate --json https://example.com/

Configuration file (.sitemapper) example:
  defaults:
    dispatchDelay: "500ms"
  sites:
    example.com:
      maxPages: 200
      settleDelay: "5s"
    slow-site.org:
      workers: 1
      dispatchDelay: "3s"`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerateCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent crawl workers (one browser session each)")
	cmd.Flags().DurationP("delay", "d", config.DefaultDispatchDelay,
		"Delay between successive page dispatches")

	// Render flags
	cmd.Flags().Duration("settle", config.DefaultSettleDelay,
		"Wait after page load for scripts to finish emitting content")
	cmd.Flags().Duration("render-timeout", config.DefaultRenderTimeout,
		"Timeout for rendering a single page")
	cmd.Flags().Bool("no-js", false,
		"Fetch pages with a plain HTTP client instead of a headless browser")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with requests")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes (--no-js mode only)")

	// Sitemap flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Output file path for the generated sitemap")
	cmd.Flags().String("changefreq", config.DefaultChangeFreq,
		"Value written to every <changefreq> element")
	cmd.Flags().Float64("priority", config.DefaultPriority,
		"Value written to every <priority> element")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitemapper in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown summary (mutually exclusive with --json)")
	cmd.Flags().Bool("no-save", false,
		"Do not record this run in the crawl history database")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Per-host overrides apply after flag parsing so the config file can
	// tune sites without touching the command line.
	if cfg.SiteConfigs != nil {
		if err := cfg.ApplySiteConfig(cfg.SiteConfigs.GetSiteConfig(cfg.Scope())); err != nil {
			return err
		}
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Handle interrupt signals for graceful shutdown: in-flight renders
	// finish and the partial result is still written out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runGenerate(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.SeedURL = args[0]

	var err error

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.DispatchDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.SettleDelay, err = cmd.Flags().GetDuration("settle")
	if err != nil {
		return nil, err
	}

	cfg.RenderTimeout, err = cmd.Flags().GetDuration("render-timeout")
	if err != nil {
		return nil, err
	}

	cfg.NoJS, err = cmd.Flags().GetBool("no-js")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ChangeFreq, err = cmd.Flags().GetString("changefreq")
	if err != nil {
		return nil, err
	}

	cfg.Priority, err = cmd.Flags().GetFloat64("priority")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-host configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noSave
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// Log output is wrapped in a redacting handler so URL userinfo never
// reaches the terminal or log files.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := intlog.NewRedactHandler(slog.NewTextHandler(os.Stderr, opts))
	return slog.New(handler)
}

// runGenerate executes the crawl and writes the sitemap.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	extractor, err := crawler.NewExtractor(cfg.SeedURL)
	if err != nil {
		return fmt.Errorf("invalid seed URL: %w", err)
	}

	crawlReport := model.NewCrawlReport(cfg.SeedURL, extractor.Scope())

	logger.Info("starting crawl",
		"seed", cfg.SeedURL,
		"domain", extractor.Scope(),
		"maxPages", cfg.MaxPages,
		"workers", cfg.Workers,
		"noJS", cfg.NoJS,
	)

	pool, err := newSessionPool(cfg)
	if err != nil {
		return fmt.Errorf("failed to start render sessions: %w", err)
	}
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Error("failed to close render sessions", "error", err)
		}
	}()

	orch := crawler.New(pool, extractor,
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithDispatchDelay(cfg.DispatchDelay),
		crawler.WithLogger(logger),
	)

	fmt.Printf("Crawling %s...\n", cfg.SeedURL)
	startTime := time.Now()

	discovered, err := orch.Crawl(ctx, cfg.SeedURL)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return fmt.Errorf("crawl failed: %w", err)
		}
		logger.Warn("crawl interrupted, writing partial results",
			"discovered", len(discovered))
		fmt.Println("Crawl interrupted; writing partial results...")
	}

	crawlReport.Elapsed = time.Since(startTime)
	crawlReport.PagesCrawled = len(orch.Pages())
	crawlReport.PagesFailed = orch.FailedCount()
	crawlReport.Discovered = discovered

	fmt.Printf("Crawl completed in %s: %d pages visited, %d links found\n",
		crawlReport.Elapsed.Round(time.Millisecond), crawlReport.PagesVisited(), len(discovered))

	if err := writeSitemap(cfg, crawlReport, logger); err != nil {
		return err
	}

	if cfg.SaveHistory {
		if err := saveRun(ctx, cfg, crawlReport, logger); err != nil {
			logger.Error("failed to save crawl history", "error", err)
		}
	}

	if err := outputReport(cfg, crawlReport); err != nil {
		return fmt.Errorf("failed to output summary: %w", err)
	}

	if !crawlReport.Valid {
		return errors.New("generated sitemap failed validation")
	}
	return nil
}

// newSessionPool creates the render session pool for the configured mode.
func newSessionPool(cfg *config.Config) (*render.Pool, error) {
	if cfg.NoJS {
		return render.NewPool(cfg.Workers, func() (render.Renderer, error) {
			return render.NewHTTPSession(
				render.WithHTTPTimeout(cfg.RenderTimeout),
				render.WithHTTPUserAgent(cfg.UserAgent),
				render.WithMaxBodySize(cfg.MaxBodySize),
			), nil
		})
	}

	return render.NewPool(cfg.Workers, func() (render.Renderer, error) {
		return render.NewChromeSession(
			render.WithSettleDelay(cfg.SettleDelay),
			render.WithRenderTimeout(cfg.RenderTimeout),
			render.WithChromeUserAgent(cfg.UserAgent),
		)
	})
}

// writeSitemap builds, writes, and re-validates the sitemap, recording the
// outcome on the report.
func writeSitemap(cfg *config.Config, crawlReport *model.CrawlReport, logger *slog.Logger) error {
	builder, err := sitemap.NewBuilder(cfg.SeedURL,
		sitemap.WithChangeFreq(cfg.ChangeFreq),
		sitemap.WithPriority(cfg.Priority),
		sitemap.WithBuilderLogger(logger),
	)
	if err != nil {
		return err
	}

	doc, err := builder.Build(crawlReport.Discovered)
	if err != nil {
		if errors.Is(err, sitemap.ErrEmptyInput) {
			return fmt.Errorf("no URLs discovered, nothing to write: %w", err)
		}
		return fmt.Errorf("failed to build sitemap: %w", err)
	}

	if dir := filepath.Dir(cfg.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(cfg.OutputFile, doc.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write sitemap: %w", err)
	}

	crawlReport.SitemapPath = cfg.OutputFile
	crawlReport.URLCount = doc.Len()

	// Validate what actually landed on disk, not the in-memory document.
	written, err := os.ReadFile(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to re-read sitemap: %w", err)
	}
	crawlReport.Valid = sitemap.NewValidator(sitemap.WithValidatorLogger(logger)).Validate(written)

	fmt.Printf("Sitemap written to %s (%d entries)\n", cfg.OutputFile, doc.Len())
	return nil
}

// saveRun records the completed run in the history database.
// An interrupted crawl still reaches this point with a cancelled signal
// context, and its partial run must be recorded like any other, so the
// database write is detached from the crawl's cancellation.
func saveRun(ctx context.Context, cfg *config.Config, crawlReport *model.CrawlReport, logger *slog.Logger) error {
	ctx = context.WithoutCancel(ctx)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, crawlReport)
	if err != nil {
		return err
	}

	logger.Info("crawl recorded in history", "runID", runID, "dir", cfg.DBDir)
	return nil
}

// outputReport writes the crawl summary in the requested format.
func outputReport(cfg *config.Config, crawlReport *model.CrawlReport) error {
	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(os.Stdout)
	default:
		w = report.NewSimpleWriter(os.Stdout, report.WithVerbose(cfg.Verbose))
	}

	_, err := w.Write(crawlReport)
	return err
}
