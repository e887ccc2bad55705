package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/CrestNiraj12/pagedlist/app"
	"github.com/CrestNiraj12/pagedlist/domain"
	"github.com/CrestNiraj12/pagedlist/infra/auth"
	"github.com/CrestNiraj12/pagedlist/infra/config"
	"github.com/CrestNiraj12/pagedlist/infra/demo"
	"github.com/CrestNiraj12/pagedlist/infra/httpsource"
	"github.com/CrestNiraj12/pagedlist/infra/logging"
	"github.com/CrestNiraj12/pagedlist/infra/metrics"
	"github.com/CrestNiraj12/pagedlist/paging"
	"github.com/CrestNiraj12/pagedlist/tui"
	"github.com/CrestNiraj12/pagedlist/tui/pagedlist"
	"github.com/CrestNiraj12/pagedlist/tui/render"
)

// flags holds the values of flags that override the configuration.
type flags struct {
	configPath      string
	source          string
	tokenPath       string
	pageSize        int
	startIndex      int
	fetchTimeout    time.Duration
	autoPaging      bool
	pulldownRefresh bool
	logLevel        string
	metricsAddr     string
}

func newRootCmd() *cobra.Command {
	var (
		f   flags
		cfg config.Config
	)

	cmd := &cobra.Command{
		Use:   "pagedlist",
		Short: "Browse a paged list in the terminal",
		Long: "pagedlist loads a list page by page, either from an HTTP JSON endpoint " +
			"or from a built-in demo source, and shows it in an interactive terminal list.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file (default: $PAGEDLIST_CONFIG)")
	pf.StringVar(&f.source, "source", "", "HTTP JSON endpoint; empty uses the demo source")
	pf.StringVar(&f.tokenPath, "token", "", "file holding a bearer token")
	pf.IntVar(&f.pageSize, "page-size", 0, "items per page")
	pf.IntVar(&f.startIndex, "start-index", 0, "offset of the first page")
	pf.DurationVar(&f.fetchTimeout, "fetch-timeout", 0, "per-fetch timeout, 0 for none")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	pf.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&f.autoPaging, "auto-paging", true, "load the next page when the cursor nears the end")
	cmd.Flags().BoolVar(&f.pulldownRefresh, "refresh", true, "enable the refresh key")

	cmd.AddCommand(newDumpCmd(&cfg), newVersionCmd())
	return cmd
}

// loadConfig layers flags over file and environment configuration. Only
// flags set on the command line take effect.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	set := cmd.Flags().Changed
	if set("source") {
		cfg.SourceURL = f.source
	}
	if set("token") {
		cfg.TokenPath = f.tokenPath
	}
	if set("page-size") {
		cfg.PageSize = f.pageSize
	}
	if set("start-index") {
		cfg.StartIndex = f.startIndex
	}
	if set("fetch-timeout") {
		cfg.FetchTimeout = f.fetchTimeout
	}
	if set("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if set("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	if set("auto-paging") {
		cfg.AutoPaging = f.autoPaging
	}
	if set("refresh") {
		cfg.PulldownRefresh = f.pulldownRefresh
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newDumpCmd(cfg *config.Config) *cobra.Command {
	var maxPages int
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every item as JSON lines, loading page by page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDump(cmd.Context(), *cfg, maxPages, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many pages (0 = until exhausted)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip config loading so version works with a broken config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func runTUI(ctx context.Context, cfg config.Config) error {
	logger, closer, err := logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closer.Close()

	m := metrics.New()
	fetcher, label := buildFetcher(cfg, logger)

	root := tui.NewApp(tui.Deps{
		Fetcher:  fetcher,
		Registry: render.Defaults(logging.Component(logger, "render")),
		Options: pagedlist.Options{
			Config:          cfg.Paging(),
			AutoPaging:      cfg.AutoPaging,
			PulldownRefresh: cfg.PulldownRefresh,
			Prompts:         cfg.Prompts(),
		},
		Logger:   logging.Component(logger, "pagedlist"),
		Recorder: m,
		Source:   label,
	})

	logger.Info().Str("source", label).Int("page_size", cfg.PageSize).Msg("starting")
	return withMetricsServer(ctx, cfg.MetricsAddr, m, logger, func(ctx context.Context) error {
		p := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("pagedlist: %w", err)
		}
		return nil
	})
}

func runDump(ctx context.Context, cfg config.Config, maxPages int, stdout, stderr io.Writer) error {
	logger, closer, err := logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: stderr})
	if err != nil {
		return err
	}
	defer closer.Close()

	m := metrics.New()
	fetcher, label := buildFetcher(cfg, logger)
	enc := json.NewEncoder(stdout)

	return withMetricsServer(ctx, cfg.MetricsAddr, m, logger, func(ctx context.Context) error {
		total := 0
		err := paging.Walk(ctx, fetcher, cfg.Paging(), maxPages,
			func(req app.PageRequest, items []domain.Item) error {
				for _, it := range items {
					if err := enc.Encode(it); err != nil {
						return fmt.Errorf("writing item: %w", err)
					}
				}
				total += len(items)
				return nil
			},
			paging.WithLogger(logging.Component(logger, "paging")),
			paging.WithRecorder(m),
		)
		logger.Info().Str("source", label).Int("items", total).Err(err).Msg("dump finished")
		return err
	})
}

// buildFetcher picks the HTTP source when a URL is configured and the demo
// source otherwise. The label names the source for the UI.
func buildFetcher(cfg config.Config, logger zerolog.Logger) (app.PageFetcher, string) {
	if cfg.SourceURL != "" {
		src := httpsource.New(cfg.SourceURL, auth.FromPath(cfg.TokenPath),
			httpsource.WithParams(cfg.PageParam, cfg.LimitParam),
			httpsource.WithLogger(logging.Component(logger, "httpsource")),
		)
		return src, cfg.SourceURL
	}
	return demo.New(demo.Options{
		Total:       cfg.DemoTotal,
		StartIndex:  cfg.StartIndex,
		Latency:     cfg.DemoLatency,
		FailEvery:   cfg.DemoFailEvery,
		BrokenEvery: cfg.DemoBrokenEvery,
	}), "demo"
}

// withMetricsServer runs fn, serving /metrics on addr alongside it when addr
// is set. A server failure cancels fn's context.
func withMetricsServer(ctx context.Context, addr string, m *metrics.Metrics, logger zerolog.Logger, fn func(context.Context) error) error {
	if addr == "" {
		return fn(ctx)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := fn(gctx)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			logger.Warn().Err(serr).Msg("metrics server shutdown")
		}
		return err
	})
	return g.Wait()
}
