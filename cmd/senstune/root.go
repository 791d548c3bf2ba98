package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/okian/senstune/internal/app"
	"github.com/okian/senstune/internal/config"
	"github.com/okian/senstune/internal/report"
	"github.com/okian/senstune/pkg/logger"
	"github.com/okian/senstune/pkg/metrics"
)

// Metrics endpoint timeouts.
const (
	metricsReadTimeout       = 5 * time.Second
	metricsReadHeaderTimeout = 5 * time.Second
)

var (
	// levelsFlag points at the directory of level files and archives.
	levelsFlag string
	// replaysFlag points at the directory of replays to analyze.
	replaysFlag string
	// dpiFlag is the mouse DPI used only to derive the eDPI column.
	dpiFlag float64
	// sensFlag assigns one sensitivity to every replay in the batch.
	sensFlag float64
	// noPromptFlag disables the interactive sensitivity prompt.
	noPromptFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "senstune",
	Short: "Estimate cursor accuracy per mouse sensitivity from recorded replays",
	Long: `senstune analyzes recorded rhythm-game replays against the levels they
were played on, measures cursor placement error per mouse sensitivity, and
suggests a better sensitivity from the aggregate directional bias.

Sensitivity per replay comes from --sensitivity, a "sens<number>" tag in the
replay filename, or an interactive prompt, in that order of precedence.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&levelsFlag, "levels", "", "Directory containing level files (.osu) and archives (.osz)")
	rootCmd.Flags().StringVar(&replaysFlag, "replays", "", "Directory containing the replays (.osr) to analyze")
	rootCmd.Flags().Float64Var(&dpiFlag, "dpi", 0, "Mouse DPI, used only to derive the eDPI column")
	rootCmd.Flags().Float64Var(&sensFlag, "sensitivity", 0, "Sensitivity applied to every replay (overrides filename tags)")
	rootCmd.Flags().BoolVar(&noPromptFlag, "no-prompt", false, "Skip replays without a sensitivity instead of prompting")
}

func run(cmd *cobra.Command, _ []string) error {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return err
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env), then let
	// flags take precedence.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if levelsFlag != "" {
		cfg.LevelsDir = levelsFlag
	}
	if replaysFlag != "" {
		cfg.ReplaysDir = replaysFlag
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, log, cfg.MetricsAddr)
	}

	opts := []app.Option{
		app.WithLevelsDir(cfg.LevelsDir),
		app.WithReplaysDir(cfg.ReplaysDir),
		app.WithCacheDir(cfg.CacheDir),
		app.WithTolerance(cfg.ToleranceMS),
		app.WithMinJumpDistance(cfg.MinJumpDistance),
		app.WithLogger(log),
	}
	if sensFlag > 0 {
		opts = append(opts, app.WithGlobalSensitivity(sensFlag))
	} else if !noPromptFlag {
		opts = append(opts, app.WithSensitivityResolver(newPromptResolver(cmd.InOrStdin(), cmd.OutOrStdout())))
	}

	buckets, err := app.New(opts...).Run(ctx)
	if errors.Is(err, app.ErrNoData) {
		fmt.Fprintln(cmd.OutOrStdout(), "No data analyzed. No sensitivity provided or no valid replays.")
		return nil
	}
	if err != nil {
		return err
	}

	return report.Render(cmd.OutOrStdout(), buckets, dpiFlag)
}

// serveMetrics exposes the Prometheus registry for the duration of the
// run. Best effort: a busy port only logs a warning.
func serveMetrics(ctx context.Context, log logger.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       metricsReadTimeout,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn(ctx, "metrics endpoint unavailable", logger.Error(err))
	}
}
