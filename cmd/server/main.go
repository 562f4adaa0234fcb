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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yourname/sleepscope/internal"
	"github.com/yourname/sleepscope/internal/analysis"
	api "github.com/yourname/sleepscope/internal/api"
	"github.com/yourname/sleepscope/internal/config"
	"github.com/yourname/sleepscope/internal/observability"
	"github.com/yourname/sleepscope/internal/service"
	"github.com/yourname/sleepscope/internal/session"
	"github.com/yourname/sleepscope/internal/timeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sleepscope",
		Short:        "Sleep timeline and AI sleep analysis (web or CLI)",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newTimelineCmd(), newAnalyzeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	gemini, err := analysis.NewGeminiClient(ctx, cfg.APIKey, logger,
		analysis.WithModel(cfg.GeminiModel),
		analysis.WithBaseURL(cfg.GeminiBaseURL),
	)
	if err != nil {
		logger.Fatalf("failed to init analysis client: %v", err)
	}

	var store *session.Store
	metrics := observability.NewMetrics(func() int { return store.Len() })
	analyzer := metrics.InstrumentAnalyzer(gemini)
	store = session.NewStore(analyzer, cfg.SessionTTL, logger)
	defer store.Close()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(api.NewApplication(logger, store, analyzer), metrics)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Server running on %s (model %s)", cfg.HTTPAddr, gemini.Model())
		errCh <- srv.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type recordFlags struct {
	bedtime      string
	wakeup       string
	disturbances int
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.bedtime, "bedtime", session.DefaultBedtime, "bedtime, HH:MM")
	cmd.Flags().StringVar(&f.wakeup, "wakeup", session.DefaultWakeupTime, "wake-up time, HH:MM")
	cmd.Flags().IntVar(&f.disturbances, "disturbances", session.DefaultDisturbances, "night-time disturbances")
}

func (f *recordFlags) record() (internal.SleepRecord, error) {
	req := service.NewSleepRecordRequest(internal.SleepRecord{
		Bedtime:      f.bedtime,
		WakeupTime:   f.wakeup,
		Disturbances: f.disturbances,
	})
	if err := service.ValidateSleepRecordRequest(req); err != nil {
		return internal.SleepRecord{}, errors.New(session.MsgInvalidInput)
	}
	return req.Record(), nil
}

func newTimelineCmd() *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the timeline geometry of one night",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := f.record()
			if err != nil {
				return err
			}
			printTimeline(cmd, rec)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print the timeline and ask the model for an analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := f.record()
			if err != nil {
				return err
			}
			cfg := config.Load()
			client, err := analysis.NewGeminiClient(cmd.Context(), cfg.APIKey, internal.NewNopLogger(),
				analysis.WithModel(cfg.GeminiModel),
				analysis.WithBaseURL(cfg.GeminiBaseURL),
			)
			if err != nil {
				return err
			}
			printTimeline(cmd, rec)
			text, err := client.Analyze(cmd.Context(), rec)
			if err != nil {
				return errors.New(session.MsgAnalysisFailed)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", text)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func printTimeline(cmd *cobra.Command, rec internal.SleepRecord) {
	m := timeline.Calculate(rec)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Bedtime:        %s\n", rec.Bedtime)
	fmt.Fprintf(out, "Wake-up:        %s\n", rec.WakeupTime)
	fmt.Fprintf(out, "Duration:       %s\n", timeline.FormatDuration(m.TotalMinutes))
	fmt.Fprintf(out, "Sleep start:    %.2f%% of day\n", m.SleepStartPercent)
	fmt.Fprintf(out, "Sleep length:   %.2f%% of day\n", m.SleepDurationPercent)
	fmt.Fprint(out, "Disturbances:  ")
	if len(m.DisturbancePositions) == 0 {
		fmt.Fprint(out, " none")
	}
	for _, p := range m.DisturbancePositions {
		fmt.Fprintf(out, " %.2f%%", p)
	}
	fmt.Fprintln(out)
}
