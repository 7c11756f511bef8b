package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-meddra-lookup/api"
	"github.com/gcbaptista/go-meddra-lookup/config"
	"github.com/gcbaptista/go-meddra-lookup/internal/analytics"
	"github.com/gcbaptista/go-meddra-lookup/internal/logging"
	"github.com/gcbaptista/go-meddra-lookup/internal/rerank"
	"github.com/gcbaptista/go-meddra-lookup/services"
)

const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	host        string
	port        int
	ui          string
	geminiKey   string
	geminiModel string
	eager       bool
	noFallback  bool
}

func newServeCmd(global *globalFlags) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "MedDRA 증상 코드 조회용 로컬 서버",
		Long: "Serve the lookup UI and the /search, /search/export, /health, /analytics\n" +
			"and /metrics endpoints. Re-ranking is enabled when a Gemini API key is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := global.settings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				settings.Host = flags.host
			}
			if cmd.Flags().Changed("port") {
				settings.Port = flags.port
			}
			if flags.geminiKey != "" {
				settings.Rerank.APIKey = flags.geminiKey
			}
			if flags.geminiModel != "" {
				settings.Rerank.Model = flags.geminiModel
			}
			settings.EagerLoad = settings.EagerLoad || flags.eager
			settings.ApproximateFallback = !flags.noFallback
			settings.UIPath = resolveUIPath(flags.ui, settings)

			logger, err := logging.NewLogger(settings.Log.Level, settings.Log.Format, serviceName)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, settings, logger)
		},
	}

	cmd.Flags().StringVar(&flags.host, "host", "127.0.0.1", "바인딩할 호스트 주소")
	cmd.Flags().IntVar(&flags.port, "port", 8000, "바인딩할 포트")
	cmd.Flags().StringVar(&flags.ui, "ui", "", "HTML page served at / (default <data-root>/index.html)")
	cmd.Flags().StringVar(&flags.geminiKey, "gemini-key", "", "Gemini API key (default $GEMINI_API_KEY)")
	cmd.Flags().StringVar(&flags.geminiModel, "gemini-model", "", "Gemini model used for re-ranking")
	cmd.Flags().BoolVar(&flags.eager, "eager", false, "parse all tables at startup instead of on the first query")
	cmd.Flags().BoolVar(&flags.noFallback, "no-approximate", false, "only fall back to approximate matching for ai=1 requests")
	return cmd
}

// runServer wires the dataset, search, analytics and optional ranker into a
// gin router and serves until ctx is cancelled.
func runServer(ctx context.Context, settings config.Settings, logger *zap.Logger) error {
	dataset, searcher, err := openSearch(settings, logger)
	if err != nil {
		return err
	}

	if settings.EagerLoad {
		start := time.Now()
		if err := dataset.Warm(ctx, settings.LoadWorkers); err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}
		if err := searcher.Prepare(); err != nil {
			return fmt.Errorf("failed to build term index: %w", err)
		}
		logger.Info("Dataset loaded", zap.Duration("took", time.Since(start)), zap.Any("stats", dataset.Stats()))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	analyticsService, err := analytics.NewService(dataset, registry)
	if err != nil {
		return fmt.Errorf("failed to create analytics service: %w", err)
	}

	var ranker services.Ranker
	if settings.Rerank.Enabled() {
		gemini, err := rerank.NewGeminiRanker(settings.Rerank, logger)
		if err != nil {
			return err
		}
		ranker = gemini
		logger.Info("Re-ranking enabled", zap.String("model", gemini.Model()))
	}

	if settings.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestIDMiddleware(), api.ZapLogger(logger), api.CORSMiddleware())
	api.SetupRoutes(router, api.Options{
		Searcher:  searcher,
		Ranker:    ranker,
		Analytics: analyticsService,
		Stats:     dataset,
		Gatherer:  registry,
		Settings:  settings,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:              settings.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("MedDRA server listening",
			zap.String("url", "http://"+settings.Addr()),
			zap.String("data_root", settings.DataRoot),
		)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
