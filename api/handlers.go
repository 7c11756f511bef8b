package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-meddra-lookup/config"
	"github.com/gcbaptista/go-meddra-lookup/internal/logging"
	"github.com/gcbaptista/go-meddra-lookup/services"
)

// Options holds everything the handlers need. Searcher is required; a nil
// Ranker disables re-ranking and a nil Analytics disables event tracking.
type Options struct {
	Searcher  services.Searcher
	Ranker    services.Ranker
	Analytics services.AnalyticsTracker
	Stats     services.StatsProvider
	Gatherer  prometheus.Gatherer
	Settings  config.Settings
	Logger    *zap.Logger
}

// API holds dependencies for API handlers. It carries no process-wide state,
// so several instances with different settings can coexist.
type API struct {
	searcher  services.Searcher
	ranker    services.Ranker
	analytics services.AnalyticsTracker
	stats     services.StatsProvider
	gatherer  prometheus.Gatherer
	settings  config.Settings
	logger    *zap.Logger
	ui        *uiPage
}

// NewAPI creates a new API handler structure.
func NewAPI(opts Options) *API {
	settings := opts.Settings
	settings.ApplyDefaults()
	logger := logging.OrNop(opts.Logger)
	return &API{
		searcher:  opts.Searcher,
		ranker:    opts.Ranker,
		analytics: opts.Analytics,
		stats:     opts.Stats,
		gatherer:  opts.Gatherer,
		settings:  settings,
		logger:    logger,
		ui:        loadUIPage(settings.UIPath, logger),
	}
}

// SetupRoutes defines all the routes of the lookup service and returns the
// API instance serving them.
func SetupRoutes(router *gin.Engine, opts Options) *API {
	apiHandler := NewAPI(opts)

	// UI routes
	router.GET("/", apiHandler.UIHandler)
	router.GET("/index.html", apiHandler.UIHandler)

	// Search routes
	router.GET("/search", apiHandler.SearchHandler)
	router.GET("/search/export", apiHandler.ExportHandler)

	// Health, analytics and metrics routes
	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)
	if apiHandler.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(apiHandler.gatherer, promhttp.HandlerOpts{})))
	}

	router.NoRoute(func(c *gin.Context) {
		SendError(c, http.StatusNotFound, ErrorCodeNotFound, "not found")
	})

	return apiHandler
}
