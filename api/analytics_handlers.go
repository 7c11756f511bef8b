package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-meddra-lookup/model"
)

// GetAnalyticsHandler handles the request to get analytics data
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	if api.analytics == nil {
		dashboard := model.AnalyticsDashboard{PopularSearches: []model.PopularSearch{}}
		if api.stats != nil {
			dashboard.Dataset = api.stats.Stats()
		}
		c.JSON(http.StatusOK, dashboard)
		return
	}

	dashboard, err := api.analytics.GetDashboardData()
	if err != nil {
		SendInternalError(c, "retrieve analytics data", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// HealthCheckHandler reports service status and the dataset tables loaded so far
func (api *API) HealthCheckHandler(c *gin.Context) {
	body := gin.H{
		"status":    "healthy",
		"service":   "go-meddra-lookup",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
		"ai":        api.ranker != nil,
	}
	if api.stats != nil {
		body["dataset"] = api.stats.Stats()
	}
	c.JSON(http.StatusOK, body)
}
