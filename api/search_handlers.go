package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-meddra-lookup/internal/errors"
	"github.com/gcbaptista/go-meddra-lookup/internal/export"
	"github.com/gcbaptista/go-meddra-lookup/internal/rerank"
	"github.com/gcbaptista/go-meddra-lookup/model"
)

// lookupOutcome is the result of one query through exact search, the
// approximate fallback and optional re-ranking.
type lookupOutcome struct {
	results     []model.SearchResult
	approximate bool
	ai          bool
	searchType  string
}

// lookup runs exact search, falls back to approximate search when nothing
// matched, and re-ranks when requested and a ranker is configured. With ai
// set, at least AIFetchFloor candidates are fetched so the ranker has room to
// reorder; the fallback fetches twice that many.
func (api *API) lookup(ctx context.Context, params SearchParams) (lookupOutcome, error) {
	fetch := params.Limit
	if params.AI {
		fetch = max(params.Limit, api.settings.AIFetchFloor)
	}

	outcome := lookupOutcome{
		ai:         params.AI && api.ranker != nil,
		searchType: model.SearchTypeExact,
	}

	results, err := api.searcher.Search(params.Query, fetch, params.IncludeInactive)
	if err != nil {
		return outcome, err
	}
	if len(results) == 0 && (api.settings.ApproximateFallback || params.AI) {
		results, err = api.searcher.SearchApproximate(params.Query, fallbackFetch(fetch), params.IncludeInactive)
		if err != nil {
			return outcome, err
		}
		outcome.approximate = len(results) > 0
		outcome.searchType = model.SearchTypeApproximate
	}

	if outcome.ai && len(results) > 0 {
		rankCtx, cancel := context.WithTimeout(ctx, api.settings.Rerank.Timeout)
		defer cancel()
		var reranked bool
		outcome.results, reranked = rerank.Apply(rankCtx, api.ranker, params.Query, results, params.Limit, api.logger)
		if reranked {
			outcome.searchType = model.SearchTypeAI
		}
		return outcome, nil
	}

	if len(results) > params.Limit {
		results = results[:params.Limit]
	}
	if results == nil {
		results = []model.SearchResult{}
	}
	outcome.results = results
	return outcome, nil
}

// fallbackFetch doubles the candidate count for the approximate fallback,
// saturating instead of overflowing.
func fallbackFetch(fetch int) int {
	if fetch > math.MaxInt/2 {
		return math.MaxInt
	}
	return fetch * 2
}

// sendLookupError maps a search failure to an HTTP error.
func (api *API) sendLookupError(c *gin.Context, err error) {
	api.logger.Error("Search failed", zap.Error(err))
	if errors.Is(err, internalErrors.ErrDatasetUnavailable) {
		SendDatasetUnavailableError(c, err)
		return
	}
	SendSearchError(c, err)
}

// trackSearch records an analytics event without delaying the response.
func (api *API) trackSearch(query string, outcome lookupOutcome, took time.Duration) {
	if api.analytics == nil {
		return
	}
	event := model.SearchEvent{
		Query:        query,
		SearchType:   outcome.searchType,
		ResponseTime: took,
		ResultCount:  len(outcome.results),
	}
	go func() {
		if err := api.analytics.TrackSearchEvent(event); err != nil {
			api.logger.Warn("Failed to track search event", zap.Error(err))
		}
	}()
}

// SearchHandler handles GET /search?q=&limit=&inactive=&ai=
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()

	params, validation := ParseSearchParams(c, api.settings.DefaultLimit)
	if validation.HasErrors() {
		SendStructuredValidationError(c, validation)
		return
	}

	outcome, err := api.lookup(c.Request.Context(), params)
	if err != nil {
		api.sendLookupError(c, err)
		return
	}

	took := time.Since(startTime)
	api.trackSearch(params.Query, outcome, took)

	c.JSON(http.StatusOK, model.SearchResponse{
		Query:       params.Query,
		Count:       len(outcome.results),
		Results:     outcome.results,
		AI:          outcome.ai,
		Approximate: outcome.approximate,
		QueryID:     uuid.New().String(),
		Took:        took.Milliseconds(),
	})
}

// ExportHandler handles GET /search/export?q=&limit=&inactive=&ai=&format=
// and returns the same results as /search as an XLSX workbook (default) or a
// JSON document.
func (api *API) ExportHandler(c *gin.Context) {
	startTime := time.Now()

	params, validation := ParseSearchParams(c, api.settings.DefaultLimit)
	format := c.DefaultQuery("format", FormatXLSX)
	if formatValidation := ValidateExportFormat(format); formatValidation.HasErrors() {
		for _, e := range formatValidation.Errors {
			validation.AddError(e.Field, e.Message)
		}
	}
	if validation.HasErrors() {
		SendStructuredValidationError(c, validation)
		return
	}

	outcome, err := api.lookup(c.Request.Context(), params)
	if err != nil {
		api.sendLookupError(c, err)
		return
	}
	api.trackSearch(params.Query, outcome, time.Since(startTime))

	var (
		data        []byte
		contentType string
	)
	switch format {
	case FormatJSON:
		data, err = export.JSON(params.Query, outcome.results, time.Now())
		contentType = "application/json; charset=utf-8"
	default:
		data, err = export.XLSX(outcome.results)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		api.logger.Error("Export failed", zap.String("format", format), zap.Error(err))
		SendExportError(c, format, err)
		return
	}

	filename := fmt.Sprintf("meddra-%s.%s", startTime.Format("20060102-150405"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
