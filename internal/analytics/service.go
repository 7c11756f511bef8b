// Package analytics keeps a bounded in-memory log of search events and
// exposes search counters to Prometheus.
package analytics

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gcbaptista/go-meddra-lookup/model"
	"github.com/gcbaptista/go-meddra-lookup/services"
)

const (
	maxEventsToKeep     = 10000 // Keep last 10k events for performance
	popularSearchesSize = 5
	metricsNamespace    = "meddra"
)

// Service implements analytics tracking and reporting
type Service struct {
	mutex     sync.RWMutex
	events    []model.SearchEvent
	maxEvents int
	stats     services.StatsProvider
	now       func() time.Time

	searches  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	noResults prometheus.Counter
}

// NewService creates an analytics service. Dataset sizes are read from stats
// when it is not nil. Metrics are registered on registerer when it is not nil.
func NewService(stats services.StatsProvider, registerer prometheus.Registerer) (*Service, error) {
	service := &Service{
		events:    make([]model.SearchEvent, 0),
		maxEvents: maxEventsToKeep,
		stats:     stats,
		now:       time.Now,
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "searches_total",
			Help:      "Number of searches served, by search type.",
		}, []string{"type"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "search_duration_seconds",
			Help:      "Search latency, by search type.",
			Buckets:   []float64{0.005, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5, 30, 60},
		}, []string{"type"}),
		noResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "searches_without_results_total",
			Help:      "Number of searches that returned no results.",
		}),
	}

	if registerer != nil {
		for _, collector := range []prometheus.Collector{service.searches, service.latency, service.noResults} {
			if err := registerer.Register(collector); err != nil {
				return nil, fmt.Errorf("failed to register analytics metrics: %w", err)
			}
		}
	}
	return service, nil
}

// TrackSearchEvent records a new search event
func (s *Service) TrackSearchEvent(event model.SearchEvent) error {
	if event.SearchType == "" {
		return fmt.Errorf("search event for '%s' has no search type", event.Query)
	}

	s.searches.WithLabelValues(event.SearchType).Inc()
	s.latency.WithLabelValues(event.SearchType).Observe(event.ResponseTime.Seconds())
	if event.ResultCount == 0 {
		s.noResults.Inc()
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	event.Timestamp = s.now()
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > s.maxEvents {
		s.events = s.events[len(s.events)-s.maxEvents:]
	}
	return nil
}

// GetDashboardData returns complete analytics dashboard data
func (s *Service) GetDashboardData() (model.AnalyticsDashboard, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := s.now()
	last24hEvents := filterEventsByTime(s.events, now.Add(-24*time.Hour))
	lastWeekEvents := filterEventsByTime(s.events, now.Add(-7*24*time.Hour))

	dashboard := model.AnalyticsDashboard{
		TotalSearches:            len(last24hEvents),
		AvgResponseTime:          calculateAvgResponseTime(last24hEvents),
		PopularSearches:          getPopularSearches(lastWeekEvents),
		ResponseTimeDistribution: getResponseTimeDistribution(last24hEvents),
		SearchTypes:              getSearchTypeStats(last24hEvents),
	}
	if s.stats != nil {
		dashboard.Dataset = s.stats.Stats()
	}
	return dashboard, nil
}

// filterEventsByTime returns events after the given time
func filterEventsByTime(events []model.SearchEvent, after time.Time) []model.SearchEvent {
	var filtered []model.SearchEvent
	for _, event := range events {
		if event.Timestamp.After(after) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

// getPopularSearches returns the most popular queries, ties broken by query text
func getPopularSearches(events []model.SearchEvent) []model.PopularSearch {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if event.Query != "" {
			queryCounts[event.Query]++
		}
	}

	popular := make([]model.PopularSearch, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}

	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > popularSearchesSize {
		popular = popular[:popularSearchesSize]
	}
	return popular
}

// getResponseTimeDistribution returns response time distribution
func getResponseTimeDistribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)
	if total == 0 {
		return dist
	}

	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 25:
			dist.Bucket0To25ms++
		case ms <= 50:
			dist.Bucket25To50ms++
		case ms <= 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	dist.Percentage0To25 = float64(dist.Bucket0To25ms) / float64(total) * 100
	dist.Percentage25To50 = float64(dist.Bucket25To50ms) / float64(total) * 100
	dist.Percentage50To100 = float64(dist.Bucket50To100ms) / float64(total) * 100
	dist.Percentage100Plus = float64(dist.Bucket100msPlus) / float64(total) * 100
	return dist
}

// getSearchTypeStats returns statistics for different search types
func getSearchTypeStats(events []model.SearchEvent) model.SearchTypeStats {
	stats := model.SearchTypeStats{}
	for _, event := range events {
		switch event.SearchType {
		case model.SearchTypeExact:
			stats.Exact++
		case model.SearchTypeApproximate:
			stats.Approximate++
		case model.SearchTypeAI:
			stats.AI++
		}
		if event.ResultCount == 0 {
			stats.NoResults++
		}
	}
	return stats
}
