package services

import (
	"context"

	"github.com/gcbaptista/go-meddra-lookup/model"
)

// TermSource gives read access to the three reference tables.
type TermSource interface {
	LowestLevelTerms() ([]model.LowestLevelTerm, error)
	PreferredTerms() (map[string]model.PreferredTerm, error)
	Hierarchy() (map[string][]model.HierarchyEntry, error)
}

// StatsProvider reports dataset sizes without triggering a load.
type StatsProvider interface {
	Stats() model.DatasetStats
}

// Searcher defines the two ranking entry points.
type Searcher interface {
	Search(query string, limit int, includeInactive bool) ([]model.SearchResult, error)
	SearchApproximate(query string, limit int, includeInactive bool) ([]model.SearchResult, error)
}

// Ranker reorders candidates using an external capability. Implementations
// may fail; callers fall back to the prior order.
type Ranker interface {
	Rank(ctx context.Context, query string, candidates []model.SearchResult) ([]model.Ranking, error)
}

// AnalyticsTracker records search events and reports on them.
type AnalyticsTracker interface {
	TrackSearchEvent(event model.SearchEvent) error
	GetDashboardData() (model.AnalyticsDashboard, error)
}
