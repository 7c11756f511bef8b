package model

import "time"

// Search types recorded by the analytics service.
const (
	SearchTypeExact       = "exact"
	SearchTypeApproximate = "approximate"
	SearchTypeAI          = "ai"
)

// SearchEvent represents a single search event for analytics tracking
type SearchEvent struct {
	Query        string        `json:"query"`
	SearchType   string        `json:"search_type"` // "exact", "approximate", "ai"
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for popular search terms
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To25ms     int     `json:"bucket_0_25ms"`
	Bucket25To50ms    int     `json:"bucket_25_50ms"`
	Bucket50To100ms   int     `json:"bucket_50_100ms"`
	Bucket100msPlus   int     `json:"bucket_100ms_plus"`
	Percentage0To25   float64 `json:"percentage_0_25"`
	Percentage25To50  float64 `json:"percentage_25_50"`
	Percentage50To100 float64 `json:"percentage_50_100"`
	Percentage100Plus float64 `json:"percentage_100_plus"`
}

// SearchTypeStats represents statistics for different search types
type SearchTypeStats struct {
	Exact       int `json:"exact"`
	Approximate int `json:"approximate"`
	AI          int `json:"ai"`
	NoResults   int `json:"no_results"`
}

// DatasetStats describes the loaded reference tables.
type DatasetStats struct {
	LowestLevelTerms int  `json:"llt_count"`
	PreferredTerms   int  `json:"pt_count"`
	HierarchyEntries int  `json:"hierarchy_count"`
	DroppedRows      int  `json:"dropped_rows"`
	Loaded           bool `json:"loaded"`
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	TotalSearches            int                      `json:"total_searches"`
	AvgResponseTime          int64                    `json:"avg_response_time"` // in milliseconds
	PopularSearches          []PopularSearch          `json:"popular_searches"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
	SearchTypes              SearchTypeStats          `json:"search_types"`
	Dataset                  DatasetStats             `json:"dataset"`
}
