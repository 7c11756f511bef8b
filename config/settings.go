// Package config provides configuration structures for the MedDRA lookup service.
// It defines server, dataset, ranking and logging options.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported similarity measures for the approximate ranker.
const (
	SimilarityRatcliff    = "ratcliff"
	SimilarityLevenshtein = "levenshtein"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultHost         = "127.0.0.1"
	DefaultPort         = 8000
	DefaultDatasetDir   = "ascii-281"
	DefaultLimit        = 10
	MaxLimit            = 1000
	DefaultAIFetchFloor = 25
	DefaultRerankModel  = "gemini-2.5-flash"
	DefaultRerankURL    = "https://generativelanguage.googleapis.com"
	DefaultRerankTime   = 60 * time.Second
)

// RerankSettings configures the optional external re-ranking capability.
// An empty APIKey disables it.
type RerankSettings struct {
	APIKey  string        `json:"-"`
	Model   string        `json:"model"`
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// Enabled reports whether a re-ranking credential is configured.
func (r RerankSettings) Enabled() bool {
	return strings.TrimSpace(r.APIKey) != ""
}

// LogSettings configures the zap logger.
type LogSettings struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json or console
}

// Settings contains all configuration options for the lookup service.
// It is built once at startup and passed explicitly to the components that need it.
type Settings struct {
	Host                string         `json:"host"`
	Port                int            `json:"port"`
	DataRoot            string         `json:"data_root"`            // Directory containing DatasetDir
	DatasetDir          string         `json:"dataset_dir"`          // Subdirectory holding llt.asc, pt.asc and mdhier.asc
	UIPath              string         `json:"ui_path"`              // HTML page served at "/" (built-in page if missing)
	DefaultLimit        int            `json:"default_limit"`        // Used when the limit parameter is missing or invalid
	AIFetchFloor        int            `json:"ai_fetch_floor"`       // Minimum candidate count fetched before re-ranking
	ApproximateFallback bool           `json:"approximate_fallback"` // Use the approximate ranker when exact search finds nothing
	Similarity          string         `json:"similarity"`           // "ratcliff" or "levenshtein"
	EagerLoad           bool           `json:"eager_load"`           // Parse all tables at startup instead of on first query
	LoadWorkers         int            `json:"load_workers"`         // Pool size used for eager loading
	Rerank              RerankSettings `json:"rerank"`
	Log                 LogSettings    `json:"log"`
}

// Default returns settings with every default applied.
func Default() Settings {
	s := Settings{ApproximateFallback: true}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults applies default values to unset fields
func (s *Settings) ApplyDefaults() {
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.DataRoot == "" {
		s.DataRoot = "."
	}
	if s.DatasetDir == "" {
		s.DatasetDir = DefaultDatasetDir
	}
	if s.UIPath == "" {
		s.UIPath = "index.html"
	}
	if s.DefaultLimit <= 0 {
		s.DefaultLimit = DefaultLimit
	}
	if s.AIFetchFloor <= 0 {
		s.AIFetchFloor = DefaultAIFetchFloor
	}
	if s.Similarity == "" {
		s.Similarity = SimilarityRatcliff
	}
	if s.LoadWorkers <= 0 {
		s.LoadWorkers = 3
	}
	if s.Rerank.Model == "" {
		s.Rerank.Model = DefaultRerankModel
	}
	if s.Rerank.BaseURL == "" {
		s.Rerank.BaseURL = DefaultRerankURL
	}
	if s.Rerank.Timeout <= 0 {
		s.Rerank.Timeout = DefaultRerankTime
	}
	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
	if s.Log.Format == "" {
		s.Log.Format = "console"
	}
}

// ApplyEnv overrides settings from environment variables. Values already
// set by flags take precedence for the API key.
func (s *Settings) ApplyEnv() {
	if s.Rerank.APIKey == "" {
		s.Rerank.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if v := os.Getenv("MEDDRA_DATA_ROOT"); v != "" {
		s.DataRoot = v
	}
	if v := os.Getenv("MEDDRA_LOG_LEVEL"); v != "" {
		s.Log.Level = v
	}
	if v := os.Getenv("MEDDRA_DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.DefaultLimit = n
		}
	}
}

// Validate checks the settings and returns a list of problems found
func (s *Settings) Validate() []string {
	var problems []string

	if s.Port < 1 || s.Port > 65535 {
		problems = append(problems, "port must be between 1 and 65535, got "+strconv.Itoa(s.Port))
	}
	if strings.TrimSpace(s.DataRoot) == "" {
		problems = append(problems, "data_root cannot be empty")
	}
	if strings.TrimSpace(s.DatasetDir) == "" {
		problems = append(problems, "dataset_dir cannot be empty")
	}
	if s.DefaultLimit < 1 {
		problems = append(problems, "default_limit must be positive")
	}
	if s.Similarity != SimilarityRatcliff && s.Similarity != SimilarityLevenshtein {
		problems = append(problems, "Invalid similarity '"+s.Similarity+"' (must be 'ratcliff' or 'levenshtein')")
	}
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, "Invalid log level '"+s.Log.Level+"'")
	}
	if s.Log.Format != "json" && s.Log.Format != "console" {
		problems = append(problems, "Invalid log format '"+s.Log.Format+"' (must be 'json' or 'console')")
	}

	return problems
}

// Addr returns the host:port pair the server listens on.
func (s *Settings) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}
