package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gcbaptista/go-meddra-lookup/model"
)

// Document is the JSON export envelope.
type Document struct {
	Query      string               `json:"query"`
	Count      int                  `json:"count"`
	ExportedAt time.Time            `json:"exported_at"`
	Results    []model.SearchResult `json:"results"`
}

// JSON renders results as an indented JSON document.
func JSON(query string, results []model.SearchResult, exportedAt time.Time) ([]byte, error) {
	if results == nil {
		results = []model.SearchResult{}
	}
	data, err := json.MarshalIndent(Document{
		Query:      query,
		Count:      len(results),
		ExportedAt: exportedAt,
		Results:    results,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}
