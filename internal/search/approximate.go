package search

import (
	"math"
	"sort"

	"github.com/gcbaptista/go-meddra-lookup/internal/tokenizer"
	"github.com/gcbaptista/go-meddra-lookup/internal/typoutil"
	"github.com/gcbaptista/go-meddra-lookup/model"
)

// MinSimilarity is the noise floor below which approximate candidates are dropped.
const MinSimilarity = 0.25

const activeBonus = 5

// Similarity returns the best boosted similarity between a normalized query
// and any of the normalized variants.
func Similarity(measure typoutil.Similarity, query string, variants []string) float64 {
	best := 0.0
	for _, variant := range variants {
		best = math.Max(best, typoutil.BoostedSimilarity(measure, query, variant))
	}
	return best
}

// SearchApproximate ranks terms by character similarity of their normalized
// names and synonyms to the normalized query. Candidates below MinSimilarity
// are dropped. A query that normalizes to nothing returns no results.
func (s *Service) SearchApproximate(query string, limit int, includeInactive bool) ([]model.SearchResult, error) {
	idx, pts, hier, err := s.tables()
	if err != nil {
		return nil, err
	}

	normalized := tokenizer.Normalize(query)
	if normalized == "" {
		return []model.SearchResult{}, nil
	}

	var hits []hit
	for _, entry := range idx.Entries() {
		term := entry.Term
		if !includeInactive && !term.Active {
			continue
		}
		pt, ok := pts[term.PreferredCode]
		if !ok || len(entry.Variants) == 0 {
			continue
		}
		similarity := Similarity(s.similarity, normalized, entry.Variants)
		if similarity < MinSimilarity {
			continue
		}
		score := similarity * 100
		if term.Active {
			score += activeBonus
		}
		score = math.Min(100, score)
		hits = append(hits, hit{term: term, pt: pt, score: score, nameLen: entry.NameLen})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.term.Active != b.term.Active {
			return a.term.Active
		}
		return a.nameLen < b.nameLen
	})

	return assemblePage(hits, hier, limit), nil
}
