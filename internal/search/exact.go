package search

import (
	"sort"

	"github.com/gcbaptista/go-meddra-lookup/internal/tokenizer"
	"github.com/gcbaptista/go-meddra-lookup/model"
)

// Exact score parameters. Positions and lengths are counted in characters.
const (
	maxExactScore      = 100
	minExactScore      = 5
	positionPenalty    = 6
	maxPositionPenalty = 45
	lengthPenalty      = 2
	maxLengthPenalty   = 35
	inactivePenalty    = 20
)

// ExactScore rates a substring match found at position in a name of nameLen
// characters for a query of queryLen characters. Early, tight matches of
// active terms score highest; the result is never below 5.
func ExactScore(position, nameLen, queryLen int, active bool) int {
	diff := nameLen - queryLen
	if diff < 0 {
		diff = -diff
	}
	score := maxExactScore -
		min(positionPenalty*position, maxPositionPenalty) -
		min(lengthPenalty*diff, maxLengthPenalty)
	if !active {
		score -= inactivePenalty
	}
	return max(score, minExactScore)
}

// Search returns the terms whose case-folded name contains the case-folded
// query, best first. An empty query matches every term. Terms whose PT is
// missing are skipped. It fails only when a table cannot be loaded.
func (s *Service) Search(query string, limit int, includeInactive bool) ([]model.SearchResult, error) {
	idx, pts, hier, err := s.tables()
	if err != nil {
		return nil, err
	}

	folded := tokenizer.Fold(query)
	queryLen := tokenizer.RuneLen(folded)

	var hits []hit
	for _, entry := range idx.Entries() {
		term := entry.Term
		if !includeInactive && !term.Active {
			continue
		}
		position := tokenizer.RuneIndex(entry.Folded, folded)
		if position < 0 {
			continue
		}
		pt, ok := pts[term.PreferredCode]
		if !ok {
			continue
		}
		score := ExactScore(position, entry.FoldedLen, queryLen, term.Active)
		hits = append(hits, hit{term: term, pt: pt, score: float64(score), folded: entry.Folded})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.term.Active != b.term.Active {
			return a.term.Active
		}
		return a.folded < b.folded
	})

	return assemblePage(hits, hier, limit), nil
}
