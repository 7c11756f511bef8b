// Package rerank reorders search candidates with an external ranking
// capability and degrades to the prior order when it fails.
package rerank

import (
	"context"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-meddra-lookup/internal/logging"
	"github.com/gcbaptista/go-meddra-lookup/model"
	"github.com/gcbaptista/go-meddra-lookup/services"
)

// Apply asks ranker to order candidates and returns at most limit results.
// Ranked candidates come first with the ranker's score and reason, followed by
// the candidates it did not mention in their prior order. Rankings for unknown
// or repeated codes are ignored. When the ranker fails the prior order is
// returned and reranked is false; the failure is logged, never returned.
func Apply(ctx context.Context, ranker services.Ranker, query string, candidates []model.SearchResult, limit int, logger *zap.Logger) (results []model.SearchResult, reranked bool) {
	logger = logging.OrNop(logger)
	if len(candidates) == 0 || ranker == nil {
		return truncate(candidates, limit), false
	}

	rankings, err := ranker.Rank(ctx, query, candidates)
	if err != nil {
		logger.Warn("Re-ranking failed, keeping prior order",
			zap.String("query", query),
			zap.Int("candidates", len(candidates)),
			zap.Error(err),
		)
		return truncate(candidates, limit), false
	}

	byCode := make(map[string]int, len(candidates))
	for i, candidate := range candidates {
		if _, seen := byCode[candidate.LLTCode]; !seen {
			byCode[candidate.LLTCode] = i
		}
	}

	ordered := make([]model.SearchResult, 0, len(candidates))
	used := make(map[string]struct{}, len(rankings))
	for _, ranking := range rankings {
		i, ok := byCode[ranking.Code]
		if !ok {
			continue
		}
		if _, dup := used[ranking.Code]; dup {
			continue
		}
		item := candidates[i]
		item.Score = ranking.Score
		item.AIReason = ranking.Reason
		ordered = append(ordered, item)
		used[ranking.Code] = struct{}{}
	}
	for _, candidate := range candidates {
		if _, ok := used[candidate.LLTCode]; !ok {
			ordered = append(ordered, candidate)
		}
	}

	logger.Debug("Re-ranked candidates",
		zap.String("query", query),
		zap.Int("ranked", len(used)),
		zap.Int("candidates", len(candidates)),
	)
	return truncate(ordered, limit), true
}

func truncate(results []model.SearchResult, limit int) []model.SearchResult {
	if limit <= 0 || len(results) == 0 {
		return []model.SearchResult{}
	}
	if len(results) > limit {
		return results[:limit]
	}
	return results
}
