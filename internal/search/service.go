// Package search ranks lowest level terms against a free-text symptom query.
// Exact search matches case-folded substrings; approximate search scores
// normalized names and their synonyms by character similarity.
package search

import (
	"sync"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-meddra-lookup/index"
	"github.com/gcbaptista/go-meddra-lookup/internal/logging"
	"github.com/gcbaptista/go-meddra-lookup/internal/typoutil"
	"github.com/gcbaptista/go-meddra-lookup/model"
	"github.com/gcbaptista/go-meddra-lookup/services"
)

// Service implements services.Searcher over a dataset.
// It is safe for concurrent use; the term index is built on first use.
type Service struct {
	source     services.TermSource
	similarity typoutil.Similarity
	synonyms   map[string][]string
	logger     *zap.Logger

	indexOnce sync.Once
	index     *index.TermIndex
	indexErr  error
}

// Option configures a Service.
type Option func(*Service)

// WithSimilarity sets the measure used by SearchApproximate.
func WithSimilarity(measure typoutil.Similarity) Option {
	return func(s *Service) {
		if measure != nil {
			s.similarity = measure
		}
	}
}

// WithSynonyms replaces the built-in synonym table.
func WithSynonyms(synonyms map[string][]string) Option {
	return func(s *Service) {
		s.synonyms = synonyms
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a search Service reading from source.
func NewService(source services.TermSource, opts ...Option) *Service {
	s := &Service{
		source:     source,
		similarity: typoutil.Ratio,
		synonyms:   DefaultSynonyms(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)
	return s
}

// Prepare builds the term index and loads the PT and hierarchy tables now
// instead of on the first query.
func (s *Service) Prepare() error {
	_, _, _, err := s.tables()
	return err
}

func (s *Service) termIndex() (*index.TermIndex, error) {
	s.indexOnce.Do(func() {
		terms, err := s.source.LowestLevelTerms()
		if err != nil {
			s.indexErr = err
			return
		}
		s.index = index.Build(terms, s.synonyms)
		s.logger.Debug("Built term index", zap.Int("terms", s.index.Len()))
	})
	return s.index, s.indexErr
}

func (s *Service) tables() (*index.TermIndex, map[string]model.PreferredTerm, map[string][]model.HierarchyEntry, error) {
	pts, err := s.source.PreferredTerms()
	if err != nil {
		return nil, nil, nil, err
	}
	hier, err := s.source.Hierarchy()
	if err != nil {
		return nil, nil, nil, err
	}
	idx, err := s.termIndex()
	if err != nil {
		return nil, nil, nil, err
	}
	return idx, pts, hier, nil
}

// hit is a ranked match kept light until the final page is known.
type hit struct {
	term    model.LowestLevelTerm
	pt      model.PreferredTerm
	score   float64
	folded  string
	nameLen int
}

// assemblePage builds results for the first limit hits only. A non-positive
// limit yields no results.
func assemblePage(hits []hit, hier map[string][]model.HierarchyEntry, limit int) []model.SearchResult {
	if limit <= 0 || len(hits) == 0 {
		return []model.SearchResult{}
	}
	hits = hits[:min(limit, len(hits))]
	results := make([]model.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = assembleResult(h.term, h.pt, hier[h.pt.Code], h.score)
	}
	return results
}
