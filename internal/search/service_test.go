package search

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-meddra-lookup/internal/errors"
	testutil "github.com/gcbaptista/go-meddra-lookup/internal/testing"
	"github.com/gcbaptista/go-meddra-lookup/internal/tokenizer"
	"github.com/gcbaptista/go-meddra-lookup/internal/typoutil"
	"github.com/gcbaptista/go-meddra-lookup/model"
	"github.com/gcbaptista/go-meddra-lookup/store"
)

// --- Test Helpers ---

func setupTestSearchService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	root := testutil.WriteDataset(t, "", testutil.StandardFixture())
	ds, err := store.Open(root)
	require.NoError(t, err)
	return NewService(ds, opts...)
}

func names(results []model.SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.LLTName
	}
	return out
}

func scores(results []model.SearchResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Score
	}
	return out
}

func assertExactOrdering(t *testing.T, results []model.SearchResult) {
	t.Helper()
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		require.GreaterOrEqual(t, prev.Score, cur.Score, "scores must not increase at %d", i)
		if prev.Score != cur.Score {
			continue
		}
		if prev.IsActive() != cur.IsActive() {
			assert.True(t, prev.IsActive(), "active terms precede inactive at equal score (%d)", i)
			continue
		}
		assert.LessOrEqual(t, tokenizer.Fold(prev.LLTName), tokenizer.Fold(cur.LLTName), "names ordered at %d", i)
	}
}

// --- Exact search ---

func TestExactScore(t *testing.T) {
	tests := []struct {
		name      string
		position  int
		nameLen   int
		queryLen  int
		active    bool
		wantScore int
	}{
		{"exact match", 0, 2, 2, true, 100},
		{"late match", 3, 5, 2, true, 76},
		{"inactive prefix match", 0, 5, 2, false, 74},
		{"position penalty capped", 10, 12, 2, true, 100 - 45 - 20},
		{"length penalty capped", 0, 40, 2, true, 100 - 35},
		{"floored at five", 20, 60, 2, false, 5},
		{"query longer than name is symmetric", 0, 2, 5, true, 94},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantScore, ExactScore(tt.position, tt.nameLen, tt.queryLen, tt.active))
		})
	}
}

func TestSearch_HeadacheScenario(t *testing.T) {
	service := setupTestSearchService(t)

	results, err := service.Search("두통", 10, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"두통", "머리 두통", "긴장성 두통"}, names(results),
		"inactive and dangling terms must be excluded")
	assert.Equal(t, []float64{100, 76, 68}, scores(results))

	top := results[0]
	assert.Equal(t, testutil.HeadacheLLT, top.LLTCode)
	assert.Equal(t, testutil.HeadachePT, top.PTCode)
	assert.Equal(t, "두통", top.PTName)
	assert.Equal(t, "Y", top.Active)
	assert.Equal(t, testutil.NervousSystemSOC, top.SOCCode)
	assert.Equal(t, "신경계통", top.SOCName)
	assert.Equal(t, "두통", top.HLGTName)
	assert.Equal(t, "두통 NEC", top.HLTName)
	assert.Equal(t, "Nerv", top.SOCAbbrev)
	assert.Equal(t, "Y", top.PrimarySOC)

	require.Len(t, top.Hierarchies, 2)
	assert.Equal(t, "N", top.Hierarchies[0].Primary)
	assert.Equal(t, testutil.GeneralSOC, top.Hierarchies[0].SOCCode)
	assert.Equal(t, "Y", top.Hierarchies[1].Primary)
}

func TestSearch_IncludeInactive(t *testing.T) {
	service := setupTestSearchService(t)

	results, err := service.Search("두통", 10, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"두통", "머리 두통", "두통 발작", "긴장성 두통"}, names(results))
	assert.Equal(t, []float64{100, 76, 74, 68}, scores(results))
	assertExactOrdering(t, results)
}

func TestSearch_InactiveOnlyTerm(t *testing.T) {
	service := setupTestSearchService(t)

	results, err := service.Search("열병", 10, false)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = service.Search("열병", 10, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, testutil.InactiveFeverLLT, results[0].LLTCode)
	assert.Equal(t, "N", results[0].Active)
	assert.LessOrEqual(t, results[0].Score, 80.0)
}

func TestSearch_TwoUnflaggedPathsUseFirstInSourceOrder(t *testing.T) {
	service := setupTestSearchService(t)

	results, err := service.Search("복통", 1, false)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, testutil.GastroSOC, results[0].SOCCode,
		"first row in source order wins even though its code is larger")
	assert.Equal(t, "N", results[0].PrimarySOC)
	assert.Len(t, results[0].Hierarchies, 2)
}

func TestSearch_NoHierarchyFallsBackToPTSOC(t *testing.T) {
	service := setupTestSearchService(t)

	results, err := service.Search("발열", 1, false)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, testutil.GeneralSOC, results[0].SOCCode)
	assert.Empty(t, results[0].SOCName)
	assert.Empty(t, results[0].PrimarySOC)
	assert.Empty(t, results[0].Hierarchies)
}

func TestSearch_EmptyQueryMatchesEverything(t *testing.T) {
	service := setupTestSearchService(t)

	results, err := service.Search("", 100, false)
	require.NoError(t, err)
	assert.Len(t, results, 10, "every active term with a PT matches")
	assertExactOrdering(t, results)
}

func TestSearch_SubstringProperty(t *testing.T) {
	service := setupTestSearchService(t)

	for _, query := range []string{"두", "두통", "구", "구역", "통", "열", "복통", " 두통", "x"} {
		for _, includeInactive := range []bool{false, true} {
			results, err := service.Search(query, 100, includeInactive)
			require.NoError(t, err)
			for _, r := range results {
				assert.True(t, strings.Contains(tokenizer.Fold(r.LLTName), tokenizer.Fold(query)),
					"%q is not a substring of %q", query, r.LLTName)
				if !includeInactive {
					assert.True(t, r.IsActive())
				}
			}
			assertExactOrdering(t, results)
		}
	}
}

func TestSearch_PrefixStableUnderLimit(t *testing.T) {
	service := setupTestSearchService(t)

	full, err := service.Search("", 100, true)
	require.NoError(t, err)
	require.NotEmpty(t, full)

	for limit := 0; limit <= len(full)+2; limit++ {
		results, err := service.Search("", limit, true)
		require.NoError(t, err)
		want := limit
		if want > len(full) {
			want = len(full)
		}
		require.Len(t, results, want)
		assert.Equal(t, full[:want], results, "limit %d must be a prefix", limit)
	}
}

func TestSearch_NonPositiveLimit(t *testing.T) {
	service := setupTestSearchService(t)

	for _, limit := range []int{0, -1} {
		results, err := service.Search("두통", limit, false)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
}

func TestSearch_DeterministicAcrossLoads(t *testing.T) {
	first := setupTestSearchService(t)
	second := setupTestSearchService(t)

	for _, query := range []string{"", "두통", "구"} {
		a, err := first.Search(query, 50, true)
		require.NoError(t, err)
		b, err := second.Search(query, 50, true)
		require.NoError(t, err)
		assert.Equal(t, a, b, "query %q", query)

		a, err = first.SearchApproximate(query+"질남", 50, true)
		require.NoError(t, err)
		b, err = second.SearchApproximate(query+"질남", 50, true)
		require.NoError(t, err)
		assert.Equal(t, a, b, "approximate query %q", query)
	}
}

func TestSearch_MissingTable(t *testing.T) {
	root := testutil.WriteDataset(t, "", testutil.StandardFixture())
	testutil.RemoveTable(t, root, store.PTFile)
	ds, err := store.Open(root)
	require.NoError(t, err)
	service := NewService(ds)

	_, err = service.Search("두통", 10, false)
	assert.ErrorIs(t, err, internalErrors.ErrDatasetUnavailable)
	_, err = service.SearchApproximate("두통", 10, false)
	assert.ErrorIs(t, err, internalErrors.ErrDatasetUnavailable)
	assert.ErrorIs(t, service.Prepare(), internalErrors.ErrDatasetUnavailable)
}

func TestSearch_ConcurrentQueries(t *testing.T) {
	service := setupTestSearchService(t)
	want, err := setupTestSearchService(t).Search("두통", 10, true)
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	got := make([][]model.SearchResult, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = service.Search("두통", 10, true)
		}(i)
	}
	wg.Wait()

	for i := range got {
		assert.Equal(t, want, got[i])
	}
}

// --- Approximate search ---

func TestSearchApproximate_SynonymBridgesLayPhrasing(t *testing.T) {
	service := setupTestSearchService(t)

	exact, err := service.Search("피가 모자람", 10, false)
	require.NoError(t, err)
	assert.Empty(t, exact, "lay phrasing never substring-matches the clinical term")

	results, err := service.SearchApproximate("피가 모자람", 10, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, testutil.AnaemiaPT, results[0].LLTCode)
	assert.Equal(t, 100.0, results[0].Score)
	assert.Equal(t, testutil.BloodSOC, results[0].SOCCode)
	assert.Equal(t, "N", results[0].PrimarySOC)
}

func TestSearchApproximate_Typo(t *testing.T) {
	service := setupTestSearchService(t)

	results, err := service.SearchApproximate("구역질남", 10, false)
	require.NoError(t, err)
	require.Equal(t, []string{"구역질", "구역", "구토"}, names(results))

	assert.Equal(t, 100.0, results[0].Score)
	assert.InDelta(t, (2.0*2/6+typoutil.PrefixBoost)*100+5, results[1].Score, 1e-9)
	assert.InDelta(t, 2.0*1/6*100+5, results[2].Score, 1e-9)
}

func TestSearchApproximate_NoiseFloor(t *testing.T) {
	service := setupTestSearchService(t)
	synonyms := DefaultSynonyms()

	for _, query := range []string{"구역질남", "두통약", "피부족", "머리가 아픔", "열", "abc"} {
		results, err := service.SearchApproximate(query, 100, true)
		require.NoError(t, err)
		normalized := tokenizer.Normalize(query)
		for _, r := range results {
			variants := []string{tokenizer.Normalize(r.LLTName)}
			for _, s := range synonyms[r.LLTName] {
				variants = append(variants, tokenizer.Normalize(s))
			}
			assert.GreaterOrEqual(t, Similarity(typoutil.Ratio, normalized, variants), MinSimilarity,
				"%q returned %q below the floor", query, r.LLTName)
			assert.LessOrEqual(t, r.Score, 100.0)
		}
	}
}

func TestSearchApproximate_Ordering(t *testing.T) {
	service := setupTestSearchService(t)

	results, err := service.SearchApproximate("두통", 100, true)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "두통", results[0].LLTName)

	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		require.GreaterOrEqual(t, prev.Score, cur.Score)
		if prev.Score == cur.Score && prev.IsActive() == cur.IsActive() {
			assert.LessOrEqual(t, tokenizer.RuneLen(prev.LLTName), tokenizer.RuneLen(cur.LLTName))
		}
		if prev.Score == cur.Score && prev.IsActive() != cur.IsActive() {
			assert.True(t, prev.IsActive())
		}
	}
}

func TestSearchApproximate_BlankQuery(t *testing.T) {
	service := setupTestSearchService(t)

	for _, query := range []string{"", "   ", "\t\n"} {
		results, err := service.SearchApproximate(query, 10, true)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
}

func TestSearchApproximate_Limit(t *testing.T) {
	service := setupTestSearchService(t)

	full, err := service.SearchApproximate("구역질남", 10, false)
	require.NoError(t, err)
	limited, err := service.SearchApproximate("구역질남", 2, false)
	require.NoError(t, err)
	assert.Equal(t, full[:2], limited)
}

func TestSearchApproximate_LevenshteinMeasure(t *testing.T) {
	service := setupTestSearchService(t, WithSimilarity(typoutil.LevenshteinSimilarity))

	results, err := service.SearchApproximate("구역질남", 10, false)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "구역질", results[0].LLTName)
	assert.InDelta(t, (0.75+typoutil.PrefixBoost)*100+5, results[0].Score, 1e-9)
}

func TestSearchApproximate_CustomSynonyms(t *testing.T) {
	service := setupTestSearchService(t, WithSynonyms(map[string][]string{
		"설사": {"배탈"},
	}))

	results, err := service.SearchApproximate("배탈", 10, false)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, testutil.DiarrhoeaPT, results[0].LLTCode)

	results, err = service.SearchApproximate("피가 모자람", 10, false)
	require.NoError(t, err)
	assert.Empty(t, results, "replacing the table drops the built-in synonyms")
}

func TestAssemblePage_BuildsOnlyTheRequestedPage(t *testing.T) {
	pt := model.PreferredTerm{Code: "p", Name: "pt", PrimarySOCCode: "s"}
	hier := map[string][]model.HierarchyEntry{
		"p": {{PreferredCode: "p", SOCCode: "s", SOCName: "soc", Primary: true}},
	}
	hits := []hit{
		{term: model.LowestLevelTerm{Code: "1", Name: "a", PreferredCode: "p", Active: true}, pt: pt, score: 90},
		{term: model.LowestLevelTerm{Code: "2", Name: "b", PreferredCode: "p", Active: true}, pt: pt, score: 80},
		{term: model.LowestLevelTerm{Code: "3", Name: "c", PreferredCode: "p"}, pt: pt, score: 70},
	}

	page := assemblePage(hits, hier, 2)
	require.Len(t, page, 2)
	assert.Equal(t, assembleResult(hits[0].term, pt, hier["p"], 90), page[0])
	assert.Equal(t, "2", page[1].LLTCode)
	assert.Equal(t, "soc", page[1].SOCName)

	assert.Len(t, assemblePage(hits, hier, 10), 3)
	for _, limit := range []int{0, -1} {
		empty := assemblePage(hits, hier, limit)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	}
	assert.NotNil(t, assemblePage(nil, hier, 5))
}

func TestSearch_LimitedPageCarriesFullResults(t *testing.T) {
	service := setupTestSearchService(t)

	for _, search := range []func(string, int, bool) ([]model.SearchResult, error){service.Search, service.SearchApproximate} {
		full, err := search("두통", 100, true)
		require.NoError(t, err)
		require.NotEmpty(t, full)

		page, err := search("두통", 1, true)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, full[0], page[0])
		assert.NotEmpty(t, page[0].Hierarchies)
	}
}

func TestNewService_DefaultSynonymsAreACopy(t *testing.T) {
	service := setupTestSearchService(t)
	service.synonyms["빈혈"] = nil

	assert.NotEmpty(t, DefaultSynonyms()["빈혈"])
}
