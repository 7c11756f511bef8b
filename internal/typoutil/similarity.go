// Package typoutil provides character-level similarity measures used to
// tolerate typos and lay phrasings in symptom queries.
package typoutil

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/gcbaptista/go-meddra-lookup/internal/tokenizer"
)

// Boosts added to a raw similarity when the query and a variant share a
// substring or prefix relation.
const (
	SubstringBoost = 0.15
	PrefixBoost    = 0.10
)

// Similarity returns a symmetric score in [0,1], 1 for identical strings.
type Similarity func(a, b string) float64

// Ratio is the Ratcliff/Obershelp ratio 2*M/T computed over runes, where M is
// the number of characters in matching blocks and T the total length.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(tokenizer.Characters(a), tokenizer.Characters(b)).Ratio()
}

// ByName resolves a configured similarity measure.
func ByName(name string) (Similarity, error) {
	switch name {
	case "", "ratcliff":
		return Ratio, nil
	case "levenshtein":
		return LevenshteinSimilarity, nil
	default:
		return nil, fmt.Errorf("unknown similarity measure '%s'", name)
	}
}

// BoostedSimilarity scores a normalized query against one normalized variant.
// The query being contained in the variant earns SubstringBoost; otherwise a
// prefix relation in either direction earns PrefixBoost. The result may exceed 1.
func BoostedSimilarity(measure Similarity, query, variant string) float64 {
	score := measure(query, variant)
	if strings.Contains(variant, query) {
		score += SubstringBoost
	} else if strings.HasPrefix(variant, query) || strings.HasPrefix(query, variant) {
		score += PrefixBoost
	}
	return score
}
