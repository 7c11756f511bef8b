package typoutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"both empty", "", "", 1.0},
		{"identical hangul", "빈혈", "빈혈", 1.0},
		{"disjoint", "두통", "구토", 0.0},
		{"one empty", "두통", "", 0.0},
		{"shared prefix", "피가모자람", "피가모자름", 0.8},
		{"shifted ascii", "abcd", "bcde", 0.75},
		{"contained", "두통", "머리두통", 2.0 * 2 / 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRatio_CountsRunesNotBytes(t *testing.T) {
	// "빈" and "반" share their first two UTF-8 bytes; a byte-level ratio would
	// report a partial match.
	assert.Equal(t, 0.0, Ratio("빈", "반"))
}

func TestByName(t *testing.T) {
	measure, err := ByName("ratcliff")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, measure("abcd", "bcde"), 1e-9)

	measure, err = ByName("")
	require.NoError(t, err)
	assert.Equal(t, 1.0, measure("x", "x"))

	measure, err = ByName("levenshtein")
	require.NoError(t, err)
	assert.InDelta(t, 4.0/7.0, measure("kitten", "sitting"), 1e-9)

	_, err = ByName("cosine")
	assert.Error(t, err)
}

func TestBoostedSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		variant string
		want    float64
	}{
		{"identical gets substring boost", "빈혈", "빈혈", 1.0 + SubstringBoost},
		{"query inside variant", "두통", "머리두통", 2.0*2/6 + SubstringBoost},
		{"variant is prefix of query", "구역질남", "구역", 2.0*2/6 + PrefixBoost},
		{"no relation", "두통", "구토", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, BoostedSimilarity(Ratio, tt.query, tt.variant), 1e-9)
		})
	}
}
