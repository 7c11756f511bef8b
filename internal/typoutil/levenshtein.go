package typoutil

// CalculateLevenshteinDistance returns the number of single-rune insertions,
// deletions or substitutions needed to turn a into b.
func CalculateLevenshteinDistance(a, b string) int {
	src, dst := []rune(a), []rune(b)
	if len(src) == 0 {
		return len(dst)
	}
	if len(dst) == 0 {
		return len(src)
	}

	// prev holds distances for src[:i-1], next for src[:i].
	prev := make([]int, len(dst)+1)
	next := make([]int, len(dst)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, sr := range src {
		next[0] = i + 1
		for j, dr := range dst {
			substitution := prev[j]
			if sr != dr {
				substitution++
			}
			next[j+1] = min(prev[j+1]+1, next[j]+1, substitution)
		}
		prev, next = next, prev
	}
	return prev[len(dst)]
}

// LevenshteinSimilarity maps the Levenshtein distance to [0,1]:
// 1 - distance / max(len(a), len(b)). Two empty strings are identical.
func LevenshteinSimilarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(CalculateLevenshteinDistance(a, b))/float64(longest)
}
