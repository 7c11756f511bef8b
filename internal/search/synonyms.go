package search

// defaultSynonyms maps a canonical LLT name to lay phrasings that plain
// similarity would not connect to it.
var defaultSynonyms = map[string][]string{
	"빈혈": {
		"피가 모자람",
		"피가 모자름",
		"피 부족",
		"피부족",
		"혈액 부족",
		"혈액부족",
	},
}

// DefaultSynonyms returns a copy of the built-in synonym table.
func DefaultSynonyms() map[string][]string {
	out := make(map[string][]string, len(defaultSynonyms))
	for name, phrasings := range defaultSynonyms {
		out[name] = append([]string(nil), phrasings...)
	}
	return out
}
