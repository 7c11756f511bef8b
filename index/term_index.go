// Package index holds the per-term matching keys derived from the LLT table.
package index

import (
	"github.com/gcbaptista/go-meddra-lookup/internal/tokenizer"
	"github.com/gcbaptista/go-meddra-lookup/model"
)

// TermEntry is one LLT with its precomputed matching keys.
type TermEntry struct {
	Term model.LowestLevelTerm

	// Folded is the case-folded name used by substring matching.
	Folded    string
	FoldedLen int
	// NameLen is the character length of the raw name.
	NameLen int
	// Variants are the normalized name followed by its normalized synonyms.
	// Empty when the name normalizes to nothing.
	Variants []string
}

// TermIndex is the read-only list of TermEntry values in LLT source order.
type TermIndex struct {
	entries []TermEntry
}

// Build derives the matching keys for every term. synonyms maps a raw
// canonical name to alternate phrasings; empty normalized phrasings are skipped.
func Build(terms []model.LowestLevelTerm, synonyms map[string][]string) *TermIndex {
	entries := make([]TermEntry, len(terms))
	for i, term := range terms {
		folded := tokenizer.Fold(term.Name)
		entry := TermEntry{
			Term:      term,
			Folded:    folded,
			FoldedLen: tokenizer.RuneLen(folded),
			NameLen:   tokenizer.RuneLen(term.Name),
		}
		if normalized := tokenizer.Normalize(term.Name); normalized != "" {
			entry.Variants = append(entry.Variants, normalized)
			for _, synonym := range synonyms[term.Name] {
				if syn := tokenizer.Normalize(synonym); syn != "" {
					entry.Variants = append(entry.Variants, syn)
				}
			}
		}
		entries[i] = entry
	}
	return &TermIndex{entries: entries}
}

// Entries returns the entries in source order. Callers must not modify them.
func (idx *TermIndex) Entries() []TermEntry {
	return idx.entries
}

// Len returns the number of indexed terms.
func (idx *TermIndex) Len() int {
	return len(idx.entries)
}
