package search

import "github.com/gcbaptista/go-meddra-lookup/model"

// SelectPrimary returns the first entry flagged primary, in source order.
// When no entry carries the flag it returns the first entry, since some PTs
// in the distribution have a single unflagged path. ok is false for an empty
// input.
func SelectPrimary(entries []model.HierarchyEntry) (entry model.HierarchyEntry, ok bool) {
	if len(entries) == 0 {
		return model.HierarchyEntry{}, false
	}
	for _, e := range entries {
		if e.Primary {
			return e, true
		}
	}
	return entries[0], true
}
