package search

import "github.com/gcbaptista/go-meddra-lookup/model"

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// hierarchyPaths converts every entry of a PT to the trimmed result view.
func hierarchyPaths(entries []model.HierarchyEntry) []model.HierarchyPath {
	paths := make([]model.HierarchyPath, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, model.HierarchyPath{
			Primary:  yesNo(e.Primary),
			HLTCode:  e.HLTCode,
			HLTName:  e.HLTName,
			HLGTCode: e.HLGTCode,
			HLGTName: e.HLGTName,
			SOCCode:  e.SOCCode,
			SOCName:  e.SOCName,
		})
	}
	return paths
}

// assembleResult joins a term with its PT and hierarchy. Without any
// hierarchy entry the SOC code comes from the PT row and the other
// classification fields stay empty.
func assembleResult(term model.LowestLevelTerm, pt model.PreferredTerm, entries []model.HierarchyEntry, score float64) model.SearchResult {
	result := model.SearchResult{
		LLTCode:     term.Code,
		LLTName:     term.Name,
		PTCode:      pt.Code,
		PTName:      pt.Name,
		Active:      yesNo(term.Active),
		SOCCode:     pt.PrimarySOCCode,
		Score:       score,
		Hierarchies: hierarchyPaths(entries),
	}
	if primary, ok := SelectPrimary(entries); ok {
		result.SOCCode = primary.SOCCode
		result.SOCName = primary.SOCName
		result.HLGTName = primary.HLGTName
		result.HLTName = primary.HLTName
		result.SOCAbbrev = primary.SOCAbbrev
		result.PrimarySOC = yesNo(primary.Primary)
	}
	return result
}
