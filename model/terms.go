// Package model defines the fixed-shape records loaded from the MedDRA
// reference tables and the search results assembled from them.
package model

// LowestLevelTerm is one row of llt.asc: the most granular phrasing of a
// symptom or diagnosis. Every LLT rolls up to exactly one preferred term.
type LowestLevelTerm struct {
	Code          string `json:"llt_code"`
	Name          string `json:"llt_name"`
	PreferredCode string `json:"pt_code"`
	Active        bool   `json:"active"` // "Y" in the currency column; anything else is inactive
}

// PreferredTerm is one row of pt.asc.
type PreferredTerm struct {
	Code           string `json:"pt_code"`
	Name           string `json:"pt_name"`
	PrimarySOCCode string `json:"primary_soc_code"` // Used only when the PT has no hierarchy entry
}

// HierarchyEntry is one row of mdhier.asc: a single classification path
// PT -> HLT -> HLGT -> SOC. A PT may have several.
type HierarchyEntry struct {
	PreferredCode string `json:"pt_code"`
	HLTCode       string `json:"hlt_code"`
	HLGTCode      string `json:"hlgt_code"`
	SOCCode       string `json:"soc_code"`
	PreferredName string `json:"pt_name"`
	HLTName       string `json:"hlt_name"`
	HLGTName      string `json:"hlgt_name"`
	SOCName       string `json:"soc_name"`
	SOCAbbrev     string `json:"soc_abbrev"`
	Primary       bool   `json:"primary"`
}
