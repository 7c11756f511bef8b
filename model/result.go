package model

// HierarchyPath is the trimmed view of a HierarchyEntry carried on every
// search result so callers can show all classification paths of a PT.
type HierarchyPath struct {
	Primary  string `json:"primary"` // "Y" or "N"
	HLTCode  string `json:"hlt_code"`
	HLTName  string `json:"hlt_name"`
	HLGTCode string `json:"hlgt_code"`
	HLGTName string `json:"hlgt_name"`
	SOCCode  string `json:"soc_code"`
	SOCName  string `json:"soc_name"`
}

// SearchResult joins a matched LLT with its PT and the resolved primary
// hierarchy. Hierarchies holds every path of the PT in source order.
type SearchResult struct {
	LLTCode     string          `json:"llt_code"`
	LLTName     string          `json:"llt_name"`
	PTCode      string          `json:"pt_code"`
	PTName      string          `json:"pt_name"`
	Active      string          `json:"active"` // "Y" or "N"
	SOCCode     string          `json:"soc_code"`
	SOCName     string          `json:"soc_name"`
	HLGTName    string          `json:"hlgt_name"`
	HLTName     string          `json:"hlt_name"`
	SOCAbbrev   string          `json:"soc_abbrev"`
	PrimarySOC  string          `json:"primary_soc"` // "Y", "N", or "" when no hierarchy entry exists
	Score       float64         `json:"score"`
	Hierarchies []HierarchyPath `json:"hierarchies"`
	AIReason    string          `json:"ai_reason,omitempty"`
}

// IsActive reports whether the matched LLT is current.
func (r SearchResult) IsActive() bool {
	return r.Active == "Y"
}

// SearchResponse is the payload returned by the HTTP search endpoint.
type SearchResponse struct {
	Query       string         `json:"query"`
	Count       int            `json:"count"`
	Results     []SearchResult `json:"results"`
	AI          bool           `json:"ai"`
	Approximate bool           `json:"approximate"`
	QueryID     string         `json:"query_id"`
	Took        int64          `json:"took"` // milliseconds
}

// Ranking is one entry returned by an external re-ranking capability.
type Ranking struct {
	Code   string  `json:"llt_code"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}
