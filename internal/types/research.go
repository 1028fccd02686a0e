package types

// Source is a single search result cited by the research stage.
type Source struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Published string `json:"published,omitempty"`
}

// ResearchData holds the structured output of the research stage. The
// category slices are bounded (see research package limits) and the sources
// keep the relevance order returned by the search provider. ResearchData is
// immutable once fetched.
type ResearchData struct {
	Topic          string   `json:"topic"`
	FactsAndStats  []string `json:"facts_and_stats"`
	Controversies  []string `json:"controversies_and_debates"`
	TrendingAngles []string `json:"trending_angles"`
	ContentGaps    []string `json:"content_gaps"`
	ExpertQuotes   []string `json:"expert_quotes"`
	Sources        []Source `json:"sources"`
	Summary        string   `json:"research_summary"`
}

// Empty reports whether the research produced no usable material. Drafting
// with empty research is allowed but degrades quality.
func (r *ResearchData) Empty() bool {
	if r == nil {
		return true
	}
	return len(r.FactsAndStats) == 0 &&
		len(r.Controversies) == 0 &&
		len(r.TrendingAngles) == 0 &&
		len(r.ContentGaps) == 0 &&
		len(r.ExpertQuotes) == 0 &&
		len(r.Sources) == 0
}
