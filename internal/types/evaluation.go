package types

// PassThreshold is the minimum overall score a draft needs to exit the
// review loop early. Fixed by design, not runtime-configurable.
const PassThreshold = 7.0

// Criterion weights for the overall evaluation score.
const (
	WeightAuthenticity = 0.4
	WeightQuality      = 0.3
	WeightCompleteness = 0.2
	WeightDepth        = 0.1
)

// Evaluation is the quality verdict for exactly one draft. Criterion scores
// and the overall score are on a 0-10 scale.
type Evaluation struct {
	Authenticity float64 `json:"authenticity_score"`
	Quality      float64 `json:"quality_score"`
	Completeness float64 `json:"completeness_score"`
	Depth        float64 `json:"depth_score"`
	Overall      float64 `json:"overall_score"`
	Passed       bool    `json:"approved"`

	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
	// Feedback is the actionable rewrite guidance injected into the next
	// drafting attempt when the draft does not pass.
	Feedback string `json:"specific_feedback"`
}

// WeightedOverall computes the overall score from the four criterion scores.
// The result is recomputed locally rather than trusted from the evaluator
// model.
func WeightedOverall(authenticity, quality, completeness, depth float64) float64 {
	return authenticity*WeightAuthenticity +
		quality*WeightQuality +
		completeness*WeightCompleteness +
		depth*WeightDepth
}
