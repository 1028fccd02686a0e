// Package llm provides the generation-provider client abstraction and model
// configuration for the content pipeline.
package llm

// ModelTier represents the capability level requested for a generation call.
type ModelTier string

const (
	// TierLite is for cheap judgment calls: evaluation scoring.
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: platform repurposing.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form creative work: article drafting.
	TierAdvanced ModelTier = "advanced"
)

// Provider represents a generation provider.
type Provider string

// Supported providers. Only Gemini is implemented today; the constant set
// leaves room to add others without changing call sites.
const (
	ProviderGemini Provider = "gemini"
)

// Config holds the per-tier model selection.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default Gemini tier mapping.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a tier, falling back to standard and
// then lite when the tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
