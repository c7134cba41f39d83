// Package llm wraps the generative model used by the remote oracle.
package llm

import "fmt"

// ModelTier selects a model by how much reasoning a call needs.
type ModelTier string

const (
	// TierLite is for short classification calls.
	TierLite ModelTier = "lite"
	// TierStandard is for resume analysis and structured parsing.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or ambiguous documents.
	TierAdvanced ModelTier = "advanced"
)

// Provider names a model vendor.
type Provider string

// ProviderGemini is the only provider with a client today.
const ProviderGemini Provider = "gemini"

// DefaultTemperature keeps oracle output stable across identical inputs.
const DefaultTemperature float32 = 0.1

// Config maps tiers to model names for one provider.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the Gemini model set.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// GetModel returns the model for tier, falling back to standard and then lite.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok && model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c with tier pointed at model.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}

// ParseTier converts a configuration string into a ModelTier.
func ParseTier(s string) (ModelTier, error) {
	switch t := ModelTier(s); t {
	case TierLite, TierStandard, TierAdvanced:
		return t, nil
	case "":
		return TierStandard, nil
	default:
		return "", fmt.Errorf("unknown model tier %q", s)
	}
}
