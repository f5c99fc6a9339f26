package models

import "fmt"

// ExpertConfig steers the simulated brand assistant.
type ExpertConfig struct {
	// Persona is how the assistant introduces itself.
	Persona string `json:"persona" yaml:"persona" mapstructure:"persona"`

	// Creativity in [0,1] widens the archetype and palette choices.
	Creativity float64 `json:"creativity" yaml:"creativity" mapstructure:"creativity"`

	// Guidelines are appended to the generated voice "do" list.
	Guidelines []string `json:"guidelines,omitempty" yaml:"guidelines,omitempty" mapstructure:"guidelines"`

	// Forbidden words are appended to the generated voice "don't" list.
	Forbidden []string `json:"forbidden,omitempty" yaml:"forbidden,omitempty" mapstructure:"forbidden"`
}

// DefaultExpertConfig returns the stock assistant settings.
func DefaultExpertConfig() ExpertConfig {
	return ExpertConfig{
		Persona:    "Brand Strategist",
		Creativity: 0.5,
	}
}

// Validate checks ranges.
func (e ExpertConfig) Validate() error {
	validation := &ValidationErrors{}
	if e.Creativity < 0 || e.Creativity > 1 {
		validation.AddMessage("creativity", fmt.Sprintf("creativity must be within [0,1], got %g", e.Creativity))
	}
	return validation.Err()
}
