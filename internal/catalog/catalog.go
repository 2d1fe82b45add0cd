package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tier classifies models by input-token price band.
type Tier string

const (
	TierFree    Tier = "free"
	TierBudget  Tier = "budget"
	TierMid     Tier = "mid"
	TierPremium Tier = "premium"
	TierUltra   Tier = "ultra"
)

// Model is one entry in the curated vision-model lineup. Prices are USD per
// 1M tokens, matching OpenRouter's published pricing.
type Model struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Provider        string  `yaml:"provider"`
	Tier            Tier    `yaml:"tier"`
	InputCostPer1M  float64 `yaml:"input_cost_per_1m"`
	OutputCostPer1M float64 `yaml:"output_cost_per_1m"`
	ContextWindow   int     `yaml:"context_window"`
	SupportsVision  bool    `yaml:"supports_vision"`
	SupportsPDF     bool    `yaml:"supports_pdf"`
}

// CostPerCall calculates the cost of a single call at the given token usage.
func (m Model) CostPerCall(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)/1_000_000)*m.InputCostPer1M +
		(float64(outputTokens)/1_000_000)*m.OutputCostPer1M
}

// Catalog is a lookup table of benchmarkable models.
type Catalog struct {
	models []Model
	byID   map[string]Model
}

func New(models []Model) *Catalog {
	byID := make(map[string]Model, len(models))
	for _, m := range models {
		byID[m.ID] = m
	}
	return &Catalog{models: models, byID: byID}
}

// Load reads a model lineup from a yaml file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	var models []Model
	if err := yaml.Unmarshal(data, &models); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no models", path)
	}
	for i, m := range models {
		if m.ID == "" {
			return nil, fmt.Errorf("catalog entry %d: id is required", i)
		}
	}
	return New(models), nil
}

// Lookup returns the model with the given ID, if curated.
func (c *Catalog) Lookup(id string) (Model, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// Models returns the full lineup in curated order.
func (c *Catalog) Models() []Model {
	return c.models
}

// ByTier returns the subset of the lineup in the given price tier.
func (c *Catalog) ByTier(t Tier) []Model {
	var out []Model
	for _, m := range c.models {
		if m.Tier == t {
			out = append(out, m)
		}
	}
	return out
}
