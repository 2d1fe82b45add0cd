package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/LukeL99/modelblitz-app/internal/store"
)

// definition is the yaml format for describing a benchmark: what to
// extract, from which images, with which models.
type definition struct {
	Prompt       string         `yaml:"prompt"`
	Schema       map[string]any `yaml:"schema"`
	Models       []string       `yaml:"models"`
	RunsPerModel int            `yaml:"runs_per_model"`
	Priorities   []string       `yaml:"priorities"`
	Images       []struct {
		URL          string `yaml:"url"`
		Expected     string `yaml:"expected"`
		ExpectedFile string `yaml:"expected_file"`
	} `yaml:"images"`
}

// loadDefinition reads a benchmark definition and converts it into a
// validated report configuration.
func loadDefinition(path string) (*store.ReportConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition %s: %w", path, err)
	}
	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing definition %s: %w", path, err)
	}
	if def.RunsPerModel == 0 {
		def.RunsPerModel = 3
	}

	cfg := &store.ReportConfig{
		Models:       def.Models,
		RunsPerModel: def.RunsPerModel,
		Priorities:   def.Priorities,
		Prompt:       def.Prompt,
		Schema:       def.Schema,
	}
	for i, img := range def.Images {
		raw := img.Expected
		if raw == "" && img.ExpectedFile != "" {
			data, err := os.ReadFile(img.ExpectedFile)
			if err != nil {
				return nil, fmt.Errorf("image %d: reading expected json: %w", i, err)
			}
			raw = string(data)
		}
		var expected map[string]any
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &expected); err != nil {
				return nil, fmt.Errorf("image %d: expected json is invalid: %w", i, err)
			}
		}
		cfg.Images = append(cfg.Images, store.ImageSample{URL: img.URL, ExpectedJSON: expected})
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition %s: %w", path, err)
	}
	return cfg, nil
}
