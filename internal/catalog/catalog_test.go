package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LukeL99/modelblitz-app/internal/catalog"
)

func TestCostPerCall(t *testing.T) {
	m := catalog.Model{InputCostPer1M: 4, OutputCostPer1M: 8}
	got := m.CostPerCall(1500, 500)
	want := 0.01
	if got < want-1e-9 || got > want+1e-9 {
		t.Errorf("CostPerCall = %f, want %f", got, want)
	}
}

func TestBuiltinLookup(t *testing.T) {
	cat := catalog.Builtin()
	if len(cat.Models()) == 0 {
		t.Fatal("builtin catalog is empty")
	}
	m, ok := cat.Lookup("openai/gpt-5-nano")
	if !ok {
		t.Fatal("gpt-5-nano missing from builtin catalog")
	}
	if !m.SupportsVision {
		t.Error("every builtin model should support vision")
	}
	if _, ok := cat.Lookup("nonexistent/model"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestBuiltinTiersAndVision(t *testing.T) {
	cat := catalog.Builtin()
	for _, m := range cat.Models() {
		if !m.SupportsVision {
			t.Errorf("model %s does not support vision", m.ID)
		}
		switch m.Tier {
		case catalog.TierFree, catalog.TierBudget, catalog.TierMid, catalog.TierPremium, catalog.TierUltra:
		default:
			t.Errorf("model %s has unknown tier %q", m.ID, m.Tier)
		}
		if m.Tier == catalog.TierFree && (m.InputCostPer1M != 0 || m.OutputCostPer1M != 0) {
			t.Errorf("free model %s has nonzero pricing", m.ID)
		}
	}
	if len(cat.ByTier(catalog.TierFree)) == 0 {
		t.Error("builtin catalog should include free models")
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `- id: test/model-a
  name: Model A
  provider: test
  tier: budget
  input_cost_per_1m: 0.5
  output_cost_per_1m: 1.5
  context_window: 32000
  supports_vision: true
- id: test/model-b
  name: Model B
  provider: test
  tier: free
  supports_vision: true
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	os.WriteFile(path, []byte(content), 0o644)

	cat, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Models()) != 2 {
		t.Fatalf("got %d models, want 2", len(cat.Models()))
	}
	m, ok := cat.Lookup("test/model-a")
	if !ok || m.InputCostPer1M != 0.5 {
		t.Errorf("model-a = %+v (%v)", m, ok)
	}
}

func TestLoadRejectsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	os.WriteFile(path, []byte("- name: anonymous\n"), 0o644)
	if _, err := catalog.Load(path); err == nil {
		t.Error("expected error for entry without id")
	}
}
