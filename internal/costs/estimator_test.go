package costs_test

import (
	"math"
	"testing"

	"github.com/LukeL99/modelblitz-app/internal/catalog"
	"github.com/LukeL99/modelblitz-app/internal/costs"
)

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// cheapModel costs $0.01 per call at assumed usage (1500 in, 500 out);
// pricierModel costs $0.05.
var (
	cheapModel   = catalog.Model{ID: "cheap", InputCostPer1M: 4, OutputCostPer1M: 8}
	pricierModel = catalog.Model{ID: "pricier", InputCostPer1M: 20, OutputCostPer1M: 40}
	freeModel    = catalog.Model{ID: "free"}
)

func TestUnitCost(t *testing.T) {
	if got := costs.UnitCost(cheapModel); abs(got-0.01) > 1e-9 {
		t.Errorf("UnitCost(cheap) = %f, want 0.01", got)
	}
	if got := costs.UnitCost(freeModel); got != 0 {
		t.Errorf("UnitCost(free) = %f, want 0", got)
	}
}

func TestEstimateOverBudget(t *testing.T) {
	est := costs.Estimator{BudgetUSD: 0.10, Concurrency: 10}
	models := []catalog.Model{cheapModel, pricierModel}

	e := est.Estimate(models, 3, 1)
	if e.TotalRuns != 6 {
		t.Errorf("TotalRuns = %d, want 6", e.TotalRuns)
	}
	if abs(e.EstimatedCost-0.18) > 1e-9 {
		t.Errorf("EstimatedCost = %f, want 0.18", e.EstimatedCost)
	}
	if e.Warning == "" {
		t.Error("expected an over-budget warning")
	}
	if abs(e.BudgetUtilization-180) > 0.01 {
		t.Errorf("BudgetUtilization = %f, want 180", e.BudgetUtilization)
	}
}

func TestOptimizeRunsFitsBudget(t *testing.T) {
	est := costs.Estimator{BudgetUSD: 0.10}
	models := []catalog.Model{cheapModel, pricierModel}

	// One run across both models over one image costs $0.06, so only a
	// single run fits under $0.10.
	got := est.OptimizeRuns(models, 1)
	if got != 1 {
		t.Fatalf("OptimizeRuns = %d, want 1", got)
	}

	// Property: the optimized count re-estimates within the budget.
	e := est.Estimate(models, got, 1)
	if e.EstimatedCost > est.BudgetUSD {
		t.Errorf("optimized plan costs %f, exceeds budget %f", e.EstimatedCost, est.BudgetUSD)
	}
}

func TestOptimizeRunsZeroWhenUnaffordable(t *testing.T) {
	est := costs.Estimator{BudgetUSD: 0.01}
	if got := est.OptimizeRuns([]catalog.Model{pricierModel}, 1); got != 0 {
		t.Errorf("OptimizeRuns = %d, want 0", got)
	}
}

func TestOptimizeRunsAllFree(t *testing.T) {
	est := costs.Estimator{BudgetUSD: 0.01}
	if got := est.OptimizeRuns([]catalog.Model{freeModel}, 3); got != math.MaxInt32 {
		t.Errorf("OptimizeRuns = %d, want MaxInt32 for a free selection", got)
	}
}

func TestEstimateTimeUsesConcurrency(t *testing.T) {
	est := costs.Estimator{BudgetUSD: 100, Concurrency: 10}
	// 100 runs at 8s each over 10 lanes is 80s, rounded up to 2 minutes.
	e := est.Estimate([]catalog.Model{cheapModel}, 100, 1)
	if e.EstimatedTimeMinutes != 2 {
		t.Errorf("EstimatedTimeMinutes = %d, want 2", e.EstimatedTimeMinutes)
	}
}

func TestConfidenceBands(t *testing.T) {
	est := costs.Estimator{BudgetUSD: 100}
	cases := []struct {
		name    string
		models  []catalog.Model
		runs    int
		samples int
		want    costs.Confidence
	}{
		{"single run", []catalog.Model{cheapModel}, 1, 5, costs.ConfidenceLow},
		{"wide price spread", []catalog.Model{cheapModel, pricierModel}, 3, 2, costs.ConfidenceLow},
		{"homogeneous and well sampled", []catalog.Model{cheapModel}, 3, 2, costs.ConfidenceHigh},
		{"few samples", []catalog.Model{cheapModel}, 3, 1, costs.ConfidenceMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := est.Estimate(tc.models, tc.runs, tc.samples)
			if e.Confidence != tc.want {
				t.Errorf("confidence = %s, want %s", e.Confidence, tc.want)
			}
		})
	}
}
