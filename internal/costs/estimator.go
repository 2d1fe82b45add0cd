package costs

import (
	"fmt"
	"math"

	"github.com/LukeL99/modelblitz-app/internal/catalog"
)

// Token counts assumed for a single extraction call. Real usage is unknown
// until the call returns, so estimates are built on these fixed values.
const (
	AssumedInputTokens  = 1500
	AssumedOutputTokens = 500
)

// assumedCallSeconds feeds the wall-clock estimate only.
const assumedCallSeconds = 8

// Confidence thresholds. The assumed-token estimate is trusted less when few
// runs average out the variance or when per-call prices in the selection
// diverge widely (cheap and expensive models mis-estimate differently).
const (
	// lowConfidenceMinRuns: below this many runs per model the estimate is low confidence.
	lowConfidenceMinRuns = 2
	// highConfidenceMinRuns / highConfidenceMinSamples: at or above both, and
	// with a homogeneous price mix, the estimate is high confidence.
	highConfidenceMinRuns    = 3
	highConfidenceMinSamples = 2
	// costSpreadLowUSD / costSpreadHighUSD bound the per-call unit-cost spread
	// (max minus min across selected models) for the low and high bands.
	costSpreadLowUSD  = 0.02
	costSpreadHighUSD = 0.005
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Estimate is a cost projection for a run plan.
type Estimate struct {
	EstimatedCost        float64    `json:"estimated_cost"`
	TotalRuns            int        `json:"total_runs"`
	EstimatedTimeMinutes int        `json:"estimated_time_minutes"`
	Confidence           Confidence `json:"confidence"`
	BudgetUtilization    float64    `json:"budget_utilization"`
	Warning              string     `json:"warning,omitempty"`
}

// Estimator projects run-plan cost against a budget ceiling.
type Estimator struct {
	BudgetUSD   float64
	Concurrency int
}

// UnitCost returns the assumed-token cost of one call to the model.
func UnitCost(m catalog.Model) float64 {
	return m.CostPerCall(AssumedInputTokens, AssumedOutputTokens)
}

// Estimate projects the total cost of runsPerModel runs of every model over
// sampleCount images.
func (e Estimator) Estimate(models []catalog.Model, runsPerModel, sampleCount int) Estimate {
	totalRuns := len(models) * runsPerModel * sampleCount

	var cost float64
	for _, m := range models {
		cost += float64(runsPerModel*sampleCount) * UnitCost(m)
	}

	est := Estimate{
		EstimatedCost:        cost,
		TotalRuns:            totalRuns,
		EstimatedTimeMinutes: e.timeMinutes(totalRuns),
		Confidence:           confidence(models, runsPerModel, sampleCount),
	}
	if e.BudgetUSD > 0 {
		est.BudgetUtilization = cost / e.BudgetUSD * 100
		if cost > e.BudgetUSD {
			est.Warning = fmt.Sprintf("estimated cost $%.4f exceeds budget ceiling $%.2f", cost, e.BudgetUSD)
		}
	}
	return est
}

// OptimizeRuns returns the largest runs-per-model count whose projected cost
// stays within the budget ceiling. Cost is linear in the run count, so this
// is a division, not a search. Returns 0 when even one run per model per
// image exceeds the budget; callers must treat 0 as a failed plan.
func (e Estimator) OptimizeRuns(models []catalog.Model, sampleCount int) int {
	var perRun float64
	for _, m := range models {
		perRun += float64(sampleCount) * UnitCost(m)
	}
	if perRun <= 0 {
		// All-free model selection: budget can never bind.
		return math.MaxInt32
	}
	return int(e.BudgetUSD / perRun)
}

func (e Estimator) timeMinutes(totalRuns int) int {
	conc := e.Concurrency
	if conc < 1 {
		conc = 1
	}
	seconds := float64(totalRuns) * assumedCallSeconds / float64(conc)
	minutes := int(math.Ceil(seconds / 60))
	if minutes < 1 && totalRuns > 0 {
		minutes = 1
	}
	return minutes
}

func confidence(models []catalog.Model, runsPerModel, sampleCount int) Confidence {
	var minUnit, maxUnit float64
	for i, m := range models {
		u := UnitCost(m)
		if i == 0 || u < minUnit {
			minUnit = u
		}
		if u > maxUnit {
			maxUnit = u
		}
	}
	spread := maxUnit - minUnit

	switch {
	case runsPerModel < lowConfidenceMinRuns || spread > costSpreadLowUSD:
		return ConfidenceLow
	case runsPerModel >= highConfidenceMinRuns && sampleCount >= highConfidenceMinSamples && spread <= costSpreadHighUSD:
		return ConfidenceHigh
	default:
		return ConfidenceMedium
	}
}
