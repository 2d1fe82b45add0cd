// Package aggregate derives per-model statistics from terminal benchmark
// runs and scores models under user-supplied priority weights.
package aggregate

import (
	"math"
	"sort"

	"github.com/LukeL99/modelblitz-app/internal/store"
)

// ModelAggregate is the derived statistics for one model in a report.
// Statistics cover completed runs only; failed and skipped runs count toward
// RunsAttempted. A model with zero completed runs reports all-zero stats.
type ModelAggregate struct {
	ModelID        string  `json:"model_id"`
	Accuracy       float64 `json:"accuracy"`
	ExactMatchRate float64 `json:"exact_match_rate"`
	CostPerCall    float64 `json:"cost_per_call"`
	MedianLatency  int64   `json:"median_latency_ms"`
	P95Latency     int64   `json:"p95_latency_ms"`
	Spread         float64 `json:"spread"`
	RunsAttempted  int     `json:"runs_attempted"`
	RunsCompleted  int     `json:"runs_completed"`
	RunsFailed     int     `json:"runs_failed"`
	RunsSkipped    int     `json:"runs_skipped"`
}

// Compute groups runs by model and derives each model's aggregate.
// Models appear in order of first appearance in the run list.
func Compute(runs []store.BenchmarkRun) []ModelAggregate {
	var order []string
	byModel := make(map[string][]store.BenchmarkRun)
	for _, r := range runs {
		if _, seen := byModel[r.ModelID]; !seen {
			order = append(order, r.ModelID)
		}
		byModel[r.ModelID] = append(byModel[r.ModelID], r)
	}

	aggs := make([]ModelAggregate, 0, len(order))
	for _, modelID := range order {
		aggs = append(aggs, computeOne(modelID, byModel[modelID]))
	}
	return aggs
}

func computeOne(modelID string, runs []store.BenchmarkRun) ModelAggregate {
	agg := ModelAggregate{ModelID: modelID, RunsAttempted: len(runs)}

	var completed []store.BenchmarkRun
	for _, r := range runs {
		switch r.Status {
		case store.RunStatusComplete:
			completed = append(completed, r)
		case store.RunStatusFailed:
			agg.RunsFailed++
		case store.RunStatusSkipped:
			agg.RunsSkipped++
		}
	}
	agg.RunsCompleted = len(completed)
	if len(completed) == 0 {
		return agg
	}

	// Missing field accuracy counts as 0 in the mean, so the denominator is
	// always the completed-run count.
	accuracies := make([]float64, len(completed))
	var accSum float64
	var exactMatches int
	var costSum float64
	var latencies []int64
	for i, r := range completed {
		if r.FieldAccuracy != nil {
			accuracies[i] = *r.FieldAccuracy
		}
		accSum += accuracies[i]
		if r.ExactMatch {
			exactMatches++
		}
		costSum += r.ActualCost
		if r.ResponseTimeMs > 0 {
			latencies = append(latencies, r.ResponseTimeMs)
		}
	}

	n := float64(len(completed))
	mean := accSum / n

	var sqSum float64
	for _, a := range accuracies {
		sqSum += (a - mean) * (a - mean)
	}
	spread := math.Sqrt(sqSum / n) // population stddev

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	agg.Accuracy = round2(mean)
	agg.ExactMatchRate = round2(float64(exactMatches) / n * 100)
	agg.CostPerCall = round6(costSum / n)
	agg.MedianLatency = median(latencies)
	agg.P95Latency = p95(latencies)
	agg.Spread = round2(spread)
	return agg
}

// median uses the lower-middle element for even counts.
func median(sorted []int64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[(len(sorted)-1)/2]
}

// p95 uses index ceil(0.95*n)-1 clamped to [0, n-1].
func p95(sorted []int64) int64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(0.95*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round6(v float64) float64 {
	return math.Round(v*1_000_000) / 1_000_000
}
