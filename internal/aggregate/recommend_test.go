package aggregate_test

import (
	"testing"

	"github.com/LukeL99/modelblitz-app/internal/aggregate"
)

func TestRecommendCostPriorityBeatsAccuracy(t *testing.T) {
	aggs := []aggregate.ModelAggregate{
		{ModelID: "accurate", Accuracy: 100, CostPerCall: 0.05, MedianLatency: 1000, RunsCompleted: 3},
		{ModelID: "cheap", Accuracy: 80, CostPerCall: 0.01, MedianLatency: 1000, RunsCompleted: 3},
	}
	got, ok := aggregate.Recommend(aggs, []string{"cost", "accuracy", "speed"})
	if !ok || got != "cheap" {
		t.Errorf("Recommend = %q (%v), want cheap", got, ok)
	}
}

func TestRecommendAccuracyPriorityBeatsCost(t *testing.T) {
	aggs := []aggregate.ModelAggregate{
		{ModelID: "accurate", Accuracy: 100, CostPerCall: 0.05, MedianLatency: 1000, RunsCompleted: 3},
		{ModelID: "cheap", Accuracy: 40, CostPerCall: 0.01, MedianLatency: 1000, RunsCompleted: 3},
	}
	got, ok := aggregate.Recommend(aggs, []string{"accuracy", "cost", "speed"})
	if !ok || got != "accurate" {
		t.Errorf("Recommend = %q (%v), want accurate", got, ok)
	}
}

func TestRecommendSkipsZeroCompleted(t *testing.T) {
	aggs := []aggregate.ModelAggregate{
		{ModelID: "broken", Accuracy: 0, RunsCompleted: 0},
		{ModelID: "works", Accuracy: 50, CostPerCall: 0.01, MedianLatency: 500, RunsCompleted: 1},
	}
	got, ok := aggregate.Recommend(aggs, nil)
	if !ok || got != "works" {
		t.Errorf("Recommend = %q (%v), want works", got, ok)
	}
}

func TestRecommendNoCandidates(t *testing.T) {
	aggs := []aggregate.ModelAggregate{
		{ModelID: "broken", RunsCompleted: 0},
	}
	if got, ok := aggregate.Recommend(aggs, nil); ok {
		t.Errorf("Recommend = %q, want no recommendation", got)
	}
}

func TestRecommendTieBreaksDeterministically(t *testing.T) {
	// Identical stats: score ties, cost ties, so the smaller id wins
	// regardless of input order.
	a := aggregate.ModelAggregate{ModelID: "alpha", Accuracy: 90, CostPerCall: 0.01, MedianLatency: 100, RunsCompleted: 2}
	b := a
	b.ModelID = "beta"

	got1, _ := aggregate.Recommend([]aggregate.ModelAggregate{a, b}, []string{"accuracy"})
	got2, _ := aggregate.Recommend([]aggregate.ModelAggregate{b, a}, []string{"accuracy"})
	if got1 != "alpha" || got2 != "alpha" {
		t.Errorf("tie-break = %q / %q, want alpha both times", got1, got2)
	}
}

func TestRecommendTieBreaksToCheaper(t *testing.T) {
	// Scores tie exactly: the accuracy edge of one model equals the cost
	// edge of the other under unit weights. The cheaper model wins even
	// though its id sorts later.
	a := aggregate.ModelAggregate{ModelID: "aardvark", Accuracy: 100, CostPerCall: 0.02, MedianLatency: 100, RunsCompleted: 2}
	b := aggregate.ModelAggregate{ModelID: "zebra", Accuracy: 50, CostPerCall: 0.01, MedianLatency: 100, RunsCompleted: 2}
	got, _ := aggregate.Recommend([]aggregate.ModelAggregate{a, b}, nil)
	if got != "zebra" {
		t.Errorf("Recommend = %q, want zebra (cost tie-break)", got)
	}
}
