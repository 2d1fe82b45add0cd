package aggregate

// Priority dimensions a user can rank.
const (
	PriorityAccuracy = "accuracy"
	PrioritySpeed    = "speed"
	PriorityCost     = "cost"
)

// Recommend scores each model with completed runs and returns the winner.
// The priority at rank i carries weight len(priorities)-i; an omitted
// dimension defaults to weight 1. Metrics are normalized to [0,1] against
// the maximum observed across candidates. Ties break to the cheaper model,
// then to the lexicographically smaller model id, so the result does not
// depend on evaluation order.
func Recommend(aggs []ModelAggregate, priorities []string) (string, bool) {
	weights := map[string]float64{
		PriorityAccuracy: 1,
		PrioritySpeed:    1,
		PriorityCost:     1,
	}
	for i, p := range priorities {
		weights[p] = float64(len(priorities) - i)
	}

	maxAccuracy := 1.0
	maxLatency := 1.0
	maxCost := 0.000001
	for _, a := range aggs {
		if a.RunsCompleted == 0 {
			continue
		}
		if a.Accuracy > maxAccuracy {
			maxAccuracy = a.Accuracy
		}
		if float64(a.MedianLatency) > maxLatency {
			maxLatency = float64(a.MedianLatency)
		}
		if a.CostPerCall > maxCost {
			maxCost = a.CostPerCall
		}
	}

	var (
		found     bool
		bestScore float64
		bestCost  float64
		bestID    string
	)
	for _, a := range aggs {
		if a.RunsCompleted == 0 {
			continue
		}
		accuracyScore := a.Accuracy / maxAccuracy
		speedScore := 1 - float64(a.MedianLatency)/maxLatency
		costScore := 1 - a.CostPerCall/maxCost

		score := weights[PriorityAccuracy]*accuracyScore +
			weights[PrioritySpeed]*speedScore +
			weights[PriorityCost]*costScore

		better := !found ||
			score > bestScore ||
			(score == bestScore && a.CostPerCall < bestCost) ||
			(score == bestScore && a.CostPerCall == bestCost && a.ModelID < bestID)
		if better {
			found = true
			bestScore = score
			bestCost = a.CostPerCall
			bestID = a.ModelID
		}
	}
	return bestID, found
}
