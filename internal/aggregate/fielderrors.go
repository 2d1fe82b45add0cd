package aggregate

import (
	"sort"

	"github.com/LukeL99/modelblitz-app/internal/store"
)

// FieldErrorPattern is a recurring extraction mistake: the same field path
// with the same wrong value, counted across completed runs.
type FieldErrorPattern struct {
	ModelID     string `json:"model_id"`
	FieldPath   string `json:"fieldPath"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual"`
	Occurrences int    `json:"occurrences"`
}

// FieldErrorPatterns groups field errors from completed runs by
// (model, path, expected, actual), most frequent first. Derived on read,
// never persisted.
func FieldErrorPatterns(runs []store.BenchmarkRun) []FieldErrorPattern {
	type key struct {
		modelID, path, expected, actual string
	}
	counts := make(map[key]int)
	var order []key
	for _, r := range runs {
		if r.Status != store.RunStatusComplete {
			continue
		}
		for _, fe := range r.FieldErrors {
			k := key{r.ModelID, fe.FieldPath, fe.Expected, fe.Actual}
			if _, seen := counts[k]; !seen {
				order = append(order, k)
			}
			counts[k]++
		}
	}

	patterns := make([]FieldErrorPattern, 0, len(order))
	for _, k := range order {
		patterns = append(patterns, FieldErrorPattern{
			ModelID:     k.modelID,
			FieldPath:   k.path,
			Expected:    k.expected,
			Actual:      k.actual,
			Occurrences: counts[k],
		})
	}
	// Most frequent first; stable keys after that for deterministic output.
	sort.Slice(patterns, func(i, j int) bool {
		a, b := patterns[i], patterns[j]
		if a.Occurrences != b.Occurrences {
			return a.Occurrences > b.Occurrences
		}
		if a.ModelID != b.ModelID {
			return a.ModelID < b.ModelID
		}
		return a.FieldPath < b.FieldPath
	})
	return patterns
}
