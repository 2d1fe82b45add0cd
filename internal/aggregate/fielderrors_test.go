package aggregate_test

import (
	"testing"

	"github.com/LukeL99/modelblitz-app/internal/aggregate"
	"github.com/LukeL99/modelblitz-app/internal/jsoncmp"
	"github.com/LukeL99/modelblitz-app/internal/store"
)

func TestFieldErrorPatternsGroupsAndSorts(t *testing.T) {
	priceWrong := jsoncmp.FieldError{FieldPath: "price", Expected: "1.5", Actual: "2.5"}
	nameWrong := jsoncmp.FieldError{FieldPath: "name", Expected: `"a"`, Actual: `"b"`}

	runs := []store.BenchmarkRun{
		{ModelID: "m", Status: store.RunStatusComplete, FieldErrors: []jsoncmp.FieldError{priceWrong, nameWrong}},
		{ModelID: "m", Status: store.RunStatusComplete, FieldErrors: []jsoncmp.FieldError{priceWrong}},
		{ModelID: "m", Status: store.RunStatusComplete, FieldErrors: []jsoncmp.FieldError{priceWrong}},
		// Failed runs carry no comparison, never counted.
		{ModelID: "m", Status: store.RunStatusFailed, FieldErrors: []jsoncmp.FieldError{priceWrong}},
	}

	patterns := aggregate.FieldErrorPatterns(runs)
	if len(patterns) != 2 {
		t.Fatalf("got %d patterns, want 2: %v", len(patterns), patterns)
	}
	if patterns[0].FieldPath != "price" || patterns[0].Occurrences != 3 {
		t.Errorf("top pattern = %+v, want price x3", patterns[0])
	}
	if patterns[1].FieldPath != "name" || patterns[1].Occurrences != 1 {
		t.Errorf("second pattern = %+v, want name x1", patterns[1])
	}
}

func TestFieldErrorPatternsDistinguishesValues(t *testing.T) {
	runs := []store.BenchmarkRun{
		{ModelID: "m", Status: store.RunStatusComplete, FieldErrors: []jsoncmp.FieldError{
			{FieldPath: "total", Expected: "10", Actual: "11"},
		}},
		{ModelID: "m", Status: store.RunStatusComplete, FieldErrors: []jsoncmp.FieldError{
			{FieldPath: "total", Expected: "10", Actual: "12"},
		}},
	}
	patterns := aggregate.FieldErrorPatterns(runs)
	if len(patterns) != 2 {
		t.Errorf("same path with different wrong values should stay separate, got %v", patterns)
	}
}

func TestFieldErrorPatternsEmpty(t *testing.T) {
	if got := aggregate.FieldErrorPatterns(nil); len(got) != 0 {
		t.Errorf("expected no patterns, got %v", got)
	}
}
