// Package jsoncmp scores a model's extracted JSON against the expected JSON
// for an image: strict structural equality, per-field accuracy over the
// expected object's leaf paths, and a field-level diff.
package jsoncmp

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FieldError is one leaf path where expected and actual output disagree.
// Values are rendered as compact JSON; a missing side renders as "(missing)".
type FieldError struct {
	FieldPath string `json:"fieldPath"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
}

const missingValue = "(missing)"

// CompareStrict reports deep structural equality. Object key order is
// irrelevant, array order is significant, and numbers compare exactly as
// decoded with no float tolerance.
func CompareStrict(expected, actual any) bool {
	switch e := expected.(type) {
	case map[string]any:
		a, ok := actual.(map[string]any)
		if !ok || len(a) != len(e) {
			return false
		}
		for k, ev := range e {
			av, ok := a[k]
			if !ok || !CompareStrict(ev, av) {
				return false
			}
		}
		return true
	case []any:
		a, ok := actual.([]any)
		if !ok || len(a) != len(e) {
			return false
		}
		for i := range e {
			if !CompareStrict(e[i], a[i]) {
				return false
			}
		}
		return true
	default:
		return scalarEqual(expected, actual)
	}
}

// FieldAccuracy returns the percentage (0-100) of the expected object's leaf
// paths that are present in actual with an equal value. Extra keys in actual
// do not lower the score; only expected leaves count toward the denominator.
// An empty expected object scores 0 against anything, empty actual included:
// there is nothing to verify, and 100 would skew model means upward.
func FieldAccuracy(expected, actual any) float64 {
	switch e := expected.(type) {
	case map[string]any:
		if len(e) == 0 {
			return 0
		}
	case []any:
		if len(e) == 0 {
			return 0
		}
	}

	var total, correct int
	walkExpected("", expected, actual, true, func(path string, ev, av any, present bool) {
		total++
		if present && scalarEqual(ev, av) {
			correct++
		}
	})
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// DiffFields returns one entry per leaf path that differs between expected
// and actual, including leaves missing from actual and extra leaves actual
// has that expected does not. Paths use dotted/bracket notation
// ("items[0].price"), sorted for deterministic output.
func DiffFields(expected, actual any) []FieldError {
	var diffs []FieldError
	walkExpected("", expected, actual, true, func(path string, ev, av any, present bool) {
		if present && scalarEqual(ev, av) {
			return
		}
		actualStr := missingValue
		if present {
			actualStr = render(av)
		}
		diffs = append(diffs, FieldError{FieldPath: path, Expected: render(ev), Actual: actualStr})
	})
	collectExtras("", expected, actual, &diffs)
	sort.Slice(diffs, func(i, j int) bool { return diffs[i].FieldPath < diffs[j].FieldPath })
	return diffs
}

// walkExpected visits every leaf path of expected alongside the matching
// value in actual. present is false once the path no longer exists in actual.
// A mismatch in container kind (object where array expected, etc.) marks the
// whole subtree's leaves as absent.
func walkExpected(path string, expected, actual any, present bool, visit func(path string, ev, av any, present bool)) {
	switch e := expected.(type) {
	case map[string]any:
		if len(e) == 0 {
			visit(path, e, actual, present)
			return
		}
		a, ok := actual.(map[string]any)
		keys := make([]string, 0, len(e))
		for k := range e {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := joinPath(path, k)
			if present && ok {
				av, found := a[k]
				walkExpected(child, e[k], av, found, visit)
			} else {
				walkExpected(child, e[k], nil, false, visit)
			}
		}
	case []any:
		if len(e) == 0 {
			visit(path, e, actual, present)
			return
		}
		a, ok := actual.([]any)
		for i, ev := range e {
			child := fmt.Sprintf("%s[%d]", path, i)
			if present && ok && i < len(a) {
				walkExpected(child, ev, a[i], true, visit)
			} else {
				walkExpected(child, ev, nil, false, visit)
			}
		}
	default:
		visit(path, expected, actual, present)
	}
}

// collectExtras records leaves present in actual but absent from expected.
func collectExtras(path string, expected, actual any, diffs *[]FieldError) {
	switch a := actual.(type) {
	case map[string]any:
		e, ok := expected.(map[string]any)
		keys := make([]string, 0, len(a))
		for k := range a {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := joinPath(path, k)
			if ok {
				if ev, found := e[k]; found {
					collectExtras(child, ev, a[k], diffs)
					continue
				}
			}
			appendExtraLeaves(child, a[k], diffs)
		}
	case []any:
		e, ok := expected.([]any)
		for i, av := range a {
			child := fmt.Sprintf("%s[%d]", path, i)
			if ok && i < len(e) {
				collectExtras(child, e[i], av, diffs)
			} else {
				appendExtraLeaves(child, av, diffs)
			}
		}
	}
}

func appendExtraLeaves(path string, actual any, diffs *[]FieldError) {
	switch a := actual.(type) {
	case map[string]any:
		if len(a) == 0 {
			*diffs = append(*diffs, FieldError{FieldPath: path, Expected: missingValue, Actual: render(a)})
			return
		}
		keys := make([]string, 0, len(a))
		for k := range a {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			appendExtraLeaves(joinPath(path, k), a[k], diffs)
		}
	case []any:
		if len(a) == 0 {
			*diffs = append(*diffs, FieldError{FieldPath: path, Expected: missingValue, Actual: render(a)})
			return
		}
		for i, av := range a {
			appendExtraLeaves(fmt.Sprintf("%s[%d]", path, i), av, diffs)
		}
	default:
		*diffs = append(*diffs, FieldError{FieldPath: path, Expected: missingValue, Actual: render(actual)})
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// scalarEqual compares leaf values. Numeric types are normalized so that a
// float64 from encoding/json and an int from test fixtures compare equal.
func scalarEqual(a, b any) bool {
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		return bok && af == bf
	}
	switch av := a.(type) {
	case map[string]any, []any:
		return CompareStrict(av, b)
	default:
		return a == b
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func render(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
