// Package runner executes one benchmark unit: a single inference call for a
// (model, image) pair, normalized into a RunResult. The runner never
// retries; retry-vs-fatal is the scheduler's call.
package runner

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/LukeL99/modelblitz-app/internal/catalog"
	"github.com/LukeL99/modelblitz-app/internal/costs"
	"github.com/LukeL99/modelblitz-app/internal/provider"
)

// Invoker is the inference-provider boundary. provider.Client implements it;
// tests substitute fakes.
type Invoker interface {
	Invoke(ctx context.Context, req provider.Request) (*provider.Response, error)
}

// Opts describes one benchmark call.
type Opts struct {
	Model    catalog.Model
	ImageURL string
	Prompt   string
	Schema   map[string]any
	Tracker  *costs.Tracker
	// Timeout bounds the single call. Zero means no per-call bound beyond ctx.
	Timeout time.Duration
}

// RunResult is the normalized outcome of one call. Err is non-empty on
// failure; failed calls record no cost against the tracker.
type RunResult struct {
	OutputJSON     map[string]any
	RawOutput      string
	IsValidJSON    bool
	ResponseTimeMs int64
	InputTokens    int
	OutputTokens   int
	ActualCost     float64
	EstimatedCost  float64
	Err            string
}

// RunModelBenchmark makes exactly one inference call and normalizes the
// result. On success the actual cost is recorded against the tracker.
func RunModelBenchmark(ctx context.Context, inv Invoker, opts *Opts) *RunResult {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := inv.Invoke(ctx, provider.Request{
		ModelID:  opts.Model.ID,
		ImageURL: opts.ImageURL,
		Prompt:   opts.Prompt,
		Schema:   opts.Schema,
	})
	if err != nil {
		return &RunResult{
			Err:            err.Error(),
			ResponseTimeMs: time.Since(start).Milliseconds(),
		}
	}

	outputJSON, valid := parseOutput(resp.Text)

	actualCost := opts.Model.CostPerCall(resp.InputTokens, resp.OutputTokens)
	if opts.Tracker != nil {
		opts.Tracker.Record(actualCost)
	}

	latency := resp.Latency
	if latency <= 0 {
		latency = time.Since(start)
	}

	return &RunResult{
		OutputJSON:     outputJSON,
		RawOutput:      resp.Text,
		IsValidJSON:    valid,
		ResponseTimeMs: latency.Milliseconds(),
		InputTokens:    resp.InputTokens,
		OutputTokens:   resp.OutputTokens,
		ActualCost:     actualCost,
		EstimatedCost:  opts.Model.CostPerCall(costs.AssumedInputTokens, costs.AssumedOutputTokens),
	}
}

// parseOutput best-effort parses model output as a JSON object. Models often
// wrap JSON in markdown fences despite instructions; strip those first, then
// fall back to the outermost brace pair.
func parseOutput(text string) (map[string]any, bool) {
	candidate := strings.TrimSpace(text)
	if strings.HasPrefix(candidate, "```") {
		candidate = strings.TrimPrefix(candidate, "```json")
		candidate = strings.TrimPrefix(candidate, "```")
		candidate = strings.TrimSuffix(strings.TrimSpace(candidate), "```")
		candidate = strings.TrimSpace(candidate)
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(candidate), &out); err == nil {
		return out, true
	}

	open := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if open >= 0 && end > open {
		if err := json.Unmarshal([]byte(candidate[open:end+1]), &out); err == nil {
			return out, true
		}
	}
	return nil, false
}
