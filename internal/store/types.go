package store

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/LukeL99/modelblitz-app/internal/jsoncmp"
)

// Report lifecycle. A report enters the engine in "paid" status; "complete"
// and "failed" are terminal.
const (
	ReportStatusPaid     = "paid"
	ReportStatusRunning  = "running"
	ReportStatusComplete = "complete"
	ReportStatusFailed   = "failed"
)

// BenchmarkRun lifecycle. A row is inserted as "running" at dispatch and
// mutated exactly once to a terminal status. "skipped" means no call was
// attempted (cost or time ceiling); "failed" means the call was attempted
// and did not produce a usable result.
const (
	RunStatusRunning  = "running"
	RunStatusComplete = "complete"
	RunStatusFailed   = "failed"
	RunStatusSkipped  = "skipped"
)

// ImageSample is one benchmark input: an image and the JSON a correct
// extraction should produce for it.
type ImageSample struct {
	URL          string         `json:"url"`
	ExpectedJSON map[string]any `json:"expected_json"`
}

// ReportConfig is the frozen configuration snapshot a report runs with.
// It is stored as a JSON column and validated at the read boundary;
// the engine never sees an untyped blob.
type ReportConfig struct {
	Models       []string       `json:"models"`
	RunsPerModel int            `json:"runs_per_model"`
	Priorities   []string       `json:"priorities"`
	Prompt       string         `json:"prompt"`
	Schema       map[string]any `json:"schema"`
	Images       []ImageSample  `json:"images"`
}

// Validate rejects configurations the engine cannot execute. All problems
// are reported, not just the first.
func (c *ReportConfig) Validate() error {
	var errs *multierror.Error
	if len(c.Models) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("no models selected"))
	}
	if c.RunsPerModel < 1 {
		errs = multierror.Append(errs, fmt.Errorf("runs_per_model must be at least 1, got %d", c.RunsPerModel))
	}
	if c.Prompt == "" {
		errs = multierror.Append(errs, fmt.Errorf("extraction prompt is empty"))
	}
	if len(c.Images) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("no images provided"))
	}
	for i, img := range c.Images {
		if img.URL == "" {
			errs = multierror.Append(errs, fmt.Errorf("image %d: url is empty", i))
		}
	}
	for _, p := range c.Priorities {
		switch p {
		case "accuracy", "speed", "cost":
		default:
			errs = multierror.Append(errs, fmt.Errorf("unknown priority %q", p))
		}
	}
	return errs.ErrorOrNil()
}

// Report is one paid benchmark request.
type Report struct {
	ID               string       `gorm:"primaryKey" json:"id"`
	Status           string       `gorm:"index" json:"status"`
	ShareToken       string       `json:"share_token"`
	Config           ReportConfig `gorm:"serializer:json" json:"config"`
	RecommendedModel *string      `json:"recommended_model"`
	TotalAPICost     float64      `json:"total_api_cost"`
	ModelCount       int          `json:"model_count"`
	StartedAt        *time.Time   `json:"started_at"`
	CompletedAt      *time.Time   `json:"completed_at"`
	CreatedAt        time.Time    `json:"created_at"`
}

// BenchmarkRun is the durable record of one (model, image, run-number) unit.
type BenchmarkRun struct {
	ID             string               `gorm:"primaryKey" json:"id"`
	ReportID       string               `gorm:"index" json:"report_id"`
	ModelID        string               `json:"model_id"`
	ImageIndex     int                  `json:"image_index"`
	RunNumber      int                  `json:"run_number"`
	Status         string               `json:"status"`
	OutputJSON     map[string]any       `gorm:"serializer:json" json:"output_json"`
	IsValidJSON    bool                 `json:"is_valid_json"`
	ExactMatch     bool                 `json:"exact_match"`
	FieldAccuracy  *float64             `json:"field_accuracy"`
	FieldErrors    []jsoncmp.FieldError `gorm:"serializer:json" json:"field_errors"`
	ResponseTimeMs int64                `json:"response_time_ms"`
	InputTokens    int                  `json:"input_tokens"`
	OutputTokens   int                  `json:"output_tokens"`
	ActualCost     float64              `json:"actual_cost"`
	EstimatedCost  float64              `json:"estimated_cost"`
	ErrorMessage   string               `json:"error_message"`
	CreatedAt      time.Time            `json:"created_at"`
}
