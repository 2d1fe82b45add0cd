// Package store persists reports and benchmark runs. Each BenchmarkRun row
// is owned by exactly one execution item for its whole lifetime, so no
// cross-row transactions are needed.
package store

import (
	"context"
	"time"
)

// Store is the persistence contract the engine drives.
type Store interface {
	CreateReport(ctx context.Context, r *Report) error
	GetReport(ctx context.Context, id string) (*Report, error)

	// ClaimReport transitions a report from paid to running, stamping the
	// start time. Returns false if the report was not in paid status — the
	// idempotency guard against double execution.
	ClaimReport(ctx context.Context, id string, startedAt time.Time) (bool, error)

	// SetReportResults records the aggregation outcome on the report.
	SetReportResults(ctx context.Context, id string, recommendedModel *string, totalAPICost float64, modelCount int) error

	// CompleteReport and FailReport move a running report to its terminal
	// status and stamp the completion time.
	CompleteReport(ctx context.Context, id string, completedAt time.Time) error
	FailReport(ctx context.Context, id string, completedAt time.Time) error

	InsertRun(ctx context.Context, run *BenchmarkRun) error
	UpdateRun(ctx context.Context, run *BenchmarkRun) error
	ListRuns(ctx context.Context, reportID string) ([]BenchmarkRun, error)
}
