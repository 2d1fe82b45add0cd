// Package engine turns a paid report into a bounded, concurrent, cost-aware
// batch of inference calls, then aggregates the outcomes and records a
// recommendation.
package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/LukeL99/modelblitz-app/internal/aggregate"
	"github.com/LukeL99/modelblitz-app/internal/catalog"
	"github.com/LukeL99/modelblitz-app/internal/config"
	"github.com/LukeL99/modelblitz-app/internal/costs"
	"github.com/LukeL99/modelblitz-app/internal/jsoncmp"
	"github.com/LukeL99/modelblitz-app/internal/notify"
	"github.com/LukeL99/modelblitz-app/internal/runner"
	"github.com/LukeL99/modelblitz-app/internal/store"
)

// executionItem is one (model, image, run-number) unit of planned work.
// Ephemeral: it maps 1:1 to a BenchmarkRun row once dispatched.
type executionItem struct {
	model      catalog.Model
	imageIndex int
	image      store.ImageSample
	runNumber  int
}

// Engine drives a report through its benchmark run.
type Engine struct {
	Store    store.Store
	Catalog  *catalog.Catalog
	Invoker  runner.Invoker
	Notifier notify.Notifier
	Config   *config.Config

	// Progress, if set, is called after every item reaches a terminal state.
	Progress func(done, total int)
}

// Run executes the benchmark for a report. The report ends in complete or
// failed status; re-invoking on a report past paid status is a no-op. The
// returned error reports unexpected conditions to the caller after the
// terminal status has been written best-effort — it never leaves the report
// running except when the status write itself fails, which is logged.
func (e *Engine) Run(ctx context.Context, reportID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("benchmark panicked: %v", r)
			e.failBestEffort(ctx, reportID)
		}
	}()

	rep, err := e.Store.GetReport(ctx, reportID)
	if err != nil {
		return err
	}
	if rep.Status != store.ReportStatusPaid {
		e.logf(reportID, "status is %q, expected %q; skipping", rep.Status, store.ReportStatusPaid)
		return nil
	}

	claimed, err := e.Store.ClaimReport(ctx, reportID, time.Now().UTC())
	if err != nil {
		return err
	}
	if !claimed {
		e.logf(reportID, "already claimed by another invocation; skipping")
		return nil
	}
	e.logf(reportID, "starting benchmark execution")

	if err := e.execute(ctx, rep); err != nil {
		e.logf(reportID, "execution failed: %v", err)
		e.failBestEffort(ctx, reportID)
		return err
	}
	return nil
}

func (e *Engine) execute(ctx context.Context, rep *store.Report) error {
	cfg := rep.Config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid report config: %w", err)
	}

	models := e.resolveModels(rep.ID, cfg.Models)
	if len(models) == 0 {
		return fmt.Errorf("no selected model resolves against the catalog")
	}

	estimator := costs.Estimator{
		BudgetUSD:   e.Config.Budget.SoftCeilingUSD,
		Concurrency: e.Config.Concurrency.Global,
	}

	effectiveRuns := cfg.RunsPerModel
	est := estimator.Estimate(models, effectiveRuns, len(cfg.Images))
	e.logf(rep.ID, "plan: %d models x %d images x %d runs = %d total, projected $%.4f",
		len(models), len(cfg.Images), effectiveRuns, est.TotalRuns, est.EstimatedCost)

	if est.EstimatedCost > e.Config.Budget.SoftCeilingUSD {
		optimized := estimator.OptimizeRuns(models, len(cfg.Images))
		e.logf(rep.ID, "projected cost exceeds $%.2f ceiling, clamping runs from %d to %d",
			e.Config.Budget.SoftCeilingUSD, effectiveRuns, optimized)
		if optimized < 1 {
			return fmt.Errorf("configuration exceeds budget at one run per model per image")
		}
		effectiveRuns = optimized
	}

	items := buildItems(models, cfg.Images, effectiveRuns)
	tracker := costs.NewTracker(e.Config.Budget.SoftCeilingUSD, e.Config.Budget.HardCeilingUSD)

	counts := e.dispatch(ctx, rep, items, tracker)
	e.logf(rep.ID, "execution settled: %d complete, %d failed, %d skipped, spent $%.4f",
		counts.completed, counts.failed, counts.skipped, tracker.Spent())

	runs, err := e.Store.ListRuns(ctx, rep.ID)
	if err != nil {
		e.recordSpend(ctx, rep.ID, tracker, len(models))
		return err
	}
	if len(runs) == 0 {
		e.recordSpend(ctx, rep.ID, tracker, len(models))
		return fmt.Errorf("no benchmark runs recorded")
	}

	aggs := aggregate.Compute(runs)
	var recommended *string
	if id, ok := aggregate.Recommend(aggs, cfg.Priorities); ok {
		recommended = &id
		e.logf(rep.ID, "recommended model: %s", id)
	} else {
		e.logf(rep.ID, "no model completed any runs; no recommendation")
	}

	if err := e.Store.SetReportResults(ctx, rep.ID, recommended, tracker.Spent(), len(models)); err != nil {
		return err
	}
	if err := e.Store.CompleteReport(ctx, rep.ID, time.Now().UTC()); err != nil {
		return err
	}
	e.logf(rep.ID, "report complete")

	e.sendNotification(ctx, rep, recommended, len(models), tracker.Spent())
	return nil
}

// dispatchCounts tracks item outcomes for logging; the authoritative record
// is the BenchmarkRun rows.
type dispatchCounts struct {
	completed int64
	failed    int64
	skipped   int64
}

// dispatch fans items out under the nested global and per-model limits and
// waits for every item to settle. Item failures never abort the batch.
func (e *Engine) dispatch(ctx context.Context, rep *store.Report, items []executionItem, tracker *costs.Tracker) *dispatchCounts {
	global := newSemaphore(e.Config.Concurrency.Global)
	perModel := make(map[string]semaphore)
	for _, it := range items {
		if _, ok := perModel[it.model.ID]; !ok {
			perModel[it.model.ID] = newSemaphore(e.Config.Concurrency.PerModel)
		}
	}

	start := time.Now()
	maxWall := time.Duration(e.Config.Execution.MaxWallClockSeconds) * time.Second

	var counts dispatchCounts
	var done atomic.Int64
	var wg sync.WaitGroup
	for _, item := range items {
		wg.Add(1)
		go func(item executionItem) {
			defer wg.Done()
			defer func() {
				if e.Progress != nil {
					e.Progress(int(done.Add(1)), len(items))
				}
			}()

			global.acquire()
			defer global.release()
			modelSem := perModel[item.model.ID]
			modelSem.acquire()
			defer modelSem.release()

			e.executeItem(ctx, rep, item, tracker, start, maxWall, &counts)
		}(item)
	}
	wg.Wait()
	return &counts
}

// executeItem runs the per-item guard sequence and drives one unit through
// the runner, writing its BenchmarkRun row first as running and then once
// more with the terminal outcome.
func (e *Engine) executeItem(ctx context.Context, rep *store.Report, item executionItem, tracker *costs.Tracker, start time.Time, maxWall time.Duration, counts *dispatchCounts) {
	// Ceiling guards apply at dispatch only; in-flight work always finishes.
	if tracker.ShouldAbort() || tracker.HardExceeded() {
		e.writeSkipped(ctx, rep.ID, item, "cost ceiling reached")
		atomic.AddInt64(&counts.skipped, 1)
		return
	}
	if time.Since(start) > maxWall {
		e.writeSkipped(ctx, rep.ID, item, "time limit exceeded")
		atomic.AddInt64(&counts.skipped, 1)
		return
	}

	run := &store.BenchmarkRun{
		ID:         uuid.New().String(),
		ReportID:   rep.ID,
		ModelID:    item.model.ID,
		ImageIndex: item.imageIndex,
		RunNumber:  item.runNumber,
		Status:     store.RunStatusRunning,
		CreatedAt:  time.Now().UTC(),
	}
	if err := e.Store.InsertRun(ctx, run); err != nil {
		log.Printf("warning: inserting run for %s image %d run %d: %v",
			item.model.ID, item.imageIndex, item.runNumber, err)
		atomic.AddInt64(&counts.failed, 1)
		return
	}

	defer func() {
		// A panic in a single item terminates only that item.
		if r := recover(); r != nil {
			run.Status = store.RunStatusFailed
			run.ErrorMessage = fmt.Sprintf("run panicked: %v", r)
			if err := e.Store.UpdateRun(ctx, run); err != nil {
				log.Printf("warning: updating panicked run %s: %v", run.ID, err)
			}
			atomic.AddInt64(&counts.failed, 1)
		}
	}()

	res := runner.RunModelBenchmark(ctx, e.Invoker, &runner.Opts{
		Model:    item.model,
		ImageURL: item.image.URL,
		Prompt:   rep.Config.Prompt,
		Schema:   rep.Config.Schema,
		Tracker:  tracker,
		Timeout:  time.Duration(e.Config.Execution.CallTimeoutSeconds) * time.Second,
	})

	if res.Err != "" {
		run.Status = store.RunStatusFailed
		run.ErrorMessage = res.Err
		run.ResponseTimeMs = res.ResponseTimeMs
		run.InputTokens = res.InputTokens
		run.OutputTokens = res.OutputTokens
		run.ActualCost = res.ActualCost
		if err := e.Store.UpdateRun(ctx, run); err != nil {
			log.Printf("warning: updating failed run %s: %v", run.ID, err)
		}
		atomic.AddInt64(&counts.failed, 1)
		return
	}

	if res.IsValidJSON && res.OutputJSON != nil {
		expected := item.image.ExpectedJSON
		run.ExactMatch = jsoncmp.CompareStrict(expected, res.OutputJSON)
		accuracy := jsoncmp.FieldAccuracy(expected, res.OutputJSON)
		run.FieldAccuracy = &accuracy
		run.FieldErrors = jsoncmp.DiffFields(expected, res.OutputJSON)
	}
	run.Status = store.RunStatusComplete
	run.OutputJSON = res.OutputJSON
	run.IsValidJSON = res.IsValidJSON
	run.ResponseTimeMs = res.ResponseTimeMs
	run.InputTokens = res.InputTokens
	run.OutputTokens = res.OutputTokens
	run.ActualCost = res.ActualCost
	run.EstimatedCost = res.EstimatedCost
	if err := e.Store.UpdateRun(ctx, run); err != nil {
		log.Printf("warning: updating completed run %s: %v", run.ID, err)
	}
	atomic.AddInt64(&counts.completed, 1)
}

func (e *Engine) writeSkipped(ctx context.Context, reportID string, item executionItem, reason string) {
	run := &store.BenchmarkRun{
		ID:           uuid.New().String(),
		ReportID:     reportID,
		ModelID:      item.model.ID,
		ImageIndex:   item.imageIndex,
		RunNumber:    item.runNumber,
		Status:       store.RunStatusSkipped,
		ErrorMessage: reason,
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.Store.InsertRun(ctx, run); err != nil {
		log.Printf("warning: recording skipped run for %s image %d run %d: %v",
			item.model.ID, item.imageIndex, item.runNumber, err)
	}
}

// resolveModels drops unknown model ids with a warning; the caller fails the
// report only when nothing resolves.
func (e *Engine) resolveModels(reportID string, ids []string) []catalog.Model {
	var models []catalog.Model
	for _, id := range ids {
		m, ok := e.Catalog.Lookup(id)
		if !ok {
			e.logf(reportID, "warning: model %q not in catalog, dropping", id)
			continue
		}
		models = append(models, m)
	}
	return models
}

func buildItems(models []catalog.Model, images []store.ImageSample, runsPerModel int) []executionItem {
	items := make([]executionItem, 0, len(models)*len(images)*runsPerModel)
	for _, m := range models {
		for idx, img := range images {
			for run := 1; run <= runsPerModel; run++ {
				items = append(items, executionItem{
					model:      m,
					imageIndex: idx,
					image:      img,
					runNumber:  run,
				})
			}
		}
	}
	return items
}

// sendNotification dispatches the completion notification after the
// terminal status has committed. Failures are logged, never propagated.
func (e *Engine) sendNotification(ctx context.Context, rep *store.Report, recommended *string, modelCount int, totalCost float64) {
	if e.Notifier == nil {
		return
	}
	summary := notify.Summary{
		ReportID:     rep.ID,
		ShareToken:   rep.ShareToken,
		ModelCount:   modelCount,
		ImageCount:   len(rep.Config.Images),
		TotalCostUSD: totalCost,
	}
	if recommended != nil {
		name := *recommended
		if m, ok := e.Catalog.Lookup(*recommended); ok {
			name = m.Name
		}
		summary.RecommendedModel = name
	}
	if err := e.Notifier.ReportReady(ctx, summary); err != nil {
		log.Printf("warning: report-ready notification failed (non-fatal): %v", err)
	}
}

// recordSpend writes the tracker total to the report on paths that fail
// after dispatch, so a failed report still shows what it actually cost.
func (e *Engine) recordSpend(ctx context.Context, reportID string, tracker *costs.Tracker, modelCount int) {
	if err := e.Store.SetReportResults(ctx, reportID, nil, tracker.Spent(), modelCount); err != nil {
		log.Printf("warning: recording spend for failed report %s: %v", reportID, err)
	}
}

func (e *Engine) failBestEffort(ctx context.Context, reportID string) {
	if err := e.Store.FailReport(ctx, reportID, time.Now().UTC()); err != nil {
		// Worst case: the report stays running and needs external
		// reconciliation. Surface loudly.
		log.Printf("ERROR: could not mark report %s failed, manual reconciliation required: %v", reportID, err)
	}
}

func (e *Engine) logf(reportID, format string, args ...any) {
	log.Printf("[benchmark:%s] %s", reportID, fmt.Sprintf(format, args...))
}
