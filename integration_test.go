//go:build integration

package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/LukeL99/modelblitz-app/internal/catalog"
	"github.com/LukeL99/modelblitz-app/internal/config"
	"github.com/LukeL99/modelblitz-app/internal/engine"
	"github.com/LukeL99/modelblitz-app/internal/provider"
	"github.com/LukeL99/modelblitz-app/internal/store"
)

// stubInvoker answers every call with a fixed extraction so the pipeline can
// be exercised without network access or an API key.
type stubInvoker struct{}

func (stubInvoker) Invoke(_ context.Context, req provider.Request) (*provider.Response, error) {
	return &provider.Response{
		Text:         `{"merchant": "Acme Corp", "total": 41.5}`,
		InputTokens:  1200,
		OutputTokens: 80,
		Latency:      20 * time.Millisecond,
	}, nil
}

// TestBenchmarkEndToEnd drives a report from paid to complete through the
// real sqlite store.
func TestBenchmarkEndToEnd(t *testing.T) {
	db, err := store.Open(store.Options{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "integration.db"),
	})
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}

	cat := catalog.New([]catalog.Model{
		{ID: "test/fast", Name: "Fast", InputCostPer1M: 0.1, OutputCostPer1M: 0.4, SupportsVision: true},
		{ID: "test/sharp", Name: "Sharp", InputCostPer1M: 3.0, OutputCostPer1M: 15.0, SupportsVision: true},
	})

	rep := &store.Report{
		ID:         uuid.New().String(),
		Status:     store.ReportStatusPaid,
		ShareToken: uuid.New().String(),
		Config: store.ReportConfig{
			Models:       []string{"test/fast", "test/sharp"},
			RunsPerModel: 2,
			Priorities:   []string{"cost", "accuracy"},
			Prompt:       "Extract the merchant and total from this receipt.",
			Images: []store.ImageSample{
				{
					URL:          "https://example.com/receipt-1.png",
					ExpectedJSON: map[string]any{"merchant": "Acme Corp", "total": 41.5},
				},
				{
					URL:          "https://example.com/receipt-2.png",
					ExpectedJSON: map[string]any{"merchant": "Other Shop", "total": 12.0},
				},
			},
		},
		CreatedAt: time.Now().UTC(),
	}
	ctx := context.Background()
	if err := db.CreateReport(ctx, rep); err != nil {
		t.Fatalf("creating report: %v", err)
	}

	eng := &engine.Engine{
		Store:   db,
		Catalog: cat,
		Invoker: stubInvoker{},
		Config:  config.Default(),
	}
	if err := eng.Run(ctx, rep.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := db.GetReport(ctx, rep.ID)
	if err != nil {
		t.Fatalf("reloading report: %v", err)
	}
	if got.Status != store.ReportStatusComplete {
		t.Fatalf("status = %q, want complete", got.Status)
	}
	if got.RecommendedModel == nil {
		t.Fatal("expected a recommendation")
	}
	// Cost ranked first and every model answers identically, so the cheap
	// model must win.
	if *got.RecommendedModel != "test/fast" {
		t.Errorf("recommended = %s, want test/fast", *got.RecommendedModel)
	}
	if got.TotalAPICost <= 0 {
		t.Errorf("TotalAPICost = %f, want > 0", got.TotalAPICost)
	}

	runs, err := db.ListRuns(ctx, rep.ID)
	if err != nil {
		t.Fatalf("listing runs: %v", err)
	}
	if len(runs) != 8 {
		t.Fatalf("got %d runs, want 8 (2 models x 2 images x 2 runs)", len(runs))
	}
	for _, r := range runs {
		if r.Status != store.RunStatusComplete {
			t.Errorf("run %s status = %q", r.ID, r.Status)
			continue
		}
		if r.FieldAccuracy == nil {
			t.Errorf("run %s has no accuracy", r.ID)
			continue
		}
		// Image 0 matches the stub output exactly, image 1 does not.
		if r.ImageIndex == 0 && (*r.FieldAccuracy != 100 || !r.ExactMatch) {
			t.Errorf("run %s image 0: accuracy %v exact %v", r.ID, *r.FieldAccuracy, r.ExactMatch)
		}
		if r.ImageIndex == 1 && (*r.FieldAccuracy != 0 || r.ExactMatch) {
			t.Errorf("run %s image 1: accuracy %v exact %v", r.ID, *r.FieldAccuracy, r.ExactMatch)
		}
	}

	// Second invocation must be a no-op on the settled report.
	if err := eng.Run(ctx, rep.ID); err != nil {
		t.Fatalf("re-run: %v", err)
	}
	if again, _ := db.ListRuns(ctx, rep.ID); len(again) != len(runs) {
		t.Errorf("re-run added rows: %d -> %d", len(runs), len(again))
	}
}
