package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LukeL99/modelblitz-app/internal/notify"
)

func TestWebhookPostsSummary(t *testing.T) {
	var got notify.Summary
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := notify.NewWebhook(srv.URL)
	err := wh.ReportReady(context.Background(), notify.Summary{
		ReportID:         "r1",
		RecommendedModel: "Model A",
		ModelCount:       3,
		ImageCount:       2,
		TotalCostUSD:     1.23,
	})
	if err != nil {
		t.Fatalf("ReportReady: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if got.ReportID != "r1" || got.RecommendedModel != "Model A" || got.TotalCostUSD != 1.23 {
		t.Errorf("payload = %+v", got)
	}
}

func TestWebhookNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	wh := notify.NewWebhook(srv.URL)
	if err := wh.ReportReady(context.Background(), notify.Summary{ReportID: "r1"}); err == nil {
		t.Error("expected error for 502 response")
	}
}

func TestLogNotifierNeverFails(t *testing.T) {
	if err := (notify.LogNotifier{}).ReportReady(context.Background(), notify.Summary{ReportID: "r1"}); err != nil {
		t.Errorf("LogNotifier: %v", err)
	}
}
