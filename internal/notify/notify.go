// Package notify dispatches report-ready notifications. Notification is a
// fire-and-forget side effect: failures are logged by the caller and never
// affect report status.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Summary is the completion payload downstream consumers receive.
type Summary struct {
	ReportID         string  `json:"report_id"`
	ShareToken       string  `json:"share_token,omitempty"`
	RecommendedModel string  `json:"recommended_model,omitempty"`
	ModelCount       int     `json:"model_count"`
	ImageCount       int     `json:"image_count"`
	TotalCostUSD     float64 `json:"total_cost_usd"`
}

type Notifier interface {
	ReportReady(ctx context.Context, s Summary) error
}

// Webhook POSTs the summary as JSON to a configured URL.
type Webhook struct {
	URL    string
	client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{
		URL:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Webhook) ReportReady(ctx context.Context, s Summary) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification webhook returned %s", resp.Status)
	}
	return nil
}

// LogNotifier writes the summary to the process log. Used when no webhook
// is configured.
type LogNotifier struct{}

func (LogNotifier) ReportReady(_ context.Context, s Summary) error {
	log.Printf("report %s ready: recommended=%s models=%d images=%d cost=$%.4f",
		s.ReportID, s.RecommendedModel, s.ModelCount, s.ImageCount, s.TotalCostUSD)
	return nil
}
