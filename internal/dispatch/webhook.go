package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"prospectsheet/internal/util/logx"
)

// Triggerer starts the automation for one spreadsheet.
type Triggerer interface {
	Trigger(ctx context.Context, spreadsheetID string) error
}

// Webhook posts {"spreadsheet_id": ...} to an automation endpoint.
type Webhook struct {
	url  string
	http *http.Client
	log  *zap.Logger
}

func NewWebhook(url string, hc *http.Client, log *zap.Logger) *Webhook {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = logx.L()
	}
	return &Webhook{url: url, http: hc, log: log}
}

// HTTPError is a webhook answer outside 2xx.
type HTTPError struct{ Status int }

func (e *HTTPError) Error() string { return fmt.Sprintf("HTTP %d", e.Status) }

func (w *Webhook) Trigger(ctx context.Context, spreadsheetID string) error {
	b, err := json.Marshal(map[string]string{"spreadsheet_id": spreadsheetID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := w.http.Do(req)
	if err != nil {
		w.log.Warn("webhook post failed", zap.String("spreadsheet_id", spreadsheetID), zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	w.log.Info("webhook post",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Status: resp.StatusCode}
	}
	return nil
}
