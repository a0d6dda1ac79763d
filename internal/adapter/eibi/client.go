// Package eibi retrieves and parses EiBi broadcast schedule files.
package eibi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kiwidx/eibi-schedule-etl/internal/config"
	"github.com/kiwidx/eibi-schedule-etl/internal/domain"
	"github.com/kiwidx/eibi-schedule-etl/internal/observability"
)

// ErrScheduleUnavailable reports that the seasonal schedule file is not
// published on the server (HTTP 404). Retrying will not help until EiBi
// uploads the new season's file.
var ErrScheduleUnavailable = errors.New("schedule file not published")

// Client downloads the seasonal schedule file and implements
// pipeline.EntrySource. Downloads use a fixed small number of attempts with
// a short timeout each; a 404 aborts immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   int
	retryDelay time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a schedule download client.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		attempts:   cfg.FetchAttempts,
		retryDelay: cfg.FetchRetryDelay,
		logger:     logger,
		metrics:    metrics,
	}
}

// FetchEntries downloads the schedule file for the given season and parses
// it into raw entries. Malformed lines are counted and dropped, not fatal.
func (c *Client) FetchEntries(ctx context.Context, window domain.SeasonWindow) ([]domain.RawEntry, error) {
	u := c.baseURL + "/" + window.SkedFilename()
	start := time.Now()

	body, err := c.download(ctx, u)
	if err != nil {
		return nil, err
	}

	entries, malformed := ParseSchedule(body, c.logger)
	c.metrics.MalformedLines.Add(float64(malformed))
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	c.logger.Info("schedule fetched",
		"url", u, "entries", len(entries), "malformed", malformed)
	return entries, nil
}

func (c *Client) download(ctx context.Context, u string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		body, err := c.get(ctx, u)
		if err == nil {
			c.metrics.FetchAttempts.WithLabelValues("success").Inc()
			return body, nil
		}
		if errors.Is(err, ErrScheduleUnavailable) {
			c.metrics.FetchAttempts.WithLabelValues("not_found").Inc()
			return nil, err
		}

		c.metrics.FetchAttempts.WithLabelValues("error").Inc()
		c.logger.Warn("schedule fetch attempt failed",
			"url", u, "attempt", attempt, "error", err)
		lastErr = err

		if attempt < c.attempts {
			if !sleepWithContext(ctx, c.retryDelay) {
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.attempts, lastErr)
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrScheduleUnavailable, u)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read schedule body: %w", err)
	}
	return body, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
