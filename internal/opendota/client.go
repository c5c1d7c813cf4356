// Package opendota is a rate-limited client for the public OpenDota REST API.
//
// Calls are strictly sequential and spaced by a fixed delay. Only HTTP 429
// is retried, after a constant wait; every other failure is returned to the
// caller unchanged.
package opendota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL        = "https://api.opendota.com/api"
	DefaultRateLimitWait  = 60 * time.Second
	DefaultTimeout        = 30 * time.Second
	DefaultRateLimitRetry = 5
)

// ClientConfig holds options for creating a new Client
type ClientConfig struct {
	BaseURL             string
	APIKey              string
	RequestsPerSecond   float64
	Timeout             time.Duration
	RateLimitWait       time.Duration
	MaxRateLimitRetries int
	HTTPClient          *http.Client
	Logger              *zap.Logger
}

// Client talks to the OpenDota API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	wait       time.Duration
	maxRetries int
	logger     *zap.SugaredLogger
}

// NewClient creates a new client, filling unset options with defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimitWait <= 0 {
		cfg.RateLimitWait = DefaultRateLimitWait
	}
	if cfg.MaxRateLimitRetries <= 0 {
		cfg.MaxRateLimitRetries = DefaultRateLimitRetry
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	interval := time.Duration(float64(time.Second) / cfg.RequestsPerSecond)

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: cfg.HTTPClient,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		wait:       cfg.RateLimitWait,
		maxRetries: cfg.MaxRateLimitRetries,
		logger:     cfg.Logger.Sugar(),
	}
}

// getJSON issues GET {baseURL}/{endpoint}?{query} and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	label := metricLabel(endpoint)

	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		requestDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		if err != nil {
			requestsTotal.WithLabelValues(label, "error").Inc()
			return backoff.Permanent(fmt.Errorf("opendota %s: %w", endpoint, err))
		}
		defer resp.Body.Close()
		requestsTotal.WithLabelValues(label, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, resp.Body)
			statusErr := &HTTPStatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
			if statusErr.RateLimited() {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("opendota %s: decode response: %w", endpoint, err))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.wait), uint64(c.maxRetries)),
		ctx,
	)
	notify := func(err error, next time.Duration) {
		rateLimitRetries.Inc()
		c.logger.Warnw("Rate limited by OpenDota, waiting", "endpoint", endpoint, "wait", next, "error", err)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Errorw("OpenDota request failed", "endpoint", endpoint, "error", err)
		}
		return err
	}
	return nil
}

// metricLabel collapses per-match paths so the label set stays bounded.
func metricLabel(endpoint string) string {
	if strings.HasPrefix(endpoint, "matches/") {
		return "matches"
	}
	return endpoint
}
