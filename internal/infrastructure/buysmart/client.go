package buysmart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/buysmart/comparison/internal/domain"
	"github.com/buysmart/comparison/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 4 << 20

// ClientConfig holds the backend connection settings
type ClientConfig struct {
	BaseURL           string
	Token             string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
}

// Client handles communication with the BuySmart backend comparison endpoints
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	rateLimiter *rate.Limiter
	maxRetries  int
	retryDelay  func(attempt int) time.Duration
	debug       bool
	logger      *logging.Logger
}

// NewClient creates a new backend API client
func NewClient(cfg ClientConfig, logger *logging.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxRetries:  cfg.MaxRetries,
		retryDelay:  exponentialBackoff,
		logger:      logger.Component("buysmart-api"),
	}
}

// SetDebug toggles logging of raw response bodies
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func (c *Client) debugLog(ctx context.Context, msg string, fields ...any) {
	if c.debug {
		c.logger.Debug(ctx, msg, fields...)
	}
}

// AvailableProducts lists the user's analyzed products. Candidates that fail validation are skipped.
func (c *Client) AvailableProducts(ctx context.Context) ([]domain.AvailableProduct, error) {
	var products []domain.AvailableProduct
	if err := c.doJSON(ctx, http.MethodGet, "/comparison/available-products", nil, &products); err != nil {
		return nil, err
	}
	return c.keepValidCandidates(ctx, products), nil
}

// SearchProducts runs the backend's name/brand search over the user's analyses
func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.AvailableProduct, error) {
	params := url.Values{}
	params.Add("query", query)

	var products []domain.AvailableProduct
	if err := c.doJSON(ctx, http.MethodGet, "/comparison/search?"+params.Encode(), nil, &products); err != nil {
		return nil, err
	}
	return c.keepValidCandidates(ctx, products), nil
}

// Compare resolves analysis ids into full comparison records.
// Any product failing validation fails the whole call.
func (c *Client) Compare(ctx context.Context, analysisIDs []string) ([]domain.ComparisonProduct, error) {
	if len(analysisIDs) == 0 || len(analysisIDs) > domain.MaxComparisonProducts {
		return nil, fmt.Errorf("%w: compare needs 1 to %d analysis ids, got %d",
			domain.ErrInvalidRequest, domain.MaxComparisonProducts, len(analysisIDs))
	}
	for _, id := range analysisIDs {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: empty analysis id", domain.ErrInvalidRequest)
		}
	}

	var resp domain.CompareResponse
	req := domain.CompareRequest{AnalysisIDs: analysisIDs}
	if err := c.doJSON(ctx, http.MethodPost, "/comparison/compare", req, &resp); err != nil {
		return nil, err
	}

	if resp.Products == nil {
		return nil, fmt.Errorf("%w: response missing products", domain.ErrFetchFailed)
	}
	for i, p := range resp.Products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: product %d invalid: %v", domain.ErrFetchFailed, i, err)
		}
	}
	return resp.Products, nil
}

func (c *Client) keepValidCandidates(ctx context.Context, products []domain.AvailableProduct) []domain.AvailableProduct {
	valid := make([]domain.AvailableProduct, 0, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			c.logger.Warn(ctx, "skipping invalid candidate", "analysis_id", p.AnalysisID, "reason", err.Error())
			continue
		}
		valid = append(valid, p)
	}
	return valid
}

// doJSON sends body as JSON and decodes a 200 response into out, retrying transient failures
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	if err := checkToken(c.token, time.Now()); err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	reqURL := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			if err := c.wait(ctx, c.retryDelay(attempt-1)); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", domain.ErrFetchFailed, err)
		}

		resp, err := c.doRequest(ctx, method, reqURL, payload)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %v", domain.ErrFetchFailed, ctx.Err())
			}
			c.logger.Warn(ctx, "request error", "attempt", attempt, "path", path, "error", err.Error())
			lastErr = err
			continue
		}

		data, err := readLimitedBody(resp.Body, maxResponseBytes)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: read body: %v", domain.ErrFetchFailed, err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			c.debugLog(ctx, "response body", "path", path, "body", string(data))
			if err := json.Unmarshal(data, out); err != nil {
				c.logger.Warn(ctx, "json decode error", "path", path, "error", err.Error())
				return fmt.Errorf("%w: decode response: %v", domain.ErrFetchFailed, err)
			}
			return nil
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: status %d", domain.ErrUnauthorized, resp.StatusCode)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			c.logger.Warn(ctx, "api error", "attempt", attempt, "path", path, "status", resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
			continue
		default:
			c.logger.Warn(ctx, "api rejected request", "path", path, "status", resp.StatusCode, "body", string(data))
			return fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
		}
	}

	c.logger.Error(ctx, "all retries failed", lastErr, "path", path)
	return lastErr
}

// doRequest executes one HTTP request with the standard headers
func (c *Client) doRequest(ctx context.Context, method, reqURL string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrFetchFailed, err)
	}

	req.Header.Set("User-Agent", "BuySmart-Comparison/1.0")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	return resp, nil
}

func (c *Client) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// readLimitedBody reads at most limit bytes and errors if the body is larger
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}
