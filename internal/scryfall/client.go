// Package scryfall implements a client for the Scryfall card database API
// with rate limiting, batch lookups, and retry on rate-limit responses.
package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production Scryfall API endpoint.
	DefaultBaseURL = "https://api.scryfall.com"

	// MaxBatchSize is the maximum number of cards per collection request
	// (Scryfall limit is 75).
	MaxBatchSize = 75

	rateLimitDelay = 100 * time.Millisecond // 10 req/sec, also paces batches
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
)

// Client is a Scryfall API client with rate limiting.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	sleep       func(time.Duration)
}

// ClientOptions configures a Client. Zero-value fields get defaults.
type ClientOptions struct {
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	// HTTPClient overrides the underlying HTTP client.
	HTTPClient *http.Client

	// UserAgent overrides the User-Agent header.
	UserAgent string

	// Sleep overrides the backoff delay function so tests can observe
	// retry timing without actually waiting.
	Sleep func(time.Duration)
}

// NewClient creates a new Scryfall API client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: requestTimeout}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "MulliganTrainer/1.0"
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	return &Client{
		baseURL:     opts.BaseURL,
		httpClient:  opts.HTTPClient,
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   opts.UserAgent,
		sleep:       opts.Sleep,
	}
}

// Collection fetches up to MaxBatchSize cards by exact name using the batch
// /cards/collection endpoint. It returns the resolved cards and the names
// Scryfall reported as not found.
func (c *Client) Collection(ctx context.Context, names []string) ([]Card, []string, error) {
	if len(names) == 0 {
		return nil, nil, nil
	}
	if len(names) > MaxBatchSize {
		return nil, nil, fmt.Errorf("collection request exceeds %d cards: %d", MaxBatchSize, len(names))
	}

	identifiers := make([]CardIdentifier, len(names))
	for i, name := range names {
		identifiers[i] = CardIdentifier{Name: name}
	}

	body, err := json.Marshal(CollectionRequest{Identifiers: identifiers})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal collection request: %w", err)
	}

	var resp CollectionResponse
	if err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/cards/collection", body, &resp); err != nil {
		return nil, nil, err
	}

	notFound := make([]string, 0, len(resp.NotFound))
	for _, id := range resp.NotFound {
		if id.Name != "" {
			notFound = append(notFound, id.Name)
		}
	}

	return resp.Data, notFound, nil
}

// Named performs a single fuzzy-name lookup via /cards/named. A card that
// Scryfall cannot match returns a *NotFoundError.
func (c *Client) Named(ctx context.Context, name string) (*Card, error) {
	lookupURL := fmt.Sprintf("%s/cards/named?fuzzy=%s", c.baseURL, url.QueryEscape(name))

	var card Card
	if err := c.doRequest(ctx, http.MethodGet, lookupURL, nil, &card); err != nil {
		return nil, err
	}

	return &card, nil
}

// doRequest performs an HTTP request with rate limiting and retry on 429.
// Rate-limit responses are retried up to maxRetries times with exponential
// backoff (1s, 2s, 4s), honoring a Retry-After header when the server sends
// one. Any other non-success status fails immediately.
func (c *Client) doRequest(ctx context.Context, method, requestURL string, body []byte, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}

		status := resp.StatusCode
		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case status == http.StatusOK:
			if readErr != nil {
				return fmt.Errorf("read response body: %w", readErr)
			}
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("parse JSON response: %w", err)
			}
			return nil

		case status == http.StatusTooManyRequests:
			lastErr = &APIError{Status: status, Code: "rate_limited", Details: "rate limited (HTTP 429)"}
			if attempt < maxRetries {
				c.sleep(retryDelay(resp.Header.Get("Retry-After"), backoff))
				backoff *= 2
				continue
			}
			return fmt.Errorf("max retries exceeded: %w", lastErr)

		case status == http.StatusNotFound:
			return &NotFoundError{URL: requestURL}

		default:
			var apiErr APIError
			if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Details != "" {
				apiErr.Status = status
				return &apiErr
			}
			return &APIError{Status: status, Code: "unexpected_status", Details: string(respBody)}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// retryDelay resolves the wait before a retry attempt. A Retry-After header
// (seconds) overrides the computed backoff.
func retryDelay(retryAfter string, backoff time.Duration) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.ParseFloat(retryAfter, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return backoff
}
