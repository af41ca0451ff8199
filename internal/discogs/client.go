package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// maxRetryAfter caps how long a Retry-After header can stall the client.
const maxRetryAfter = 60 * time.Second

// Sentinel errors.
var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the token is rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned when the API rate limit is exceeded after retries.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Client is a Discogs API client. Requests are serialized and paced so that
// consecutive requests start at least interval apart.
type Client struct {
	username    string
	userAgent   string
	baseURL     string
	httpClient  *http.Client
	interval    time.Duration
	retryDelays []time.Duration

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a new Discogs API client from the provided configuration.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	interval := cfg.RequestInterval
	if interval < DefaultRequestInterval {
		interval = DefaultRequestInterval
	}

	return &Client{
		username:    cfg.Username,
		userAgent:   userAgent,
		baseURL:     baseURL,
		httpClient:  newHTTPClient(cfg.Token, http.DefaultTransport, 30*time.Second),
		interval:    interval,
		retryDelays: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// newHTTPClient returns an HTTP client that signs every request with
// "Authorization: Discogs token=<token>".
func newHTTPClient(token string, base http.RoundTripper, timeout time.Duration) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: "token=" + token,
		TokenType:   "Discogs",
	})
	return &http.Client{
		Timeout:   timeout,
		Transport: &oauth2.Transport{Source: src, Base: base},
	}
}

// ListCollectionPage fetches one page of a collection folder.
// Pages are 1-based. It returns the page items and the total page count.
func (c *Client) ListCollectionPage(ctx context.Context, folderID, page, perPage int) ([]CollectionItem, int, error) {
	path := fmt.Sprintf("/users/%s/collection/folders/%d/releases", url.PathEscape(c.username), folderID)
	params := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}

	body, err := c.doRequest(ctx, path, params)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching collection page %d: %w", page, err)
	}

	var resp collectionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, fmt.Errorf("parsing collection page %d: %w", page, err)
	}

	items := resp.Releases
	if items == nil {
		items = []CollectionItem{}
	}
	return items, resp.Pagination.Pages, nil
}

// GetReleaseDetail fetches the full release resource including its tracklist.
// Returns ErrNotFound if the release does not exist.
func (c *Client) GetReleaseDetail(ctx context.Context, releaseID int) (*ReleaseDetail, error) {
	body, err := c.doRequest(ctx, "/releases/"+strconv.Itoa(releaseID), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching release %d: %w", releaseID, err)
	}

	var detail ReleaseDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("parsing release %d: %w", releaseID, err)
	}
	return &detail, nil
}

// doRequest performs a paced HTTP GET request with retry on rate limit.
// Retries up to 3 times with exponential backoff (1s, 2s, 4s); a larger
// Retry-After header wins.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt <= len(c.retryDelays); attempt++ {
		// Wait before retry (skip on first attempt)
		if attempt > 0 {
			delay := c.retryDelays[attempt-1]
			var rl *retryAfterError
			if errors.As(lastErr, &rl) && rl.after > delay {
				delay = min(rl.after, maxRetryAfter)
			}
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		// Keep request starts at least c.interval apart
		if err := c.pace(ctx); err != nil {
			return nil, err
		}

		body, err := c.doSingleRequest(ctx, reqURL)
		if err == nil {
			return body, nil
		}

		// Check if we should retry
		if errors.Is(err, ErrRateLimited) {
			lastErr = err
			continue
		}

		// Non-retryable error
		return nil, err
	}

	return nil, lastErr
}

// pace blocks until interval has elapsed since the previous request started.
// Callers must hold c.mu.
func (c *Client) pace(ctx context.Context) error {
	if !c.lastRequest.IsZero() {
		if wait := time.Until(c.lastRequest.Add(c.interval)); wait > 0 {
			if err := sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	c.lastRequest = time.Now()
	return nil
}

// doSingleRequest performs a single HTTP request and maps the status code.
func (c *Client) doSingleRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.discogs.v2.discogs+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	// Map status codes to sentinel errors
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &retryAfterError{after: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}

	// Check for API error message in response
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, apiErr.Message)
	}
	return nil, fmt.Errorf("API error %d", resp.StatusCode)
}

// retryAfterError carries the server-suggested wait of a 429 response.
type retryAfterError struct {
	after time.Duration
}

func (e *retryAfterError) Error() string { return ErrRateLimited.Error() }

func (e *retryAfterError) Unwrap() error { return ErrRateLimited }

func parseRetryAfter(v string) time.Duration {
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
