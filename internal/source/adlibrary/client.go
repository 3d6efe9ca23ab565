package adlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"

	"ad_tracker/internal/domain"
)

// Config holds ad library client configuration.
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
}

// RequestObserver is notified of every HTTP attempt made against the API.
type RequestObserver interface {
	ObserveSourceRequest(statusClass string, duration time.Duration)
}

// Client fetches company ads from the ad library API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	limiter        *rate.Limiter
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	sanitizer      *bluemonday.Policy
	observer       RequestObserver
	logger         *slog.Logger
}

// New creates a new ad library client. observer may be nil.
func New(cfg Config, observer RequestObserver, logger *slog.Logger) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		limiter:        rate.NewLimiter(limit, burst),
		maxAttempts:    attempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		sanitizer:      bluemonday.StrictPolicy(),
		observer:       observer,
		logger:         logger.With("source", "adlibrary"),
	}
}

// statusError is a non-200 response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// FetchAdsPage returns one page of the page's ads, newest first.
func (c *Client) FetchAdsPage(ctx context.Context, pageID, cursor string) (*domain.AdsPage, error) {
	q := url.Values{}
	q.Set("pageId", pageID)
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	endpoint := c.baseURL + "/company/ads?" + q.Encode()

	resp, err := c.fetchWithRetry(ctx, endpoint)
	if err != nil {
		return nil, &domain.SourceError{PageID: pageID, Err: err}
	}

	page := c.transform(pageID, resp)

	c.logger.Debug("fetched ads page",
		"page_id", pageID,
		"cursor", cursor,
		"ads", len(page.Results),
		"has_next", page.Cursor != "",
	)

	return page, nil
}

func (c *Client) fetchWithRetry(ctx context.Context, endpoint string) (*CompanyAdsResponse, error) {
	var resp *CompanyAdsResponse
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		resp, err = c.doRequest(ctx, endpoint)
		if err == nil {
			return resp, nil
		}

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", c.maxAttempts, err)
}

func (c *Client) doRequest(ctx context.Context, endpoint string) (*CompanyAdsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "AdTracker/1.0")
	req.Header.Set("x-api-key", c.apiKey)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe("error", started)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	c.observe(fmt.Sprintf("%dxx", resp.StatusCode/100), started)

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	var apiResp CompanyAdsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &apiResp, nil
}

func (c *Client) observe(class string, started time.Time) {
	if c.observer != nil {
		c.observer.ObserveSourceRequest(class, time.Since(started))
	}
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if c.maxBackoff > 0 && backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}

func (c *Client) transform(pageID string, resp *CompanyAdsResponse) *domain.AdsPage {
	page := &domain.AdsPage{
		Results: make([]domain.AdRecord, 0, len(resp.Results)),
		Cursor:  resp.Cursor,
	}

	for _, ad := range resp.Results {
		if ad.AdArchiveID == "" {
			c.logger.Warn("skipping ad without archive id", "page_id", pageID)
			continue
		}

		rec := domain.AdRecord{
			AdID:            ad.AdArchiveID,
			PageID:          ad.PageID,
			PageName:        ad.PageName,
			IsActive:        ad.IsActive,
			StartDateString: ad.StartDateString,
			EndDateString:   ad.EndDateString,
			URL:             ad.URL,
		}
		if rec.PageID == "" {
			rec.PageID = pageID
		}
		if ad.Snapshot != nil {
			if ad.Snapshot.Title != nil {
				rec.Title = c.cleanTitle(*ad.Snapshot.Title)
			}
			if rec.PageName == "" {
				rec.PageName = ad.Snapshot.PageName
			}
		}

		page.Results = append(page.Results, rec)
	}

	return page
}

// cleanTitle strips markup from a title. The strict policy escapes entities,
// which are decoded again since titles are stored as plain text.
func (c *Client) cleanTitle(title string) string {
	return strings.TrimSpace(html.UnescapeString(c.sanitizer.Sanitize(title)))
}
