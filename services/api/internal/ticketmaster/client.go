// Package ticketmaster implements the Discovery API client and the
// conversion from its JSON shapes to the domain model.
package ticketmaster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bao1311/EventFinder/services/api/internal/clock"
	"github.com/bao1311/EventFinder/services/api/internal/config"
	"github.com/bao1311/EventFinder/services/api/internal/domain"
)

// ErrAPIKeyMissing is returned when the client is constructed without a key.
var ErrAPIKeyMissing = errors.New("ticketmaster api key missing")

// Client talks to the Discovery API with rate limiting and retries.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	pageCap    int
	retry      config.RetryPolicy
	httpClient *http.Client
	limiter    <-chan time.Time
	clock      clock.Clock
	logger     *log.Logger
}

// NewClient builds a Discovery API client from the loaded config.
func NewClient(cfg config.Config, apiKey string, clk clock.Clock, logger *log.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}
	if logger == nil {
		logger = log.Default()
	}

	var limiter <-chan time.Time
	if interval := cfg.Ticketmaster.RateInterval(); interval > 0 {
		limiter = time.Tick(interval)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.Ticketmaster.BaseURL, "/"),
		apiKey:     apiKey,
		pageSize:   cfg.Ticketmaster.PageSize,
		pageCap:    cfg.Ticketmaster.PageCap,
		retry:      cfg.Retry,
		httpClient: &http.Client{Timeout: cfg.Retry.Timeout()},
		limiter:    limiter,
		clock:      clk,
		logger:     logger,
	}, nil
}

// SearchQuery narrows a Discovery API event search.
type SearchQuery struct {
	City       string
	SegmentIDs []string
}

// SearchEvents fetches all upcoming events for the query, walking pages
// up to the configured cap and converting each page into domain events.
// The result is ordered by start time ascending with date-TBA events
// last.
func (c *Client) SearchEvents(ctx context.Context, q SearchQuery) ([]domain.Event, error) {
	fetchedAt := c.clock.Now()
	var events []domain.Event

	for pageNum := 0; pageNum < c.pageCap; pageNum++ {
		resp, err := c.fetchPage(ctx, q, pageNum)
		if err != nil {
			return nil, err
		}
		if resp.Embedded == nil || len(resp.Embedded.Events) == 0 {
			break
		}
		for _, raw := range resp.Embedded.Events {
			ev, ok := mapEvent(raw, fetchedAt)
			if !ok {
				continue
			}
			events = append(events, ev)
		}
		if pageNum+1 >= resp.Page.TotalPages {
			break
		}
	}

	sortEvents(events)
	return events, nil
}

func (c *Client) fetchPage(ctx context.Context, q SearchQuery, pageNum int) (*searchResponse, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("city", q.City)
	params.Set("size", strconv.Itoa(c.pageSize))
	params.Set("page", strconv.Itoa(pageNum))
	params.Set("sort", "date,asc")
	if len(q.SegmentIDs) > 0 {
		params.Set("classificationId", strings.Join(q.SegmentIDs, ","))
	}
	reqURL := c.baseURL + "/events.json?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if delay := c.retry.Delay(attempt); delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if c.limiter != nil {
			select {
			case <-c.limiter:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, retryable, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		c.logger.Printf("WARN: ticketmaster fetch attempt %d/%d failed: %v", attempt, c.retry.MaxAttempts, err)
	}
	return nil, fmt.Errorf("ticketmaster fetch failed after %d attempts: %w", c.retry.MaxAttempts, lastErr)
}

// doRequest performs one attempt. 429 and 5xx responses and transport
// errors are retryable; other failure statuses are not.
func (c *Client) doRequest(ctx context.Context, reqURL string) (*searchResponse, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("api status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("api status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	return &decoded, false, nil
}
