package main

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

	"golang.org/x/time/rate"
)

var ErrNoBaseURL = errors.New("api base url is not configured")

// APIError is returned for any non-2xx response. Body holds the response text
// for diagnostics.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: http %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.URL, e.StatusCode, truncate(body, 200))
}

type APIClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewAPIClient(cfg Config) (*APIClient, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, ErrNoBaseURL
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", base)
	}
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &APIClient{
		baseURL: strings.TrimRight(base, "/"),
		client:  &http.Client{Timeout: timeout},
	}
	if cfg.RequestsPerSecond > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Concurrency, 1))
	}
	return client, nil
}

func (c *APIClient) ListFeeds(ctx context.Context) ([]Feed, error) {
	var feeds []Feed
	if err := c.getJSON(ctx, "feeds", nil, &feeds); err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	if feeds == nil {
		feeds = []Feed{}
	}
	return feeds, nil
}

func (c *APIClient) ListRecentPosts(ctx context.Context, feedID int64, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = defaultPostLimit
	}
	query := url.Values{}
	query.Set("order_by", "published_at.desc")
	query.Set("limit", strconv.Itoa(limit))
	var posts []Post
	endpoint := "feeds/" + strconv.FormatInt(feedID, 10) + "/posts"
	if err := c.getJSON(ctx, endpoint, query, &posts); err != nil {
		return nil, fmt.Errorf("list posts of feed %d: %w", feedID, err)
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

func (c *APIClient) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	target := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{Method: req.Method, URL: target, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}
