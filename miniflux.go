package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	miniflux "miniflux.app/v2/client"
)

// MinifluxSource reads the board from a Miniflux server instead of the
// NewsTerminal API.
type MinifluxSource struct {
	client *miniflux.Client
}

func NewMinifluxSource(host, apiKey string) (*MinifluxSource, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, ErrNoBaseURL
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("miniflux api key is not configured")
	}
	return &MinifluxSource{client: miniflux.NewClient(host, apiKey)}, nil
}

func (m *MinifluxSource) ListFeeds(ctx context.Context) ([]Feed, error) {
	mfFeeds, err := m.client.FeedsContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list miniflux feeds: %w", err)
	}
	feeds := make([]Feed, 0, len(mfFeeds))
	for _, f := range mfFeeds {
		feeds = append(feeds, feedFromMiniflux(f))
	}
	return feeds, nil
}

func (m *MinifluxSource) ListRecentPosts(ctx context.Context, feedID int64, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = defaultPostLimit
	}
	result, err := m.client.FeedEntriesContext(ctx, feedID, &miniflux.Filter{
		Order:     "published_at",
		Direction: "desc",
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list miniflux entries of feed %d: %w", feedID, err)
	}
	posts := make([]Post, 0, len(result.Entries))
	for _, e := range result.Entries {
		posts = append(posts, Post{
			ID:          e.ID,
			FeedID:      feedID,
			Title:       e.Title,
			URL:         e.URL,
			PublishedAt: NewTimestamp(e.Date),
		})
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func feedFromMiniflux(f *miniflux.Feed) Feed {
	feed := Feed{
		ID:       f.ID,
		Name:     f.Title,
		URL:      firstNonEmpty(f.SiteURL, f.FeedURL),
		RSS:      f.FeedURL,
		ParsedAt: NewTimestamp(f.CheckedAt),
	}
	if f.Category != nil {
		feed.Category = &Category{
			Slug: strconv.FormatInt(f.Category.ID, 10),
			Name: f.Category.Title,
		}
	}
	if f.EtagHeader != "" {
		etag := f.EtagHeader
		feed.ETag = &etag
	}
	return feed
}
