package main

import "context"

const defaultPostLimit = 15

// FeedSource is where the board reads its snapshot from. Every call returns a
// full replacement; there is no paging and no delta.
type FeedSource interface {
	ListFeeds(ctx context.Context) ([]Feed, error)
	// ListRecentPosts returns at most limit posts, newest first.
	ListRecentPosts(ctx context.Context, feedID int64, limit int) ([]Post, error)
}

func newFeedSource(cfg Config) (FeedSource, error) {
	switch cfg.Source {
	case SourceMiniflux:
		source, err := NewMinifluxSource(cfg.BaseURL, cfg.MinifluxAPIKey)
		if err != nil {
			return nil, err
		}
		return source, nil
	default:
		client, err := NewAPIClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
