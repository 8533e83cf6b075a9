package main

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Feed struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	RSS           string    `json:"rss"`
	Icon          string    `json:"icon"`
	Category      *Category `json:"category"`
	PostsLastWeek int       `json:"posts_last_week"`
	ETag          *string   `json:"etag"`
	CreatedAt     Timestamp `json:"created_at"`
	ModifiedAt    Timestamp `json:"modified_at"`
	ParsedAt      Timestamp `json:"parsed_at"`
}

type Post struct {
	ID          int64     `json:"id"`
	FeedID      int64     `json:"rss_feed_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt Timestamp `json:"published_at"`
}

type CategoryGroup struct {
	Category Category
	Feeds    []Feed
}

// FeedView is one card on the board: the feed plus whatever its post fetch
// produced in the owning refresh cycle.
type FeedView struct {
	Feed        Feed
	Posts       []Post
	LastUpdated Freshness
	Err         error
}

type GroupView struct {
	Category Category
	Feeds    []FeedView
}
