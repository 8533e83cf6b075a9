package main

import (
	"time"

	"github.com/dustin/go-humanize"
)

const unknownFreshness = "unknown"

// Freshness is the time of a feed's most recent post. The zero value is the
// "unknown" sentinel.
type Freshness struct {
	at    time.Time
	known bool
}

func KnownFreshness(at time.Time) Freshness {
	return Freshness{at: at.UTC(), known: true}
}

func (f Freshness) Known() bool {
	return f.known
}

func (f Freshness) Time() (time.Time, bool) {
	return f.at, f.known
}

func (f Freshness) Relative(now time.Time) string {
	if !f.known {
		return unknownFreshness
	}
	return humanize.RelTime(f.at, now, "ago", "from now")
}

func (f Freshness) String() string {
	if !f.known {
		return unknownFreshness
	}
	return f.at.Format(time.RFC3339)
}

// LastUpdated returns the latest valid publication time among posts. Posts
// whose published_at did not parse are skipped.
func LastUpdated(posts []Post) Freshness {
	var latest Freshness
	for _, post := range posts {
		if !post.PublishedAt.Valid() {
			continue
		}
		at := post.PublishedAt.Time
		if !latest.known || at.After(latest.at) {
			latest = KnownFreshness(at)
		}
	}
	return latest
}

// newPostWindow mirrors the backend rule: the busier a feed was last week, the
// shorter a post counts as new.
func newPostWindow(postsLastWeek int) time.Duration {
	switch {
	case postsLastWeek <= 1:
		return 7 * 24 * time.Hour
	case postsLastWeek <= 20:
		return 24 * time.Hour
	case postsLastWeek <= 100:
		return 8 * time.Hour
	default:
		return 4 * time.Hour
	}
}

func IsNewPost(feed Feed, post Post, now time.Time) bool {
	if !post.PublishedAt.Valid() {
		return false
	}
	return post.PublishedAt.Time.After(now.Add(-newPostWindow(feed.PostsLastWeek)))
}
