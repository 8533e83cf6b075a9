package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newResponse(status int, body string, headers map[string]string, req *http.Request) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
		Request:    req,
	}
	for k, v := range headers {
		resp.Header.Set(k, v)
	}
	return resp
}

// fakeSource serves a fixed snapshot. Errors keyed by feed id make that
// feed's post fetch fail.
type fakeSource struct {
	mu          sync.Mutex
	feeds       []Feed
	feedsErr    error
	posts       map[int64][]Post
	postErrs    map[int64]error
	postCalls   []int64
	limits      []int
	beforeFeeds func()
}

func (f *fakeSource) ListFeeds(ctx context.Context) ([]Feed, error) {
	if f.beforeFeeds != nil {
		f.beforeFeeds()
	}
	if f.feedsErr != nil {
		return nil, f.feedsErr
	}
	return append([]Feed{}, f.feeds...), nil
}

func (f *fakeSource) ListRecentPosts(ctx context.Context, feedID int64, limit int) ([]Post, error) {
	f.mu.Lock()
	f.postCalls = append(f.postCalls, feedID)
	f.limits = append(f.limits, limit)
	f.mu.Unlock()
	if err := f.postErrs[feedID]; err != nil {
		return nil, err
	}
	return append([]Post{}, f.posts[feedID]...), nil
}

func testFeed(id int64, name string, category *Category) Feed {
	return Feed{ID: id, Name: name, URL: "https://example.com/" + name, Category: category}
}

func testPost(id int64, feedID int64, title string, published string) Post {
	return Post{ID: id, FeedID: feedID, Title: title, URL: "https://example.com/p/" + title, PublishedAt: ParseTimestamp(published)}
}

func fixedNow() time.Time {
	return time.Date(2021, 9, 23, 22, 5, 35, 0, time.UTC)
}
