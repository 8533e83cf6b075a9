package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// BoardSnapshot is the result of one refresh cycle. It is never mutated after
// it has been committed.
type BoardSnapshot struct {
	Cycle     uint64
	Groups    []GroupView
	FetchedAt time.Time
	Err       error
}

func (s BoardSnapshot) FeedCount() int {
	total := 0
	for _, group := range s.Groups {
		total += len(group.Feeds)
	}
	return total
}

// Feeds flattens the snapshot in display order.
func (s BoardSnapshot) Feeds() []FeedView {
	views := make([]FeedView, 0, s.FeedCount())
	for _, group := range s.Groups {
		views = append(views, group.Feeds...)
	}
	return views
}

type Board struct {
	source      FeedSource
	logger      *slog.Logger
	postLimit   int
	concurrency int
	now         func() time.Time

	mu        sync.Mutex
	cycle     uint64
	committed uint64
	snapshot  BoardSnapshot
}

func NewBoard(source FeedSource, logger *slog.Logger, postLimit int, concurrency int) *Board {
	if postLimit <= 0 {
		postLimit = defaultPostLimit
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Board{
		source:      source,
		logger:      logger,
		postLimit:   postLimit,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// NextCycle allocates the identifier for a new refresh cycle.
func (b *Board) NextCycle() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cycle++
	return b.cycle
}

func (b *Board) Snapshot() BoardSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot
}

// Refresh runs one full cycle and commits it unless a newer cycle has already
// been committed. The returned bool reports whether the snapshot was kept.
func (b *Board) Refresh(ctx context.Context, cycle uint64) (BoardSnapshot, bool) {
	logger := b.logger.With("cycle", cycle)
	snapshot := b.build(ctx, logger, cycle)
	applied := b.commit(snapshot)
	if !applied {
		logger.Info("discarding stale refresh", "committed", b.committedCycle())
	}
	return snapshot, applied
}

func (b *Board) build(ctx context.Context, logger *slog.Logger, cycle uint64) BoardSnapshot {
	snapshot := BoardSnapshot{Cycle: cycle, Groups: []GroupView{}}
	feeds, err := b.source.ListFeeds(ctx)
	if err != nil {
		logger.Error("could not list feeds", "error", err)
		snapshot.Err = err
		snapshot.FetchedAt = b.now()
		return snapshot
	}

	groups := GroupByCategory(feeds)
	views := make([]GroupView, len(groups))
	for i, group := range groups {
		views[i] = GroupView{Category: group.Category, Feeds: make([]FeedView, len(group.Feeds))}
		for j, feed := range group.Feeds {
			views[i].Feeds[j] = FeedView{Feed: feed}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i := range views {
		for j := range views[i].Feeds {
			slot := &views[i].Feeds[j]
			g.Go(func() error {
				b.loadPosts(gctx, logger, slot)
				return nil
			})
		}
	}
	_ = g.Wait()

	snapshot.Groups = views
	snapshot.FetchedAt = b.now()
	logger.Info("board refreshed", "feeds", len(feeds), "groups", len(views))
	return snapshot
}

// loadPosts fills a single card. A failure stays on the card and leaves its
// freshness unknown.
func (b *Board) loadPosts(ctx context.Context, logger *slog.Logger, slot *FeedView) {
	posts, err := b.source.ListRecentPosts(ctx, slot.Feed.ID, b.postLimit)
	if err != nil {
		logger.Warn("could not list posts", "feed_id", slot.Feed.ID, "error", err)
		slot.Posts = []Post{}
		slot.Err = err
		return
	}
	slot.Posts = posts
	slot.LastUpdated = LastUpdated(posts)
}

func (b *Board) commit(snapshot BoardSnapshot) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if snapshot.Cycle <= b.committed {
		return false
	}
	b.committed = snapshot.Cycle
	b.snapshot = snapshot
	return true
}

func (b *Board) committedCycle() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.committed
}
