package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type App struct {
	config         Config
	board          *Board
	logger         *slog.Logger
	snapshot       BoardSnapshot
	selectedIndex  int
	status         string
	refreshStatus  string
	refreshPending int
	now            func() time.Time
	openURL        func(string) error
	copyText       func(string) error
}

func NewApp(cfg Config, source FeedSource, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		config:   cfg,
		board:    NewBoard(source, logger, cfg.PostLimit, cfg.Concurrency),
		logger:   logger,
		status:   "Loading feeds...",
		now:      time.Now,
		openURL:  defaultOpenURL,
		copyText: clipboardWrite,
	}
}

// RefreshFeeds runs one refresh cycle synchronously and applies its result.
func (a *App) RefreshFeeds(ctx context.Context) error {
	cycle := a.board.NextCycle()
	snapshot, _ := a.board.Refresh(ctx, cycle)
	a.applySnapshot()
	return snapshot.Err
}

// applySnapshot pulls the latest committed snapshot from the board. Results of
// stale cycles never reach it.
func (a *App) applySnapshot() {
	snapshot := a.board.Snapshot()
	if snapshot.Cycle == 0 || snapshot.Cycle == a.snapshot.Cycle {
		return
	}
	a.snapshot = snapshot
	feeds := snapshot.Feeds()
	if a.selectedIndex >= len(feeds) {
		a.selectedIndex = len(feeds) - 1
	}
	if a.selectedIndex < 0 {
		a.selectedIndex = 0
	}
	if snapshot.Err != nil {
		a.status = "Refresh failed: " + snapshot.Err.Error()
		return
	}
	failed := 0
	for _, view := range feeds {
		if view.Err != nil {
			failed++
		}
	}
	a.status = fmt.Sprintf("%d feeds in %d categories", len(feeds), len(snapshot.Groups))
	if failed > 0 {
		a.status += fmt.Sprintf(", %d failed", failed)
	}
}

func (a *App) Snapshot() BoardSnapshot {
	return a.snapshot
}

func (a *App) SelectedFeed() *FeedView {
	feeds := a.snapshot.Feeds()
	if len(feeds) == 0 || a.selectedIndex < 0 || a.selectedIndex >= len(feeds) {
		return nil
	}
	view := feeds[a.selectedIndex]
	return &view
}

func (a *App) MoveSelection(delta int) {
	feeds := a.snapshot.Feeds()
	if len(feeds) == 0 {
		a.selectedIndex = 0
		return
	}
	a.selectedIndex = clamp(a.selectedIndex+delta, 0, len(feeds)-1)
}

// SelectFeed jumps to the n-th card, counting from 1 in display order.
func (a *App) SelectFeed(n int) error {
	feeds := a.snapshot.Feeds()
	if n < 1 || n > len(feeds) {
		return fmt.Errorf("no feed number %d", n)
	}
	a.selectedIndex = n - 1
	return nil
}

func (a *App) OpenSelected() error {
	view := a.SelectedFeed()
	if view == nil {
		return nil
	}
	if view.Feed.URL == "" {
		return errors.New("feed has no url")
	}
	return a.openURL(view.Feed.URL)
}

func (a *App) OpenLatestPost() error {
	view := a.SelectedFeed()
	if view == nil || len(view.Posts) == 0 {
		return nil
	}
	return a.openURL(view.Posts[0].URL)
}

func (a *App) CopySelectedURL() error {
	view := a.SelectedFeed()
	if view == nil {
		return nil
	}
	if err := a.copyText(view.Feed.URL); err != nil {
		return err
	}
	a.status = "URL copied to clipboard"
	return nil
}

func (a *App) ExportOPML(path string) error {
	groups := make([]CategoryGroup, 0, len(a.snapshot.Groups))
	for _, group := range a.snapshot.Groups {
		feeds := make([]Feed, 0, len(group.Feeds))
		for _, view := range group.Feeds {
			feeds = append(feeds, view.Feed)
		}
		groups = append(groups, CategoryGroup{Category: group.Category, Feeds: feeds})
	}
	if err := ExportOPML(path, groups); err != nil {
		return err
	}
	a.status = "Exported OPML to " + path
	return nil
}
