package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunAndRender(t *testing.T) {
	app := newTestApp(t, sampleSource())
	export := filepath.Join(t.TempDir(), "out.opml")

	input := "\n?\nj\nnope\nw " + export + "\nq\nj\n"
	var out bytes.Buffer
	if err := Run(context.Background(), app, strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	output := out.String()
	for _, want := range []string{
		"Commands",
		"== Tech ==",
		"== Music ==",
		">[1] golang (example.com) - last post 1 day ago",
		"[2] rust (example.com) - last post unknown",
		"    * release",
		"    - older",
		">[2] rust",
		`error: unknown command: "nope"`,
		"Status: Exported OPML to " + export,
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
	// input after q is ignored
	if app.selectedIndex != 1 {
		t.Fatalf("expected selection 1 after quit, got %d", app.selectedIndex)
	}
}

func TestRenderEmptyAndFailures(t *testing.T) {
	source := &fakeSource{}
	app := newTestApp(t, source)
	if err := app.RefreshFeeds(context.Background()); err != nil {
		t.Fatalf("RefreshFeeds error: %v", err)
	}
	if got := render(app); !strings.Contains(got, "No feeds.") || !strings.Contains(got, "0 feeds") {
		t.Fatalf("unexpected empty render: %s", got)
	}

	source.feeds = []Feed{testFeed(1, "broken", nil)}
	source.postErrs = map[int64]error{1: &APIError{Method: "GET", URL: "http://x/feeds/1/posts", StatusCode: 500, Body: "boom"}}
	if err := app.RefreshFeeds(context.Background()); err != nil {
		t.Fatalf("RefreshFeeds error: %v", err)
	}
	got := render(app)
	if !strings.Contains(got, "== Uncategorized ==") || !strings.Contains(got, "posts unavailable:") {
		t.Fatalf("unexpected failure render: %s", got)
	}
	if !strings.Contains(got, "last post unknown") {
		t.Fatalf("expected unknown freshness: %s", got)
	}
}

func TestHandleCommandErrors(t *testing.T) {
	app := newTestApp(t, sampleSource())
	for _, cmd := range []string{"x", "w", "o nope", "o 9"} {
		if err := handleCommand(context.Background(), app, cmd, io.Discard); err == nil {
			t.Fatalf("expected error for %s", cmd)
		}
	}
	if err := app.RefreshFeeds(context.Background()); err != nil {
		t.Fatalf("RefreshFeeds error: %v", err)
	}
	var opened []string
	app.openURL = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	for _, cmd := range []string{"", "r", "j", "k", "o 2", "p", "y", "?"} {
		if err := handleCommand(context.Background(), app, cmd, io.Discard); err != nil {
			t.Fatalf("command %q error: %v", cmd, err)
		}
	}
	if len(opened) != 1 || opened[0] != "https://example.com/rust" {
		t.Fatalf("unexpected opened urls: %v", opened)
	}
}

func TestRenderHelpers(t *testing.T) {
	if got := siteHost("https://www.example.com/path"); got != "example.com" {
		t.Fatalf("unexpected host: %s", got)
	}
	if got := siteHost(""); got != "no url" {
		t.Fatalf("unexpected empty host: %s", got)
	}
	if got := truncate("hello world", 8); got != "hello..." {
		t.Fatalf("unexpected truncate: %s", got)
	}
	if got := truncate("héllo", 2); got != "hé" {
		t.Fatalf("unexpected rune truncate: %s", got)
	}
	if got := truncate("x", 0); got != "" {
		t.Fatalf("unexpected zero truncate: %s", got)
	}
	if got := formatLocalTime(time.Time{}); got != "Unknown" {
		t.Fatalf("unexpected zero time: %s", got)
	}
	if got := firstNonEmpty(" ", "", "b"); got != "b" {
		t.Fatalf("unexpected firstNonEmpty: %s", got)
	}
	if got := headerLine(BoardSnapshot{}); got != "NewsTerminal" {
		t.Fatalf("unexpected header: %s", got)
	}
	if clamp(5, 0, 3) != 3 || clamp(-1, 0, 3) != 0 || clamp(2, 0, 3) != 2 {
		t.Fatalf("unexpected clamp")
	}
}
