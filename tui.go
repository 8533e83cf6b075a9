package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// cardPosts is how many post titles a card shows.
const cardPosts = 5

// Run drives the board without a terminal: it refreshes once, prints the
// board and then reads one command per line.
func Run(ctx context.Context, app *App, in io.Reader, out io.Writer) error {
	_ = app.RefreshFeeds(ctx)
	fmt.Fprintln(out, render(app))
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" || line == "quit" {
			break
		}
		if err := handleCommand(ctx, app, line, out); err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		fmt.Fprintln(out, render(app))
	}
	return scanner.Err()
}

func handleCommand(ctx context.Context, app *App, line string, out io.Writer) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	switch parts[0] {
	case "r", "refresh":
		return app.RefreshFeeds(ctx)
	case "w", "export":
		if len(parts) < 2 {
			return fmt.Errorf("missing opml path")
		}
		return app.ExportOPML(parts[1])
	case "o", "open":
		if len(parts) > 1 {
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				return fmt.Errorf("invalid feed number: %q", parts[1])
			}
			if err := app.SelectFeed(n); err != nil {
				return err
			}
		}
		return app.OpenSelected()
	case "p", "post":
		return app.OpenLatestPost()
	case "j", "down":
		app.MoveSelection(1)
	case "k", "up":
		app.MoveSelection(-1)
	case "y", "copy":
		return app.CopySelectedURL()
	case "?", "help":
		fmt.Fprintln(out, helpText())
	default:
		return fmt.Errorf("unknown command: %q", parts[0])
	}
	return nil
}

func render(app *App) string {
	snapshot := app.Snapshot()
	now := app.now()
	lines := []string{headerLine(snapshot)}
	if len(snapshot.Groups) == 0 {
		lines = append(lines, "", "No feeds.")
	}
	n := 0
	for _, group := range snapshot.Groups {
		lines = append(lines, "", "== "+group.Category.Name+" ==")
		for _, view := range group.Feeds {
			n++
			prefix := " "
			if n-1 == app.selectedIndex {
				prefix = ">"
			}
			lines = append(lines, fmt.Sprintf("%s[%d] %s (%s) - last post %s",
				prefix, n, valueOrFallback(view.Feed.Name, "Untitled"), siteHost(view.Feed.URL), view.LastUpdated.Relative(now)))
			if view.Err != nil {
				lines = append(lines, "    posts unavailable: "+truncate(view.Err.Error(), 70))
				continue
			}
			for i, post := range view.Posts {
				if i == cardPosts {
					break
				}
				marker := "-"
				if IsNewPost(view.Feed, post, now) {
					marker = "*"
				}
				lines = append(lines, "    "+marker+" "+truncate(post.Title, 70))
			}
		}
	}
	if app.status != "" {
		lines = append(lines, "", "Status: "+app.status)
	}
	return strings.Join(lines, "\n")
}

func headerLine(snapshot BoardSnapshot) string {
	label := "NewsTerminal"
	if snapshot.FetchedAt.IsZero() {
		return label
	}
	return fmt.Sprintf("%s  %d feeds, updated %s", label, snapshot.FeedCount(), formatLocalTime(snapshot.FetchedAt))
}

func siteHost(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return valueOrFallback(raw, "no url")
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}

func formatLocalTime(value time.Time) string {
	if value.IsZero() {
		return "Unknown"
	}
	return value.In(time.Local).Format("2006-01-02 15:04")
}

func valueOrFallback(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func helpText() string {
	return strings.Join([]string{
		"Commands:",
		"  r: refresh",
		"  j/k: move",
		"  o [n]: open feed site",
		"  p: open latest post",
		"  y: copy feed url",
		"  w <path>: export opml",
		"  q: quit",
	}, "\n")
}
