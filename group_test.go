package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByCategoryFirstSeenOrder(t *testing.T) {
	catA := &Category{Slug: "a", Name: "Alpha"}
	catB := &Category{Slug: "b", Name: "Beta"}
	feeds := []Feed{
		testFeed(1, "one", catA),
		testFeed(2, "two", catB),
		testFeed(3, "three", catA),
	}
	groups := GroupByCategory(feeds)
	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0].Category.Slug)
	assert.Equal(t, "b", groups[1].Category.Slug)
	require.Len(t, groups[0].Feeds, 2)
	assert.Equal(t, int64(1), groups[0].Feeds[0].ID)
	assert.Equal(t, int64(3), groups[0].Feeds[1].ID)
	assert.Equal(t, int64(2), groups[1].Feeds[0].ID)
}

func TestGroupByCategoryUsesFirstCategoryValue(t *testing.T) {
	feeds := []Feed{
		testFeed(1, "one", &Category{Slug: "tech", Name: "Tech"}),
		testFeed(2, "two", &Category{Slug: "tech", Name: "Technology"}),
	}
	groups := GroupByCategory(feeds)
	require.Len(t, groups, 1)
	assert.Equal(t, "Tech", groups[0].Category.Name)
}

func TestGroupByCategoryIsLossless(t *testing.T) {
	cats := []*Category{{Slug: "x", Name: "X"}, {Slug: "y", Name: "Y"}, nil, {Slug: "z", Name: "Z"}}
	feeds := make([]Feed, 0, 40)
	for i := 0; i < 40; i++ {
		feeds = append(feeds, testFeed(int64(i), "f", cats[(i*7)%len(cats)]))
	}
	groups := GroupByCategory(feeds)
	seen := map[int64]int{}
	for _, group := range groups {
		for _, feed := range group.Feeds {
			seen[feed.ID]++
		}
	}
	require.Len(t, seen, len(feeds))
	for id, count := range seen {
		assert.Equal(t, 1, count, "feed %d", id)
	}
}

func TestGroupByCategoryEmpty(t *testing.T) {
	groups := GroupByCategory(nil)
	require.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGroupByCategoryUncategorized(t *testing.T) {
	feeds := []Feed{
		testFeed(1, "loose", nil),
		testFeed(2, "tech", &Category{Slug: "tech", Name: "Tech"}),
		testFeed(3, "other", nil),
	}
	groups := GroupByCategory(feeds)
	require.Len(t, groups, 2)
	assert.Equal(t, Uncategorized, groups[0].Category)
	require.Len(t, groups[0].Feeds, 2)
	assert.Equal(t, int64(1), groups[0].Feeds[0].ID)
	assert.Equal(t, int64(3), groups[0].Feeds[1].ID)
	assert.Equal(t, "tech", groups[1].Category.Slug)
}
