package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastUpdatedPicksLatest(t *testing.T) {
	posts := []Post{
		testPost(1331, 3, "berlin", "2021-09-20T22:05:35"),
		testPost(1332, 3, "montenegro", "2021-07-21T06:00:00"),
		testPost(1333, 3, "bus", "2021-06-30T13:22:58"),
	}
	got := LastUpdated(posts)
	require.True(t, got.Known())
	at, _ := got.Time()
	assert.Equal(t, time.Date(2021, 9, 20, 22, 5, 35, 0, time.UTC), at)
}

func TestLastUpdatedEmptyIsUnknown(t *testing.T) {
	assert.False(t, LastUpdated(nil).Known())
	assert.False(t, LastUpdated([]Post{}).Known())
	assert.Equal(t, "unknown", LastUpdated(nil).Relative(fixedNow()))
	assert.Equal(t, "unknown", LastUpdated(nil).String())
}

func TestLastUpdatedOrderIndependent(t *testing.T) {
	posts := []Post{
		testPost(1, 1, "a", "2020-01-29T20:48:21"),
		testPost(2, 1, "b", "2021-03-16T08:00:00"),
		testPost(3, 1, "c", "2019-08-13T17:50:49"),
		testPost(4, 1, "d", "2021-03-16T08:00:00"),
		testPost(5, 1, "e", "not a date"),
	}
	want := LastUpdated(posts)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]Post{}, posts...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, LastUpdated(shuffled))
	}
}

func TestLastUpdatedSkipsMalformed(t *testing.T) {
	posts := []Post{
		testPost(1, 1, "bad", "yesterday"),
		testPost(2, 1, "good", "2021-07-21T06:00:00"),
		{ID: 3, FeedID: 1, Title: "missing"},
	}
	got := LastUpdated(posts)
	require.True(t, got.Known())
	at, _ := got.Time()
	assert.Equal(t, time.Date(2021, 7, 21, 6, 0, 0, 0, time.UTC), at)
}

func TestLastUpdatedAllMalformedIsUnknown(t *testing.T) {
	posts := []Post{
		testPost(1, 1, "bad", "yesterday"),
		testPost(2, 1, "worse", "2021-13-45T99:00:00"),
	}
	assert.False(t, LastUpdated(posts).Known())
}

func TestFreshnessRelative(t *testing.T) {
	now := fixedNow()
	assert.Equal(t, "3 days ago", KnownFreshness(now.Add(-72*time.Hour)).Relative(now))
	assert.Equal(t, "now", KnownFreshness(now).Relative(now))
}

func TestIsNewPost(t *testing.T) {
	now := fixedNow()
	post := func(age time.Duration) Post {
		return Post{PublishedAt: NewTimestamp(now.Add(-age))}
	}
	quiet := Feed{PostsLastWeek: 1}
	assert.True(t, IsNewPost(quiet, post(6*24*time.Hour), now))
	assert.False(t, IsNewPost(quiet, post(8*24*time.Hour), now))

	daily := Feed{PostsLastWeek: 20}
	assert.True(t, IsNewPost(daily, post(23*time.Hour), now))
	assert.False(t, IsNewPost(daily, post(25*time.Hour), now))

	busy := Feed{PostsLastWeek: 100}
	assert.True(t, IsNewPost(busy, post(7*time.Hour), now))
	assert.False(t, IsNewPost(busy, post(9*time.Hour), now))

	firehose := Feed{PostsLastWeek: 500}
	assert.True(t, IsNewPost(firehose, post(3*time.Hour), now))
	assert.False(t, IsNewPost(firehose, post(5*time.Hour), now))

	assert.False(t, IsNewPost(quiet, Post{PublishedAt: ParseTimestamp("garbage")}, now))
}
