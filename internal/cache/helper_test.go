package cache

import (
	"context"
	"testing"
	"time"

	"kidtube/internal/observability"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestCacheAsideMissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *testRecord) func() error {
		return func() error {
			fetches++
			*dest = testRecord{ID: 7, Title: "Counting to 100"}
			return nil
		}
	}

	var first testRecord
	require.NoError(t, CacheAside(ctx, VideoKey(7), &first, VideoTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "Counting to 100", first.Title)

	var second testRecord
	require.NoError(t, CacheAside(ctx, VideoKey(7), &second, VideoTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should come from the cache")
	assert.Equal(t, first, second)
}

func TestCacheAsideFetchErrorIsNotCached(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var dest testRecord
	err := CacheAside(ctx, "broken", &dest, time.Minute, func() error {
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	found, err := GetJSON(ctx, "broken", &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheAsideExpiry(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	run := func() {
		var dest testRecord
		require.NoError(t, CacheAside(ctx, HotListKey("learning", 0, 10), &dest, HotListTTL, func() error {
			fetches++
			dest = testRecord{ID: 1, Title: "hot"}
			return nil
		}))
	}

	run()
	mr.FastForward(HotListTTL + time.Second)
	run()
	assert.Equal(t, 2, fetches)
}

func TestGetJSONCountsHitsAndMisses(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	hitsBefore := testutil.ToFloat64(observability.CacheHits.WithLabelValues("video"))
	missesBefore := testutil.ToFloat64(observability.CacheMisses.WithLabelValues("video"))

	var dest testRecord
	found, err := GetJSON(ctx, VideoKey(42), &dest)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, missesBefore+1,
		testutil.ToFloat64(observability.CacheMisses.WithLabelValues("video")))

	require.NoError(t, SetJSON(ctx, VideoKey(42), testRecord{ID: 42}, VideoTTL))
	found, err = GetJSON(ctx, VideoKey(42), &dest)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, hitsBefore+1,
		testutil.ToFloat64(observability.CacheHits.WithLabelValues("video")))
}

func TestKeyClass(t *testing.T) {
	assert.Equal(t, "video", keyClass(VideoKey(7)))
	assert.Equal(t, "videos", keyClass(HotListKey("learning", 0, 10)))
	assert.Equal(t, "plain", keyClass("plain"))
}

func TestInvalidateVideo(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, VideoKey(3), testRecord{ID: 3}, VideoTTL))
	InvalidateVideo(ctx, 3)

	var dest testRecord
	found, err := GetJSON(ctx, VideoKey(3), &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNilClientDegradesToNoOp(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var dest testRecord
	found, err := GetJSON(ctx, VideoKey(1), &dest)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, VideoKey(1), testRecord{ID: 1}, time.Minute))

	fetches := 0
	require.NoError(t, CacheAside(ctx, VideoKey(1), &dest, time.Minute, func() error {
		fetches++
		dest = testRecord{ID: 1, Title: "from db"}
		return nil
	}))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "from db", dest.Title)
}
