package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	VideoKeyPrefix   = "video:%d"
	HotListKeyPrefix = "videos:hot:%s:%d:%d"
)

const (
	VideoTTL   = 10 * time.Minute
	HotListTTL = 30 * time.Second
)

// VideoKey is the cache key for a single video record.
func VideoKey(videoID uint) string {
	return fmt.Sprintf(VideoKeyPrefix, videoID)
}

// HotListKey is the cache key for one page of the hot-video listing.
// The short TTL absorbs counter churn instead of explicit invalidation.
func HotListKey(videoType string, page, size int) string {
	return fmt.Sprintf(HotListKeyPrefix, videoType, page, size)
}

// Invalidate removes a key, best-effort.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateVideo drops the cached record for a video after any
// mutation, including counter adjustments.
func InvalidateVideo(ctx context.Context, videoID uint) {
	Invalidate(ctx, VideoKey(videoID))
}
