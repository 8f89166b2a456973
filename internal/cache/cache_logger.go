package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// BatchInvalidate invalidates multiple patterns in batch
func BatchInvalidate(ctx context.Context, helper *CacheHelper, patterns []string) error {
	var lastErr error
	for _, pattern := range patterns {
		if err := helper.InvalidatePattern(ctx, pattern); err != nil {
			lastErr = err
			slog.ErrorContext(ctx, "Failed to invalidate pattern in batch",
				"error", err,
				"pattern", pattern)
		}
	}
	return lastErr
}

// InvalidateCourseCache invalidates all course-related caches using pipeline
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID uint) {
	// Delete specific keys using single call
	SafeDelete(ctx, cm.Course,
		fmt.Sprintf("id:%d", courseID),
		fmt.Sprintf("details:%d", courseID))

	// Invalidate patterns
	SafeInvalidatePattern(ctx, cm.Course, "list:*")
	SafeInvalidatePattern(ctx, cm.Chapter, fmt.Sprintf("course:%d:*", courseID))
	SafeInvalidatePattern(ctx, cm.Stats, "dashboard*")
}

// InvalidateProfileCache invalidates cached profile entries
func InvalidateProfileCache(ctx context.Context, cm *CacheManager, profileID string) {
	SafeDelete(ctx, cm.Profile, fmt.Sprintf("id:%s", profileID))
	SafeInvalidatePattern(ctx, cm.Profile, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, "dashboard*")
}
