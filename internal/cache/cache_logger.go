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

// InvalidateTemplateCache drops every cache entry derived from one template:
// its own rows, the per-doctor and list views, and its stats aggregates.
func InvalidateTemplateCache(ctx context.Context, cm *CacheManager, templateID uint) {
	// Delete specific keys using single call
	SafeDelete(ctx, cm.Template,
		fmt.Sprintf("id:%d", templateID),
		fmt.Sprintf("details:%d", templateID))

	// Invalidate patterns; failures are logged per pattern
	_ = BatchInvalidate(ctx, cm.Template, []string{"doctor:*", "list:*"})
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("template:%d:*", templateID))
}

// InvalidateAssignmentCache invalidates cached assignment state for a patient
func InvalidateAssignmentCache(ctx context.Context, cm *CacheManager, assignmentID, patientID uint) {
	SafeDelete(ctx, cm.Assignment, fmt.Sprintf("id:%d", assignmentID))
	SafeInvalidatePattern(ctx, cm.Assignment, fmt.Sprintf("patient:%d:*", patientID))
	SafeInvalidatePattern(ctx, cm.Exists, fmt.Sprintf("assignment:%d:*", assignmentID))
}
