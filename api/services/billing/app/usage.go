package app

import (
	"context"
	"log/slog"
)

// TrackUsage increments the subscription's usage counter and stamps the
// last-usage time. Semantics are at-least-once: a retried request may double
// count, which is an accepted billing tradeoff. Failures are reported as
// false so the primary request is never aborted by metering.
func (s *serviceImpl) TrackUsage(ctx context.Context, apiKey, endpoint string, units int64) bool {
	if units <= 0 {
		units = 1
	}
	if err := s.store.IncrementUsage(ctx, apiKey, units, s.now().UTC()); err != nil {
		slog.Error("usage tracking failed", "endpoint", endpoint, "err", err)
		return false
	}
	slog.Info("api usage tracked", "endpoint", endpoint, "units", units, "api_key_prefix", keyPrefix(apiKey))
	return true
}

// keyPrefix returns a loggable, non-identifying prefix of an API key.
func keyPrefix(apiKey string) string {
	if len(apiKey) <= 8 {
		return apiKey
	}
	return apiKey[:8] + "..."
}
