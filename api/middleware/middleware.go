// Package middleware provides the authentication and rate-limiting layers
// composed in front of transport handlers.
package middleware

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	event "github.com/tbeaudouin05/mcp-gateway/api/event"
	ratelimit "github.com/tbeaudouin05/mcp-gateway/api/ratelimit"
	app "github.com/tbeaudouin05/mcp-gateway/api/services/billing/app"
)

// Handler processes one transport event.
type Handler func(ctx context.Context, evt event.Event) event.Response

// Middleware wraps a Handler with a cross-cutting concern.
type Middleware func(Handler) Handler

// Chain applies middlewares around h. The first middleware is outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// extractAPIKey prefers the X-API-Key header and falls back to a bearer
// token. Header name matching is case-insensitive.
func extractAPIKey(evt event.Event) string {
	if key := evt.Header("X-API-Key"); key != "" {
		return key
	}
	auth := evt.Header("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func invalidKeyResponse(verdict app.Verdict) event.Response {
	status := 401
	if verdict.Reason == app.ReasonExpired || verdict.Reason == app.ReasonInactiveStatus {
		status = 403
	}
	extra := map[string]any{"reason": verdict.Reason}
	if verdict.Status != "" {
		extra["subscription_status"] = verdict.Status
	}
	return event.Error(status, "SUBSCRIPTION_INVALID", "Invalid or expired API key", extra)
}

// recoverTo converts a downstream panic into a 500 response so nothing
// unhandled reaches the transport boundary.
func recoverTo(resp *event.Response, path string) {
	if r := recover(); r != nil {
		slog.Error("unhandled panic in handler", "path", path, "panic", r)
		*resp = event.Error(500, "HANDLER_ERROR", "Internal server error", nil)
	}
}

// RequireAPIKey rejects requests without a valid subscription. When
// trackUsage is set, each authenticated request increments the caller's
// usage count; metering failures are logged, never surfaced.
func RequireAPIKey(svc app.Service, trackUsage bool) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, evt event.Event) (resp event.Response) {
			defer recoverTo(&resp, evt.Path)

			apiKey := extractAPIKey(evt)
			if apiKey == "" {
				return event.Error(401, "AUTH_MISSING_KEY", "API key required. Provide it via X-API-Key header or Authorization: Bearer token.", nil)
			}

			verdict := svc.ValidateKey(ctx, apiKey)
			if !verdict.Valid {
				return invalidKeyResponse(verdict)
			}

			if trackUsage {
				if ok := svc.TrackUsage(ctx, apiKey, evt.Path, 1); !ok {
					slog.Warn("usage tracking failed", "path", evt.Path)
				}
			}

			return next(withAuth(ctx, apiKey, verdict), evt)
		}
	}
}

// OptionalAPIKey validates a key when one is supplied but never blocks the
// request. Validation failures downgrade to unauthenticated.
func OptionalAPIKey(svc app.Service) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, evt event.Event) (resp event.Response) {
			defer recoverTo(&resp, evt.Path)

			apiKey := extractAPIKey(evt)
			if apiKey == "" {
				return next(ctx, evt)
			}
			verdict := svc.ValidateKey(ctx, apiKey)
			if !verdict.Valid {
				slog.Info("optional auth failed, proceeding unauthenticated", "reason", verdict.Reason)
				return next(ctx, evt)
			}
			return next(withAuth(ctx, apiKey, verdict), evt)
		}
	}
}

// WithRateLimiting enforces the caller's plan ceiling. It requires an
// authenticated context; unauthenticated requests pass through untouched.
func WithRateLimiting(limiter *ratelimit.Limiter) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, evt event.Event) event.Response {
			verdict, ok := SubscriptionFrom(ctx)
			if !ok {
				return next(ctx, evt)
			}
			apiKey, _ := APIKeyFrom(ctx)

			limits := app.LimitsFor(verdict.PlanID)
			info := limiter.Check(apiKey, limits.RateLimit)
			if info.Limited {
				return event.Error(429, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded. Try again later.", map[string]any{
					"limit":      info.Limit,
					"current":    info.CurrentCount,
					"reset_time": info.ResetTime.UTC().Format(time.RFC3339),
					"plan":       verdict.PlanID,
				})
			}

			resp := next(ctx, evt)
			if resp.Headers != nil {
				resp.Headers["X-RateLimit-Limit"] = strconv.Itoa(info.Limit)
				resp.Headers["X-RateLimit-Remaining"] = strconv.Itoa(info.Remaining)
				resp.Headers["X-RateLimit-Used"] = strconv.Itoa(info.CurrentCount)
			}
			return resp
		}
	}
}
