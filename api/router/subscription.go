package router

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	event "github.com/tbeaudouin05/mcp-gateway/api/event"
	"github.com/tbeaudouin05/mcp-gateway/api/middleware"
	app "github.com/tbeaudouin05/mcp-gateway/api/services/billing/app"
)

// handleSubscription routes the admin surface. Create is open (a new caller
// has no key yet), info accepts an optional key, usage and cancel require a
// valid key but do not meter.
func (h *Handler) handleSubscription(ctx context.Context, evt event.Event) event.Response {
	if h.svc == nil {
		return event.Error(503, "BILLING_SERVICE_ERROR", "Billing service unavailable", nil)
	}

	method, path := evt.HTTPMethod, evt.Path
	switch {
	case path == "/subscription/create" && method == "POST":
		return h.handleCreate(ctx, evt)
	case path == "/subscription/usage" && method == "POST":
		return h.usage(ctx, evt)
	case path == "/subscription/cancel" && method == "POST":
		return h.cancel(ctx, evt)
	case method == "GET":
		return h.info(ctx, evt)
	default:
		return event.Error(404, "ENDPOINT_NOT_FOUND",
			"Subscription endpoint not found: "+method+" "+path, nil)
	}
}

func (h *Handler) handleCreate(ctx context.Context, evt event.Event) event.Response {
	body, err := evt.ParseBody()
	if err != nil {
		return bodyErrorResponse(err)
	}
	fields, _ := body.(map[string]any)

	email, _ := fields["email"].(string)
	paymentMethodID, _ := fields["payment_method_id"].(string)
	planID, _ := fields["plan_id"].(string)

	if email == "" || paymentMethodID == "" {
		return event.Error(400, "MISSING_FIELDS",
			"Missing required fields: email and payment_method_id", nil)
	}

	receipt, err := h.svc.CreateSubscription(ctx, email, paymentMethodID, planID)
	if err != nil {
		if errors.Is(err, app.ErrMissingFields) {
			return event.Error(400, "MISSING_FIELDS",
				"Missing required fields: email and payment_method_id", nil)
		}
		slog.Error("subscription creation failed", "error", err)
		return event.Error(400, "SUBSCRIPTION_CREATION_FAILED", "Failed to create subscription", nil)
	}

	return event.JSON(201, map[string]any{
		"success":   true,
		"message":   "Subscription created successfully",
		"data":      receipt,
		"timestamp": event.Timestamp(),
	})
}

func (h *Handler) handleSubscriptionInfo(ctx context.Context, evt event.Event) event.Response {
	apiKey := evt.Path[strings.LastIndex(evt.Path, "/")+1:]

	sub, err := h.svc.SubscriptionInfo(ctx, apiKey)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			return event.Error(404, "SUBSCRIPTION_NOT_FOUND", "Subscription not found", nil)
		}
		slog.Error("subscription info lookup failed", "error", err)
		return event.Error(500, "BILLING_SERVICE_ERROR", "Failed to retrieve subscription information", nil)
	}

	// Usage statistics are best-effort decoration; a failure here does not
	// hide the subscription record.
	var usage any
	stats, err := h.svc.UsageStatistics(ctx, sub.CustomerID)
	if err != nil {
		usage = map[string]any{"error": "usage statistics unavailable"}
	} else {
		usage = stats
	}

	return event.JSON(200, map[string]any{
		"subscription":     sub,
		"usage_statistics": usage,
		"timestamp":        event.Timestamp(),
	})
}

func (h *Handler) handleUsageUpdate(ctx context.Context, evt event.Event) event.Response {
	apiKey, _ := middleware.APIKeyFrom(ctx)

	body, err := evt.ParseBody()
	if err != nil {
		return bodyErrorResponse(err)
	}
	fields, _ := body.(map[string]any)

	endpoint, _ := fields["endpoint"].(string)
	if endpoint == "" {
		endpoint = "unknown"
	}
	tokensUsed := int64(1)
	if n, ok := fields["tokens_used"].(float64); ok {
		tokensUsed = int64(n)
	}

	if !h.svc.TrackUsage(ctx, apiKey, endpoint, tokensUsed) {
		return event.Error(500, "USAGE_TRACKING_FAILED", "Failed to track usage", nil)
	}

	return event.JSON(200, map[string]any{
		"success":     true,
		"message":     "Usage tracked successfully",
		"endpoint":    endpoint,
		"tokens_used": tokensUsed,
		"timestamp":   event.Timestamp(),
	})
}

func (h *Handler) handleCancel(ctx context.Context, evt event.Event) event.Response {
	apiKey, _ := middleware.APIKeyFrom(ctx)

	receipt, err := h.svc.CancelByAPIKey(ctx, apiKey)
	if err != nil {
		slog.Error("subscription cancellation failed", "error", err)
		return event.Error(400, "SUBSCRIPTION_CANCELLATION_FAILED", "Failed to cancel subscription", nil)
	}

	return event.JSON(200, map[string]any{
		"success":         true,
		"message":         "Subscription cancelled successfully",
		"subscription_id": receipt.SubscriptionID,
		"cancelled_at":    receipt.CanceledAt,
		"timestamp":       event.Timestamp(),
	})
}
