package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/tbeaudouin05/mcp-gateway/api/services/billing/app"
)

// fakeBilling implements app.Service over an in-memory record set.
type fakeBilling struct {
	subs      map[string]app.Subscription
	createErr error
	cancelErr error
	trackOK   bool
	tracked   int
}

func newAuthedService(apiKeys ...string) *fakeBilling {
	f := &fakeBilling{subs: make(map[string]app.Subscription), trackOK: true}
	now := time.Now().UTC()
	for _, key := range apiKeys {
		f.subs[key] = app.Subscription{
			APIKey:             key,
			CustomerID:         "cust_" + key,
			SubscriptionID:     "sub_" + key,
			Email:              "caller@example.com",
			PlanID:             "professional",
			Status:             app.StatusActive,
			CreatedAt:          now.Add(-48 * time.Hour),
			CurrentPeriodStart: now.Add(-24 * time.Hour),
			CurrentPeriodEnd:   now.Add(24 * time.Hour),
		}
	}
	return f
}

func (f *fakeBilling) ValidateKey(ctx context.Context, apiKey string) app.Verdict {
	sub, ok := f.subs[apiKey]
	if !ok {
		return app.Verdict{Reason: app.ReasonNotFound}
	}
	return app.Verdict{
		Valid:          true,
		CustomerID:     sub.CustomerID,
		SubscriptionID: sub.SubscriptionID,
		PlanID:         sub.PlanID,
		Status:         sub.Status,
	}
}

func (f *fakeBilling) TrackUsage(ctx context.Context, apiKey, endpoint string, units int64) bool {
	f.tracked++
	return f.trackOK
}

func (f *fakeBilling) CreateSubscription(ctx context.Context, email, paymentMethodID, planID string) (app.CreateReceipt, error) {
	if f.createErr != nil {
		return app.CreateReceipt{}, f.createErr
	}
	return app.CreateReceipt{
		CustomerID:     "cust_new",
		SubscriptionID: "sub_new",
		APIKey:         "mcp_new",
		Status:         app.StatusActive,
		ClientSecret:   "pi_secret",
	}, nil
}

func (f *fakeBilling) CancelByAPIKey(ctx context.Context, apiKey string) (app.CancelReceipt, error) {
	if f.cancelErr != nil {
		return app.CancelReceipt{}, f.cancelErr
	}
	sub, ok := f.subs[apiKey]
	if !ok {
		return app.CancelReceipt{}, app.ErrNotFound
	}
	return app.CancelReceipt{
		SubscriptionID: sub.SubscriptionID,
		Status:         app.StatusCanceled,
		CanceledAt:     time.Now().UTC(),
	}, nil
}

func (f *fakeBilling) SubscriptionInfo(ctx context.Context, apiKey string) (app.Subscription, error) {
	sub, ok := f.subs[apiKey]
	if !ok {
		return app.Subscription{}, app.ErrNotFound
	}
	return sub, nil
}

func (f *fakeBilling) UsageStatistics(ctx context.Context, customerID string) (app.UsageStats, error) {
	for _, sub := range f.subs {
		if sub.CustomerID == customerID {
			return app.UsageStats{
				CustomerID:     customerID,
				SubscriptionID: sub.SubscriptionID,
				PlanID:         sub.PlanID,
				Status:         sub.Status,
				UsageCount:     sub.UsageCount,
				PeriodStart:    sub.CurrentPeriodStart,
				PeriodEnd:      sub.CurrentPeriodEnd,
			}, nil
		}
	}
	return app.UsageStats{}, app.ErrNotFound
}

func Test_Subscription_NilServiceIs503(t *testing.T) {
	h := newTestHandler(t, nil)

	status, body, _ := handle(t, h, httpEvent("GET", "/subscription/mcp_key", nil))
	assert.Equal(t, 503, status)
	assert.Equal(t, "BILLING_SERVICE_ERROR", body["error_code"])
}

func Test_Subscription_Create(t *testing.T) {
	h := newTestHandler(t, newAuthedService())

	status, body, _ := handle(t, h, httpEvent("POST", "/subscription/create", map[string]any{
		"body": `{"email":"a@b.com","payment_method_id":"pm_123","plan_id":"basic"}`,
	}))
	assert.Equal(t, 201, status)
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "mcp_new", data["api_key"])
	assert.Equal(t, "pi_secret", data["client_secret"])
}

func Test_Subscription_CreateMissingFields(t *testing.T) {
	h := newTestHandler(t, newAuthedService())

	status, body, _ := handle(t, h, httpEvent("POST", "/subscription/create", map[string]any{
		"body": `{"email":"a@b.com"}`,
	}))
	assert.Equal(t, 400, status)
	assert.Equal(t, "MISSING_FIELDS", body["error_code"])
}

func Test_Subscription_CreateFailure(t *testing.T) {
	svc := newAuthedService()
	svc.createErr = errors.New("card declined")
	h := newTestHandler(t, svc)

	status, body, _ := handle(t, h, httpEvent("POST", "/subscription/create", map[string]any{
		"body": `{"email":"a@b.com","payment_method_id":"pm_123"}`,
	}))
	assert.Equal(t, 400, status)
	assert.Equal(t, "SUBSCRIPTION_CREATION_FAILED", body["error_code"])
}

func Test_Subscription_InfoWithoutKeySucceeds(t *testing.T) {
	h := newTestHandler(t, newAuthedService("mcp_key"))

	status, body, _ := handle(t, h, httpEvent("GET", "/subscription/mcp_key", nil))
	assert.Equal(t, 200, status)
	sub, ok := body["subscription"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "cust_mcp_key", sub["customer_id"])
	assert.Contains(t, body, "usage_statistics")
}

func Test_Subscription_InfoUnknownKeyIs404(t *testing.T) {
	h := newTestHandler(t, newAuthedService("mcp_key"))

	status, body, _ := handle(t, h, httpEvent("GET", "/subscription/mcp_other", nil))
	assert.Equal(t, 404, status)
	assert.Equal(t, "SUBSCRIPTION_NOT_FOUND", body["error_code"])
}

func Test_Subscription_UsageRequiresKey(t *testing.T) {
	h := newTestHandler(t, newAuthedService("mcp_key"))

	status, body, _ := handle(t, h, httpEvent("POST", "/subscription/usage", map[string]any{
		"body": `{"endpoint":"/tools"}`,
	}))
	assert.Equal(t, 401, status)
	assert.Equal(t, "AUTH_MISSING_KEY", body["error_code"])
}

func Test_Subscription_UsageTracksExplicitUnits(t *testing.T) {
	svc := newAuthedService("mcp_key")
	h := newTestHandler(t, svc)

	status, body, _ := handle(t, h, httpEvent("POST", "/subscription/usage", map[string]any{
		"headers": map[string]any{"X-API-Key": "mcp_key"},
		"body":    `{"endpoint":"/tools","tokens_used":5}`,
	}))
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 5.0, body["tokens_used"])
	// metered once by the endpoint itself, not again by the auth layer
	assert.Equal(t, 1, svc.tracked)
}

func Test_Subscription_UsageTrackingFailure(t *testing.T) {
	svc := newAuthedService("mcp_key")
	svc.trackOK = false
	h := newTestHandler(t, svc)

	status, body, _ := handle(t, h, httpEvent("POST", "/subscription/usage", map[string]any{
		"headers": map[string]any{"X-API-Key": "mcp_key"},
		"body":    `{}`,
	}))
	assert.Equal(t, 500, status)
	assert.Equal(t, "USAGE_TRACKING_FAILED", body["error_code"])
}

func Test_Subscription_Cancel(t *testing.T) {
	h := newTestHandler(t, newAuthedService("mcp_key"))

	status, body, _ := handle(t, h, httpEvent("POST", "/subscription/cancel", map[string]any{
		"headers": map[string]any{"Authorization": "Bearer mcp_key"},
	}))
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "sub_mcp_key", body["subscription_id"])
}

func Test_Subscription_CancelFailure(t *testing.T) {
	svc := newAuthedService("mcp_key")
	svc.cancelErr = errors.New("billing down")
	h := newTestHandler(t, svc)

	status, body, _ := handle(t, h, httpEvent("POST", "/subscription/cancel", map[string]any{
		"headers": map[string]any{"X-API-Key": "mcp_key"},
	}))
	assert.Equal(t, 400, status)
	assert.Equal(t, "SUBSCRIPTION_CANCELLATION_FAILED", body["error_code"])
}

func Test_Subscription_UnknownEndpointIs404(t *testing.T) {
	h := newTestHandler(t, newAuthedService())

	status, body, _ := handle(t, h, httpEvent("DELETE", "/subscription/cancel", nil))
	assert.Equal(t, 404, status)
	assert.Equal(t, "ENDPOINT_NOT_FOUND", body["error_code"])
}
