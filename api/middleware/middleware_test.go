package middleware

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	event "github.com/tbeaudouin05/mcp-gateway/api/event"
	ratelimit "github.com/tbeaudouin05/mcp-gateway/api/ratelimit"
	app "github.com/tbeaudouin05/mcp-gateway/api/services/billing/app"
)

// fakeService implements app.Service for middleware tests; only the
// validation and metering paths matter here.
type fakeService struct {
	verdicts map[string]app.Verdict
	trackOK  bool
	tracked  int
}

func (f *fakeService) ValidateKey(ctx context.Context, apiKey string) app.Verdict {
	v, ok := f.verdicts[apiKey]
	if !ok {
		return app.Verdict{Reason: app.ReasonNotFound}
	}
	return v
}

func (f *fakeService) TrackUsage(ctx context.Context, apiKey, endpoint string, units int64) bool {
	f.tracked++
	return f.trackOK
}

func (f *fakeService) CreateSubscription(ctx context.Context, email, paymentMethodID, planID string) (app.CreateReceipt, error) {
	return app.CreateReceipt{}, nil
}

func (f *fakeService) CancelByAPIKey(ctx context.Context, apiKey string) (app.CancelReceipt, error) {
	return app.CancelReceipt{}, nil
}

func (f *fakeService) SubscriptionInfo(ctx context.Context, apiKey string) (app.Subscription, error) {
	return app.Subscription{}, app.ErrNotFound
}

func (f *fakeService) UsageStatistics(ctx context.Context, customerID string) (app.UsageStats, error) {
	return app.UsageStats{}, app.ErrNotFound
}

func validService(apiKey, planID string) *fakeService {
	return &fakeService{
		trackOK: true,
		verdicts: map[string]app.Verdict{
			apiKey: {
				Valid:          true,
				CustomerID:     "cust_123",
				SubscriptionID: "sub_123",
				PlanID:         planID,
				Status:         app.StatusActive,
			},
		},
	}
}

func countingHandler(calls *int) Handler {
	return func(ctx context.Context, evt event.Event) event.Response {
		*calls++
		return event.JSON(200, map[string]any{"ok": true})
	}
}

func errorCode(t *testing.T, resp event.Response) string {
	t.Helper()
	var body map[string]any
	assert.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	code, _ := body["error_code"].(string)
	return code
}

func Test_RequireAPIKey_MissingKeyNeverInvokesDownstream(t *testing.T) {
	calls := 0
	h := Chain(countingHandler(&calls), RequireAPIKey(validService("mcp_key", "basic"), false))

	resp := h(context.Background(), event.Event{HTTPMethod: "POST", Path: "/"})
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "AUTH_MISSING_KEY", errorCode(t, resp))
	assert.Zero(t, calls)
}

func Test_RequireAPIKey_BearerTokenAccepted(t *testing.T) {
	calls := 0
	h := Chain(countingHandler(&calls), RequireAPIKey(validService("mcp_key", "basic"), false))

	resp := h(context.Background(), event.Event{
		HTTPMethod: "POST",
		Path:       "/",
		Headers:    map[string]string{"authorization": "Bearer mcp_key"},
	})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, calls)
}

func Test_RequireAPIKey_ExpiredIs403(t *testing.T) {
	svc := &fakeService{verdicts: map[string]app.Verdict{
		"mcp_key": {Reason: app.ReasonExpired},
	}}
	calls := 0
	h := Chain(countingHandler(&calls), RequireAPIKey(svc, false))

	resp := h(context.Background(), event.Event{
		HTTPMethod: "POST",
		Path:       "/",
		Headers:    map[string]string{"X-API-Key": "mcp_key"},
	})
	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, "SUBSCRIPTION_INVALID", errorCode(t, resp))
	assert.Zero(t, calls)
}

func Test_RequireAPIKey_UnknownKeyIs401(t *testing.T) {
	h := Chain(countingHandler(new(int)), RequireAPIKey(&fakeService{}, false))

	resp := h(context.Background(), event.Event{
		HTTPMethod: "POST",
		Path:       "/",
		Headers:    map[string]string{"X-API-Key": "mcp_unknown"},
	})
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "SUBSCRIPTION_INVALID", errorCode(t, resp))
}

func Test_RequireAPIKey_TracksUsageOncePerRequest(t *testing.T) {
	svc := validService("mcp_key", "basic")
	h := Chain(countingHandler(new(int)), RequireAPIKey(svc, true))
	evt := event.Event{HTTPMethod: "POST", Path: "/", Headers: map[string]string{"X-API-Key": "mcp_key"}}

	h(context.Background(), evt)
	h(context.Background(), evt)
	assert.Equal(t, 2, svc.tracked)
}

func Test_RequireAPIKey_MeteringFailureDoesNotBlock(t *testing.T) {
	svc := validService("mcp_key", "basic")
	svc.trackOK = false
	h := Chain(countingHandler(new(int)), RequireAPIKey(svc, true))

	resp := h(context.Background(), event.Event{
		HTTPMethod: "POST",
		Path:       "/",
		Headers:    map[string]string{"X-API-Key": "mcp_key"},
	})
	assert.Equal(t, 200, resp.StatusCode)
}

func Test_RequireAPIKey_AttachesVerdictToContext(t *testing.T) {
	var gotVerdict app.Verdict
	var gotKey string
	h := Chain(func(ctx context.Context, evt event.Event) event.Response {
		gotVerdict, _ = SubscriptionFrom(ctx)
		gotKey, _ = APIKeyFrom(ctx)
		return event.JSON(200, map[string]any{"ok": true})
	}, RequireAPIKey(validService("mcp_key", "professional"), false))

	h(context.Background(), event.Event{
		HTTPMethod: "POST",
		Path:       "/",
		Headers:    map[string]string{"X-API-Key": "mcp_key"},
	})
	assert.Equal(t, "mcp_key", gotKey)
	assert.Equal(t, "professional", gotVerdict.PlanID)
}

func Test_RequireAPIKey_PanicBecomes500(t *testing.T) {
	h := Chain(func(ctx context.Context, evt event.Event) event.Response {
		panic("boom")
	}, RequireAPIKey(validService("mcp_key", "basic"), false))

	resp := h(context.Background(), event.Event{
		HTTPMethod: "POST",
		Path:       "/",
		Headers:    map[string]string{"X-API-Key": "mcp_key"},
	})
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "HANDLER_ERROR", errorCode(t, resp))
}

func Test_OptionalAPIKey_NeverBlocks(t *testing.T) {
	calls := 0
	h := Chain(countingHandler(&calls), OptionalAPIKey(&fakeService{}))

	// absent key
	resp := h(context.Background(), event.Event{HTTPMethod: "GET", Path: "/subscription/x"})
	assert.Equal(t, 200, resp.StatusCode)

	// invalid key still proceeds, unauthenticated
	resp = h(context.Background(), event.Event{
		HTTPMethod: "GET",
		Path:       "/subscription/x",
		Headers:    map[string]string{"X-API-Key": "mcp_bad"},
	})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 2, calls)
}

func Test_OptionalAPIKey_AttachesContextOnSuccess(t *testing.T) {
	var authed bool
	h := Chain(func(ctx context.Context, evt event.Event) event.Response {
		_, authed = SubscriptionFrom(ctx)
		return event.JSON(200, map[string]any{"ok": true})
	}, OptionalAPIKey(validService("mcp_key", "basic")))

	h(context.Background(), event.Event{
		HTTPMethod: "GET",
		Path:       "/subscription/mcp_key",
		Headers:    map[string]string{"X-API-Key": "mcp_key"},
	})
	assert.True(t, authed)
}

func Test_WithRateLimiting_PassThroughWithoutAuth(t *testing.T) {
	calls := 0
	h := Chain(countingHandler(&calls), WithRateLimiting(ratelimit.NewMemory()))

	resp := h(context.Background(), event.Event{HTTPMethod: "GET", Path: "/health"})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, calls)
	assert.NotContains(t, resp.Headers, "X-RateLimit-Limit")
}

// Composed auth + limiting with a ceiling of 2 admits exactly two requests
// per window.
func Test_WithRateLimiting_ComposedCeiling(t *testing.T) {
	limiter := ratelimit.NewMemory()
	svc := validService("mcp_key", "tiny")
	app.SubscriptionPlans["tiny"] = app.Plan{
		Name:   "Tiny",
		Limits: app.PlanLimits{MonthlyRequests: 100, RateLimit: 2, BurstLimit: 2},
	}
	defer delete(app.SubscriptionPlans, "tiny")

	h := Chain(countingHandler(new(int)), RequireAPIKey(svc, false), WithRateLimiting(limiter))
	evt := event.Event{HTTPMethod: "POST", Path: "/", Headers: map[string]string{"X-API-Key": "mcp_key"}}

	var statuses []int
	for i := 0; i < 3; i++ {
		statuses = append(statuses, h(context.Background(), evt).StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, statuses)

	last := h(context.Background(), evt)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", errorCode(t, last))
}

func Test_WithRateLimiting_StampsHeaders(t *testing.T) {
	h := Chain(countingHandler(new(int)),
		RequireAPIKey(validService("mcp_key", "basic"), false),
		WithRateLimiting(ratelimit.NewMemory()))

	resp := h(context.Background(), event.Event{
		HTTPMethod: "POST",
		Path:       "/",
		Headers:    map[string]string{"X-API-Key": "mcp_key"},
	})
	assert.Equal(t, "100", resp.Headers["X-RateLimit-Limit"])
	assert.Equal(t, "99", resp.Headers["X-RateLimit-Remaining"])
	assert.Equal(t, "1", resp.Headers["X-RateLimit-Used"])
}
