package middleware

import (
	"context"

	app "github.com/tbeaudouin05/mcp-gateway/api/services/billing/app"
)

type ctxKey int

const (
	verdictKey ctxKey = iota
	apiKeyKey
)

func withAuth(ctx context.Context, apiKey string, verdict app.Verdict) context.Context {
	ctx = context.WithValue(ctx, apiKeyKey, apiKey)
	return context.WithValue(ctx, verdictKey, verdict)
}

// SubscriptionFrom returns the validated subscription verdict attached by
// RequireAPIKey or OptionalAPIKey, if any.
func SubscriptionFrom(ctx context.Context) (app.Verdict, bool) {
	v, ok := ctx.Value(verdictKey).(app.Verdict)
	return v, ok
}

// APIKeyFrom returns the validated API key attached to the context, if any.
func APIKeyFrom(ctx context.Context) (string, bool) {
	k, ok := ctx.Value(apiKeyKey).(string)
	return k, ok
}
