package app

import (
	"context"
	"time"

	gw "github.com/tbeaudouin05/mcp-gateway/api/services/billing/gateway"
)

// Service defines the business operations for the billing domain.
type Service interface {
	// ValidateKey resolves an API key to a verdict. It never returns an
	// error: collaborator failures degrade to service_unavailable.
	ValidateKey(ctx context.Context, apiKey string) Verdict
	// TrackUsage meters consumed units against a key. Returns false (not an
	// error) on failure; usage tracking must never abort the request.
	TrackUsage(ctx context.Context, apiKey, endpoint string, units int64) bool
	CreateSubscription(ctx context.Context, email, paymentMethodID, planID string) (CreateReceipt, error)
	CancelByAPIKey(ctx context.Context, apiKey string) (CancelReceipt, error)
	SubscriptionInfo(ctx context.Context, apiKey string) (Subscription, error)
	UsageStatistics(ctx context.Context, customerID string) (UsageStats, error)
}

// serviceImpl is a concrete implementation over injected collaborators.
type serviceImpl struct {
	gw    gw.BillingGateway
	store SubscriptionStore
	now   func() time.Time
}

// NewService wires the billing service from its collaborators.
func NewService(g gw.BillingGateway, store SubscriptionStore) Service {
	return &serviceImpl{gw: g, store: store, now: time.Now}
}
