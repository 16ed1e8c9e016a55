package gateway

import (
	"context"
	"time"
)

// StatusSnapshot is the authoritative subscription state reported by the
// payment processor.
type StatusSnapshot struct {
	Status      string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// CreateResult is the outcome of provisioning a customer, subscription and
// API key.
type CreateResult struct {
	CustomerID     string
	SubscriptionID string
	APIKey         string
	Status         string
	ClientSecret   string
}

// CancelResult is the outcome of a subscription cancellation.
type CancelResult struct {
	Status     string
	CanceledAt time.Time
}

// BillingGateway abstracts the payment-processor operations needed by the
// billing service. Methods return values (not pointers) to respect the
// project's preference to avoid pointer types in public interfaces.
type BillingGateway interface {
	GetSubscriptionStatus(ctx context.Context, subscriptionID string) (StatusSnapshot, error)
	CreateCustomerAndSubscription(ctx context.Context, email, paymentMethodID, planID string) (CreateResult, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (CancelResult, error)
}
