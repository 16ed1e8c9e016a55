package app

import (
	"context"
	"time"
)

// SubscriptionStore is the persistence capability the billing service needs.
// The postgres implementation lives in the db package; any backend providing
// atomic usage increments can be substituted.
type SubscriptionStore interface {
	// Get returns the subscription for apiKey. found=false is a definitive
	// miss; an error is an infrastructure failure.
	Get(ctx context.Context, apiKey string) (sub Subscription, found bool, err error)
	// Put creates or replaces a subscription record.
	Put(ctx context.Context, sub Subscription) error
	// UpdateStatus syncs the stored status (and cancellation time when
	// status is canceled).
	UpdateStatus(ctx context.Context, apiKey, status string) error
	// IncrementUsage atomically adds units to usage_count and stamps
	// last_usage. Missing keys return ErrNotFound.
	IncrementUsage(ctx context.Context, apiKey string, units int64, at time.Time) error
	// GetByCustomerID returns the subscription owned by a customer.
	GetByCustomerID(ctx context.Context, customerID string) (sub Subscription, found bool, err error)
}
