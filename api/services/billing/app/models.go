package app

import "time"

// SubscriptionStatus values mirror the payment processor's vocabulary.
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
	StatusUnknown  = "unknown"
)

// Subscription is one paying caller's entitlement record. The api_key is the
// unique identity; status transitions are pulled lazily from the billing
// gateway on validation, never pushed. usage_count only increases, and
// records are soft-deleted via status=canceled for the audit trail.
type Subscription struct {
	APIKey             string    `json:"-"`
	CustomerID         string    `json:"customer_id"`
	SubscriptionID     string    `json:"subscription_id"`
	Email              string    `json:"email"`
	PlanID             string    `json:"plan_id"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	UsageCount         int64     `json:"usage_count"`
	// LastUsage is zero when the key has never been used.
	LastUsage time.Time `json:"last_usage,omitempty"`
}

// VerdictReason explains why validation failed.
type VerdictReason string

const (
	ReasonNotFound           VerdictReason = "not_found"
	ReasonExpired            VerdictReason = "expired"
	ReasonInactiveStatus     VerdictReason = "inactive_status"
	ReasonServiceUnavailable VerdictReason = "service_unavailable"
)

// Verdict is the ephemeral, per-request result of checking a caller.
// Validation failures are data, not exceptions: the caller always renders a
// structured error from a verdict, whatever the cause.
type Verdict struct {
	Valid  bool          `json:"valid"`
	Reason VerdictReason `json:"reason,omitempty"`
	// Snapshot of the subscription, populated when Valid.
	CustomerID     string `json:"customer_id,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	PlanID         string `json:"plan_id,omitempty"`
	// Status is also set for inactive_status verdicts so clients see the
	// offending state.
	Status string `json:"status,omitempty"`
}

// CancelReceipt is the outcome of cancelling by API key.
type CancelReceipt struct {
	SubscriptionID string    `json:"subscription_id"`
	Status         string    `json:"status"`
	CanceledAt     time.Time `json:"cancelled_at"`
}

// CreateReceipt is the outcome of provisioning a new subscription.
type CreateReceipt struct {
	CustomerID     string `json:"customer_id"`
	SubscriptionID string `json:"subscription_id"`
	APIKey         string `json:"api_key"`
	Status         string `json:"status"`
	ClientSecret   string `json:"client_secret,omitempty"`
}

// UsageStats summarizes usage for a customer's current billing period.
type UsageStats struct {
	CustomerID     string    `json:"customer_id"`
	SubscriptionID string    `json:"subscription_id"`
	PlanID         string    `json:"plan_id"`
	Status         string    `json:"status"`
	UsageCount     int64     `json:"usage_count"`
	LastUsage      time.Time `json:"last_usage,omitempty"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	DaysRemaining  int       `json:"days_remaining"`
}
