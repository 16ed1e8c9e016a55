package app

import (
	"context"
	"fmt"
	"log/slog"

	config "github.com/tbeaudouin05/mcp-gateway/api/config"
)

// CreateSubscription provisions a customer, subscription and API key through
// the billing gateway, then persists the entitlement record.
func (s *serviceImpl) CreateSubscription(ctx context.Context, email, paymentMethodID, planID string) (CreateReceipt, error) {
	if email == "" || paymentMethodID == "" {
		return CreateReceipt{}, fmt.Errorf("%w: email and payment_method_id", ErrMissingFields)
	}
	if planID == "" {
		planID = config.DefaultPlanID
	}

	created, err := s.gw.CreateCustomerAndSubscription(ctx, email, paymentMethodID, planID)
	if err != nil {
		return CreateReceipt{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	snapshot, err := s.gw.GetSubscriptionStatus(ctx, created.SubscriptionID)
	if err != nil {
		// The subscription exists upstream; store it with what we have.
		slog.Warn("period fetch after create failed", "subscription_id", created.SubscriptionID, "err", err)
		snapshot.Status = created.Status
	}

	now := s.now().UTC()
	sub := Subscription{
		APIKey:             created.APIKey,
		CustomerID:         created.CustomerID,
		SubscriptionID:     created.SubscriptionID,
		Email:              email,
		PlanID:             planID,
		Status:             created.Status,
		CreatedAt:          now,
		CurrentPeriodStart: snapshot.PeriodStart,
		CurrentPeriodEnd:   snapshot.PeriodEnd,
	}
	if err := s.store.Put(ctx, sub); err != nil {
		return CreateReceipt{}, fmt.Errorf("%w: persisting subscription: %v", ErrStore, err)
	}

	slog.Info("subscription created", "customer_id", created.CustomerID, "plan_id", planID)
	return CreateReceipt{
		CustomerID:     created.CustomerID,
		SubscriptionID: created.SubscriptionID,
		APIKey:         created.APIKey,
		Status:         created.Status,
		ClientSecret:   created.ClientSecret,
	}, nil
}

// CancelByAPIKey cancels the subscription behind an API key. The record is
// kept with status=canceled; nothing is physically removed.
func (s *serviceImpl) CancelByAPIKey(ctx context.Context, apiKey string) (CancelReceipt, error) {
	stored, found, err := s.store.Get(ctx, apiKey)
	if err != nil {
		return CancelReceipt{}, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if !found {
		return CancelReceipt{}, ErrNotFound
	}

	canceled, err := s.gw.CancelSubscription(ctx, stored.SubscriptionID)
	if err != nil {
		return CancelReceipt{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if err := s.store.UpdateStatus(ctx, apiKey, canceled.Status); err != nil {
		// The upstream cancellation succeeded; the next validation will
		// re-sync the stored status.
		slog.Warn("status update after cancel failed", "subscription_id", stored.SubscriptionID, "err", err)
	}

	slog.Info("subscription cancelled", "subscription_id", stored.SubscriptionID)
	return CancelReceipt{
		SubscriptionID: stored.SubscriptionID,
		Status:         canceled.Status,
		CanceledAt:     canceled.CanceledAt,
	}, nil
}

// SubscriptionInfo returns the stored entitlement record for an API key.
func (s *serviceImpl) SubscriptionInfo(ctx context.Context, apiKey string) (Subscription, error) {
	stored, found, err := s.store.Get(ctx, apiKey)
	if err != nil {
		return Subscription{}, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if !found {
		return Subscription{}, ErrNotFound
	}
	return stored, nil
}

// UsageStatistics summarizes a customer's usage for the current billing
// period, refreshing period bounds from the gateway when reachable.
func (s *serviceImpl) UsageStatistics(ctx context.Context, customerID string) (UsageStats, error) {
	stored, found, err := s.store.GetByCustomerID(ctx, customerID)
	if err != nil {
		return UsageStats{}, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if !found {
		return UsageStats{}, ErrNotFound
	}

	stats := UsageStats{
		CustomerID:     stored.CustomerID,
		SubscriptionID: stored.SubscriptionID,
		PlanID:         stored.PlanID,
		Status:         stored.Status,
		UsageCount:     stored.UsageCount,
		LastUsage:      stored.LastUsage,
		PeriodStart:    stored.CurrentPeriodStart,
		PeriodEnd:      stored.CurrentPeriodEnd,
	}
	if snapshot, err := s.gw.GetSubscriptionStatus(ctx, stored.SubscriptionID); err == nil {
		stats.Status = snapshot.Status
		stats.PeriodStart = snapshot.PeriodStart
		stats.PeriodEnd = snapshot.PeriodEnd
	}
	if remaining := stats.PeriodEnd.Sub(s.now().UTC()); remaining > 0 {
		stats.DaysRemaining = int(remaining.Hours() / 24)
	}
	return stats, nil
}
