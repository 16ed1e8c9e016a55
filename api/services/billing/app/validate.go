package app

import (
	"context"
	"log/slog"
)

// ValidateKey checks an API key against the stored subscription and the
// authoritative billing status. The sequence is fixed: store lookup,
// authoritative status fetch, best-effort status sync, active-status check,
// then period-end check. Every collaborator failure is downgraded to a
// verdict so the transport always renders a structured error.
func (s *serviceImpl) ValidateKey(ctx context.Context, apiKey string) Verdict {
	if apiKey == "" {
		return Verdict{Valid: false, Reason: ReasonNotFound}
	}

	stored, found, err := s.store.Get(ctx, apiKey)
	if err != nil {
		slog.Error("subscription lookup failed", "err", err)
		return Verdict{Valid: false, Reason: ReasonServiceUnavailable}
	}
	if !found {
		return Verdict{Valid: false, Reason: ReasonNotFound}
	}

	snapshot, err := s.gw.GetSubscriptionStatus(ctx, stored.SubscriptionID)
	if err != nil {
		// Billing downtime means deny, not crash; the stored record is left
		// untouched.
		slog.Error("billing status fetch failed", "subscription_id", stored.SubscriptionID, "err", err)
		return Verdict{Valid: false, Reason: ReasonServiceUnavailable}
	}

	if snapshot.Status != stored.Status {
		// Best effort: a failed sync does not fail validation.
		if err := s.store.UpdateStatus(ctx, apiKey, snapshot.Status); err != nil {
			slog.Warn("subscription status sync failed", "subscription_id", stored.SubscriptionID, "err", err)
		}
	}

	if snapshot.Status != StatusActive && snapshot.Status != StatusTrialing {
		return Verdict{Valid: false, Reason: ReasonInactiveStatus, Status: snapshot.Status}
	}

	// Period check is independent of status: an upstream-active subscription
	// whose stored period has lapsed is still expired.
	if !s.now().Before(stored.CurrentPeriodEnd) {
		return Verdict{Valid: false, Reason: ReasonExpired}
	}

	return Verdict{
		Valid:          true,
		CustomerID:     stored.CustomerID,
		SubscriptionID: stored.SubscriptionID,
		PlanID:         stored.PlanID,
		Status:         snapshot.Status,
	}
}
