package app

import (
	"context"
	"errors"
	"time"

	gw "github.com/tbeaudouin05/mcp-gateway/api/services/billing/gateway"
)

// fakeGateway is a hand-rolled BillingGateway for unit tests.
type fakeGateway struct {
	statuses  map[string]gw.StatusSnapshot
	statusErr error

	created   gw.CreateResult
	createErr error

	cancelResult gw.CancelResult
	cancelErr    error
}

func (f fakeGateway) GetSubscriptionStatus(ctx context.Context, subscriptionID string) (gw.StatusSnapshot, error) {
	if f.statusErr != nil {
		return gw.StatusSnapshot{}, f.statusErr
	}
	snap, ok := f.statuses[subscriptionID]
	if !ok {
		return gw.StatusSnapshot{}, errors.New("no such subscription")
	}
	return snap, nil
}

func (f fakeGateway) CreateCustomerAndSubscription(ctx context.Context, email, paymentMethodID, planID string) (gw.CreateResult, error) {
	return f.created, f.createErr
}

func (f fakeGateway) CancelSubscription(ctx context.Context, subscriptionID string) (gw.CancelResult, error) {
	return f.cancelResult, f.cancelErr
}

// fakeStore is an in-memory SubscriptionStore with failure toggles and
// mutation counters.
type fakeStore struct {
	subs map[string]Subscription

	getErr       error
	putErr       error
	updateErr    error
	incrementErr error

	statusUpdates int
	increments    int
	puts          int
}

func newFakeStore(subs ...Subscription) *fakeStore {
	s := &fakeStore{subs: make(map[string]Subscription)}
	for _, sub := range subs {
		s.subs[sub.APIKey] = sub
	}
	return s
}

func (s *fakeStore) Get(ctx context.Context, apiKey string) (Subscription, bool, error) {
	if s.getErr != nil {
		return Subscription{}, false, s.getErr
	}
	sub, ok := s.subs[apiKey]
	return sub, ok, nil
}

func (s *fakeStore) Put(ctx context.Context, sub Subscription) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.puts++
	s.subs[sub.APIKey] = sub
	return nil
}

func (s *fakeStore) UpdateStatus(ctx context.Context, apiKey, status string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	sub, ok := s.subs[apiKey]
	if !ok {
		return ErrNotFound
	}
	sub.Status = status
	s.subs[apiKey] = sub
	s.statusUpdates++
	return nil
}

func (s *fakeStore) IncrementUsage(ctx context.Context, apiKey string, units int64, at time.Time) error {
	if s.incrementErr != nil {
		return s.incrementErr
	}
	sub, ok := s.subs[apiKey]
	if !ok {
		return ErrNotFound
	}
	sub.UsageCount += units
	sub.LastUsage = at
	s.subs[apiKey] = sub
	s.increments++
	return nil
}

func (s *fakeStore) GetByCustomerID(ctx context.Context, customerID string) (Subscription, bool, error) {
	if s.getErr != nil {
		return Subscription{}, false, s.getErr
	}
	for _, sub := range s.subs {
		if sub.CustomerID == customerID {
			return sub, true, nil
		}
	}
	return Subscription{}, false, nil
}

// activeSubscription returns a subscription valid for another 24h.
func activeSubscription(apiKey string) Subscription {
	now := time.Now().UTC()
	return Subscription{
		APIKey:             apiKey,
		CustomerID:         "cust_123",
		SubscriptionID:     "sub_123",
		Email:              "valid@example.com",
		PlanID:             "professional",
		Status:             StatusActive,
		CreatedAt:          now.Add(-48 * time.Hour),
		CurrentPeriodStart: now.Add(-24 * time.Hour),
		CurrentPeriodEnd:   now.Add(24 * time.Hour),
	}
}
