// Package db implements the SubscriptionStore on postgres through the shared
// database pool.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	database "github.com/tbeaudouin05/mcp-gateway/api/database"
	app "github.com/tbeaudouin05/mcp-gateway/api/services/billing/app"
)

// Store is the postgres-backed SubscriptionStore.
type Store struct {
	db *sql.DB
}

// New returns a Store over the shared connection pool.
func New() *Store {
	return &Store{db: database.GetDB()}
}

// NewWithDB returns a Store over an explicit connection (tests).
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS subscription (
	api_key              TEXT PRIMARY KEY,
	customer_id          TEXT NOT NULL,
	subscription_id      TEXT NOT NULL,
	email                TEXT NOT NULL,
	plan_id              TEXT NOT NULL,
	status               TEXT NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL,
	current_period_start TIMESTAMPTZ NOT NULL,
	current_period_end   TIMESTAMPTZ NOT NULL,
	usage_count          BIGINT NOT NULL DEFAULT 0,
	last_usage           TIMESTAMPTZ,
	cancelled_at         TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS subscription_customer_idx ON subscription (customer_id);
`

// EnsureSchema creates the subscription table when absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("creating subscription schema: %w", err)
	}
	return nil
}

const selectColumns = `api_key, customer_id, subscription_id, email, plan_id, status,
	created_at, current_period_start, current_period_end, usage_count, last_usage`

func scanSubscription(row *sql.Row) (app.Subscription, bool, error) {
	var sub app.Subscription
	var lastUsage sql.NullTime
	err := row.Scan(
		&sub.APIKey, &sub.CustomerID, &sub.SubscriptionID, &sub.Email, &sub.PlanID, &sub.Status,
		&sub.CreatedAt, &sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.UsageCount, &lastUsage,
	)
	if err == sql.ErrNoRows {
		return app.Subscription{}, false, nil
	}
	if err != nil {
		return app.Subscription{}, false, fmt.Errorf("scanning subscription: %w", err)
	}
	if lastUsage.Valid {
		sub.LastUsage = lastUsage.Time
	}
	return sub, true, nil
}

// Get implements app.SubscriptionStore.
func (s *Store) Get(ctx context.Context, apiKey string) (app.Subscription, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM subscription WHERE api_key = $1`, apiKey)
	return scanSubscription(row)
}

// GetByCustomerID implements app.SubscriptionStore.
func (s *Store) GetByCustomerID(ctx context.Context, customerID string) (app.Subscription, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM subscription WHERE customer_id = $1 ORDER BY created_at DESC LIMIT 1`, customerID)
	return scanSubscription(row)
}

// Put implements app.SubscriptionStore.
func (s *Store) Put(ctx context.Context, sub app.Subscription) error {
	var lastUsage sql.NullTime
	if !sub.LastUsage.IsZero() {
		lastUsage = sql.NullTime{Time: sub.LastUsage, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscription (api_key, customer_id, subscription_id, email, plan_id, status,
			created_at, current_period_start, current_period_end, usage_count, last_usage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (api_key) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			subscription_id = EXCLUDED.subscription_id,
			email = EXCLUDED.email,
			plan_id = EXCLUDED.plan_id,
			status = EXCLUDED.status,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end`,
		sub.APIKey, sub.CustomerID, sub.SubscriptionID, sub.Email, sub.PlanID, sub.Status,
		sub.CreatedAt, sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.UsageCount, lastUsage,
	)
	if err != nil {
		return fmt.Errorf("upserting subscription: %w", err)
	}
	return nil
}

// UpdateStatus implements app.SubscriptionStore. Cancellation keeps the row
// and stamps cancelled_at for the audit trail.
func (s *Store) UpdateStatus(ctx context.Context, apiKey, status string) error {
	var err error
	if status == app.StatusCanceled {
		_, err = s.db.ExecContext(ctx,
			`UPDATE subscription SET status = $2, cancelled_at = NOW() WHERE api_key = $1`, apiKey, status)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE subscription SET status = $2 WHERE api_key = $1`, apiKey, status)
	}
	if err != nil {
		return fmt.Errorf("updating subscription status: %w", err)
	}
	return nil
}

// IncrementUsage implements app.SubscriptionStore. The increment is a single
// UPDATE so concurrent requests never lose counts (at-least-once from the
// caller's perspective).
func (s *Store) IncrementUsage(ctx context.Context, apiKey string, units int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE subscription SET usage_count = usage_count + $2, last_usage = $3 WHERE api_key = $1`,
		apiKey, units, at)
	if err != nil {
		return fmt.Errorf("incrementing usage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("incrementing usage: %w", err)
	}
	if n == 0 {
		return app.ErrNotFound
	}
	return nil
}
