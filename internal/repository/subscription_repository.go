package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
)

// SubscriptionRepo provides data access for subscriptions.  Status
// transitions carry their guards in the WHERE clause so that repeated
// calls are idempotent and never resurrect a CANCELED subscription.
type SubscriptionRepo struct {
	db *sql.DB
}

// NewSubscriptionRepo returns a SubscriptionRepo bound to the given database.
func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

const subscriptionColumns = `id, user_id, plan_name, price_cents, currency, billing_day, status,
	current_period_start, current_period_end, next_billing_at, created_at, canceled_at`

func scanSubscription(row interface{ Scan(...any) error }) (*model.Subscription, error) {
	var s model.Subscription
	var canceledAt sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.PlanName, &s.PriceCents, &s.Currency, &s.BillingDay,
		&s.Status, &s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.NextBillingAt, &s.CreatedAt, &canceledAt)
	if err != nil {
		return nil, err
	}
	if canceledAt.Valid {
		t := canceledAt.Time
		s.CanceledAt = &t
	}
	return &s, nil
}

// Create inserts a subscription together with its initial PENDING
// invoice in one transaction.  Concurrent subscribe calls for one
// user serialize on the locked user row; a count over subscription
// rows alone cannot lock the gap when no matching row exists yet, so
// the existence check runs only after the user lock is held.
func (r *SubscriptionRepo) Create(ctx context.Context, s *model.Subscription, initial *model.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var lockedID uint64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM users WHERE id = ? FOR UPDATE`, s.UserID).Scan(&lockedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	var existing int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = ? AND status IN ('ACTIVE','PAST_DUE')`,
		s.UserID).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return ErrConflict
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, plan_name, price_cents, currency, billing_day, status,
		 current_period_start, current_period_end, next_billing_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.UserID, s.PlanName, s.PriceCents, s.Currency, s.BillingDay, s.Status,
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.NextBillingAt, s.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	initial.SubscriptionID = s.ID
	res, err = tx.ExecContext(ctx,
		`INSERT INTO payments (subscription_id, amount_cents, currency, status, provider, due_at, created_at, attempt_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
		initial.SubscriptionID, initial.AmountCents, initial.Currency, initial.Status,
		initial.Provider, initial.DueAt, initial.CreatedAt)
	if err != nil {
		return err
	}
	pid, err := res.LastInsertId()
	if err != nil {
		return err
	}
	initial.ID = uint64(pid)

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID loads a subscription by primary key.
func (r *SubscriptionRepo) GetByID(ctx context.Context, id uint64) (*model.Subscription, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`, id)
	s, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// FindCurrentByUser returns the user's subscription in ACTIVE or
// PAST_DUE, or ErrNotFound when none exists.
func (r *SubscriptionRepo) FindCurrentByUser(ctx context.Context, userID uint64) (*model.Subscription, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE user_id = ? AND status IN ('ACTIVE','PAST_DUE') LIMIT 1`, userID)
	s, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// MarkPastDue transitions ACTIVE→PAST_DUE.  Returns true when the row
// changed; a subscription already PAST_DUE (or CANCELED) is left
// untouched, making the call idempotent.
func (r *SubscriptionRepo) MarkPastDue(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = 'PAST_DUE' WHERE id = ? AND status = 'ACTIVE'`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Cancel transitions ACTIVE or PAST_DUE to the terminal CANCELED state
// and stamps the cancellation time.
func (r *SubscriptionRepo) Cancel(ctx context.Context, id uint64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = 'CANCELED', canceled_at = ?
		 WHERE id = ? AND status IN ('ACTIVE','PAST_DUE')`, at, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
