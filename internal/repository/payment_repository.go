package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
)

// PaymentRepo provides data access for invoices.  The money-moving
// operations (attempt registration, charge completion) run in their
// own transactions with status guards so the billing scheduler is safe
// to re-run after a crash: committed invoices stay in their new state
// and unprocessed ones are picked up on the next tick.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, subscription_id, amount_cents, currency, status, provider, provider_ref,
	due_at, paid_at, created_at, attempt_count, last_attempt_at`

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	var ref sql.NullString
	var paidAt, lastAttemptAt sql.NullTime
	err := row.Scan(&p.ID, &p.SubscriptionID, &p.AmountCents, &p.Currency, &p.Status, &p.Provider,
		&ref, &p.DueAt, &paidAt, &p.CreatedAt, &p.AttemptCount, &lastAttemptAt)
	if err != nil {
		return nil, err
	}
	if ref.Valid {
		v := ref.String
		p.ProviderRef = &v
	}
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	if lastAttemptAt.Valid {
		t := lastAttemptAt.Time
		p.LastAttemptAt = &t
	}
	return &p, nil
}

// GetByID loads an invoice by primary key.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// FindDuePending returns PENDING invoices due at or before the given
// instant, oldest due first.
func (r *PaymentRepo) FindDuePending(ctx context.Context, now time.Time) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE status = 'PENDING' AND due_at <= ? ORDER BY due_at ASC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	due := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		due = append(due, *p)
	}
	return due, rows.Err()
}

// BeginAttempt refreshes the invoice under a row lock, verifies it is
// still PENDING, increments the attempt counter and stamps the attempt
// time.  Returns the refreshed invoice, or ErrConflict when another
// worker already resolved it.
func (r *PaymentRepo) BeginAttempt(ctx context.Context, id uint64, at time.Time) (*model.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ? FOR UPDATE`, id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Status != model.PaymentStatusPending {
		return nil, ErrConflict
	}

	p.AttemptCount++
	p.LastAttemptAt = &at
	if _, err := tx.ExecContext(ctx,
		`UPDATE payments SET attempt_count = ?, last_attempt_at = ? WHERE id = ?`,
		p.AttemptCount, at, p.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return p, nil
}

// Rollover describes the subscription advance applied together with a
// successful charge.  NextInvoice is inserted only when the
// subscription is still ACTIVE or PAST_DUE; a subscription canceled
// meanwhile gets its invoice marked paid but no further cycle.
type Rollover struct {
	SubscriptionID uint64
	PeriodStart    time.Time
	PeriodEnd      time.Time
	NextBillingAt  time.Time
	NextInvoice    model.Payment
}

// CompleteCharge records an accepted charge atomically: the invoice is
// marked PAID, the subscription window rolls forward (reactivating a
// PAST_DUE subscription), and the next PENDING invoice is created.
// The invoice status guard makes a repeated call a no-op, and an
// acceptance is never recorded without its rollover.
func (r *PaymentRepo) CompleteCharge(ctx context.Context, paymentID uint64, providerRef string, at time.Time, roll Rollover) error {
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

	res, err := tx.ExecContext(ctx,
		`UPDATE payments SET status = 'PAID', provider_ref = ?, paid_at = ? WHERE id = ? AND status = 'PENDING'`,
		providerRef, at, paymentID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE subscriptions SET status = 'ACTIVE', current_period_start = ?, current_period_end = ?, next_billing_at = ?
		 WHERE id = ? AND status IN ('ACTIVE','PAST_DUE')`,
		roll.PeriodStart, roll.PeriodEnd, roll.NextBillingAt, roll.SubscriptionID)
	if err != nil {
		return err
	}
	n, err = res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		next := roll.NextInvoice
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payments (subscription_id, amount_cents, currency, status, provider, due_at, created_at, attempt_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
			roll.SubscriptionID, next.AmountCents, next.Currency, next.Status,
			next.Provider, next.DueAt, next.CreatedAt); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// MarkFailed transitions a PENDING invoice to the terminal FAILED
// state.  Used by the provider callback's declined path; the scheduler
// leaves invoices PENDING until retries are exhausted.
func (r *PaymentRepo) MarkFailed(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = 'FAILED' WHERE id = ? AND status = 'PENDING'`, id)
	return err
}

// ListBySubscription returns a subscription's invoices, newest first.
func (r *PaymentRepo) ListBySubscription(ctx context.Context, subscriptionID uint64) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE subscription_id = ? ORDER BY created_at DESC`,
		subscriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
