package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
)

// BookingPolicyRepo manages the global booking policy row.  The table
// is expected to hold a single row ordered first by id; Current
// returns nil (no error) when the table is empty, which callers treat
// as "no horizon constraint".
type BookingPolicyRepo struct {
	db *sql.DB
}

// NewBookingPolicyRepo returns a BookingPolicyRepo bound to the given database.
func NewBookingPolicyRepo(db *sql.DB) *BookingPolicyRepo { return &BookingPolicyRepo{db: db} }

// Current returns the policy row with the lowest id, or nil when none exists.
func (r *BookingPolicyRepo) Current(ctx context.Context) (*model.BookingPolicy, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, open_days_in_advance, created_by_admin_id, created_at, updated_at
		 FROM booking_policies ORDER BY id ASC LIMIT 1`)
	var p model.BookingPolicy
	err := row.Scan(&p.ID, &p.OpenDaysInAdvance, &p.CreatedByAdminID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreateDefault returns the current policy, inserting a default
// row (15 days, creator 0) when the table is empty.  Used by the admin
// read path so the first GET always has something to show.
func (r *BookingPolicyRepo) GetOrCreateDefault(ctx context.Context, now time.Time) (*model.BookingPolicy, error) {
	p, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	def := &model.BookingPolicy{
		OpenDaysInAdvance: 15,
		CreatedByAdminID:  0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO booking_policies (open_days_in_advance, created_by_admin_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		def.OpenDaysInAdvance, def.CreatedByAdminID, def.CreatedAt, def.UpdatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	def.ID = uint64(id)
	return def, nil
}

// Upsert updates the existing policy row or creates one when missing.
// The original creator is kept on update.
func (r *BookingPolicyRepo) Upsert(ctx context.Context, openDaysInAdvance int, adminID uint64, now time.Time) (*model.BookingPolicy, error) {
	p, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &model.BookingPolicy{
			OpenDaysInAdvance: openDaysInAdvance,
			CreatedByAdminID:  adminID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO booking_policies (open_days_in_advance, created_by_admin_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?)`,
			p.OpenDaysInAdvance, p.CreatedByAdminID, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		p.ID = uint64(id)
		return p, nil
	}
	p.OpenDaysInAdvance = openDaysInAdvance
	p.UpdatedAt = now
	_, err = r.db.ExecContext(ctx,
		`UPDATE booking_policies SET open_days_in_advance = ?, updated_at = ? WHERE id = ?`,
		p.OpenDaysInAdvance, p.UpdatedAt, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}
