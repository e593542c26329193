package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
)

// BookingRepo provides data access for bookings.  Admission is the one
// operation that races: concurrent booking attempts for the same
// session must observe a consistent active count, so Admit locks the
// session row and performs every uniqueness and capacity check inside
// a single transaction.  All timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// AdmitParams carries the inputs of the atomic admission step.  The
// session's class type, capacity and start time are re-read under the
// row lock rather than trusted from the caller, so a stale session
// snapshot cannot defeat the capacity check.
type AdmitParams struct {
	SessionID        uint64
	UserID           uint64
	OnePerDayPerType bool
	Now              time.Time
}

// Admit books a spot for the user in one transaction: it locks the
// session row, re-checks the duplicate, daily-limit and capacity rules
// under that lock, then inserts the BOOKED row.  The N+1th concurrent
// attempt past capacity blocks on the row lock and fails with
// ErrSessionFull once it acquires it.
func (r *BookingRepo) Admit(ctx context.Context, p AdmitParams) (*model.Booking, error) {
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

	// Serialize concurrent admissions for this session.
	var (
		classTypeID uint64
		capacity    int
		canceled    bool
		startAt     time.Time
	)
	err = tx.QueryRowContext(ctx,
		`SELECT class_type_id, capacity, canceled, start_at FROM class_sessions WHERE id = ? FOR UPDATE`,
		p.SessionID).Scan(&classTypeID, &capacity, &canceled, &startAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if canceled {
		return nil, ErrConflict
	}

	// One active booking per (session, user).
	var dup int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE session_id = ? AND user_id = ? AND status = 'BOOKED'`,
		p.SessionID, p.UserID).Scan(&dup); err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, ErrDuplicateBooking
	}

	if p.OnePerDayPerType {
		dayStart := time.Date(startAt.UTC().Year(), startAt.UTC().Month(), startAt.UTC().Day(), 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.AddDate(0, 0, 1)
		var already int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM bookings b
			 JOIN class_sessions s ON s.id = b.session_id
			 WHERE b.user_id = ? AND b.status = 'BOOKED' AND s.class_type_id = ?
			   AND s.start_at >= ? AND s.start_at < ?`,
			p.UserID, classTypeID, dayStart, dayEnd).Scan(&already); err != nil {
			return nil, err
		}
		if already > 0 {
			return nil, ErrDailyLimit
		}
	}

	var active int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE session_id = ? AND status = 'BOOKED'`,
		p.SessionID).Scan(&active); err != nil {
		return nil, err
	}
	if active >= int64(capacity) {
		return nil, ErrSessionFull
	}

	b := &model.Booking{
		SessionID: p.SessionID,
		UserID:    p.UserID,
		Status:    model.BookingStatusBooked,
		CreatedAt: p.Now,
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (session_id, user_id, status, created_at) VALUES (?, ?, ?, ?)`,
		b.SessionID, b.UserID, b.Status, b.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	b.ID = uint64(id)

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}

// CountActiveBySession counts BOOKED rows for a session.  This is the
// capacity ledger's read path; the admission path re-counts under the
// session row lock instead of calling this.
func (r *BookingRepo) CountActiveBySession(ctx context.Context, sessionID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE session_id = ? AND status = 'BOOKED'`,
		sessionID).Scan(&n)
	return n, err
}

// GetByIDAndUser loads a booking owned by the given user.
func (r *BookingRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, session_id, user_id, status, created_at, canceled_at
		 FROM bookings WHERE id = ? AND user_id = ?`, id, userID)
	var b model.Booking
	var canceledAt sql.NullTime
	err := row.Scan(&b.ID, &b.SessionID, &b.UserID, &b.Status, &b.CreatedAt, &canceledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if canceledAt.Valid {
		t := canceledAt.Time
		b.CanceledAt = &t
	}
	return &b, nil
}

// Cancel marks a booking CANCELED and stamps the cancellation time.
// The status guard in the WHERE clause makes the operation safe to
// repeat: an already-canceled booking matches zero rows.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'CANCELED', canceled_at = ? WHERE id = ? AND status = 'BOOKED'`,
		at, id)
	return err
}

// CancelFutureByUser cancels every BOOKED booking of the user whose
// session starts after the given cutoff, returning the number of rows
// canceled.  Used by past-due enforcement; a single UPDATE keeps it
// atomic and naturally idempotent.
func (r *BookingRepo) CancelFutureByUser(ctx context.Context, userID uint64, after, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings b
		 JOIN class_sessions s ON s.id = b.session_id
		 SET b.status = 'CANCELED', b.canceled_at = ?
		 WHERE b.user_id = ? AND b.status = 'BOOKED' AND s.start_at > ?`,
		at, userID, after)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BookingDetail is a booking joined with its session for member-facing
// listings.
type BookingDetail struct {
	ID         uint64     `json:"id"`
	SessionID  uint64     `json:"session_id"`
	ClassCode  string     `json:"class_code"`
	ClassName  string     `json:"class_name"`
	StartAt    time.Time  `json:"start_at"`
	EndAt      time.Time  `json:"end_at"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	CanceledAt *time.Time `json:"canceled_at,omitempty"`
}

// ListDetailsByUser returns the user's bookings, newest first, joined
// with session and class type data for display.
func (r *BookingRepo) ListDetailsByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.session_id, t.code, t.name, s.start_at, s.end_at, b.status, b.created_at, b.canceled_at
		 FROM bookings b
		 JOIN class_sessions s ON s.id = b.session_id
		 JOIN class_types t ON t.id = s.class_type_id
		 WHERE b.user_id = ?
		 ORDER BY s.start_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var canceledAt sql.NullTime
		if err := rows.Scan(&d.ID, &d.SessionID, &d.ClassCode, &d.ClassName,
			&d.StartAt, &d.EndAt, &d.Status, &d.CreatedAt, &canceledAt); err != nil {
			return nil, err
		}
		if canceledAt.Valid {
			t := canceledAt.Time
			d.CanceledAt = &t
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
