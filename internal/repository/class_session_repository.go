package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
)

// ClassSessionRepo provides CRUD operations for class sessions.  All
// timestamp columns are stored in UTC.  Canceling a session is a soft
// delete guarded by the absence of active bookings, so the guard and
// the update run inside one transaction.
type ClassSessionRepo struct {
	db *sql.DB
}

// NewClassSessionRepo returns a ClassSessionRepo bound to the given database.
func NewClassSessionRepo(db *sql.DB) *ClassSessionRepo { return &ClassSessionRepo{db: db} }

const sessionColumns = `id, class_type_id, start_at, end_at, capacity, canceled, notes, created_by_admin_id, created_at`

func scanSession(row interface{ Scan(...any) error }) (*model.ClassSession, error) {
	var s model.ClassSession
	var notes sql.NullString
	err := row.Scan(&s.ID, &s.ClassTypeID, &s.StartAt, &s.EndAt, &s.Capacity,
		&s.Canceled, &notes, &s.CreatedByAdminID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		n := notes.String
		s.Notes = &n
	}
	return &s, nil
}

// Create inserts a new session and populates the generated ID.
func (r *ClassSessionRepo) Create(ctx context.Context, s *model.ClassSession) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO class_sessions (class_type_id, start_at, end_at, capacity, canceled, notes, created_by_admin_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ClassTypeID, s.StartAt, s.EndAt, s.Capacity, s.Canceled, s.Notes, s.CreatedByAdminID, s.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// CreateBulk inserts multiple sessions in one statement.  Used by the
// monthly schedule generator.  Passing an empty slice is a no-op.
func (r *ClassSessionRepo) CreateBulk(ctx context.Context, sessions []model.ClassSession) error {
	if len(sessions) == 0 {
		return nil
	}
	query := `INSERT INTO class_sessions (class_type_id, start_at, end_at, capacity, canceled, notes, created_by_admin_id, created_at) VALUES `
	args := make([]interface{}, 0, len(sessions)*8)
	for i, s := range sessions {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, s.ClassTypeID, s.StartAt, s.EndAt, s.Capacity, s.Canceled, s.Notes, s.CreatedByAdminID, s.CreatedAt)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID loads a session by primary key.
func (r *ClassSessionRepo) GetByID(ctx context.Context, id uint64) (*model.ClassSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM class_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// Cancel soft-cancels a session.  The session row is locked first and
// active bookings are counted inside the same transaction, so a
// concurrent admission cannot slip in between the check and the
// update.  Returns ErrConflict when active bookings exist and
// ErrNotFound when the session does not exist.
func (r *ClassSessionRepo) Cancel(ctx context.Context, id uint64) error {
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

	var canceled bool
	err = tx.QueryRowContext(ctx,
		`SELECT canceled FROM class_sessions WHERE id = ? FOR UPDATE`, id).Scan(&canceled)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !canceled {
		var active int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM bookings WHERE session_id = ? AND status = 'BOOKED'`, id).Scan(&active); err != nil {
			return err
		}
		if active > 0 {
			return ErrConflict
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE class_sessions SET canceled = 1 WHERE id = ?`, id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListActiveBetween returns non-canceled sessions starting within
// [from, to), ordered by start time.  Used by the availability view.
func (r *ClassSessionRepo) ListActiveBetween(ctx context.Context, from, to time.Time) ([]model.ClassSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM class_sessions
		 WHERE canceled = 0 AND start_at >= ? AND start_at < ?
		 ORDER BY start_at`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]model.ClassSession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}
