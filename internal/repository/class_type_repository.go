package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/gym-class-booking/internal/model"
)

// ClassTypeRepo provides read access to the class_types table.  Class
// types are seeded by migrations or created through admin tooling; the
// booking path only ever reads them.
type ClassTypeRepo struct {
	db *sql.DB
}

// NewClassTypeRepo returns a ClassTypeRepo bound to the given database.
func NewClassTypeRepo(db *sql.DB) *ClassTypeRepo { return &ClassTypeRepo{db: db} }

// GetActiveByCode looks up an active class type by its code.  Inactive
// types are treated as missing so that schedules cannot be generated
// for retired classes.
func (r *ClassTypeRepo) GetActiveByCode(ctx context.Context, code string) (*model.ClassType, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, code, name, active, created_at FROM class_types WHERE code = ? AND active = 1`,
		code)
	var t model.ClassType
	if err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Active, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListActive returns all active class types ordered by code.
func (r *ClassTypeRepo) ListActive(ctx context.Context) ([]model.ClassType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, name, active, created_at FROM class_types WHERE active = 1 ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]model.ClassType, 0)
	for rows.Next() {
		var t model.ClassType
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Active, &t.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
