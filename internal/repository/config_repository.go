package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
)

// BookingConfigRepo manages the booking_config singleton row (id is a
// constant TRUE, mirroring the one-row table pattern).  Get creates
// the default row on first access so every caller always sees a
// config.
type BookingConfigRepo struct {
	db *sql.DB
}

// NewBookingConfigRepo returns a BookingConfigRepo bound to the given database.
func NewBookingConfigRepo(db *sql.DB) *BookingConfigRepo { return &BookingConfigRepo{db: db} }

const configColumns = `publish_days_before_month, business_days, business_start, business_end, cancel_cutoff_hours, one_per_day_per_type, updated_at`

// Get returns the singleton config, inserting defaults when the row is
// missing (publish 15 days ahead, MON-SAT 08:00-21:00, 2h cutoff,
// one-per-day enabled).
func (r *BookingConfigRepo) Get(ctx context.Context) (*model.BookingConfig, error) {
	cfg, err := r.load(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	def := &model.BookingConfig{
		PublishDaysBeforeMonth: 15,
		BusinessDays:           "MON-SAT",
		BusinessStart:          "08:00",
		BusinessEnd:            "21:00",
		CancelCutoffHours:      2,
		OnePerDayPerType:       true,
		UpdatedAt:              time.Now().UTC(),
	}
	// INSERT IGNORE keeps a concurrent first access from failing on
	// the duplicate singleton key.
	if _, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO booking_config (id, `+configColumns+`) VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
		def.PublishDaysBeforeMonth, def.BusinessDays, def.BusinessStart, def.BusinessEnd,
		def.CancelCutoffHours, def.OnePerDayPerType, def.UpdatedAt); err != nil {
		return nil, err
	}
	return r.load(ctx)
}

func (r *BookingConfigRepo) load(ctx context.Context) (*model.BookingConfig, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+configColumns+` FROM booking_config WHERE id = 1`)
	var cfg model.BookingConfig
	if err := row.Scan(&cfg.PublishDaysBeforeMonth, &cfg.BusinessDays, &cfg.BusinessStart,
		&cfg.BusinessEnd, &cfg.CancelCutoffHours, &cfg.OnePerDayPerType, &cfg.UpdatedAt); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Update overwrites the singleton row with the provided values,
// seeding the default row first when it does not exist yet.
func (r *BookingConfigRepo) Update(ctx context.Context, cfg *model.BookingConfig) error {
	if _, err := r.Get(ctx); err != nil {
		return err
	}
	cfg.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE booking_config SET publish_days_before_month = ?, business_days = ?, business_start = ?,
		 business_end = ?, cancel_cutoff_hours = ?, one_per_day_per_type = ?, updated_at = ? WHERE id = 1`,
		cfg.PublishDaysBeforeMonth, cfg.BusinessDays, cfg.BusinessStart, cfg.BusinessEnd,
		cfg.CancelCutoffHours, cfg.OnePerDayPerType, cfg.UpdatedAt)
	return err
}
