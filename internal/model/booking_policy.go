package model

import "time"

// BookingPolicy is the global policy controlling how far in advance a
// session may be booked.  The table normally holds a single row; the
// repository creates a default one on first access.
//
// Fields:
//  ID                – primary key identifier.
//  OpenDaysInAdvance – sessions later than now+N days are not bookable.
//  CreatedByAdminID  – admin who created the policy row (0 for the default).
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type BookingPolicy struct {
	ID                uint64    // booking_policies.id
	OpenDaysInAdvance int       // booking_policies.open_days_in_advance
	CreatedByAdminID  uint64    // booking_policies.created_by_admin_id
	CreatedAt         time.Time // booking_policies.created_at
	UpdatedAt         time.Time // booking_policies.updated_at
}

// BookingConfig is the singleton configuration row for booking
// behaviour: publish window, business hours used by the schedule
// generator, the cancellation cutoff and the one-per-day rule.
//
// Fields:
//  PublishDaysBeforeMonth – next month's sessions open this many days
//                           before the 1st of that month.
//  BusinessDays           – days open for classes, e.g. "MON-SAT" or "MON,WED,FRI".
//  BusinessStart          – first slot of the day, "HH:MM" in UTC.
//  BusinessEnd            – end of the last slot of the day, "HH:MM" in UTC.
//  CancelCutoffHours      – bookings may be canceled until start−N hours.
//  OnePerDayPerType       – when true a member may hold only one active
//                           booking per class type per UTC day.
//  UpdatedAt              – last update timestamp.
type BookingConfig struct {
	PublishDaysBeforeMonth int       // booking_config.publish_days_before_month
	BusinessDays           string    // booking_config.business_days
	BusinessStart          string    // booking_config.business_start
	BusinessEnd            string    // booking_config.business_end
	CancelCutoffHours      int       // booking_config.cancel_cutoff_hours
	OnePerDayPerType       bool      // booking_config.one_per_day_per_type
	UpdatedAt              time.Time // booking_config.updated_at
}
