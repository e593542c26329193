package service

import (
	"context"
	"time"
)

// Enforcer suspends a past-due member's future bookings. Bookings that
// start within the grace window survive so a member is never pulled
// out of a class they are about to attend.
type Enforcer struct {
	bookings BookingStore
	enabled  bool
	grace    time.Duration
	now      func() time.Time
}

// NewEnforcer builds an enforcer. When enabled is false EnforcePastDue
// is a no-op; graceHours extends the protected window past now.
func NewEnforcer(bookings BookingStore, enabled bool, graceHours int) *Enforcer {
	if graceHours < 0 {
		graceHours = 0
	}
	return &Enforcer{
		bookings: bookings,
		enabled:  enabled,
		grace:    time.Duration(graceHours) * time.Hour,
		now:      time.Now,
	}
}

// EnforcePastDue cancels the user's BOOKED bookings in sessions that
// start after now + grace. Returns the number of bookings canceled.
// Safe to call repeatedly; already-canceled bookings are untouched.
func (e *Enforcer) EnforcePastDue(ctx context.Context, userID uint64) (int64, error) {
	if !e.enabled {
		return 0, nil
	}
	now := e.now().UTC()
	return e.bookings.CancelFutureByUser(ctx, userID, now.Add(e.grace), now)
}
