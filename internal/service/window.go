package service

import (
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
)

// Booking window policy: a session is bookable only when all of the
// following hold, each failing with its own sentinel so availability
// views can report why a session is closed.
//
//   - the session is not canceled            (ErrSessionCanceled)
//   - now is strictly before the start       (ErrSessionStarted)
//   - start ≤ now + openDaysInAdvance days   (ErrHorizonExceeded;
//     skipped when no policy row exists)
//   - now ≥ first-of-start-month − publishDaysBeforeMonth days
//     (ErrMonthNotOpen)

// publishOpenAt computes the instant at which bookings open for the
// month containing start: midnight UTC on the 1st of that month,
// minus the publish window.
func publishOpenAt(start time.Time, publishDaysBeforeMonth int) time.Time {
	s := start.UTC()
	firstOfMonth := time.Date(s.Year(), s.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 0, -publishDaysBeforeMonth)
}

// CheckWindow applies the full booking window policy to a session.
// policy may be nil (no horizon constraint). Returns nil when the
// session is currently bookable.
func CheckWindow(session *model.ClassSession, now time.Time, policy *model.BookingPolicy, cfg *model.BookingConfig) error {
	if session.Canceled {
		return ErrSessionCanceled
	}
	if !now.Before(session.StartAt) {
		return ErrSessionStarted
	}
	if policy != nil {
		horizon := now.AddDate(0, 0, policy.OpenDaysInAdvance)
		if session.StartAt.After(horizon) {
			return ErrHorizonExceeded
		}
	}
	if now.Before(publishOpenAt(session.StartAt, cfg.PublishDaysBeforeMonth)) {
		return ErrMonthNotOpen
	}
	return nil
}
