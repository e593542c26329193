// Package service implements the booking admission engine, the
// subscription state machine, the billing scheduler and past-due
// enforcement. Business rejections are sentinel errors so handlers
// and tests can enumerate every reason a request may be refused
// instead of inspecting error strings; storage-level reasons
// (capacity, duplicates, the daily limit) live in the repository
// package because they are detected under its row locks.
package service

import "errors"

// ErrValidation wraps bad input shape or range.  Handlers translate
// it into an HTTP 400; no state is changed.
var ErrValidation = errors.New("validation failed")

// ErrRateLimited is returned when the same user repeats an action
// within the configured minimum interval.  This guards against burst
// double-clicks, not business rules.
var ErrRateLimited = errors.New("too many attempts; please wait a moment")

// ErrNoActiveSubscription rejects bookings by users whose
// subscription is absent, PAST_DUE or CANCELED.
var ErrNoActiveSubscription = errors.New("user does not have an active subscription")

// ErrSubscriptionExists rejects a subscribe call while an ACTIVE or
// PAST_DUE subscription already exists for the user.
var ErrSubscriptionExists = errors.New("user already has an active subscription")

// ErrSessionCanceled rejects bookings for canceled sessions.
var ErrSessionCanceled = errors.New("session is canceled")

// ErrSessionStarted rejects bookings at or after the session start.
var ErrSessionStarted = errors.New("session has already started")

// ErrHorizonExceeded rejects sessions further ahead than the global
// open-days-in-advance policy allows.
var ErrHorizonExceeded = errors.New("session is beyond the booking horizon")

// ErrMonthNotOpen rejects sessions whose month has not been published
// yet (now < first-of-month − publishDaysBeforeMonth).
var ErrMonthNotOpen = errors.New("bookings for this month are not open yet")

// ErrCancelCutoff rejects cancellations at or after start − cutoff.
var ErrCancelCutoff = errors.New("cancellation cutoff has passed")

// ErrInvalidSecret rejects a provider callback whose shared secret
// does not match.  Checked before any invoice is read.
var ErrInvalidSecret = errors.New("invalid callback secret")
