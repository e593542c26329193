// Package repository defines error types that are reused across
// multiple repositories. These sentinel values let higher layers such
// as services and handlers distinguish failure scenarios without
// inspecting error strings. Rules that can only be decided inside the
// admission transaction (capacity, duplicates, the daily limit) have
// their sentinels here because the repository is where the row lock is
// held when they are detected.
package repository

import "errors"

// ErrNotFound is returned when a referenced entity does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an update cannot be performed because
// of conflicting state, such as canceling a session that still has
// active bookings. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// ErrSessionFull is returned by the admission transaction when the
// session has no spots left.
var ErrSessionFull = errors.New("session is full")

// ErrDuplicateBooking is returned by the admission transaction when
// the user already holds an active booking for the session.
var ErrDuplicateBooking = errors.New("active booking already exists for this session")

// ErrDailyLimit is returned by the admission transaction when the
// one-booking-per-day-per-class-type rule is enabled and the user
// already holds an active booking for the same class type on the same
// UTC day.
var ErrDailyLimit = errors.New("daily booking limit reached for this class type")

// ErrEmailExists is returned when registering a user with an email
// that is already taken.
var ErrEmailExists = errors.New("email already exists")
