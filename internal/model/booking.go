package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  A
// canceled booking never returns to BOOKED; members must create a new
// booking instead.
type BookingStatus string

const (
	BookingStatusBooked   BookingStatus = "BOOKED"
	BookingStatusCanceled BookingStatus = "CANCELED"
)

// Booking is a member's reservation against a class session.  At most
// one BOOKED booking may exist per (session, user) pair at any time.
//
// Fields:
//  ID         – primary key identifier.
//  SessionID  – session being reserved.
//  UserID     – member who booked.
//  Status     – BOOKED or CANCELED.
//  CreatedAt  – creation timestamp.
//  CanceledAt – cancellation timestamp (null unless canceled).
type Booking struct {
	ID         uint64        // bookings.id
	SessionID  uint64        // bookings.session_id
	UserID     uint64        // bookings.user_id
	Status     BookingStatus // bookings.status
	CreatedAt  time.Time     // bookings.created_at
	CanceledAt *time.Time    // bookings.canceled_at (nullable)
}
