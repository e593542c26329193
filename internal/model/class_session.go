package model

import "time"

// ClassType represents a kind of class offered by the gym, such as
// "CROSSFIT" or "YOGA".  Sessions always reference a class type, and
// the one-booking-per-day rule is evaluated per class type.
//
// Fields:
//  ID        – primary key identifier.
//  Code      – short unique code used by admins and schedules (e.g. "YOGA").
//  Name      – human readable name shown to members.
//  Active    – inactive types cannot receive new sessions.
//  CreatedAt – creation timestamp.
type ClassType struct {
	ID        uint64    // class_types.id
	Code      string    // class_types.code
	Name      string    // class_types.name
	Active    bool      // class_types.active
	CreatedAt time.Time // class_types.created_at
}

// ClassSession is a scheduled, capacity-bounded instance of a class
// type.  Start must be strictly before end and capacity must be
// positive.  Once bookings exist the session is immutable except for
// the canceled flag, and it cannot be canceled while active bookings
// remain.
//
// Fields:
//  ID               – primary key identifier.
//  ClassTypeID      – class type being taught.
//  StartAt          – when the session starts (UTC).
//  EndAt            – when the session ends (must be after StartAt).
//  Capacity         – maximum number of BOOKED bookings.
//  Canceled         – soft-cancellation flag.
//  Notes            – optional free-form note from the admin.
//  CreatedByAdminID – admin who created the session.
//  CreatedAt        – creation timestamp.
type ClassSession struct {
	ID               uint64    // class_sessions.id
	ClassTypeID      uint64    // class_sessions.class_type_id
	StartAt          time.Time // class_sessions.start_at
	EndAt            time.Time // class_sessions.end_at
	Capacity         int       // class_sessions.capacity
	Canceled         bool      // class_sessions.canceled
	Notes            *string   // class_sessions.notes (nullable)
	CreatedByAdminID uint64    // class_sessions.created_by_admin_id
	CreatedAt        time.Time // class_sessions.created_at
}
