package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gym-class-booking/internal/model"
	"github.com/iliyamo/gym-class-booking/internal/repository"
)

func TestEnforcePastDueGraceWindow(t *testing.T) {
	db := newFakeDB()
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	bookings := &fakeBookings{db}
	enforcer := NewEnforcer(bookings, true, 2)
	enforcer.now = func() time.Time { return now }

	user := db.addUser("grace@gym.test", date(2026, time.January, 1))
	yoga := db.addClassType("YOGA")

	book := func(start time.Time) uint64 {
		sessionID := db.addSession(yoga, start, start.Add(time.Hour), 10)
		b, err := bookings.Admit(context.Background(), repository.AdmitParams{
			SessionID: sessionID, UserID: user, Now: now.Add(-time.Hour),
		})
		require.NoError(t, err)
		return b.ID
	}

	soon := book(now.Add(time.Hour))     // inside the 2h grace
	later := book(now.Add(5 * time.Hour)) // beyond the grace

	canceled, err := enforcer.EnforcePastDue(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), canceled)

	b, err := bookings.GetByIDAndUser(context.Background(), soon, user)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusBooked, b.Status, "imminent session survives")

	b, err = bookings.GetByIDAndUser(context.Background(), later, user)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCanceled, b.Status)

	// A second sweep finds nothing left to cancel.
	canceled, err = enforcer.EnforcePastDue(context.Background(), user)
	require.NoError(t, err)
	assert.Zero(t, canceled)
}

func TestEnforcePastDueDisabled(t *testing.T) {
	db := newFakeDB()
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	bookings := &fakeBookings{db}
	enforcer := NewEnforcer(bookings, false, 0)
	enforcer.now = func() time.Time { return now }

	user := db.addUser("off@gym.test", date(2026, time.January, 1))
	yoga := db.addClassType("YOGA")
	sessionID := db.addSession(yoga, now.Add(24*time.Hour), now.Add(25*time.Hour), 10)
	booking, err := bookings.Admit(context.Background(), repository.AdmitParams{
		SessionID: sessionID, UserID: user, Now: now,
	})
	require.NoError(t, err)

	canceled, err := enforcer.EnforcePastDue(context.Background(), user)
	require.NoError(t, err)
	assert.Zero(t, canceled)

	b, err := bookings.GetByIDAndUser(context.Background(), booking.ID, user)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusBooked, b.Status)
}
