package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/gym-class-booking/internal/model"
)

func newSession(start time.Time) *model.ClassSession {
	return &model.ClassSession{
		ID:       1,
		StartAt:  start,
		EndAt:    start.Add(time.Hour),
		Capacity: 10,
	}
}

func TestCheckWindowHorizon(t *testing.T) {
	now := date(2026, time.June, 1)
	policy := &model.BookingPolicy{OpenDaysInAdvance: 10}
	cfg := &model.BookingConfig{PublishDaysBeforeMonth: 365} // publish gate wide open

	t.Run("eleven days ahead rejected", func(t *testing.T) {
		err := CheckWindow(newSession(now.AddDate(0, 0, 11)), now, policy, cfg)
		assert.ErrorIs(t, err, ErrHorizonExceeded)
	})

	t.Run("nine days ahead allowed", func(t *testing.T) {
		err := CheckWindow(newSession(now.AddDate(0, 0, 9)), now, policy, cfg)
		assert.NoError(t, err)
	})

	t.Run("exactly on the horizon allowed", func(t *testing.T) {
		err := CheckWindow(newSession(now.AddDate(0, 0, 10)), now, policy, cfg)
		assert.NoError(t, err)
	})

	t.Run("nil policy means no horizon", func(t *testing.T) {
		err := CheckWindow(newSession(now.AddDate(0, 0, 300)), now, nil, cfg)
		assert.NoError(t, err)
	})
}

func TestCheckWindowPublishGate(t *testing.T) {
	// publishDaysBeforeMonth = 15 and a session on Nov 5: bookings
	// open Oct 17T00:00Z (Nov 1 minus 15 days).
	session := newSession(time.Date(2026, time.November, 5, 18, 0, 0, 0, time.UTC))
	cfg := &model.BookingConfig{PublishDaysBeforeMonth: 15}

	t.Run("before open instant rejected", func(t *testing.T) {
		now := time.Date(2026, time.October, 16, 23, 59, 59, 0, time.UTC)
		assert.ErrorIs(t, CheckWindow(session, now, nil, cfg), ErrMonthNotOpen)
	})

	t.Run("at open instant allowed", func(t *testing.T) {
		now := time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)
		assert.NoError(t, CheckWindow(session, now, nil, cfg))
	})

	t.Run("after open instant allowed", func(t *testing.T) {
		now := time.Date(2026, time.October, 20, 12, 0, 0, 0, time.UTC)
		assert.NoError(t, CheckWindow(session, now, nil, cfg))
	})
}

func TestCheckWindowRejectionOrder(t *testing.T) {
	cfg := &model.BookingConfig{PublishDaysBeforeMonth: 15}

	t.Run("canceled beats everything", func(t *testing.T) {
		session := newSession(date(2026, time.June, 1))
		session.Canceled = true
		err := CheckWindow(session, date(2026, time.July, 1), nil, cfg)
		assert.ErrorIs(t, err, ErrSessionCanceled)
	})

	t.Run("started session rejected", func(t *testing.T) {
		session := newSession(date(2026, time.June, 1))
		err := CheckWindow(session, session.StartAt, nil, cfg)
		assert.ErrorIs(t, err, ErrSessionStarted)
	})
}
