package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBusinessDays(t *testing.T) {
	t.Run("range", func(t *testing.T) {
		days, err := parseBusinessDays("MON-SAT")
		require.NoError(t, err)
		assert.Len(t, days, 6)
		assert.True(t, days[time.Monday])
		assert.True(t, days[time.Saturday])
		assert.False(t, days[time.Sunday])
	})

	t.Run("range wrapping the week", func(t *testing.T) {
		days, err := parseBusinessDays("SAT-MON")
		require.NoError(t, err)
		assert.Len(t, days, 3)
		assert.True(t, days[time.Saturday])
		assert.True(t, days[time.Sunday])
		assert.True(t, days[time.Monday])
	})

	t.Run("comma list", func(t *testing.T) {
		days, err := parseBusinessDays("mon,wed,fri")
		require.NoError(t, err)
		assert.Len(t, days, 3)
		assert.True(t, days[time.Wednesday])
	})

	t.Run("single day", func(t *testing.T) {
		days, err := parseBusinessDays("SUNDAY")
		require.NoError(t, err)
		assert.Len(t, days, 1)
		assert.True(t, days[time.Sunday])
	})

	t.Run("blank defaults to MON-SAT", func(t *testing.T) {
		days, err := parseBusinessDays("  ")
		require.NoError(t, err)
		assert.Len(t, days, 6)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := parseBusinessDays("MON-FOO")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestGenerateMonth(t *testing.T) {
	db := newFakeDB()
	db.cfg.BusinessDays = "MON-FRI"
	db.cfg.BusinessStart = "09:00"
	db.cfg.BusinessEnd = "12:00"
	db.addClassType("YOGA")

	sessions := &fakeSessions{db}
	gen := NewScheduleGenerator(sessions, &fakeTypes{db}, &fakeConfigs{db})
	gen.now = func() time.Time { return date(2026, time.May, 20) }

	// June 2026 has 22 weekdays; three 60-minute slots per day.
	created, err := gen.GenerateMonth(context.Background(), 7, GenerateMonthInput{
		Year: 2026, Month: time.June, ClassTypeCode: "YOGA",
		SlotMinutes: 60, Capacity: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 66, created)

	list, err := sessions.ListActiveBetween(context.Background(),
		date(2026, time.June, 1), date(2026, time.July, 1))
	require.NoError(t, err)
	require.Len(t, list, 66)

	first := list[0]
	assert.Equal(t, time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC), first.StartAt)
	assert.Equal(t, time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC), first.EndAt)
	assert.Equal(t, 12, first.Capacity)
	assert.Equal(t, uint64(7), first.CreatedByAdminID)

	for _, s := range list {
		wd := s.StartAt.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestGenerateMonthPartialSlotDropped(t *testing.T) {
	db := newFakeDB()
	db.cfg.BusinessDays = "MON"
	db.cfg.BusinessStart = "09:00"
	db.cfg.BusinessEnd = "10:30"
	db.addClassType("SPIN")

	sessions := &fakeSessions{db}
	gen := NewScheduleGenerator(sessions, &fakeTypes{db}, &fakeConfigs{db})

	// 90 minutes of opening with 60-minute slots: one slot per Monday,
	// the 09:30–10:30 remainder never becomes a session.
	created, err := gen.GenerateMonth(context.Background(), 1, GenerateMonthInput{
		Year: 2026, Month: time.June, ClassTypeCode: "SPIN",
		SlotMinutes: 60, Capacity: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, created, "June 2026 has five Mondays")
}

func TestGenerateMonthValidation(t *testing.T) {
	db := newFakeDB()
	db.addClassType("YOGA")
	gen := NewScheduleGenerator(&fakeSessions{db}, &fakeTypes{db}, &fakeConfigs{db})

	_, err := gen.GenerateMonth(context.Background(), 1, GenerateMonthInput{
		Year: 2026, Month: 13, ClassTypeCode: "YOGA", SlotMinutes: 60, Capacity: 10,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = gen.GenerateMonth(context.Background(), 1, GenerateMonthInput{
		Year: 2026, Month: time.June, ClassTypeCode: "YOGA", SlotMinutes: 0, Capacity: 10,
	})
	assert.ErrorIs(t, err, ErrValidation)
}
