package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentPeriod(t *testing.T) {
	t.Run("anchor on billing day starts today", func(t *testing.T) {
		start, end := currentPeriod(time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC), 15)
		assert.Equal(t, date(2026, time.March, 15), start)
		assert.Equal(t, date(2026, time.April, 15), end)
	})

	t.Run("anchor before billing day started last month", func(t *testing.T) {
		start, end := currentPeriod(date(2026, time.March, 10), 15)
		assert.Equal(t, date(2026, time.February, 15), start)
		assert.Equal(t, date(2026, time.March, 15), end)
	})

	t.Run("billing day clamps in february", func(t *testing.T) {
		start, end := currentPeriod(date(2026, time.February, 20), 31)
		assert.Equal(t, date(2026, time.January, 31), start)
		assert.Equal(t, date(2026, time.February, 28), end)
	})
}

func TestNextPeriodClampsShortMonths(t *testing.T) {
	// Billing day 31: Jan 31 → Feb 28 → Mar 31 → Apr 30. The month
	// step must never normalize past the intended month.
	start, end := nextPeriod(date(2026, time.January, 31), 31)
	assert.Equal(t, date(2026, time.January, 31), start)
	assert.Equal(t, date(2026, time.February, 28), end)

	start, end = nextPeriod(end, 31)
	assert.Equal(t, date(2026, time.February, 28), start)
	assert.Equal(t, date(2026, time.March, 31), end)

	start, end = nextPeriod(end, 31)
	assert.Equal(t, date(2026, time.March, 31), start)
	assert.Equal(t, date(2026, time.April, 30), end)
}

func TestNextPeriodLeapFebruary(t *testing.T) {
	_, end := nextPeriod(date(2028, time.January, 31), 31)
	assert.Equal(t, date(2028, time.February, 29), end)
}

func TestThreeCyclesAdvanceOneMonthEach(t *testing.T) {
	billingDay := 5
	start, end := currentPeriod(date(2026, time.June, 5), billingDay)
	for i := 0; i < 3; i++ {
		nextStart, nextEnd := nextPeriod(end, billingDay)
		assert.Equal(t, end, nextStart, "cycle %d start must equal previous end", i)
		assert.Equal(t, end.AddDate(0, 1, 0), nextEnd, "cycle %d", i)
		start, end = nextStart, nextEnd
	}
	assert.Equal(t, date(2026, time.September, 5), start)
	assert.Equal(t, date(2026, time.October, 5), end)
}

func TestBillingDayFromCreation(t *testing.T) {
	assert.Equal(t, 31, billingDayFromCreation(time.Date(2025, time.July, 31, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, billingDayFromCreation(date(2025, time.September, 1)))
}
