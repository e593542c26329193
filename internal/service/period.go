package service

import "time"

// Monthly billing period arithmetic. Periods are [start, end) anchored
// on the subscription's billing day-of-month; months with fewer days
// clamp to their last day (billing day 31 lands on Feb 28/29). All
// boundaries are at midnight UTC. time.AddDate is avoided for the
// month step because it normalizes Jan 31 + 1 month into March.

// clampToBillingDay returns midnight UTC on billingDay within t's
// month, clamped to the month's last day.
func clampToBillingDay(t time.Time, billingDay int) time.Time {
	u := t.UTC()
	year, month := u.Year(), u.Month()
	last := daysInMonth(year, month)
	day := billingDay
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// firstOfNextMonth returns midnight UTC on the 1st of the month after t's.
func firstOfNextMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

// currentPeriod computes the period containing the anchor instant: it
// starts on the most recent occurrence of billingDay and ends on the
// next one. Used when a subscription is first created.
func currentPeriod(anchor time.Time, billingDay int) (start, end time.Time) {
	u := anchor.UTC()
	thisMonth := clampToBillingDay(u, billingDay)
	if u.Day() < billingDay {
		// The period started last month on the billing day.
		prevMonth := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return clampToBillingDay(prevMonth, billingDay), thisMonth
	}
	return thisMonth, clampToBillingDay(firstOfNextMonth(u), billingDay)
}

// nextPeriod advances one cycle from the previous period end: the new
// period starts on the billing day within prevEnd's month (which is
// prevEnd itself, re-clamped) and ends on the billing day of the
// following month. This is the single rollover rule used by both the
// scheduler path and the provider callback path.
func nextPeriod(prevEnd time.Time, billingDay int) (start, end time.Time) {
	start = clampToBillingDay(prevEnd, billingDay)
	end = clampToBillingDay(firstOfNextMonth(prevEnd), billingDay)
	return start, end
}

// billingDayFromCreation derives the renewal anchor from the user's
// account creation instant (UTC day-of-month, 1–31).
func billingDayFromCreation(createdAt time.Time) int {
	return createdAt.UTC().Day()
}
