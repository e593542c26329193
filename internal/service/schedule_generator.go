package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
)

// ScheduleGenerator bulk-creates a month of sessions by partitioning
// each business day into fixed-size slots between the configured
// opening hours.
type ScheduleGenerator struct {
	sessions SessionStore
	types    ClassTypeStore
	configs  ConfigStore
	now      func() time.Time
}

// NewScheduleGenerator returns a generator over the given stores.
func NewScheduleGenerator(sessions SessionStore, types ClassTypeStore, configs ConfigStore) *ScheduleGenerator {
	return &ScheduleGenerator{sessions: sessions, types: types, configs: configs, now: time.Now}
}

// GenerateMonthInput names the month to fill and the session shape.
type GenerateMonthInput struct {
	Year          int
	Month         time.Month
	ClassTypeCode string
	SlotMinutes   int
	Capacity      int
}

// GenerateMonth creates sessions for every business day of the month
// in UTC, slot by slot from business start to business end. A slot
// that would run past closing time is not created. Returns the number
// of sessions inserted.
func (g *ScheduleGenerator) GenerateMonth(ctx context.Context, adminID uint64, in GenerateMonthInput) (int, error) {
	if in.Month < time.January || in.Month > time.December {
		return 0, fmt.Errorf("%w: month out of range", ErrValidation)
	}
	if in.SlotMinutes <= 0 {
		return 0, fmt.Errorf("%w: slot_minutes must be > 0", ErrValidation)
	}
	if in.Capacity <= 0 {
		return 0, fmt.Errorf("%w: capacity must be > 0", ErrValidation)
	}

	cfg, err := g.configs.Get(ctx)
	if err != nil {
		return 0, err
	}
	classType, err := g.types.GetActiveByCode(ctx, in.ClassTypeCode)
	if err != nil {
		return 0, err
	}
	businessDays, err := parseBusinessDays(cfg.BusinessDays)
	if err != nil {
		return 0, err
	}
	openHour, openMin, err := parseClock(cfg.BusinessStart)
	if err != nil {
		return 0, err
	}
	closeHour, closeMin, err := parseClock(cfg.BusinessEnd)
	if err != nil {
		return 0, err
	}

	first := time.Date(in.Year, in.Month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	slot := time.Duration(in.SlotMinutes) * time.Minute
	now := g.now().UTC()

	var sessions []model.ClassSession
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		if !businessDays[day.Weekday()] {
			continue
		}
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), openHour, openMin, 0, 0, time.UTC)
		dayEnd := time.Date(day.Year(), day.Month(), day.Day(), closeHour, closeMin, 0, 0, time.UTC)
		for start := dayStart; start.Before(dayEnd); start = start.Add(slot) {
			end := start.Add(slot)
			if end.After(dayEnd) {
				break
			}
			sessions = append(sessions, model.ClassSession{
				ClassTypeID:      classType.ID,
				StartAt:          start,
				EndAt:            end,
				Capacity:         in.Capacity,
				CreatedByAdminID: adminID,
				CreatedAt:        now,
			})
		}
	}
	if len(sessions) == 0 {
		return 0, nil
	}
	if err := g.sessions.CreateBulk(ctx, sessions); err != nil {
		return 0, err
	}
	return len(sessions), nil
}

var weekdayAlias = map[string]time.Weekday{
	"MON": time.Monday, "MONDAY": time.Monday,
	"TUE": time.Tuesday, "TUESDAY": time.Tuesday,
	"WED": time.Wednesday, "WEDNESDAY": time.Wednesday,
	"THU": time.Thursday, "THURSDAY": time.Thursday,
	"FRI": time.Friday, "FRIDAY": time.Friday,
	"SAT": time.Saturday, "SATURDAY": time.Saturday,
	"SUN": time.Sunday, "SUNDAY": time.Sunday,
}

// parseBusinessDays understands "MON-SAT" ranges (wrapping through
// Sunday), comma lists like "MON,WED,FRI" and single days. Blank input
// falls back to MON-SAT.
func parseBusinessDays(text string) (map[time.Weekday]bool, error) {
	t := strings.ToUpper(strings.TrimSpace(text))
	if t == "" {
		t = "MON-SAT"
	}
	days := make(map[time.Weekday]bool)
	switch {
	case strings.Contains(t, "-"):
		parts := strings.SplitN(t, "-", 2)
		start, okStart := weekdayAlias[strings.TrimSpace(parts[0])]
		end, okEnd := weekdayAlias[strings.TrimSpace(parts[1])]
		if !okStart || !okEnd {
			return nil, fmt.Errorf("%w: invalid business_days %q", ErrValidation, text)
		}
		for d := start; ; d = (d + 1) % 7 {
			days[d] = true
			if d == end {
				break
			}
		}
	case strings.Contains(t, ","):
		for _, p := range strings.Split(t, ",") {
			d, ok := weekdayAlias[strings.TrimSpace(p)]
			if !ok {
				return nil, fmt.Errorf("%w: invalid business_days %q", ErrValidation, text)
			}
			days[d] = true
		}
	default:
		d, ok := weekdayAlias[t]
		if !ok {
			return nil, fmt.Errorf("%w: invalid business_days %q", ErrValidation, text)
		}
		days[d] = true
	}
	return days, nil
}

// parseClock parses "HH:MM" into hour and minute.
func parseClock(s string) (hour, min int, err error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid business hour %q", ErrValidation, s)
	}
	return parsed.Hour(), parsed.Minute(), nil
}
