package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
	"github.com/iliyamo/gym-class-booking/internal/repository"
)

// BookingService orchestrates the admission decision: rate limit,
// subscription gate, window policy and the atomic capacity check.
// Caller identity is always an explicit parameter; the service never
// reads ambient request state. The clock is a field so tests can pin
// time.
type BookingService struct {
	sessions SessionStore
	bookings BookingStore
	subs     SubscriptionStore
	policies PolicyStore
	configs  ConfigStore
	types    ClassTypeStore
	limiter  *MinIntervalLimiter

	minInterval time.Duration
	now         func() time.Time
}

// NewBookingService wires the admission engine. minInterval is the
// per-user debounce between booking or cancellation attempts.
func NewBookingService(
	sessions SessionStore,
	bookings BookingStore,
	subs SubscriptionStore,
	policies PolicyStore,
	configs ConfigStore,
	types ClassTypeStore,
	limiter *MinIntervalLimiter,
	minInterval time.Duration,
) *BookingService {
	return &BookingService{
		sessions:    sessions,
		bookings:    bookings,
		subs:        subs,
		policies:    policies,
		configs:     configs,
		types:       types,
		limiter:     limiter,
		minInterval: minInterval,
		now:         time.Now,
	}
}

// BookSession books a spot in the session for the user. The window
// and subscription gates run first so each rejection keeps its
// distinct reason; the duplicate, daily-limit and capacity rules are
// re-checked by the store under the session row lock, so concurrent
// attempts for the same session can never oversell.
func (s *BookingService) BookSession(ctx context.Context, userID, sessionID uint64) (*model.Booking, error) {
	if !s.limiter.Allow(fmt.Sprintf("book:%d", userID), s.minInterval) {
		return nil, ErrRateLimited
	}

	sub, err := s.subs.FindCurrentByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	if sub.Status != model.SubscriptionStatusActive {
		return nil, ErrNoActiveSubscription
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	policy, err := s.policies.Current(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := CheckWindow(session, now, policy, cfg); err != nil {
		return nil, err
	}

	return s.bookings.Admit(ctx, repository.AdmitParams{
		SessionID:        sessionID,
		UserID:           userID,
		OnePerDayPerType: cfg.OnePerDayPerType,
		Now:              now,
	})
}

// CancelBooking cancels the user's booking. Idempotent: canceling an
// already-canceled booking succeeds without touching state. Rejected
// once now reaches start − cancelCutoffHours.
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID uint64) error {
	if !s.limiter.Allow(fmt.Sprintf("cancel:%d", userID), s.minInterval) {
		return ErrRateLimited
	}

	booking, err := s.bookings.GetByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		return err
	}
	if booking.Status == model.BookingStatusCanceled {
		return nil
	}

	session, err := s.sessions.GetByID(ctx, booking.SessionID)
	if err != nil {
		return err
	}
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return err
	}
	cutoff := cfg.CancelCutoffHours
	if cutoff < 0 {
		cutoff = 0
	}
	latestAllowed := session.StartAt.Add(-time.Duration(cutoff) * time.Hour)
	now := s.now().UTC()
	if !now.Before(latestAllowed) {
		return ErrCancelCutoff
	}
	return s.bookings.Cancel(ctx, bookingID, now)
}

// CreateSessionInput carries admin parameters for a single session.
type CreateSessionInput struct {
	ClassTypeCode string
	StartAt       time.Time
	EndAt         time.Time
	Capacity      int
	Notes         *string
}

// CreateSession validates and inserts a session on behalf of an admin.
func (s *BookingService) CreateSession(ctx context.Context, adminID uint64, in CreateSessionInput) (uint64, error) {
	classType, err := s.types.GetActiveByCode(ctx, in.ClassTypeCode)
	if err != nil {
		return 0, err
	}
	if !in.StartAt.Before(in.EndAt) {
		return 0, fmt.Errorf("%w: start_at must be before end_at", ErrValidation)
	}
	if in.Capacity <= 0 {
		return 0, fmt.Errorf("%w: capacity must be > 0", ErrValidation)
	}
	now := s.now().UTC()
	if in.EndAt.Before(now) {
		return 0, fmt.Errorf("%w: cannot create sessions in the past", ErrValidation)
	}

	session := &model.ClassSession{
		ClassTypeID:      classType.ID,
		StartAt:          in.StartAt.UTC(),
		EndAt:            in.EndAt.UTC(),
		Capacity:         in.Capacity,
		Canceled:         false,
		Notes:            in.Notes,
		CreatedByAdminID: adminID,
		CreatedAt:        now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return 0, err
	}
	return session.ID, nil
}

// CancelSession soft-cancels a session. The store refuses with
// repository.ErrConflict while any BOOKED booking exists, so members
// are never silently orphaned.
func (s *BookingService) CancelSession(ctx context.Context, sessionID uint64) error {
	return s.sessions.Cancel(ctx, sessionID)
}

// AvailabilityItem is one bookable session with its remaining spots.
type AvailabilityItem struct {
	SessionID uint64    `json:"session_id"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Capacity  int       `json:"capacity"`
	SpotsLeft int64     `json:"spots_left"`
	Notes     *string   `json:"notes,omitempty"`
}

// Availability lists sessions within [from, to) that the window policy
// currently allows, with spots left per session. Sessions outside the
// horizon or publish window are omitted — the calendar marks them
// closed rather than bookable.
func (s *BookingService) Availability(ctx context.Context, from, to time.Time) ([]AvailabilityItem, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", ErrValidation)
	}
	now := s.now().UTC()
	policy, err := s.policies.Current(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, err
	}

	// Clip the requested range to the policy horizon up front so the
	// store never loads sessions the policy would discard anyway.
	effectiveTo := to
	if policy != nil {
		horizon := now.AddDate(0, 0, policy.OpenDaysInAdvance)
		if horizon.Before(effectiveTo) {
			effectiveTo = horizon
		}
	}
	if !from.Before(effectiveTo) {
		return []AvailabilityItem{}, nil
	}

	sessions, err := s.sessions.ListActiveBetween(ctx, from, effectiveTo)
	if err != nil {
		return nil, err
	}
	items := make([]AvailabilityItem, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		if err := CheckWindow(session, now, policy, cfg); err != nil {
			continue
		}
		active, err := s.bookings.CountActiveBySession(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		spotsLeft := int64(session.Capacity) - active
		if spotsLeft < 0 {
			spotsLeft = 0
		}
		items = append(items, AvailabilityItem{
			SessionID: session.ID,
			StartAt:   session.StartAt,
			EndAt:     session.EndAt,
			Capacity:  session.Capacity,
			SpotsLeft: spotsLeft,
			Notes:     session.Notes,
		})
	}
	return items, nil
}
