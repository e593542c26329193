package service

import (
	"context"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
	"github.com/iliyamo/gym-class-booking/internal/repository"
)

// The store interfaces below describe what the services need from
// persistence. The SQL repositories satisfy them; tests substitute
// in-memory fakes. Methods that must be atomic against concurrent
// writers (Admit, Create-with-invoice, BeginAttempt, CompleteCharge)
// are single calls so the implementation owns the critical section.

// SessionStore loads and mutates class sessions.
type SessionStore interface {
	Create(ctx context.Context, s *model.ClassSession) error
	CreateBulk(ctx context.Context, sessions []model.ClassSession) error
	GetByID(ctx context.Context, id uint64) (*model.ClassSession, error)
	// Cancel soft-cancels a session; repository.ErrConflict when
	// active bookings exist.
	Cancel(ctx context.Context, id uint64) error
	ListActiveBetween(ctx context.Context, from, to time.Time) ([]model.ClassSession, error)
}

// BookingStore mutates bookings. Admit is the atomic admission step.
type BookingStore interface {
	Admit(ctx context.Context, p repository.AdmitParams) (*model.Booking, error)
	CountActiveBySession(ctx context.Context, sessionID uint64) (int64, error)
	GetByIDAndUser(ctx context.Context, id, userID uint64) (*model.Booking, error)
	Cancel(ctx context.Context, id uint64, at time.Time) error
	CancelFutureByUser(ctx context.Context, userID uint64, after, at time.Time) (int64, error)
}

// PolicyStore reads the global booking policy; Current returns nil
// when no policy row exists (unconstrained horizon).
type PolicyStore interface {
	Current(ctx context.Context) (*model.BookingPolicy, error)
}

// ConfigStore reads the booking_config singleton (get-or-create).
type ConfigStore interface {
	Get(ctx context.Context) (*model.BookingConfig, error)
}

// ClassTypeStore resolves class types for schedule generation.
type ClassTypeStore interface {
	GetActiveByCode(ctx context.Context, code string) (*model.ClassType, error)
}

// SubscriptionStore mutates subscriptions. Create also inserts the
// initial invoice and enforces one live subscription per user.
type SubscriptionStore interface {
	Create(ctx context.Context, s *model.Subscription, initial *model.Payment) error
	GetByID(ctx context.Context, id uint64) (*model.Subscription, error)
	FindCurrentByUser(ctx context.Context, userID uint64) (*model.Subscription, error)
	MarkPastDue(ctx context.Context, id uint64) (bool, error)
	Cancel(ctx context.Context, id uint64, at time.Time) error
}

// InvoiceStore mutates payments. CompleteCharge applies the paid mark,
// the subscription rollover and the next invoice as one unit.
type InvoiceStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Payment, error)
	FindDuePending(ctx context.Context, now time.Time) ([]model.Payment, error)
	BeginAttempt(ctx context.Context, id uint64, at time.Time) (*model.Payment, error)
	CompleteCharge(ctx context.Context, paymentID uint64, providerRef string, at time.Time, roll repository.Rollover) error
	MarkFailed(ctx context.Context, id uint64) error
	ListBySubscription(ctx context.Context, subscriptionID uint64) ([]model.Payment, error)
}

// UserStore resolves users for billing notifications.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}
