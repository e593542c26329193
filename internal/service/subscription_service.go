package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
	"github.com/iliyamo/gym-class-booking/internal/repository"
)

// defaultProvider names the gateway recorded on invoices until a real
// processor is integrated.
const defaultProvider = "MOCK"

// SubscriptionService manages membership subscriptions and the mock
// provider callback. It shares the billing settlement path with the
// scheduler, so a callback-approved invoice and a scheduler-charged
// one roll the subscription identically.
type SubscriptionService struct {
	billing
	callbackSecret string
}

// NewSubscriptionService wires the subscription lifecycle over the
// given stores. callbackSecret guards the provider webhook.
func NewSubscriptionService(
	subs SubscriptionStore,
	invoices InvoiceStore,
	users UserStore,
	notifier Notifier,
	enforcer *Enforcer,
	callbackSecret string,
) *SubscriptionService {
	return &SubscriptionService{
		billing: billing{
			subs:     subs,
			invoices: invoices,
			users:    users,
			notifier: notifier,
			enforcer: enforcer,
			now:      time.Now,
		},
		callbackSecret: callbackSecret,
	}
}

// SubscribeInput carries the plan chosen by the member.
type SubscribeInput struct {
	PlanName   string
	PriceCents int64
	Currency   string
}

// Subscribe opens a monthly subscription for the user. The billing day
// anchors on the day of month the user account was created, clamped in
// shorter months, and the first PENDING invoice falls due at the end
// of the current period. At most one ACTIVE or PAST_DUE subscription
// may exist per user; the store enforces that under lock.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID uint64, in SubscribeInput) (*model.Subscription, error) {
	if in.PlanName == "" {
		return nil, fmt.Errorf("%w: plan_name is required", ErrValidation)
	}
	if in.PriceCents <= 0 {
		return nil, fmt.Errorf("%w: price_cents must be > 0", ErrValidation)
	}
	if len(in.Currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	billingDay := billingDayFromCreation(user.CreatedAt)
	start, end := currentPeriod(now, billingDay)

	sub := &model.Subscription{
		UserID:             userID,
		PlanName:           in.PlanName,
		PriceCents:         in.PriceCents,
		Currency:           in.Currency,
		BillingDay:         billingDay,
		Status:             model.SubscriptionStatusActive,
		CurrentPeriodStart: start,
		CurrentPeriodEnd:   end,
		NextBillingAt:      end,
		CreatedAt:          now,
	}
	initial := &model.Payment{
		AmountCents: in.PriceCents,
		Currency:    in.Currency,
		Status:      model.PaymentStatusPending,
		Provider:    defaultProvider,
		DueAt:       end,
		CreatedAt:   now,
	}
	if err := s.subs.Create(ctx, sub, initial); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSubscriptionExists
		}
		return nil, err
	}
	return sub, nil
}

// MySubscription returns the user's live (ACTIVE or PAST_DUE)
// subscription; repository.ErrNotFound when none exists.
func (s *SubscriptionService) MySubscription(ctx context.Context, userID uint64) (*model.Subscription, error) {
	return s.subs.FindCurrentByUser(ctx, userID)
}

// ListInvoices returns all invoices of the user's live subscription,
// newest first.
func (s *SubscriptionService) ListInvoices(ctx context.Context, userID uint64) ([]model.Payment, error) {
	sub, err := s.subs.FindCurrentByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.invoices.ListBySubscription(ctx, sub.ID)
}

// CancelMySubscription cancels the user's live subscription. CANCELED
// is terminal; no further invoices are issued and booking attempts
// will fail the active-subscription gate from now on.
func (s *SubscriptionService) CancelMySubscription(ctx context.Context, userID uint64) error {
	sub, err := s.subs.FindCurrentByUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.subs.Cancel(ctx, sub.ID, s.now().UTC())
}

// HandleCallback processes the mock provider webhook. The shared
// secret is compared in constant time before any invoice is read. A
// non-PENDING invoice makes the call a no-op, so redelivered callbacks
// settle nothing twice.
func (s *SubscriptionService) HandleCallback(ctx context.Context, secret string, paymentID uint64, approved bool) error {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.callbackSecret)) != 1 {
		return ErrInvalidSecret
	}

	p, err := s.invoices.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if p.Status != model.PaymentStatusPending {
		return nil
	}

	if approved {
		ref := fmt.Sprintf("CB-%d", paymentID)
		return s.completeCharge(ctx, p, ref)
	}

	if err := s.invoices.MarkFailed(ctx, p.ID); err != nil {
		return err
	}
	sub, err := s.subs.GetByID(ctx, p.SubscriptionID)
	if err != nil {
		return err
	}
	return s.suspendPastDue(ctx, sub)
}
