package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
	"github.com/iliyamo/gym-class-booking/internal/repository"
)

// BillingScheduler drives recurring charges. Each tick it loads due
// PENDING invoices and attempts each one in its own critical section,
// so a failure on one invoice never blocks or corrupts another. Runs
// are at-least-once safe: the store's status guards make a repeated
// settle a no-op.
type BillingScheduler struct {
	billing
	gateway PaymentGateway

	maxAttempts   int
	backoff       time.Duration
	interval      time.Duration
	chargeTimeout time.Duration
}

// SchedulerOptions bound the retry loop. Zero values fall back to the
// defaults: 3 attempts, 60 minute backoff, 60 second tick, 10 second
// charge timeout.
type SchedulerOptions struct {
	MaxAttempts   int
	Backoff       time.Duration
	Interval      time.Duration
	ChargeTimeout time.Duration
}

// NewBillingScheduler assembles the scheduler over the shared billing
// settlement path.
func NewBillingScheduler(
	subs SubscriptionStore,
	invoices InvoiceStore,
	users UserStore,
	notifier Notifier,
	enforcer *Enforcer,
	gateway PaymentGateway,
	opts SchedulerOptions,
) *BillingScheduler {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 60 * time.Minute
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.ChargeTimeout <= 0 {
		opts.ChargeTimeout = 10 * time.Second
	}
	return &BillingScheduler{
		billing: billing{
			subs:     subs,
			invoices: invoices,
			users:    users,
			notifier: notifier,
			enforcer: enforcer,
			now:      time.Now,
		},
		gateway:       gateway,
		maxAttempts:   opts.MaxAttempts,
		backoff:       opts.Backoff,
		interval:      opts.Interval,
		chargeTimeout: opts.ChargeTimeout,
	}
}

// Run ticks until ctx is canceled. Meant to be started once as a
// background goroutine from main.
func (s *BillingScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick processes every due PENDING invoice once. Invoices inside
// their backoff window wait for a later tick; invoices whose attempts
// are exhausted stay PENDING for the external failure callback and are
// not retried here, but their subscription must already be suspended.
func (s *BillingScheduler) Tick(ctx context.Context) {
	now := s.now().UTC()
	due, err := s.invoices.FindDuePending(ctx, now)
	if err != nil {
		log.Printf("billing: loading due invoices failed: %v", err)
		return
	}
	for i := range due {
		p := &due[i]
		if p.AttemptCount >= s.maxAttempts {
			if err := s.ensureSuspended(ctx, p); err != nil {
				log.Printf("billing: invoice %d: %v", p.ID, err)
			}
			continue
		}
		if p.LastAttemptAt != nil && now.Sub(*p.LastAttemptAt) < s.backoff {
			continue
		}
		if err := s.tryCharge(ctx, p.ID); err != nil {
			log.Printf("billing: invoice %d: %v", p.ID, err)
		}
	}
}

// ensureSuspended covers the crash window between committing the final
// attempt and recording the suspension: an exhausted due invoice whose
// subscription is somehow still ACTIVE gets suspended on the next
// tick. The transition flag inside suspendPastDue keeps enforcement
// and the notification single-shot.
func (s *BillingScheduler) ensureSuspended(ctx context.Context, p *model.Payment) error {
	sub, err := s.subs.GetByID(ctx, p.SubscriptionID)
	if err != nil {
		return err
	}
	if sub.Status != model.SubscriptionStatusActive {
		return nil
	}
	return s.suspendPastDue(ctx, sub)
}

// tryCharge runs one charge attempt. BeginAttempt re-reads the invoice
// under lock and bumps the attempt counter, so two overlapping ticks
// cannot double-charge; a non-PENDING invoice ends the attempt early.
func (s *BillingScheduler) tryCharge(ctx context.Context, paymentID uint64) error {
	now := s.now().UTC()
	p, err := s.invoices.BeginAttempt(ctx, paymentID, now)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil
		}
		return err
	}

	accepted, providerRef := s.charge(ctx, p)
	if accepted {
		return s.completeCharge(ctx, p, providerRef)
	}

	if p.AttemptCount >= s.maxAttempts {
		sub, err := s.subs.GetByID(ctx, p.SubscriptionID)
		if err != nil {
			return err
		}
		return s.suspendPastDue(ctx, sub)
	}
	return nil
}

// charge calls the gateway under a bounded timeout. Gateway errors are
// retried like declines, so a flaky processor only costs an attempt.
func (s *BillingScheduler) charge(ctx context.Context, p *model.Payment) (bool, string) {
	chargeCtx, cancel := context.WithTimeout(ctx, s.chargeTimeout)
	defer cancel()
	res, err := s.gateway.Charge(chargeCtx, p)
	if err != nil {
		log.Printf("billing: charge attempt %d for invoice %d failed: %v", p.AttemptCount, p.ID, err)
		return false, ""
	}
	return res.Accepted, res.ProviderRef
}
