package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/gym-class-booking/internal/model"
	"github.com/iliyamo/gym-class-booking/internal/repository"
)

// billing holds the state shared by the scheduler and the provider
// callback path. Both settle invoices through the same two routines so
// a charge accepted over either channel rolls the subscription the
// same way.
type billing struct {
	subs     SubscriptionStore
	invoices InvoiceStore
	users    UserStore
	notifier Notifier
	enforcer *Enforcer
	now      func() time.Time
}

// completeCharge settles an accepted charge: the invoice goes PAID,
// the subscription window advances one month anchored on billingDay,
// and the next PENDING invoice is issued, all in one store call. A
// member who was PAST_DUE is reactivated and told their payment went
// through.
func (b *billing) completeCharge(ctx context.Context, p *model.Payment, providerRef string) error {
	sub, err := b.subs.GetByID(ctx, p.SubscriptionID)
	if err != nil {
		return err
	}
	wasPastDue := sub.Status == model.SubscriptionStatusPastDue

	now := b.now().UTC()
	start, end := nextPeriod(sub.CurrentPeriodEnd, sub.BillingDay)
	err = b.invoices.CompleteCharge(ctx, p.ID, providerRef, now, repository.Rollover{
		SubscriptionID: sub.ID,
		PeriodStart:    start,
		PeriodEnd:      end,
		NextBillingAt:  end,
		NextInvoice: model.Payment{
			SubscriptionID: sub.ID,
			AmountCents:    sub.PriceCents,
			Currency:       sub.Currency,
			Status:         model.PaymentStatusPending,
			Provider:       p.Provider,
			DueAt:          end,
			CreatedAt:      now,
		},
	})
	if err != nil {
		return err
	}

	if wasPastDue {
		b.notifyUser(ctx, sub.UserID,
			"Payment received",
			"Thanks! Your subscription is active again. You can book new classes now.")
	}
	return nil
}

// suspendPastDue moves the subscription ACTIVE→PAST_DUE. Enforcement
// and the reminder fire only on the transition, so repeated failures
// for an already past-due member do not cancel or notify twice.
func (b *billing) suspendPastDue(ctx context.Context, sub *model.Subscription) error {
	changed, err := b.subs.MarkPastDue(ctx, sub.ID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	canceled, err := b.enforcer.EnforcePastDue(ctx, sub.UserID)
	if err != nil {
		log.Printf("billing: enforcement failed for user %d: %v", sub.UserID, err)
	} else if canceled > 0 {
		log.Printf("billing: suspended %d future bookings for user %d", canceled, sub.UserID)
	}
	b.notifyUser(ctx, sub.UserID,
		"Payment failed - Action required",
		"Your subscription is past due and future class bookings were suspended. Please update your payment method.")
	return nil
}

// notifyUser delivers a notification on a best-effort basis; billing
// outcomes never depend on the mail path.
func (b *billing) notifyUser(ctx context.Context, userID uint64, subject, body string) {
	user, err := b.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("billing: cannot resolve user %d for notification: %v", userID, err)
		return
	}
	if err := b.notifier.Send(ctx, user.Email, subject, body); err != nil {
		log.Printf("billing: notification to %s failed: %v", user.Email, err)
	}
}
