package model

import "time"

// SubscriptionStatus enumerates the states of the subscription state
// machine.  CANCELED is terminal; no transition ever leaves it.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
)

// Subscription is a member's recurring monthly membership.  A user has
// at most one subscription in ACTIVE or PAST_DUE at any time.  The
// billing day anchors the monthly period and is clamped to the last
// day of shorter months.
//
// Fields:
//  ID                 – primary key identifier.
//  UserID             – member who owns the subscription.
//  PlanName           – plan label, informational only.
//  PriceCents         – monthly price in cents.
//  Currency           – ISO currency code.
//  BillingDay         – day-of-month (1–31) renewal anchor.
//  Status             – ACTIVE, PAST_DUE or CANCELED.
//  CurrentPeriodStart – inclusive start of the paid period.
//  CurrentPeriodEnd   – exclusive end of the paid period.
//  NextBillingAt      – when the next charge falls due (= period end).
//  CreatedAt          – creation timestamp.
//  CanceledAt         – cancellation timestamp (null unless canceled).
type Subscription struct {
	ID                 uint64             // subscriptions.id
	UserID             uint64             // subscriptions.user_id
	PlanName           string             // subscriptions.plan_name
	PriceCents         int64              // subscriptions.price_cents
	Currency           string             // subscriptions.currency
	BillingDay         int                // subscriptions.billing_day
	Status             SubscriptionStatus // subscriptions.status
	CurrentPeriodStart time.Time          // subscriptions.current_period_start
	CurrentPeriodEnd   time.Time          // subscriptions.current_period_end
	NextBillingAt      time.Time          // subscriptions.next_billing_at
	CreatedAt          time.Time          // subscriptions.created_at
	CanceledAt         *time.Time         // subscriptions.canceled_at (nullable)
}
