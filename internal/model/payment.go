package model

import "time"

// PaymentStatus enumerates invoice states.  PENDING→PAID and
// PENDING→FAILED are terminal for a given invoice; the next billing
// cycle always gets a fresh invoice rather than reusing an old one.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Payment is an invoice for one billing cycle of a subscription.  The
// attempt counter only ever increases; the billing scheduler stops
// retrying once it reaches the configured maximum.
//
// Fields:
//  ID             – primary key identifier.
//  SubscriptionID – subscription being billed.
//  AmountCents    – amount due in cents.
//  Currency       – ISO currency code.
//  Status         – PENDING, PAID or FAILED.
//  Provider       – gateway identifier ("MOCK" in development).
//  ProviderRef    – reference returned by the gateway (null until paid).
//  DueAt          – when the charge falls due.
//  PaidAt         – when the charge was accepted (null unless paid).
//  CreatedAt      – creation timestamp.
//  AttemptCount   – number of charge attempts made so far.
//  LastAttemptAt  – timestamp of the most recent attempt (null before the first).
type Payment struct {
	ID             uint64        // payments.id
	SubscriptionID uint64        // payments.subscription_id
	AmountCents    int64         // payments.amount_cents
	Currency       string        // payments.currency
	Status         PaymentStatus // payments.status
	Provider       string        // payments.provider
	ProviderRef    *string       // payments.provider_ref (nullable)
	DueAt          time.Time     // payments.due_at
	PaidAt         *time.Time    // payments.paid_at (nullable)
	CreatedAt      time.Time     // payments.created_at
	AttemptCount   int           // payments.attempt_count
	LastAttemptAt  *time.Time    // payments.last_attempt_at (nullable)
}
