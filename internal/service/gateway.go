package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/gym-class-booking/internal/model"
)

// ChargeResult is the outcome of a gateway charge attempt.
type ChargeResult struct {
	Accepted    bool
	ProviderRef string
}

// PaymentGateway abstracts the external payment provider. A returned
// error is treated as a failed attempt (transient); Accepted=false
// without an error means the provider declined the charge.
type PaymentGateway interface {
	Charge(ctx context.Context, p *model.Payment) (ChargeResult, error)
}

// MockGateway accepts or declines every charge based on a toggle.
// Used in development and demos in place of a real provider.
type MockGateway struct {
	Accept bool
}

// Charge pretends to call an external API and fabricates a reference.
func (g *MockGateway) Charge(_ context.Context, p *model.Payment) (ChargeResult, error) {
	ref := fmt.Sprintf("MOCK-%d-%d", p.ID, p.DueAt.UnixMilli())
	return ChargeResult{Accepted: g.Accept, ProviderRef: ref}, nil
}

var _ PaymentGateway = (*MockGateway)(nil)
