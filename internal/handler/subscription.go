package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-booking/internal/model"
	"github.com/iliyamo/gym-class-booking/internal/service"
)

// SubscriptionHandler exposes membership endpoints for the
// authenticated member.
type SubscriptionHandler struct {
	Subs *service.SubscriptionService
}

func NewSubscriptionHandler(svc *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{Subs: svc}
}

type subscribeReq struct {
	PlanName   string `json:"plan_name"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
}

type subscriptionResp struct {
	ID                 uint64 `json:"id"`
	PlanName           string `json:"plan_name"`
	PriceCents         int64  `json:"price_cents"`
	Currency           string `json:"currency"`
	BillingDay         int    `json:"billing_day"`
	Status             string `json:"status"`
	CurrentPeriodStart string `json:"current_period_start"`
	CurrentPeriodEnd   string `json:"current_period_end"`
	NextBillingAt      string `json:"next_billing_at"`
}

func toSubscriptionResp(s *model.Subscription) subscriptionResp {
	return subscriptionResp{
		ID:                 s.ID,
		PlanName:           s.PlanName,
		PriceCents:         s.PriceCents,
		Currency:           s.Currency,
		BillingDay:         s.BillingDay,
		Status:             string(s.Status),
		CurrentPeriodStart: s.CurrentPeriodStart.UTC().Format(time.RFC3339),
		CurrentPeriodEnd:   s.CurrentPeriodEnd.UTC().Format(time.RFC3339),
		NextBillingAt:      s.NextBillingAt.UTC().Format(time.RFC3339),
	}
}

// Subscribe opens a monthly membership for the member.
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req subscribeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	sub, err := h.Subs.Subscribe(c.Request().Context(), userID, service.SubscribeInput{
		PlanName:   req.PlanName,
		PriceCents: req.PriceCents,
		Currency:   req.Currency,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toSubscriptionResp(sub))
}

// My returns the member's live subscription.
func (h *SubscriptionHandler) My(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sub, err := h.Subs.MySubscription(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toSubscriptionResp(sub))
}

// Invoices lists the member's invoices, newest first.
func (h *SubscriptionHandler) Invoices(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	invoices, err := h.Subs.ListInvoices(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]echo.Map, 0, len(invoices))
	for _, p := range invoices {
		items = append(items, echo.Map{
			"id":           p.ID,
			"amount_cents": p.AmountCents,
			"currency":     p.Currency,
			"status":       p.Status,
			"provider_ref": p.ProviderRef,
			"due_at":       p.DueAt,
			"paid_at":      p.PaidAt,
			"created_at":   p.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"invoices": items})
}

// Cancel ends the member's subscription permanently.
func (h *SubscriptionHandler) Cancel(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Subs.CancelMySubscription(c.Request().Context(), userID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
