package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-booking/internal/service"
)

// callbackSecretHeader carries the shared secret on provider webhooks.
const callbackSecretHeader = "X-Payments-Secret"

// CallbackHandler receives payment provider webhooks.
type CallbackHandler struct {
	Subs *service.SubscriptionService
}

func NewCallbackHandler(svc *service.SubscriptionService) *CallbackHandler {
	return &CallbackHandler{Subs: svc}
}

type paymentCallbackReq struct {
	PaymentID uint64 `json:"payment_id"`
	Approved  bool   `json:"approved"`
}

// Payment marks an invoice PAID or FAILED on behalf of the provider.
// The shared secret is validated before the invoice is looked up.
func (h *CallbackHandler) Payment(c echo.Context) error {
	secret := c.Request().Header.Get(callbackSecretHeader)
	var req paymentCallbackReq
	if err := c.Bind(&req); err != nil || req.PaymentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_id required"})
	}
	if err := h.Subs.HandleCallback(c.Request().Context(), secret, req.PaymentID, req.Approved); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
