package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-booking/internal/repository"
	"github.com/iliyamo/gym-class-booking/internal/service"
)

// currentUserID extracts the authenticated user's ID from the context.
// JWTAuth stores the raw "sub" claim, which the JWT library decodes as
// float64; tokens minted elsewhere may carry it as a string.
func currentUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// respondError maps service and repository sentinels onto HTTP
// statuses. Every business-rule rejection surfaces its sentinel text
// as the error body so clients get an enumerable reason string.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrRateLimited):
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidSecret):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrNoActiveSubscription):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSubscriptionExists),
		errors.Is(err, service.ErrSessionCanceled),
		errors.Is(err, service.ErrSessionStarted),
		errors.Is(err, service.ErrHorizonExceeded),
		errors.Is(err, service.ErrMonthNotOpen),
		errors.Is(err, service.ErrCancelCutoff),
		errors.Is(err, repository.ErrSessionFull),
		errors.Is(err, repository.ErrDuplicateBooking),
		errors.Is(err, repository.ErrDailyLimit),
		errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
