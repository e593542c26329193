package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-booking/internal/repository"
	"github.com/iliyamo/gym-class-booking/internal/service"
)

// BookingHandler exposes member-facing booking endpoints.
type BookingHandler struct {
	Bookings *service.BookingService
	Store    *repository.BookingRepo
	Types    *repository.ClassTypeRepo
}

func NewBookingHandler(svc *service.BookingService, store *repository.BookingRepo, types *repository.ClassTypeRepo) *BookingHandler {
	return &BookingHandler{Bookings: svc, Store: store, Types: types}
}

type bookReq struct {
	SessionID uint64 `json:"session_id"`
}

// Book places a booking for the authenticated member.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil || req.SessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id required"})
	}

	booking, err := h.Bookings.BookSession(c.Request().Context(), userID, req.SessionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         booking.ID,
		"session_id": booking.SessionID,
		"status":     booking.Status,
		"created_at": booking.CreatedAt,
	})
}

// Cancel cancels the member's own booking. Repeating the call on an
// already-canceled booking succeeds.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Bookings.CancelBooking(c.Request().Context(), userID, bookingID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MyBookings lists the member's bookings with session details.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Store.ListDetailsByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// Availability lists bookable sessions in a time range with remaining
// spots. Defaults to the next seven days when no range is given.
func (h *BookingHandler) Availability(c echo.Context) error {
	from, to, err := parseRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from/to must be RFC 3339 timestamps"})
	}
	items, err := h.Bookings.Availability(c.Request().Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": items})
}

// Classes lists the active class type catalogue.
func (h *BookingHandler) Classes(c echo.Context) error {
	types, err := h.Types.ListActive(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"classes": types})
}

func parseRange(fromStr, toStr string) (from, to time.Time, err error) {
	now := time.Now().UTC()
	from, to = now, now.AddDate(0, 0, 7)
	if fromStr != "" {
		if from, err = time.Parse(time.RFC3339, fromStr); err != nil {
			return from, to, err
		}
	}
	if toStr != "" {
		if to, err = time.Parse(time.RFC3339, toStr); err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}
