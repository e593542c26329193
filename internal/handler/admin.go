package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gym-class-booking/internal/model"
	"github.com/iliyamo/gym-class-booking/internal/repository"
	"github.com/iliyamo/gym-class-booking/internal/service"
)

// AdminHandler exposes the staff endpoints: session management,
// schedule generation and the global booking policy/config.
type AdminHandler struct {
	Bookings  *service.BookingService
	Generator *service.ScheduleGenerator
	Policies  *repository.BookingPolicyRepo
	Configs   *repository.BookingConfigRepo
}

func NewAdminHandler(
	svc *service.BookingService,
	gen *service.ScheduleGenerator,
	policies *repository.BookingPolicyRepo,
	configs *repository.BookingConfigRepo,
) *AdminHandler {
	return &AdminHandler{Bookings: svc, Generator: gen, Policies: policies, Configs: configs}
}

type createSessionReq struct {
	ClassTypeCode string    `json:"class_type_code"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	Capacity      int       `json:"capacity"`
	Notes         *string   `json:"notes"`
}

// CreateSession inserts a single class session.
func (h *AdminHandler) CreateSession(c echo.Context) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	id, err := h.Bookings.CreateSession(c.Request().Context(), adminID, service.CreateSessionInput{
		ClassTypeCode: req.ClassTypeCode,
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
		Capacity:      req.Capacity,
		Notes:         req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// CancelSession soft-cancels a session with no active bookings.
func (h *AdminHandler) CancelSession(c echo.Context) error {
	sessionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	if err := h.Bookings.CancelSession(c.Request().Context(), sessionID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type generateMonthReq struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	ClassTypeCode string `json:"class_type_code"`
	SlotMinutes   int    `json:"slot_minutes"`
	Capacity      int    `json:"capacity"`
}

// GenerateMonth bulk-creates a month of sessions from the configured
// business days and hours.
func (h *AdminHandler) GenerateMonth(c echo.Context) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req generateMonthReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	created, err := h.Generator.GenerateMonth(c.Request().Context(), adminID, service.GenerateMonthInput{
		Year:          req.Year,
		Month:         time.Month(req.Month),
		ClassTypeCode: req.ClassTypeCode,
		SlotMinutes:   req.SlotMinutes,
		Capacity:      req.Capacity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": created})
}

// GetPolicy returns the booking horizon policy, creating the default
// row on first read.
func (h *AdminHandler) GetPolicy(c echo.Context) error {
	policy, err := h.Policies.GetOrCreateDefault(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, policy)
}

type updatePolicyReq struct {
	OpenDaysInAdvance int `json:"open_days_in_advance"`
}

// UpdatePolicy changes the global booking horizon, recording the admin
// who made the change.
func (h *AdminHandler) UpdatePolicy(c echo.Context) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updatePolicyReq
	if err := c.Bind(&req); err != nil || req.OpenDaysInAdvance < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "open_days_in_advance must be >= 0"})
	}
	policy, err := h.Policies.Upsert(c.Request().Context(), req.OpenDaysInAdvance, adminID, time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, policy)
}

// GetConfig returns the booking config singleton, seeding the default
// row on first read.
func (h *AdminHandler) GetConfig(c echo.Context) error {
	cfg, err := h.Configs.Get(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

type updateConfigReq struct {
	PublishDaysBeforeMonth int    `json:"publish_days_before_month"`
	BusinessDays           string `json:"business_days"`
	BusinessStart          string `json:"business_start"`
	BusinessEnd            string `json:"business_end"`
	CancelCutoffHours      int    `json:"cancel_cutoff_hours"`
	OnePerDayPerType       bool   `json:"one_per_day_per_type"`
}

// UpdateConfig replaces the booking config singleton.
func (h *AdminHandler) UpdateConfig(c echo.Context) error {
	var req updateConfigReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PublishDaysBeforeMonth < 0 || req.CancelCutoffHours < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "values must be >= 0"})
	}
	cfg := &model.BookingConfig{
		PublishDaysBeforeMonth: req.PublishDaysBeforeMonth,
		BusinessDays:           req.BusinessDays,
		BusinessStart:          req.BusinessStart,
		BusinessEnd:            req.BusinessEnd,
		CancelCutoffHours:      req.CancelCutoffHours,
		OnePerDayPerType:       req.OnePerDayPerType,
		UpdatedAt:              time.Now().UTC(),
	}
	if err := h.Configs.Update(c.Request().Context(), cfg); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}
