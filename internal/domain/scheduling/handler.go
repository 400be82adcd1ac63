package scheduling

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/apperror"
	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/response"
	"github.com/PhilimonNag/doctor-appointment-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/doctors/:doctorId/slots", h.CreateRecurringSlots)
	api.GET("/doctors/:doctorId/available_slots", h.ListAvailableSlots)
	api.GET("/doctors/:doctorId/bookings", h.ListBookings)
	api.GET("/slots/:slotId", h.GetSlot)
	api.POST("/slots/:slotId/book", h.BookSlot)
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.Field(apperror.KindValidation, name, "invalid "+name)
	}
	return id, nil
}

// minutesField is a slot duration sent either as a JSON number or as a
// numeric string ("30").
type minutesField int

func (m *minutesField) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return apperror.Field(apperror.KindValidation, "slot_duration", "slot_duration must be an integer")
	}
	*m = minutesField(n)
	return nil
}

// createSlotsRequest accepts snake_case fields and the legacy camelCase
// spelling. Snake case wins when both are present.
type createSlotsRequest struct {
	StartTime      string       `json:"start_time"`
	EndTime        string       `json:"end_time"`
	SlotDuration   minutesField `json:"slot_duration"`
	RecurrenceType string       `json:"recurrence_type"`
	RepeatUntil    string       `json:"repeat_until"`
	Weekdays       []string     `json:"weekdays"`
	OneTimeDate    string       `json:"one_time_date"`

	LegacyStartTime      string       `json:"startTime"`
	LegacyEndTime        string       `json:"endTime"`
	LegacySlotDuration   minutesField `json:"slotDuration"`
	LegacyRecurrenceType string       `json:"recurrenceType"`
	LegacyRepeatUntil    string       `json:"repeatUntil"`
	LegacyWeekdays       []string     `json:"weekDays"`
	LegacyOneTimeDate    string       `json:"oneTimeDate"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (r createSlotsRequest) toSpec() RecurrenceSpec {
	spec := RecurrenceSpec{
		StartTime:      firstNonEmpty(r.StartTime, r.LegacyStartTime),
		EndTime:        firstNonEmpty(r.EndTime, r.LegacyEndTime),
		SlotDuration:   int(r.SlotDuration),
		RecurrenceType: firstNonEmpty(r.RecurrenceType, r.LegacyRecurrenceType),
		RepeatUntil:    firstNonEmpty(r.RepeatUntil, r.LegacyRepeatUntil),
		Weekdays:       r.Weekdays,
		OneTimeDate:    firstNonEmpty(r.OneTimeDate, r.LegacyOneTimeDate),
	}
	if spec.SlotDuration == 0 {
		spec.SlotDuration = int(r.LegacySlotDuration)
	}
	if len(spec.Weekdays) == 0 {
		spec.Weekdays = r.LegacyWeekdays
	}
	if spec.RecurrenceType == "oneTime" {
		spec.RecurrenceType = string(KindOneTime)
	}
	return spec
}

func (h *Handler) CreateRecurringSlots(c echo.Context) error {
	doctorID, err := pathUUID(c, "doctorId")
	if err != nil {
		return err
	}
	var req createSlotsRequest
	if err := c.Bind(&req); err != nil {
		if appErr, ok := apperror.As(err); ok {
			return appErr
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.svc.CreateRecurringSlots(c.Request().Context(), doctorID, req.toSpec())
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusCreated, "Slots created successfully", result)
}

func (h *Handler) ListAvailableSlots(c echo.Context) error {
	doctorID, err := pathUUID(c, "doctorId")
	if err != nil {
		return err
	}
	raw := strings.TrimSpace(c.QueryParam("date"))
	if raw == "" {
		return apperror.Field(apperror.KindValidation, "date", "Date is required")
	}
	date, err := NormalizeDate(raw)
	if err != nil {
		return fieldError(err, "date")
	}

	slots, err := h.svc.ListAvailableSlots(c.Request().Context(), doctorID, date)
	if err != nil {
		return err
	}
	return response.List(c, "Available slots fetched successfully", slots, len(slots))
}

// parseRangeEnd treats a date-only end as the last instant of that day.
func parseRangeEnd(raw string) (time.Time, error) {
	t, err := ParseInstant(raw)
	if err != nil {
		return time.Time{}, err
	}
	if IsDateOnly(raw) {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}

func (h *Handler) ListBookings(c echo.Context) error {
	doctorID, err := pathUUID(c, "doctorId")
	if err != nil {
		return err
	}
	startRaw := strings.TrimSpace(c.QueryParam("start_date"))
	endRaw := strings.TrimSpace(c.QueryParam("end_date"))
	if startRaw == "" || endRaw == "" {
		return apperror.New(apperror.KindValidation, "Start and end dates are required")
	}
	start, err := ParseInstant(startRaw)
	if err != nil {
		return fieldError(err, "start_date")
	}
	end, err := parseRangeEnd(endRaw)
	if err != nil {
		return fieldError(err, "end_date")
	}
	page, err := pagination.FromContext(c)
	if err != nil {
		return apperror.New(apperror.KindValidation, err.Error())
	}

	items, total, err := h.svc.ListBookings(c.Request().Context(), doctorID, start, end, page.Limit, page.Offset)
	if err != nil {
		return err
	}
	pagination.SetHeaders(c, page, total)
	return response.List(c, "Booked appointments fetched successfully", items, len(items))
}

func (h *Handler) GetSlot(c echo.Context) error {
	slotID, err := pathUUID(c, "slotId")
	if err != nil {
		return err
	}
	slot, err := h.svc.GetSlot(c.Request().Context(), slotID)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Slot fetched successfully", slot)
}

type bookSlotRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
	Reason       string `json:"reason"`

	LegacyFirstName    string `json:"firstName"`
	LegacyLastName     string `json:"lastName"`
	LegacyMobileNumber string `json:"mobileNumber"`
}

func (h *Handler) BookSlot(c echo.Context) error {
	slotID, err := pathUUID(c, "slotId")
	if err != nil {
		return err
	}
	var req bookSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	details := PatientDetails{
		FirstName:    firstNonEmpty(req.FirstName, req.LegacyFirstName),
		LastName:     firstNonEmpty(req.LastName, req.LegacyLastName),
		Email:        req.Email,
		MobileNumber: firstNonEmpty(req.MobileNumber, req.LegacyMobileNumber),
	}
	result, err := h.svc.BookSlot(c.Request().Context(), slotID, details, req.Reason)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusCreated, "Slot booked successfully", result)
}
