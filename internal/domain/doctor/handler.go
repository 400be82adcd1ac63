package doctor

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/PhilimonNag/doctor-appointment-api/internal/platform/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/doctors", h.CreateDoctor)
	api.GET("/doctors/:id", h.GetDoctor)
}

// createDoctorRequest accepts both the snake_case fields and the legacy
// camelCase spelling (userName, firstName, lastName).
type createDoctorRequest struct {
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	LegacyUsername  string `json:"userName"`
	LegacyFirstName string `json:"firstName"`
	LegacyLastName  string `json:"lastName"`
}

func (r createDoctorRequest) toDoctor() *Doctor {
	d := &Doctor{
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
	if d.Username == "" {
		d.Username = r.LegacyUsername
	}
	if d.FirstName == "" {
		d.FirstName = r.LegacyFirstName
	}
	if d.LastName == "" {
		d.LastName = r.LegacyLastName
	}
	return d
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var req createDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	d := req.toDoctor()
	if err := h.svc.CreateDoctor(c.Request().Context(), d); err != nil {
		return err
	}
	return response.OK(c, http.StatusCreated, "Doctor created successfully", d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Doctor fetched successfully", d)
}
