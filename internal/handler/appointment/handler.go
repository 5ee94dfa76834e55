package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/handler"
	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	appointmentsvc "github.com/clinicore/clinic-api/internal/service/appointment"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

// conflictRecorder is satisfied by the metrics handler.
type conflictRecorder interface {
	RecordBookingConflict()
}

type Handler struct {
	service   *appointmentsvc.Service
	guard     *middleware.Guard
	conflicts conflictRecorder
}

func NewHandler(service *appointmentsvc.Service, guard *middleware.Guard, conflicts conflictRecorder) *Handler {
	return &Handler{service: service, guard: guard, conflicts: conflicts}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments", h.guard.RequireAction(model.ActionManageAppointments))
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/availability", h.CheckAvailability)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	var req model.CreateAppointmentRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	apt, err := h.service.Create(c.Request.Context(), actx, &req)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrConflict) {
			h.conflicts.RecordBookingConflict()
		}
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	id, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	apt, err := h.service.Get(c.Request.Context(), actx, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	filters, err := parseFilters(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	appointments, err := h.service.List(c.Request.Context(), actx, filters)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

// CheckAvailability answers whether a slot is free for the given service.
// The answer is advisory; booking re-checks atomically.
func (h *Handler) CheckAvailability(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		handler.Error(c, apperrors.NewValidation(map[string]string{
			"service_id": "must be a valid UUID",
		}))
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start_time"))
	if err != nil {
		handler.Error(c, apperrors.NewValidation(map[string]string{
			"start_time": "must be an RFC 3339 timestamp",
		}))
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), actx, serviceID, start)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"available": available}))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	id, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	var req model.UpdateAppointmentRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	apt, err := h.service.Update(c.Request.Context(), actx, id, &req)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrConflict) {
			h.conflicts.RecordBookingConflict()
		}
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	id, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actx, id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func parseFilters(c *gin.Context) (*model.AppointmentFilters, error) {
	filters := &model.AppointmentFilters{}

	if date := c.Query("date"); date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, apperrors.NewValidation(map[string]string{
				"date": "must be formatted as YYYY-MM-DD",
			})
		}
		filters.Date = &d
	}

	if status := c.Query("status"); status != "" {
		s := model.AppointmentStatus(status)
		if !s.Valid() {
			return nil, apperrors.NewValidation(map[string]string{
				"status": "unknown appointment status",
			})
		}
		filters.Status = s
	}

	if patientID := c.Query("patient_id"); patientID != "" {
		id, err := uuid.Parse(patientID)
		if err != nil {
			return nil, apperrors.NewValidation(map[string]string{
				"patient_id": "must be a valid UUID",
			})
		}
		filters.PatientID = &id
	}

	return filters, nil
}
