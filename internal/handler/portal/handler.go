package portal

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/clinic-api/internal/handler"
	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	portalsvc "github.com/clinicore/clinic-api/internal/service/portal"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

// Handler serves the patient-facing surface. Portal routes authenticate
// the account but never resolve a staff membership: a patient belongs to
// clinics through patient records matched by email, not memberships.
type Handler struct {
	service *portalsvc.Service
}

func NewHandler(service *portalsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	portal := r.Group("/portal")
	{
		portal.GET("/clinics", h.ListClinics)
		portal.GET("/clinics/:id/doctors", h.ListDoctors)
		portal.GET("/clinics/:id/services", h.ListServices)
		portal.GET("/profile", h.Profile)
		portal.GET("/appointments", h.ListAppointments)
		portal.POST("/appointments", h.BookAppointment)
		portal.DELETE("/appointments/:id", h.CancelAppointment)
		portal.GET("/prescriptions", h.ListPrescriptions)
	}
}

func (h *Handler) ListClinics(c *gin.Context) {
	clinics, err := h.service.ListClinics(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinics))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	clinicID, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	doctors, err := h.service.ListDoctors(c.Request.Context(), clinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) ListServices(c *gin.Context) {
	clinicID, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	services, err := h.service.ListServices(c.Request.Context(), clinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}

func (h *Handler) Profile(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		handler.Error(c, apperrors.NewUnauthorized(nil))
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), claims)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		handler.Error(c, apperrors.NewUnauthorized(nil))
		return
	}

	upcoming := c.Query("range") == "upcoming"
	past := c.Query("range") == "past"

	appointments, err := h.service.ListAppointments(c.Request.Context(), claims.Email, upcoming, past)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) BookAppointment(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		handler.Error(c, apperrors.NewUnauthorized(nil))
		return
	}

	var req model.BookAppointmentRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	apt, err := h.service.Book(c.Request.Context(), claims, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		handler.Error(c, apperrors.NewUnauthorized(nil))
		return
	}

	id, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	if err := h.service.Cancel(c.Request.Context(), claims.Email, id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		handler.Error(c, apperrors.NewUnauthorized(nil))
		return
	}

	prescriptions, err := h.service.ListPrescriptions(c.Request.Context(), claims.Email)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(prescriptions))
}
