package prescription

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/handler"
	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	prescriptionsvc "github.com/clinicore/clinic-api/internal/service/prescription"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type Handler struct {
	service *prescriptionsvc.Service
	guard   *middleware.Guard
}

func NewHandler(service *prescriptionsvc.Service, guard *middleware.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.POST("", h.guard.RequireAction(model.ActionCreatePrescriptions), h.CreatePrescription)
		prescriptions.GET("", h.guard.RequireAction(model.ActionViewMedicalRecords), h.ListPrescriptions)
		prescriptions.GET("/:id", h.guard.RequireAction(model.ActionViewMedicalRecords), h.GetPrescription)
		prescriptions.GET("/:id/pdf", h.guard.RequireAction(model.ActionViewMedicalRecords), h.DownloadPDF)
	}
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	var req model.CreatePrescriptionRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), actx, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

func (h *Handler) GetPrescription(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	id, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	p, err := h.service.Get(c.Request.Context(), actx, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	var patientID *uuid.UUID
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handler.Error(c, apperrors.NewValidation(map[string]string{
				"patient_id": "must be a valid UUID",
			}))
			return
		}
		patientID = &id
	}

	prescriptions, err := h.service.List(c.Request.Context(), actx, patientID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(prescriptions))
}

// DownloadPDF streams the rendered prescription document.
func (h *Handler) DownloadPDF(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	id, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	doc, err := h.service.RenderPDF(c.Request.Context(), actx, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=prescription-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", doc)
}
