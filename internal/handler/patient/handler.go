package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/clinic-api/internal/handler"
	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	patientsvc "github.com/clinicore/clinic-api/internal/service/patient"
)

type Handler struct {
	service *patientsvc.Service
	guard   *middleware.Guard
}

func NewHandler(service *patientsvc.Service, guard *middleware.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		// Any clinic member reads the roster; the service redacts the
		// clinical fields for roles without the medical-records action.
		patients.GET("", h.guard.RequireMembership(), h.ListPatients)
		patients.GET("/:id", h.guard.RequireMembership(), h.GetPatient)

		patients.POST("", h.guard.RequireAction(model.ActionManagePatients), h.CreatePatient)
		patients.PUT("/:id", h.guard.RequireAction(model.ActionManagePatients), h.UpdatePatient)
		patients.DELETE("/:id", h.guard.RequireAction(model.ActionManagePatients), h.DeletePatient)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	var req model.CreatePatientRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	patient, err := h.service.Create(c.Request.Context(), actx, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(patient))
}

func (h *Handler) GetPatient(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	id, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	patient, err := h.service.Get(c.Request.Context(), actx, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) ListPatients(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	filters := &model.PatientFilters{
		Search: c.Query("search"),
	}

	patients, err := h.service.List(c.Request.Context(), actx, filters)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	id, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	var req model.UpdatePatientRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	patient, err := h.service.Update(c.Request.Context(), actx, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) DeletePatient(c *gin.Context) {
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
