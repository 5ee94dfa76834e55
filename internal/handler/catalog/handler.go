package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/clinic-api/internal/handler"
	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	catalogsvc "github.com/clinicore/clinic-api/internal/service/catalog"
)

type Handler struct {
	service *catalogsvc.Service
	guard   *middleware.Guard
}

func NewHandler(service *catalogsvc.Service, guard *middleware.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	services := r.Group("/services")
	{
		// Anyone who books appointments needs the catalog.
		services.GET("", h.guard.RequireAction(model.ActionManageAppointments), h.ListServices)
		services.GET("/:id", h.guard.RequireAction(model.ActionManageAppointments), h.GetService)

		services.POST("", h.guard.RequireAction(model.ActionManageServices), h.CreateService)
		services.PUT("/:id", h.guard.RequireAction(model.ActionManageServices), h.UpdateService)
		services.DELETE("/:id", h.guard.RequireAction(model.ActionManageServices), h.DeleteService)
	}
}

func (h *Handler) CreateService(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	var req model.CreateServiceRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	svc, err := h.service.Create(c.Request.Context(), actx, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(svc))
}

func (h *Handler) GetService(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	id, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	svc, err := h.service.Get(c.Request.Context(), actx, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(svc))
}

func (h *Handler) ListServices(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)
	activeOnly := c.Query("active") == "true"

	services, err := h.service.List(c.Request.Context(), actx, activeOnly)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}

func (h *Handler) UpdateService(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	id, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	var req model.UpdateServiceRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	svc, err := h.service.Update(c.Request.Context(), actx, id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(svc))
}

// DeleteService removes an unused service, or deactivates one that has
// appointment history so past bookings keep their reference.
func (h *Handler) DeleteService(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	id, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	deactivated, err := h.service.Delete(c.Request.Context(), actx, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"deactivated": deactivated,
	}))
}
