package staff

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/clinic-api/internal/handler"
	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/service/access"
	"github.com/clinicore/clinic-api/internal/service/membership"
)

type Handler struct {
	service *membership.Service
	access  *access.Service
	guard   *middleware.Guard
}

func NewHandler(service *membership.Service, accessSvc *access.Service, guard *middleware.Guard) *Handler {
	return &Handler{service: service, access: accessSvc, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	staff := r.Group("/staff", h.guard.RequireAction(model.ActionManageStaff))
	{
		staff.GET("", h.ListStaff)
		staff.POST("", h.AddStaff)
		staff.DELETE("/:id", h.RemoveStaff)
		staff.GET("/search", h.SearchAccount)
	}

	// Doctors are listed by anyone who can book, not just staff managers.
	r.GET("/doctors", h.guard.RequireAction(model.ActionManageAppointments), h.ListDoctors)
}

func (h *Handler) ListStaff(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	staff, err := h.service.ListStaff(c.Request.Context(), actx.ClinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(staff))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	doctors, err := h.service.ListDoctors(c.Request.Context(), actx.ClinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

// SearchAccount looks up an account by email for the add-staff flow.
func (h *Handler) SearchAccount(c *gin.Context) {
	account, err := h.service.SearchAccount(c.Request.Context(), c.Query("email"))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(account))
}

func (h *Handler) AddStaff(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	var req model.AddStaffRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	m, err := h.service.AddStaff(c.Request.Context(), actx.ClinicID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	// A new membership changes what the account may see.
	h.access.Invalidate(m.AccountID)

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(m))
}

func (h *Handler) RemoveStaff(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	id, err := handler.PathID(c, "id")
	if err != nil {
		handler.Error(c, err)
		return
	}

	removed, err := h.service.RemoveStaff(c.Request.Context(), actx.ClinicID, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	h.access.Invalidate(removed.AccountID)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
