package clinic

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/clinic-api/internal/handler"
	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	clinicsvc "github.com/clinicore/clinic-api/internal/service/clinic"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type Handler struct {
	service *clinicsvc.Service
	guard   *middleware.Guard
}

func NewHandler(service *clinicsvc.Service, guard *middleware.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clinics := r.Group("/clinic")
	{
		// Onboarding: any authenticated account without a clinic may create one.
		clinics.POST("", h.CreateClinic)
		clinics.GET("", h.guard.RequireMembership(), h.GetClinic)
		// MANAGE_STAFF is the admin-only action in the permission table;
		// clinic profile changes ride on it for want of a dedicated one.
		clinics.PUT("", h.guard.RequireAction(model.ActionManageStaff), h.UpdateClinic)
	}
}

func (h *Handler) CreateClinic(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		handler.Error(c, apperrors.NewUnauthorized(nil))
		return
	}

	var req model.CreateClinicRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	clinic, err := h.service.Create(c.Request.Context(), claims.AccountID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(clinic))
}

func (h *Handler) GetClinic(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	clinic, err := h.service.Get(c.Request.Context(), actx.ClinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinic))
}

func (h *Handler) UpdateClinic(c *gin.Context) {
	actx := middleware.AccessContextFrom(c)

	var req model.UpdateClinicRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	clinic, err := h.service.Update(c.Request.Context(), actx.ClinicID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinic))
}
