package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/clinic-api/internal/handler"
	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	authsvc "github.com/clinicore/clinic-api/internal/service/auth"
	"github.com/clinicore/clinic-api/internal/service/membership"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type Handler struct {
	service     *authsvc.Service
	memberships *membership.Service
}

func NewHandler(service *authsvc.Service, memberships *membership.Service) *Handler {
	return &Handler{service: service, memberships: memberships}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	auth := public.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}

	me := protected.Group("/auth")
	{
		me.POST("/logout", h.Logout)
		me.GET("/me", h.Me)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	account, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(account.Public()))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	tokens, account, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"tokens":  tokens,
		"account": account.Public(),
	}))
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.Error(c, err)
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

// Logout revokes the presented access token.
func (h *Handler) Logout(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		handler.Error(c, apperrors.NewUnauthorized(nil))
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// Me returns the account plus its primary clinic membership. The
// membership block is omitted for accounts with no clinic so the
// frontend can route them to onboarding.
func (h *Handler) Me(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		handler.Error(c, apperrors.NewUnauthorized(nil))
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), claims.AccountID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	resp := gin.H{"account": account.Public()}
	if m, err := h.memberships.PrimaryMembership(c.Request.Context(), claims.AccountID); err == nil {
		resp["clinic_id"] = m.ClinicID
		resp["role"] = m.Role
	} else if !apperrors.IsCode(err, apperrors.ErrNoClinic) {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}
