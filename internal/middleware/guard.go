package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/service/access"
	"github.com/clinicore/clinic-api/pkg/auth"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

const (
	claimsKey        = "authClaims"
	accessContextKey = "accessContext"
)

// Guard is the single authorization boundary: Authenticate resolves the
// session identity and RequireAction resolves the tenant context and checks
// the permission table. Handlers downstream only ever see the resulting
// AccessContext.
type Guard struct {
	tokens access.TokenValidator
	access *access.Service
}

func NewGuard(tokens access.TokenValidator, accessSvc *access.Service) *Guard {
	return &Guard{tokens: tokens, access: accessSvc}
}

// Authenticate verifies the bearer token and stores the resolved claims.
func (g *Guard) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperrors.NewUnauthorized(nil))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithError(c, apperrors.NewUnauthorized(nil))
			return
		}

		claims, err := g.tokens.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAction resolves the caller's primary clinic and checks the action
// against the permission table, aborting with 404 no-clinic or 403 as the
// guard dictates.
func (g *Guard) RequireAction(action model.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			abortWithError(c, apperrors.NewUnauthorized(nil))
			return
		}

		actx, err := g.access.AuthorizeClaims(c.Request.Context(), claims, action)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(accessContextKey, actx)
		c.Next()
	}
}

// RequireMembership resolves the tenant context without an action check,
// for endpoints any staff member may reach.
func (g *Guard) RequireMembership() gin.HandlerFunc {
	return g.RequireAction("")
}

// ClaimsFrom returns the resolved token claims, or nil outside Authenticate.
func ClaimsFrom(c *gin.Context) *auth.TokenClaims {
	if v, ok := c.Get(claimsKey); ok {
		return v.(*auth.TokenClaims)
	}
	return nil
}

// AccessContextFrom returns the authorized context, or nil outside
// RequireAction.
func AccessContextFrom(c *gin.Context) *model.AccessContext {
	if v, ok := c.Get(accessContextKey); ok {
		return v.(*model.AccessContext)
	}
	return nil
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
