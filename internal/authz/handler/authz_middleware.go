package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
	"github.com/sebastianliew/l2l-backend/internal/authz/service"
)

// principalContextKey is where the enforcement middleware stashes the
// resolved principal for downstream handlers.
const principalContextKey = "authz.principal"

// DenialResponse is the body returned on 403: the standard error shape plus
// the capability the caller was missing, so a client UI can explain the
// denial.
type DenialResponse struct {
	Error              model.ErrorDetail    `json:"error"`
	RequiredCapability *model.CapabilityRef `json:"requiredCapability,omitempty"`
}

// AuthzMiddleware enforces route permissions on every request that passes
// through it. The downstream handler never runs on a denial.
type AuthzMiddleware struct {
	svc *service.Service
}

func NewAuthzMiddleware(svc *service.Service) *AuthzMiddleware {
	return &AuthzMiddleware{svc: svc}
}

// Middleware returns the Echo middleware function.
func (m *AuthzMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			op := model.OperationDescriptor{
				Method: c.Request().Method,
				Path:   c.Request().URL.Path,
			}
			identityRef := c.Request().Header.Get("x-user-id")

			result := m.svc.Enforce(c.Request().Context(), op, identityRef)
			if !result.Allowed {
				if result.Code == model.CodeUnauthenticated {
					return c.JSON(http.StatusUnauthorized, model.ErrorResponse{
						Error: model.ErrorDetail{Code: "unauthorized", Message: "Unauthorized"},
					})
				}
				return c.JSON(http.StatusForbidden, DenialResponse{
					Error:              model.ErrorDetail{Code: result.Code, Message: result.Message},
					RequiredCapability: result.Required,
				})
			}

			c.Set(principalContextKey, result.Principal)
			return next(c)
		}
	}
}

// PrincipalFromContext returns the principal attached by the enforcement
// middleware, or nil when the route was not enforced.
func PrincipalFromContext(c echo.Context) *model.Principal {
	p, _ := c.Get(principalContextKey).(*model.Principal)
	return p
}
