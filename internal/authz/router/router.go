package router

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sebastianliew/l2l-backend/internal/authz/handler"
)

func RegisterRoutes(e *echo.Echo, h *handler.AuthzHandler, authz *handler.AuthzMiddleware) {
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "authentication", "x-user-id"},
	}))

	// Health Check
	e.GET("/health", handler.HealthCheck)

	v1 := e.Group("/api/v1")
	v1.Use(handler.RequestIDMiddleware)

	// Decision API - no enforcement middleware. These endpoints resolve the
	// caller themselves; any identified principal may ask what it is allowed
	// to do.
	v1.POST("/permissions/check", h.PostPermissionsCheck)
	v1.POST("/permissions/allowance", h.PostPermissionsAllowance)
	v1.POST("/permissions/discounts/check", h.PostDiscountsCheck)
	v1.POST("/permissions/enforce", h.PostPermissionsEnforce)
	v1.POST("/permissions/guard", h.PostPermissionsGuard)
	v1.GET("/permissions/catalog", h.GetCatalog)
	v1.GET("/principals/me", h.GetPrincipalsMe)

	// Enforced routes: the middleware consults the route-permission registry
	// before any handler below runs.
	v1.Use(authz.Middleware())
	v1.DELETE("/principals/:id/cache", h.DeletePrincipalCache)
}
