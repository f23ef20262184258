package http

import (
	"github.com/amankumarsingh77/video-insight/internal/auth"
	"github.com/amankumarsingh77/video-insight/internal/middleware"
	"github.com/labstack/echo/v4"
)

func MapAuthRoutes(authGroup *echo.Group, h auth.Handler, mw *middleware.MiddlewareManager) {
	authGroup.POST("/register", h.Register())
	authGroup.POST("/login", h.Login())
	authGroup.GET("/me", h.GetMe(), mw.AuthJWTMiddleware())
}
