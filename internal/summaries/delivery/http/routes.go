package http

import (
	"github.com/amankumarsingh77/video-insight/internal/middleware"
	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/amankumarsingh77/video-insight/internal/summaries"
	"github.com/labstack/echo/v4"
)

func MapSummariesRoutes(summariesGroup *echo.Group, h summaries.Handler, mw *middleware.MiddlewareManager) {
	summariesGroup.Use(mw.AuthJWTMiddleware())
	summariesGroup.POST("/process", h.ProcessVideo())
	summariesGroup.POST("/process/stream", h.ProcessVideoStream())
	summariesGroup.GET("", h.GetMyJobs())
	summariesGroup.GET("/stats", h.GetStats())
	summariesGroup.GET("/stats/detailed", h.GetDetailedStats(), mw.RoleBasedAuthMiddleware([]models.Role{models.AdminRole}))
}
