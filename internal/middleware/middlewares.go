package middleware

import (
	"github.com/amankumarsingh77/video-insight/internal/auth"
	"github.com/amankumarsingh77/video-insight/internal/config"
	"github.com/amankumarsingh77/video-insight/pkg/logger"
)

type MiddlewareManager struct {
	authUC  auth.UseCase
	cfg     *config.Config
	origins []string
	logger  logger.Logger
}

// Middleware manager constructor
func NewMiddlewareManager(authUC auth.UseCase, cfg *config.Config, origins []string, logger logger.Logger) *MiddlewareManager {
	return &MiddlewareManager{authUC: authUC, cfg: cfg, origins: origins, logger: logger}
}
