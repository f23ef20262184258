package server

import (
	"net/http"

	authHttp "github.com/amankumarsingh77/video-insight/internal/auth/delivery/http"
	authRepository "github.com/amankumarsingh77/video-insight/internal/auth/repository"
	authUsecase "github.com/amankumarsingh77/video-insight/internal/auth/usecase"
	"github.com/amankumarsingh77/video-insight/internal/media"
	"github.com/amankumarsingh77/video-insight/internal/middleware"
	"github.com/amankumarsingh77/video-insight/internal/summaries"
	summariesHttp "github.com/amankumarsingh77/video-insight/internal/summaries/delivery/http"
	summariesRepository "github.com/amankumarsingh77/video-insight/internal/summaries/repository"
	summariesUsecase "github.com/amankumarsingh77/video-insight/internal/summaries/usecase"
	"github.com/amankumarsingh77/video-insight/internal/summarize"
	"github.com/amankumarsingh77/video-insight/internal/transcribe"
	"github.com/amankumarsingh77/video-insight/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	aRepo := authRepository.NewAuthRepo(s.db)
	sRepo := summariesRepository.NewSummariesRepo(s.db)
	sRedisRepo := summariesRepository.NewSummariesRedisRepo(s.redisClient)

	var sAWSRepo summaries.AWSRepository
	if s.s3Client != nil && s.cfg.S3.ArchiveBucket != "" {
		sAWSRepo = summariesRepository.NewAwsRepository(s.s3Client, s.cfg.S3.ArchiveBucket)
	}

	fetcher := media.NewFetcher(s.cfg, s.logger)
	transcriber := transcribe.NewWhisperClient(s.cfg)
	summarizer := summarize.NewOllamaClient(s.cfg)

	authUC := authUsecase.NewAuthUseCase(s.cfg, aRepo, s.logger)
	summariesUC := summariesUsecase.NewSummariesUseCase(s.cfg, sRepo, sRedisRepo, sAWSRepo, fetcher, transcriber, summarizer, s.logger)

	authHandlers := authHttp.NewAuthHandler(s.cfg, authUC, s.logger)
	summariesHandlers := summariesHttp.NewSummariesHandler(summariesUC, s.logger)

	mw := middleware.NewMiddlewareManager(authUC, s.cfg, []string{"*"}, s.logger)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	authGroup := v1.Group("/auth")
	summariesGroup := v1.Group("/summaries")

	authHttp.MapAuthRoutes(authGroup, authHandlers, mw)
	summariesHttp.MapSummariesRoutes(summariesGroup, summariesHandlers, mw)
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
