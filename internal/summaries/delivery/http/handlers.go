package http

import (
	"errors"
	"net/http"

	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/amankumarsingh77/video-insight/internal/pipeline"
	"github.com/amankumarsingh77/video-insight/internal/summaries"
	"github.com/amankumarsingh77/video-insight/pkg/logger"
	"github.com/amankumarsingh77/video-insight/pkg/utils"
	"github.com/labstack/echo/v4"
)

type summariesHandler struct {
	summariesUC summaries.UseCase
	logger      logger.Logger
}

func NewSummariesHandler(summariesUC summaries.UseCase, logger logger.Logger) summaries.Handler {
	return &summariesHandler{
		summariesUC: summariesUC,
		logger:      logger,
	}
}

func (h *summariesHandler) ProcessVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.ProcessInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		if err := utils.ValidateStruct(c.Request().Context(), input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Video URL is required"})
		}

		result, err := h.summariesUC.Process(c.Request().Context(), input)
		if err != nil {
			if errors.Is(err, summaries.ErrServerBusy) {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			}
			return c.JSON(pipeline.StatusCode(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, result)
	}
}

// ProcessVideoStream writes newline-delimited JSON frames for the lifetime of
// the run. Once streaming begins every failure is an error frame, never an
// HTTP status change.
func (h *summariesHandler) ProcessVideoStream() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.ProcessInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		if err := utils.ValidateStruct(c.Request().Context(), input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Video URL is required"})
		}

		events, err := h.summariesUC.ProcessStream(c.Request().Context(), input)
		if err != nil {
			if errors.Is(err, summaries.ErrServerBusy) {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}

		resp := c.Response()
		resp.Header().Set(echo.HeaderContentType, "text/plain; charset=utf-8")
		resp.Header().Set("Cache-Control", "no-cache")
		resp.Header().Set("Connection", "keep-alive")
		resp.WriteHeader(http.StatusOK)

		sw := pipeline.NewStreamWriter(resp)
		if err := sw.Serve(c.Request().Context(), events); err != nil {
			// client disconnects land here; the run's own cleanup is driven
			// by the request context
			h.logger.Infof("stream ended early: %v", err)
		}
		return nil
	}
}

func (h *summariesHandler) GetMyJobs() echo.HandlerFunc {
	return func(c echo.Context) error {
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		jobs, err := h.summariesUC.GetUserJobs(c.Request().Context(), pagination)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, jobs)
	}
}

func (h *summariesHandler) GetStats() echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := h.summariesUC.GetStats(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, stats)
	}
}

func (h *summariesHandler) GetDetailedStats() echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := h.summariesUC.GetDetailedStats(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, stats)
	}
}
