package http

import (
	"net/http"

	"github.com/amankumarsingh77/video-insight/internal/auth"
	"github.com/amankumarsingh77/video-insight/internal/config"
	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/amankumarsingh77/video-insight/pkg/logger"
	"github.com/amankumarsingh77/video-insight/pkg/utils"
	"github.com/labstack/echo/v4"
)

type authHandler struct {
	cfg    *config.Config
	authUc auth.UseCase
	logger logger.Logger
}

func NewAuthHandler(cfg *config.Config, authUc auth.UseCase, logger logger.Logger) auth.Handler {
	return &authHandler{
		cfg:    cfg,
		authUc: authUc,
		logger: logger,
	}
}

func (h *authHandler) Register() echo.HandlerFunc {
	return func(c echo.Context) error {
		user := &models.User{}
		if err := c.Bind(user); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		if err := utils.ValidateStruct(c.Request().Context(), user); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		createUser, err := h.authUc.Register(c.Request().Context(), user)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, createUser)
	}
}

func (h *authHandler) Login() echo.HandlerFunc {
	return func(c echo.Context) error {
		user := &models.User{}
		if err := c.Bind(user); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}

		loginUser, err := h.authUc.Login(c.Request().Context(), user)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, loginUser)
	}
}

func (h *authHandler) GetMe() echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get("user").(*models.User)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized access"})
		}
		return c.JSON(http.StatusOK, user)
	}
}
