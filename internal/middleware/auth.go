package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/amankumarsingh77/video-insight/pkg/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (mw *MiddlewareManager) AuthJWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			bearerHeader := c.Request().Header.Get("Authorization")

			if bearerHeader != "" {
				headerParts := strings.Split(bearerHeader, " ")
				if len(headerParts) != 2 {
					mw.logger.Errorf("auth middleware: malformed bearer header, RequestID: %s", utils.GetRequestID(c))
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
				}

				if err := mw.validateJWTToken(headerParts[1], c); err != nil {
					mw.logger.Errorf("auth middleware validateJWTToken: %v", err)
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
				}

				return next(c)
			}

			cookie, err := c.Cookie("jwt-token")
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}

			if err = mw.validateJWTToken(cookie.Value, c); err != nil {
				mw.logger.Errorf("auth middleware validateJWTToken: %v", err)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			return next(c)
		}
	}
}

func (mw *MiddlewareManager) validateJWTToken(tokenString string, c echo.Context) error {
	if tokenString == "" {
		return fmt.Errorf("invalid token string")
	}

	claims, err := utils.ValidateToken(tokenString, mw.cfg.Server.JwtSecretKey)
	if err != nil {
		return err
	}

	userUUID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id in claims: %w", err)
	}

	u, err := mw.authUC.GetByID(c.Request().Context(), userUUID)
	if err != nil {
		return err
	}

	c.Set("user", u)

	ctx := context.WithValue(c.Request().Context(), utils.UserCtxKey{}, u)
	c.SetRequest(c.Request().WithContext(ctx))
	return nil
}

func (mw *MiddlewareManager) RoleBasedAuthMiddleware(roles []models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get("user").(*models.User)
			if !ok {
				mw.logger.Errorf("role middleware: invalid user ctx, RequestID: %s", utils.GetRequestID(c))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}

			for _, role := range roles {
				if role == user.Role {
					return next(c)
				}
			}

			mw.logger.Errorf("role middleware: forbidden, RequestID: %s, UserID: %s", utils.GetRequestID(c), user.UserID.String())
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
		}
	}
}
