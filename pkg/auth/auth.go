package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"droscher.com/FestivalGargoyle/configs"
)

type Manager struct {
	conf   *configs.Config
	logger *zap.Logger
}

var ErrInvalidToken = errors.New("invalid token")

func NewAuthManager(conf *configs.Config, logger *zap.Logger) *Manager {
	return &Manager{conf: conf, logger: logger}
}

// Middleware guards mutating routes (update triggers) with an HMAC bearer
// token. With no secret configured the guard is disabled; a festival-booth
// install runs without accounts.
func (a *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if a.conf.Auth.SecretKey == "" {
				return next(c)
			}

			accessToken, err := a.extractTokenFromHeader(c.Request().Header)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			if err := a.validate(accessToken); err != nil {
				a.logger.Error("rejected bearer token", zap.Error(err))

				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			return next(c)
		}
	}
}

func (a *Manager) validate(accessToken string) error {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, token.Header["alg"])
		}

		return []byte(a.conf.Auth.SecretKey), nil
	}

	token, err := jwt.ParseWithClaims(accessToken, jwt.MapClaims{}, keyFunc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return ErrInvalidToken
	}

	return nil
}

func (a *Manager) extractTokenFromHeader(header http.Header) (string, error) {
	authorization := header.Get("Authorization")
	if len(authorization) == 0 {
		a.logger.Error("No authorization header found")

		return "", errors.New("authorization header not found")
	}

	prefix := "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		prefix = "bearer "
	}

	token, found := strings.CutPrefix(authorization, prefix)
	if !found {
		return "", errors.New("authorization format must be Bearer {token}")
	}

	return token, nil
}
