package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"droscher.com/FestivalGargoyle/configs"
	"droscher.com/FestivalGargoyle/pkg/auth"
)

const testSecret = "festival-secret"

func signedToken(t *testing.T, secret string, expires time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": expires.Unix()})

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func invokeGuard(t *testing.T, secret, authorization string) error {
	t.Helper()

	manager := auth.NewAuthManager(&configs.Config{Auth: configs.Auth{SecretKey: secret}}, zap.NewNop())

	e := echo.New()
	request := httptest.NewRequest(http.MethodPost, "/api/v1/update", nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}

	c := e.NewContext(request, httptest.NewRecorder())

	handler := manager.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return handler(c)
}

func TestMiddleware_DisabledWithoutSecret(t *testing.T) {
	assert.NoError(t, invokeGuard(t, "", ""))
}

func TestMiddleware_AcceptsValidToken(t *testing.T) {
	token := signedToken(t, testSecret, time.Now().Add(time.Hour))

	assert.NoError(t, invokeGuard(t, testSecret, "Bearer "+token))
}

func TestMiddleware_AcceptsLowercaseBearer(t *testing.T) {
	token := signedToken(t, testSecret, time.Now().Add(time.Hour))

	assert.NoError(t, invokeGuard(t, testSecret, "bearer "+token))
}

func TestMiddleware_RejectsMissingHeader(t *testing.T) {
	err := invokeGuard(t, testSecret, "")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestMiddleware_RejectsWrongSecret(t *testing.T) {
	token := signedToken(t, "some-other-secret", time.Now().Add(time.Hour))

	err := invokeGuard(t, testSecret, "Bearer "+token)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestMiddleware_RejectsExpiredToken(t *testing.T) {
	token := signedToken(t, testSecret, time.Now().Add(-time.Hour))

	err := invokeGuard(t, testSecret, "Bearer "+token)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestMiddleware_RejectsMalformedToken(t *testing.T) {
	err := invokeGuard(t, testSecret, "Bearer not-a-jwt")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
