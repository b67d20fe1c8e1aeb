package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-backend/internal/service"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newAuthApp() *fiber.App {
	app := fiber.New()
	auth := NewAuthenticator(testSecret, nil)
	app.Get("/whoami", auth.Handler(), func(c fiber.Ctx) error {
		who := CallerIdentity(c)
		return c.JSON(fiber.Map{"subjectId": who.SubjectID, "email": who.Email})
	})
	return app
}

func TestAuthValidToken(t *testing.T) {
	app := newAuthApp()
	token := signToken(t, jwt.MapClaims{
		"sub":   "user-123",
		"email": "jo@example.com",
		"name":  "Jo",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMissingHeader(t *testing.T) {
	app := newAuthApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMalformedHeader(t *testing.T) {
	app := newAuthApp()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Token abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthExpiredToken(t *testing.T) {
	app := newAuthApp()
	token := signToken(t, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthWrongSecret(t *testing.T) {
	app := newAuthApp()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMissingSubClaim(t *testing.T) {
	app := newAuthApp()
	token := signToken(t, jwt.MapClaims{
		"email": "jo@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestVerifyExtractsClaims(t *testing.T) {
	auth := NewAuthenticator(testSecret, nil)
	token := signToken(t, jwt.MapClaims{
		"sub":     "user-9",
		"email":   "sam@example.com",
		"name":    "Sam",
		"picture": "https://example.com/p.jpg",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	who, err := auth.verify(t.Context(), token)
	require.NoError(t, err)
	assert.Equal(t, service.Identity{
		SubjectID: "user-9",
		Email:     "sam@example.com",
		Name:      "Sam",
		PhotoURL:  "https://example.com/p.jpg",
	}, who)
}
