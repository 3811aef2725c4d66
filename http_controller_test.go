package marketplace_test

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	marketplace "github.com/goliatone/go-marketplace"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	ta := setupTestApp(t, nil)

	t.Run("successful registration", func(t *testing.T) {
		res := ta.postJSON(t, "/register", map[string]any{
			"username": "ramesh",
			"email":    "ramesh@example.com",
			"password": "secret123",
		}, nil)

		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		body := decodeBody(t, res)
		assert.Equal(t, "User registered successfully", body["message"])
	})

	t.Run("missing fields", func(t *testing.T) {
		res := ta.postJSON(t, "/register", map[string]any{
			"username": "sita",
		}, nil)

		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
		body := decodeBody(t, res)
		assert.Equal(t, "All fields required", body["error"])
		assert.Contains(t, body, "validation")
	})

	t.Run("duplicate username reported before duplicate email", func(t *testing.T) {
		res := ta.postJSON(t, "/register", map[string]any{
			"username": "ramesh",
			"email":    "ramesh@example.com",
			"password": "secret123",
		}, nil)

		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
		body := decodeBody(t, res)
		assert.Equal(t, "Username already exists", body["error"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		res := ta.postJSON(t, "/register", map[string]any{
			"username": "someone-else",
			"email":    "ramesh@example.com",
			"password": "secret123",
		}, nil)

		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
		body := decodeBody(t, res)
		assert.Equal(t, "email already exists", body["error"])
	})
}

func TestLoginEndpoint(t *testing.T) {
	ta := setupTestApp(t, nil)

	res := ta.postJSON(t, "/register", map[string]any{
		"username": "ramesh",
		"email":    "ramesh@example.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	t.Run("valid credentials", func(t *testing.T) {
		res := ta.postJSON(t, "/login", map[string]any{
			"email":    "ramesh@example.com",
			"password": "secret123",
		}, nil)

		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		body := decodeBody(t, res)
		assert.NotEmpty(t, body["token"])
		assert.Equal(t, "ramesh", body["username"])
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		wrongPassword := ta.postJSON(t, "/login", map[string]any{
			"email":    "ramesh@example.com",
			"password": "wrong",
		}, nil)
		unknownEmail := ta.postJSON(t, "/login", map[string]any{
			"email":    "nobody@example.com",
			"password": "secret123",
		}, nil)

		assert.Equal(t, fiber.StatusBadRequest, wrongPassword.StatusCode)
		assert.Equal(t, fiber.StatusBadRequest, unknownEmail.StatusCode)

		assert.Equal(t, decodeBody(t, wrongPassword), decodeBody(t, unknownEmail))
	})

	t.Run("missing password gets the same response", func(t *testing.T) {
		res := ta.postJSON(t, "/login", map[string]any{
			"email": "ramesh@example.com",
		}, nil)

		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
		body := decodeBody(t, res)
		assert.Equal(t, "Invalid credentials", body["error"])
	})
}

func TestProfileEndpoint(t *testing.T) {
	ta := setupTestApp(t, nil)
	token := ta.registerAndLogin(t, "ramesh", "ramesh@example.com", "secret123")

	t.Run("with a valid token", func(t *testing.T) {
		res := ta.get(t, "/profile", bearer(token))

		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		body := decodeBody(t, res)
		assert.Equal(t, "ramesh", body["username"])
		assert.Equal(t, "ramesh@example.com", body["email"])
	})

	t.Run("without a header", func(t *testing.T) {
		res := ta.get(t, "/profile", nil)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("with a garbage token", func(t *testing.T) {
		res := ta.get(t, "/profile", bearer("garbage"))

		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		body := decodeBody(t, res)
		assert.Equal(t, "Invalid or expired token", body["error"])
	})

	t.Run("scheme word is not enforced", func(t *testing.T) {
		res := ta.get(t, "/profile", map[string]string{
			fiber.HeaderAuthorization: "Token " + token,
		})
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("header without a token part", func(t *testing.T) {
		res := ta.get(t, "/profile", map[string]string{
			fiber.HeaderAuthorization: "Bearer",
		})

		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		body := decodeBody(t, res)
		assert.Equal(t, "Invalid or expired token", body["error"])
	})

	t.Run("expired token", func(t *testing.T) {
		now := time.Now()
		expired, err := ta.auther.TokenService().SignClaims(&marketplace.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "marketplace",
				Subject:   uuid.New().String(),
				IssuedAt:  jwt.NewNumericDate(now.Add(-48 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(now.Add(-24 * time.Hour)),
			},
		})
		require.NoError(t, err)

		res := ta.get(t, "/profile", bearer(expired))

		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		body := decodeBody(t, res)
		assert.Equal(t, "Invalid or expired token", body["error"])
	})

	t.Run("valid token for a deleted user", func(t *testing.T) {
		ghost, err := ta.auther.TokenService().Generate(testIdentity{id: uuid.New().String()})
		require.NoError(t, err)

		res := ta.get(t, "/profile", bearer(ghost))

		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		body := decodeBody(t, res)
		assert.Equal(t, "user not found", body["error"])
	})
}

func TestLogoutEndpoint(t *testing.T) {
	ta := setupTestApp(t, nil)

	res := ta.postJSON(t, "/logout", map[string]any{}, nil)

	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, "Logout handled on client side", body["message"])
}
