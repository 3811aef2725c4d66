package marketplace

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// DefaultContextKey is the fiber locals key the middleware stores the
// resolved user under.
const DefaultContextKey = "user"

// TokenAuthConfig configures the TokenAuth middleware.
type TokenAuthConfig struct {
	// Auther validates tokens and resolves their subject
	Auther *Auther
	// Users resolves the token subject to a stored user
	Users Users
	// ContextKey is the fiber locals key, defaults to DefaultContextKey
	ContextKey string
	// Optional lets requests without an Authorization header through as
	// anonymous instead of rejecting them
	Optional bool
	// ErrorHandler renders auth failures, defaults to RenderError
	ErrorHandler fiber.ErrorHandler
	Logger       Logger
}

// TokenAuth returns a middleware that authenticates requests from the
// Authorization header. The contract has three outcomes:
//
//   - no header: anonymous pass-through when Optional, 401 otherwise
//   - header present but token missing, undecodable, or expired: 401 with
//     "Invalid or expired token"
//   - token decodes but its user id no longer exists: 401 with "user not found"
//
// On success the resolved *User is stored in fiber locals under ContextKey
// and in the request's user context for downstream code.
func TokenAuth(cfg TokenAuthConfig) fiber.Handler {
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = RenderError
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			if cfg.Optional {
				return c.Next()
			}
			return cfg.ErrorHandler(c, ErrMissingCredentials)
		}

		// The raw token is whatever follows the first whitespace run; the
		// scheme word itself is not enforced.
		parts := strings.Fields(header)
		if len(parts) < 2 {
			return cfg.ErrorHandler(c, ErrInvalidToken)
		}
		raw := parts[1]

		claims, err := cfg.Auther.TokenService().Validate(raw)
		if err != nil {
			cfg.Logger.Error("TokenAuth token validation: %v", err)
			return cfg.ErrorHandler(c, ErrInvalidToken)
		}

		user, err := cfg.Users.GetByID(c.UserContext(), claims.UserID())
		if err != nil {
			cfg.Logger.Error("TokenAuth user lookup: %v", err)
			if repository.IsRecordNotFound(err) || errors.IsNotFound(err) {
				return cfg.ErrorHandler(c, ErrUserNotFound)
			}
			// store failures are not credential failures
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, user)
		c.SetUserContext(WithContext(c.UserContext(), user))

		return c.Next()
	}
}
