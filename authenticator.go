package marketplace

import (
	"context"
	"reflect"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Auther drives the credential flows: registration, login, and resolving the
// bearer of a raw token back to a stored identity.
type Auther struct {
	provider        IdentityProvider
	repo            RepositoryManager
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        []string
	logger          Logger
	tokenService    TokenService
}

// LoginResult carries the signed token along with the identity it was minted
// for, so callers can echo identity attributes without a second lookup.
type LoginResult struct {
	Token    string
	Identity Identity
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, repo RepositoryManager, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		jwt.ClaimStrings(opts.GetAudience()),
		defLogger{},
	)

	return &Auther{
		provider:        provider,
		repo:            repo,
		signingKey:      []byte(opts.GetSigningKey()),
		tokenExpiration: opts.GetTokenExpiration(),
		audience:        opts.GetAudience(),
		issuer:          opts.GetIssuer(),
		logger:          defLogger{},
		tokenService:    tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	// Update the TokenService logger as well
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		jwt.ClaimStrings(s.audience),
		logger,
	)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// RegisterUser creates a new account. Uniqueness is probed inside the same
// transaction as the insert, username before email, so a payload that
// collides on both only ever reports the username.
func (s *Auther) RegisterUser(ctx context.Context, username, email, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		s.logger.Error("RegisterUser hash password: %v", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	var user *User
	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := s.repo.Users().UsernameTakenTx(ctx, tx, username)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}

		taken, err = s.repo.Users().EmailTakenTx(ctx, tx, email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}

		user, err = s.repo.Users().RegisterTx(ctx, tx, &User{
			ID:           uuid.New(),
			Username:     username,
			Email:        email,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and mints a token for the matched identity.
func (s *Auther) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var err error
	var identity Identity

	if identity, err = s.provider.VerifyIdentity(ctx, email, password); err != nil {
		s.logger.Error("Login verify identity error: %v", err)
		return nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Identity: identity}, nil
}

// IdentityFromToken validates a raw token and resolves its subject against
// the identity provider. Expired or undecodable tokens surface as
// ErrInvalidToken; a decodable token whose subject no longer exists surfaces
// as ErrUserNotFound.
func (s *Auther) IdentityFromToken(ctx context.Context, raw string) (Identity, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("IdentityFromToken validation failed: %v", err)
		return nil, ErrInvalidToken
	}

	identity, err := s.provider.FindIdentityByID(ctx, claims.UserID())
	if err != nil {
		s.logger.Error("IdentityFromToken find identity by id: %v", err)
		return nil, err
	}

	return identity, nil
}
