package marketplace_test

import (
	"context"
	"fmt"

	marketplace "github.com/goliatone/go-marketplace"
	"github.com/stretchr/testify/mock"
)

// testConfig implements marketplace.Config
type testConfig struct {
	signingKey      string
	tokenExpiration int
	contextKey      string
	issuer          string
	audience        []string
}

func newTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-signing-key",
		tokenExpiration: 24,
		contextKey:      "user",
		issuer:          "marketplace",
	}
}

func (c testConfig) GetSigningKey() string   { return c.signingKey }
func (c testConfig) GetTokenExpiration() int { return c.tokenExpiration }
func (c testConfig) GetContextKey() string   { return c.contextKey }
func (c testConfig) GetIssuer() string       { return c.issuer }
func (c testConfig) GetAudience() []string   { return c.audience }

// testIdentity implements marketplace.Identity
type testIdentity struct {
	id       string
	username string
	email    string
}

func (i testIdentity) ID() string       { return i.id }
func (i testIdentity) Username() string { return i.username }
func (i testIdentity) Email() string    { return i.email }

// recordLogger captures formatted log lines for assertions
type recordLogger struct {
	lines []string
}

func (l *recordLogger) Debug(format string, args ...any) { l.record(format, args...) }
func (l *recordLogger) Info(format string, args ...any)  { l.record(format, args...) }
func (l *recordLogger) Error(format string, args ...any) { l.record(format, args...) }

func (l *recordLogger) record(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// MockIdentityProvider implements marketplace.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (marketplace.Identity, error) {
	args := m.Called(ctx, email, password)
	identity, _ := args.Get(0).(marketplace.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByID(ctx context.Context, id string) (marketplace.Identity, error) {
	args := m.Called(ctx, id)
	identity, _ := args.Get(0).(marketplace.Identity)
	return identity, args.Error(1)
}

// MockPriceProvider implements marketplace.PriceProvider
type MockPriceProvider struct {
	mock.Mock
}

func (m *MockPriceProvider) PricePerKgINR(ctx context.Context, productName string) (string, error) {
	args := m.Called(ctx, productName)
	return args.String(0), args.Error(1)
}
