package marketplace

import "github.com/goliatone/go-errors"

const (
	TextCodeInvalidCredentials = "invalid_credentials"
	TextCodeMissingCredentials = "missing_credentials"
	TextCodeTokenExpired       = "token_expired"
	TextCodeTokenMalformed     = "token_malformed"
	TextCodeTokenInvalid       = "token_invalid"
	TextCodeUserNotFound       = "user_not_found"
	TextCodeUsernameTaken      = "username_taken"
	TextCodeEmailTaken         = "email_taken"
	TextCodeFieldsRequired     = "fields_required"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike; login failures are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("Invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeBadRequest)

// ErrMissingCredentials is returned when a protected route receives no
// Authorization header at all.
var ErrMissingCredentials = errors.New("authentication credentials were not provided", errors.CategoryAuth).
	WithTextCode(TextCodeMissingCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token's expiry window has passed.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail to parse or verify.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidToken is the single rejection surfaced to clients for any bad
// credential: bad signature, malformed header segmet, or expired token.
var ErrInvalidToken = errors.New("Invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrUserNotFound is returned when a valid token references a user id that no
// longer exists. Kept distinct from ErrInvalidToken on purpose.
var ErrUserNotFound = errors.New("user not found", errors.CategoryAuth).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrUsernameTaken is the registration conflict for duplicate usernames.
// Username is probed before email; callers rely on that ordering.
var ErrUsernameTaken = errors.New("Username already exists", errors.CategoryValidation).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeBadRequest)

// ErrEmailTaken is the registration conflict for duplicate emails.
var ErrEmailTaken = errors.New("email already exists", errors.CategoryValidation).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeBadRequest)

// ErrFieldsRequired is returned when a registration payload is missing any of
// username, email, or password.
var ErrFieldsRequired = errors.New("All fields required", errors.CategoryValidation).
	WithTextCode(TextCodeFieldsRequired).
	WithCode(errors.CodeBadRequest)

// ErrNoEmptyString is rejected input for the password hasher
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the bcrypt mismatch sentinel
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrPriceUnavailable is returned by price providers that have no quote for a
// product. Enrichment is optional; callers must treat this as a skip.
var ErrPriceUnavailable = errors.New("market price unavailable", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)
