package auth

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorIsMatchesByCode(t *testing.T) {
	wrapped := ErrInvalidCredentials.WithCause(errors.New("bcrypt mismatch"))

	assert.ErrorIs(t, wrapped, ErrInvalidCredentials)
	assert.NotErrorIs(t, wrapped, ErrNotFound)

	// Another layer of wrapping still matches.
	assert.ErrorIs(t, fmt.Errorf("login: %w", wrapped), ErrInvalidCredentials)
}

func TestDomainErrorCauseStaysServerSide(t *testing.T) {
	cause := errors.New("row for shopper@example.com missing")
	wrapped := ErrInvalidCredentials.WithCause(cause)

	// The cause is reachable for logs and errors.Is, but the client-facing
	// detail never changes.
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, ErrInvalidCredentials.Message, wrapped.ProblemDetail())
}

func TestDomainErrorStatuses(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrNotFound.ProblemStatus())
	assert.Equal(t, http.StatusBadRequest, ErrDuplicateUser.ProblemStatus())
	assert.Equal(t, http.StatusUnauthorized, ErrInvalidCredentials.ProblemStatus())
	assert.Equal(t, http.StatusForbidden, ErrAccountInactive.ProblemStatus())
	assert.Equal(t, http.StatusUnauthorized, ErrInvalidOTP.ProblemStatus())
	assert.Equal(t, http.StatusTooManyRequests, ErrOTPCooldown.ProblemStatus())
	assert.Equal(t, http.StatusUnauthorized, ErrInvalidRefreshToken.ProblemStatus())
	assert.Equal(t, http.StatusBadRequest, ErrMissingToken.ProblemStatus())
	assert.Equal(t, http.StatusServiceUnavailable, ErrStoreUnavailable.ProblemStatus())
}

func TestWithCauseDoesNotMutateSentinel(t *testing.T) {
	_ = ErrInvalidOTP.WithCause(errors.New("boom"))
	assert.NoError(t, ErrInvalidOTP.Unwrap())
}
