package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authcore "github.com/trovekart/api-gateway/internal/auth"
)

func TestSignupCreatesUserAndSession(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	m.repo.On("FindUserByEmail", mock.Anything, "new@example.com").Return(nil, ErrNotFound)
	m.repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Email != nil && *u.Email == "new@example.com" &&
			u.Role == RoleCustomer && u.IsActive &&
			!u.EmailVerified && u.PasswordHash != nil
	})).Return(nil)
	m.repo.On("CreateOTP", mock.Anything, mock.MatchedBy(func(rec *OTPRecord) bool {
		return rec.Purpose == OTPPurposeEmailVerification && len(rec.Code) == 6
	})).Return(nil)
	m.notifier.On("Send", mock.Anything, mock.Anything).Return(nil)
	m.sessions.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Signup(ctx, SignupInput{
		Email:    "New@Example.com",
		Name:     "New Shopper",
		Password: "supersecret1",
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)
	assert.NotEqual(t, res.Tokens.AccessToken, res.Tokens.RefreshToken)
	// Stored hash must not be the plaintext.
	assert.NotEqual(t, "supersecret1", *res.User.PasswordHash)
	m.repo.AssertExpectations(t)
	m.sessions.AssertExpectations(t)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, m := newTestService()

	m.repo.On("FindUserByEmail", mock.Anything, "taken@example.com").Return(testUser(), nil)

	_, err := svc.Signup(context.Background(), SignupInput{
		Email:    "taken@example.com",
		Name:     "Dup",
		Password: "supersecret1",
	})
	assert.ErrorIs(t, err, ErrDuplicateUser)
	m.repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestSignupPhoneOnlySendsPhoneVerification(t *testing.T) {
	svc, m := newTestService()

	m.repo.On("FindUserByPhone", mock.Anything, "+2348012345678").Return(nil, ErrNotFound)
	m.repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Email == nil && u.Phone != nil
	})).Return(nil)
	m.repo.On("CreateOTP", mock.Anything, mock.MatchedBy(func(rec *OTPRecord) bool {
		return rec.Purpose == OTPPurposePhoneVerification
	})).Return(nil)
	m.notifier.On("Send", mock.Anything, mock.Anything).Return(nil)
	m.sessions.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Signup(context.Background(), SignupInput{
		Phone:    "+2348012345678",
		Name:     "Phone Only",
		Password: "supersecret1",
		Role:     RoleSeller,
	})
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, res.User.Role)
	m.repo.AssertExpectations(t)
}

func TestLoginWithEmailSuccess(t *testing.T) {
	svc, m := newTestService()
	user := testUser()

	m.repo.On("FindUserByEmail", mock.Anything, "shopper@example.com").Return(user, nil)
	m.sessions.On("Create", mock.Anything, user.ID, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	res, err := svc.LoginWithEmail(context.Background(), "shopper@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	m.sessions.AssertExpectations(t)
}

// The three failure causes must be indistinguishable from the outside.
func TestLoginWithEmailFailuresAreUniform(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(m *serviceMocks)
		password string
	}{
		{
			name: "unknown email",
			setup: func(m *serviceMocks) {
				m.repo.On("FindUserByEmail", mock.Anything, mock.Anything).Return(nil, ErrNotFound)
			},
			password: "correct horse battery",
		},
		{
			name: "wrong password",
			setup: func(m *serviceMocks) {
				m.repo.On("FindUserByEmail", mock.Anything, mock.Anything).Return(testUser(), nil)
			},
			password: "wrong password",
		},
		{
			name: "social-only account",
			setup: func(m *serviceMocks) {
				u := testUser()
				u.PasswordHash = nil
				m.repo.On("FindUserByEmail", mock.Anything, mock.Anything).Return(u, nil)
			},
			password: "correct horse battery",
		},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService()
			tt.setup(m)

			_, err := svc.LoginWithEmail(context.Background(), "shopper@example.com", tt.password)
			require.ErrorIs(t, err, ErrInvalidCredentials)

			var de *DomainError
			require.ErrorAs(t, err, &de)
			messages = append(messages, de.Message)
			m.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
	for _, msg := range messages {
		assert.Equal(t, messages[0], msg)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, m := newTestService()
	user := testUser()
	user.IsActive = false

	m.repo.On("FindUserByPhone", mock.Anything, "+2348012345678").Return(user, nil)

	_, err := svc.LoginWithPhone(context.Background(), "+2348012345678", "correct horse battery")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestLoginInactiveCheckedBeforePassword(t *testing.T) {
	svc, m := newTestService()
	user := testUser()
	user.IsActive = false

	m.repo.On("FindUserByEmail", mock.Anything, mock.Anything).Return(user, nil)

	// Account status is decided before the password is looked at, so even a
	// wrong password on an inactive account reports the inactive state.
	_, err := svc.LoginWithEmail(context.Background(), "shopper@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestSignupFailsWhenCodeCannotBeStored(t *testing.T) {
	svc, m := newTestService()

	m.repo.On("FindUserByEmail", mock.Anything, mock.Anything).Return(nil, ErrNotFound)
	m.repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil)
	m.repo.On("CreateOTP", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	// The verification code record is part of a successful registration;
	// only its delivery is fire-and-forget.
	_, err := svc.Signup(context.Background(), SignupInput{
		Email:    "new@example.com",
		Name:     "New Shopper",
		Password: "supersecret1",
	})
	assert.ErrorIs(t, err, ErrInternal)
	m.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIssuedAccessTokenVerifies(t *testing.T) {
	svc, m := newTestService()
	user := testUser()

	var issuedAccess string
	m.repo.On("FindUserByEmail", mock.Anything, mock.Anything).Return(user, nil)
	m.sessions.On("Create", mock.Anything, user.ID, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { issuedAccess = args.String(2) }).Return(nil)

	res, err := svc.LoginWithEmail(context.Background(), "shopper@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, res.Tokens.AccessToken, issuedAccess)

	issuer := authcore.NewIssuer(authcore.IssuerConfig{
		AccessSecret:  "access-test-secret",
		RefreshSecret: "refresh-test-secret",
	})
	payload, err := issuer.VerifyAccess(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, payload.UserID)
	assert.Equal(t, string(user.Role), payload.Role)

	// An access token must never verify as a refresh token.
	_, err = issuer.VerifyRefresh(res.Tokens.AccessToken)
	assert.Error(t, err)
}
