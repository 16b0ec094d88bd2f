package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSocialSignInExistingIdentity(t *testing.T) {
	svc, m := newTestService()
	user := testUser()
	ident := &SocialIdentity{ID: "si-1", Provider: "google", ProviderID: "g-123", UserID: user.ID}

	m.repo.On("FindSocialIdentity", mock.Anything, "google", "g-123").Return(ident, nil)
	m.repo.On("FindUserByID", mock.Anything, user.ID).Return(user, nil)
	m.sessions.On("Create", mock.Anything, user.ID, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	res, err := svc.SocialSignIn(context.Background(), SocialSignInInput{
		Provider:   "Google",
		ProviderID: "g-123",
		Email:      "shopper@example.com",
		Name:       "Ada Shopper",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	m.repo.AssertNotCalled(t, "CreateUserWithSocialIdentity", mock.Anything, mock.Anything, mock.Anything)
}

func TestSocialSignInProvisionsNewUser(t *testing.T) {
	svc, m := newTestService()

	m.repo.On("FindSocialIdentity", mock.Anything, "google", "g-999").Return(nil, ErrNotFound)
	m.repo.On("CreateUserWithSocialIdentity", mock.Anything,
		mock.MatchedBy(func(u *User) bool {
			// The provider vouched for the email; no local password exists.
			return u.Email != nil && *u.Email == "fresh@example.com" &&
				u.EmailVerified && u.PasswordHash == nil &&
				u.Role == RoleCustomer && u.IsActive
		}),
		mock.MatchedBy(func(si *SocialIdentity) bool {
			return si.Provider == "google" && si.ProviderID == "g-999"
		}),
	).Return(nil)
	m.sessions.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	res, err := svc.SocialSignIn(context.Background(), SocialSignInInput{
		Provider:   "google",
		ProviderID: "g-999",
		Email:      "Fresh@Example.com",
		Name:       "Fresh User",
	})
	require.NoError(t, err)
	assert.True(t, res.User.EmailVerified)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	m.repo.AssertExpectations(t)
}

// Repeated sign-ins with the same provider assertion must resolve to the same
// user: the second call finds the identity the first one created.
func TestSocialSignInIsIdempotent(t *testing.T) {
	svc, m := newTestService()

	var createdUser *User
	m.repo.On("FindSocialIdentity", mock.Anything, "google", "g-42").Return(nil, ErrNotFound).Once()
	m.repo.On("CreateUserWithSocialIdentity", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { createdUser = args.Get(1).(*User) }).Return(nil).Once()
	m.sessions.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	in := SocialSignInInput{Provider: "google", ProviderID: "g-42", Email: "repeat@example.com", Name: "Repeat"}
	first, err := svc.SocialSignIn(context.Background(), in)
	require.NoError(t, err)

	m.repo.On("FindSocialIdentity", mock.Anything, "google", "g-42").
		Return(&SocialIdentity{ID: "si-42", Provider: "google", ProviderID: "g-42", UserID: createdUser.ID}, nil)
	m.repo.On("FindUserByID", mock.Anything, createdUser.ID).Return(createdUser, nil)

	second, err := svc.SocialSignIn(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestSocialSignInInactiveUser(t *testing.T) {
	svc, m := newTestService()
	user := testUser()
	user.IsActive = false
	ident := &SocialIdentity{ID: "si-1", Provider: "google", ProviderID: "g-123", UserID: user.ID}

	m.repo.On("FindSocialIdentity", mock.Anything, "google", "g-123").Return(ident, nil)
	m.repo.On("FindUserByID", mock.Anything, user.ID).Return(user, nil)

	_, err := svc.SocialSignIn(context.Background(), SocialSignInInput{
		Provider: "google", ProviderID: "g-123", Name: "Ada",
	})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestSocialSignInMissingProviderFields(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SocialSignIn(context.Background(), SocialSignInInput{Provider: "", ProviderID: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = svc.SocialSignIn(context.Background(), SocialSignInInput{Provider: "google", ProviderID: ""})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestInitiateOAuthUnsupportedProvider(t *testing.T) {
	svc, _ := newTestService()

	// No Google client is configured in tests, and unknown providers are
	// rejected outright.
	_, err := svc.InitiateOAuthLogin(context.Background(), "facebook")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = svc.InitiateOAuthLogin(context.Background(), "google")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}
