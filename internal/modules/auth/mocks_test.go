package auth

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	authcore "github.com/trovekart/api-gateway/internal/auth"
	"github.com/trovekart/api-gateway/internal/notification"
	"github.com/trovekart/api-gateway/internal/session"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateUser(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockRepository) FindUserByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) FindUserByPhone(ctx context.Context, phone string) (*User, error) {
	args := m.Called(ctx, phone)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) FindUserByIdentifier(ctx context.Context, ident Identifier) (*User, error) {
	args := m.Called(ctx, ident)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) SetEmailVerified(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockRepository) SetPhoneVerified(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockRepository) UpdatePassword(ctx context.Context, userID, newPasswordHash string) error {
	return m.Called(ctx, userID, newPasswordHash).Error(0)
}

func (m *mockRepository) CreateOTP(ctx context.Context, rec *OTPRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockRepository) FindValidOTP(ctx context.Context, userID, code string, purpose *OTPPurpose) (*OTPRecord, error) {
	args := m.Called(ctx, userID, code, purpose)
	if r := args.Get(0); r != nil {
		return r.(*OTPRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) MarkOTPVerified(ctx context.Context, otpID string) error {
	return m.Called(ctx, otpID).Error(0)
}

func (m *mockRepository) FindSocialIdentity(ctx context.Context, provider, providerID string) (*SocialIdentity, error) {
	args := m.Called(ctx, provider, providerID)
	if s := args.Get(0); s != nil {
		return s.(*SocialIdentity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) CreateUserWithSocialIdentity(ctx context.Context, user *User, ident *SocialIdentity) error {
	return m.Called(ctx, user, ident).Error(0)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Create(ctx context.Context, userID, accessToken, refreshToken string, expiresAt time.Time) error {
	return m.Called(ctx, userID, accessToken, refreshToken, expiresAt).Error(0)
}

func (m *mockSessions) FindByRefreshToken(ctx context.Context, userID, refreshToken string) (*session.Session, error) {
	args := m.Called(ctx, userID, refreshToken)
	if s := args.Get(0); s != nil {
		return s.(*session.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessions) Rotate(ctx context.Context, sessionID, accessToken, refreshToken string, expiresAt time.Time) error {
	return m.Called(ctx, sessionID, accessToken, refreshToken, expiresAt).Error(0)
}

func (m *mockSessions) DeleteByAccessToken(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *mockSessions) DeleteAllForUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, n notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

// stubCooldown is a trivial gate; most tests leave it open.
type stubCooldown struct {
	blocked bool
	err     error
}

func (c *stubCooldown) Acquire(ctx context.Context, key string) (bool, error) {
	return !c.blocked, c.err
}

type serviceMocks struct {
	repo     *mockRepository
	sessions *mockSessions
	notifier *mockNotifier
	cooldown *stubCooldown
}

func newTestService() (Service, *serviceMocks) {
	m := &serviceMocks{
		repo:     &mockRepository{},
		sessions: &mockSessions{},
		notifier: &mockNotifier{},
		cooldown: &stubCooldown{},
	}
	svc := NewService(ServiceConfig{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Repo:     m.repo,
		Sessions: m.sessions,
		Tokens: authcore.NewIssuer(authcore.IssuerConfig{
			AccessSecret:  "access-test-secret",
			RefreshSecret: "refresh-test-secret",
		}),
		OTP:      authcore.NewOTPGenerator(),
		Notifier: m.notifier,
		Cooldown: m.cooldown,
		OTPTTL:   10 * time.Minute,
	})
	return svc, m
}

func strPtr(s string) *string { return &s }

func testUser() *User {
	hash, err := authcore.HashPassword("correct horse battery")
	if err != nil {
		panic(err)
	}
	return &User{
		ID:            "0198c2d4-0000-7000-8000-000000000001",
		Email:         strPtr("shopper@example.com"),
		Phone:         strPtr("+2348012345678"),
		Name:          "Ada Shopper",
		PasswordHash:  &hash,
		Role:          RoleCustomer,
		IsActive:      true,
		EmailVerified: true,
		PhoneVerified: false,
		CreatedAt:     time.Now().Add(-24 * time.Hour),
	}
}
