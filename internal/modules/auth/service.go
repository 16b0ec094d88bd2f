package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	authcore "github.com/trovekart/api-gateway/internal/auth"
	"github.com/trovekart/api-gateway/internal/notification"
	"github.com/trovekart/api-gateway/internal/session"
)

// SignupInput carries a registration request. At least one of Email or Phone
// must be set (enforced at the transport boundary).
type SignupInput struct {
	Email    string
	Phone    string
	Name     string
	Password string
	Role     Role
}

// SocialSignInInput carries a provider-asserted identity.
type SocialSignInInput struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
}

// CooldownGate throttles repeat OTP sends per key. Satisfied by
// ratelimit.Cooldown.
type CooldownGate interface {
	Acquire(ctx context.Context, key string) (bool, error)
}

// Service is the application-facing API of the auth module.
type Service interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	LoginWithEmail(ctx context.Context, email, password string) (*AuthResult, error)
	LoginWithPhone(ctx context.Context, phone, password string) (*AuthResult, error)
	LoginWithOTP(ctx context.Context, identifier, code string) (*AuthResult, error)

	SendOTP(ctx context.Context, identifier string, purpose OTPPurpose) error
	VerifyOTP(ctx context.Context, identifier, code string) error

	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, accessToken string) error

	RequestPasswordReset(ctx context.Context, identifier string) error
	ResetPassword(ctx context.Context, identifier, code, newPassword string) error

	SocialSignIn(ctx context.Context, in SocialSignInInput) (*AuthResult, error)
	InitiateOAuthLogin(ctx context.Context, provider string) (string, error)
	CompleteOAuthLogin(ctx context.Context, provider, state, code string) (*AuthResult, error)
}

// ServiceConfig wires the service's collaborators.
type ServiceConfig struct {
	Logger   *slog.Logger
	Repo     Repository
	Sessions session.Provider
	Tokens   *authcore.Issuer
	OTP      *authcore.OTPGenerator
	Notifier notification.Service
	Cooldown CooldownGate
	Redis    *redis.Client
	OTPTTL   time.Duration
	Google   *oauth2.Config
}

type service struct {
	log      *slog.Logger
	repo     Repository
	sessions session.Provider
	tokens   *authcore.Issuer
	otp      *authcore.OTPGenerator
	notifier notification.Service
	cooldown CooldownGate
	redis    *redis.Client
	otpTTL   time.Duration
	google   *oauth2.Config
}

// NewService creates the auth service.
func NewService(cfg ServiceConfig) Service {
	if cfg.OTPTTL == 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	return &service{
		log:      cfg.Logger,
		repo:     cfg.Repo,
		sessions: cfg.Sessions,
		tokens:   cfg.Tokens,
		otp:      cfg.OTP,
		notifier: cfg.Notifier,
		cooldown: cfg.Cooldown,
		redis:    cfg.Redis,
		otpTTL:   cfg.OTPTTL,
		google:   cfg.Google,
	}
}

// issueTokens mints an access/refresh pair for the user and persists the
// session row atomically with issuance. Every login creates its own row, so
// concurrent devices hold independent sessions.
func (s *service) issueTokens(ctx context.Context, user *User) (TokenPair, error) {
	payload := authcore.TokenPayload{
		UserID: user.ID,
		Role:   string(user.Role),
	}
	if user.Email != nil {
		payload.Email = *user.Email
	}

	accessToken, err := s.tokens.IssueAccess(payload)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefresh(payload)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.tokens.RefreshTTL())
	if err := s.sessions.Create(ctx, user.ID, accessToken, refreshToken, expiresAt); err != nil {
		return TokenPair{}, s.storeErr(ctx, "create session", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// storeErr classifies a persistence failure. Transient outages (timeouts,
// cancelled contexts) become ErrStoreUnavailable so clients know a retry is
// reasonable; everything else is ErrInternal. Domain errors pass through.
func (s *service) storeErr(ctx context.Context, op string, err error) error {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	s.log.ErrorContext(ctx, "store operation failed", "op", op, "error", err)

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrStoreUnavailable.WithCause(err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) || pgconn.Timeout(err) {
		return ErrStoreUnavailable.WithCause(err)
	}
	return ErrInternal.WithCause(err)
}

// newID returns a new UUIDv7 string for entity primary keys.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}
