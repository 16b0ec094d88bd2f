package auth

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/trovekart/api-gateway/internal/database"
)

// Repository defines the database operations for the auth module.
// Session rows live behind session.Provider; everything else is here.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	FindUserByID(ctx context.Context, id string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByPhone(ctx context.Context, phone string) (*User, error)
	FindUserByIdentifier(ctx context.Context, ident Identifier) (*User, error)
	SetEmailVerified(ctx context.Context, userID string) error
	SetPhoneVerified(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, newPasswordHash string) error

	// OTP records
	CreateOTP(ctx context.Context, rec *OTPRecord) error
	// FindValidOTP returns any record matching user, code, verified=false and
	// not yet expired. A nil purpose matches any purpose; first match wins.
	FindValidOTP(ctx context.Context, userID, code string, purpose *OTPPurpose) (*OTPRecord, error)
	// MarkOTPVerified flips verified to true, conditional on verified=false.
	// ErrNotFound means a concurrent consumer already claimed the code.
	MarkOTPVerified(ctx context.Context, otpID string) error

	// Social identities
	FindSocialIdentity(ctx context.Context, provider, providerID string) (*SocialIdentity, error)
	// CreateUserWithSocialIdentity provisions a user and its provider link in
	// one transaction.
	CreateUserWithSocialIdentity(ctx context.Context, user *User, ident *SocialIdentity) error
}

// txStarter is the slice of pgxpool.Pool needed to open transactions.
type txStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// repository implements Repository using pgx and squirrel.
type repository struct {
	db   database.DBTX
	pool txStarter
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new auth repository on the given pool.
func NewRepository(db interface {
	database.DBTX
	txStarter
}) Repository {
	return &repository{
		db:   db,
		pool: db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}
