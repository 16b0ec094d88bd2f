package session

import (
	"context"
	"errors"
	"time"

	"github.com/trovekart/api-gateway/internal/database"
)

// ErrNotFound is returned when no live session matches the lookup.
// Expired rows are treated as absent: readers never see them.
var ErrNotFound = errors.New("session not found")

// Session is one live token-pair record. A user may hold many concurrent
// sessions, one per device.
type Session struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
	CreatedAt    time.Time `db:"created_at"`
}

// Provider defines persistence for issued token pairs.
//
// A row is created atomically with every successful token issuance and is
// revocable independently of the tokens' own expiry.
type Provider interface {
	// Create persists a new session row for the given user and token pair.
	Create(ctx context.Context, userID, accessToken, refreshToken string, expiresAt time.Time) error

	// FindByRefreshToken returns the unexpired session matching (userID, refreshToken),
	// or ErrNotFound. A syntactically valid refresh token without a matching row has
	// been revoked or rotated away.
	FindByRefreshToken(ctx context.Context, userID, refreshToken string) (*Session, error)

	// Rotate overwrites the token pair and expiry of an existing session row in
	// place. The previous refresh token becomes unusable once the row is updated.
	Rotate(ctx context.Context, sessionID, accessToken, refreshToken string, expiresAt time.Time) error

	// DeleteByAccessToken removes every session whose access token matches
	// (normally exactly one). Idempotent: no match is not an error.
	DeleteByAccessToken(ctx context.Context, accessToken string) error

	// DeleteAllForUser removes every session belonging to the user. Used for
	// forced global logout on password reset.
	DeleteAllForUser(ctx context.Context, userID string) error
}

// NewPostgresProvider returns a Postgres-backed Provider implementation.
// Implemented in postgres.go.
func NewPostgresProvider(db database.DBTX) Provider {
	return newPostgresProvider(db)
}
