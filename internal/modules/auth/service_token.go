package auth

import (
	"context"
	"errors"
	"time"

	authcore "github.com/trovekart/api-gateway/internal/auth"
	"github.com/trovekart/api-gateway/internal/session"
)

// Refresh rotates a session's token pair. Signature failure, expiry and a
// missing session row (revoked, already rotated, or never issued) are all
// reported as the same ErrInvalidRefreshToken.
func (s *service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	payload, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidRefreshToken.WithCause(err)
	}

	sess, err := s.sessions.FindByRefreshToken(ctx, payload.UserID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken.WithCause(err)
		}
		return TokenPair{}, s.storeErr(ctx, "find session", err)
	}

	user, err := s.repo.FindUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken.WithCause(err)
		}
		return TokenPair{}, s.storeErr(ctx, "find user for refresh", err)
	}
	if !user.IsActive {
		return TokenPair{}, ErrAccountInactive
	}

	newPayload := authcore.TokenPayload{UserID: user.ID, Role: string(user.Role)}
	if user.Email != nil {
		newPayload.Email = *user.Email
	}
	accessToken, err := s.tokens.IssueAccess(newPayload)
	if err != nil {
		return TokenPair{}, ErrInternal.WithCause(err)
	}
	newRefreshToken, err := s.tokens.IssueRefresh(newPayload)
	if err != nil {
		return TokenPair{}, ErrInternal.WithCause(err)
	}

	// Rotation replaces the pair in place: once the row is updated, the
	// refresh token presented on this request can never be replayed.
	expiresAt := time.Now().Add(s.tokens.RefreshTTL())
	if err := s.sessions.Rotate(ctx, sess.ID, accessToken, newRefreshToken, expiresAt); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken.WithCause(err)
		}
		return TokenPair{}, s.storeErr(ctx, "rotate session", err)
	}

	s.log.InfoContext(ctx, "session refreshed", "userId", user.ID)
	return TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout revokes the session carrying the given access token. Logging out a
// session that is already gone succeeds; the end state is identical.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	if err := s.sessions.DeleteByAccessToken(ctx, accessToken); err != nil {
		return s.storeErr(ctx, "delete session", err)
	}
	return nil
}
