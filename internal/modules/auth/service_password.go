package auth

import (
	"context"
	"errors"

	authcore "github.com/trovekart/api-gateway/internal/auth"
)

// RequestPasswordReset issues a PASSWORD_RESET code for the account behind
// the identifier. The response is generic regardless of whether the account
// exists; only the cooldown and store-outage cases surface as errors.
func (s *service) RequestPasswordReset(ctx context.Context, identifier string) error {
	ident, ok := ParseIdentifier(identifier)
	if !ok {
		return nil
	}

	user, err := s.repo.FindUserByIdentifier(ctx, ident)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same outward behavior as the happy path.
			return nil
		}
		return s.storeErr(ctx, "find user for password reset", err)
	}

	if err := s.sendOTPCode(ctx, user, ident, OTPPurposePasswordReset); err != nil {
		if errors.Is(err, ErrOTPCooldown) {
			return err
		}
		s.log.ErrorContext(ctx, "could not issue password reset code", "userId", user.ID, "error", err)
		return nil
	}
	return nil
}

// ResetPassword sets a new password after validating a PASSWORD_RESET code,
// then revokes every session the user holds. Outstanding access tokens keep
// verifying until they expire, but no session survives the reset.
func (s *service) ResetPassword(ctx context.Context, identifier, code, newPassword string) error {
	ident, ok := ParseIdentifier(identifier)
	if !ok {
		return ErrNotFound
	}

	user, err := s.repo.FindUserByIdentifier(ctx, ident)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return s.storeErr(ctx, "find user for password reset", err)
	}

	purpose := OTPPurposePasswordReset
	rec, err := s.repo.FindValidOTP(ctx, user.ID, code, &purpose)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidOTP.WithCause(err)
		}
		return s.storeErr(ctx, "find reset otp", err)
	}

	hash, err := authcore.HashPassword(newPassword)
	if err != nil {
		return ErrInternal.WithCause(err)
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return s.storeErr(ctx, "update password", err)
	}

	if err := s.repo.MarkOTPVerified(ctx, rec.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidOTP.WithCause(err)
		}
		return s.storeErr(ctx, "mark reset otp verified", err)
	}

	if err := s.sessions.DeleteAllForUser(ctx, user.ID); err != nil {
		return s.storeErr(ctx, "revoke sessions", err)
	}

	s.log.InfoContext(ctx, "password reset completed", "userId", user.ID)
	return nil
}
