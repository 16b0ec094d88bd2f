package auth

import (
	"context"
	"errors"
	"time"

	"github.com/trovekart/api-gateway/internal/notification"
)

// otpReasons maps each purpose to the wording used in delivered messages.
var otpReasons = map[OTPPurpose]string{
	OTPPurposeEmailVerification: "verify your email address",
	OTPPurposePhoneVerification: "verify your phone number",
	OTPPurposeLogin:             "sign in to your account",
	OTPPurposePasswordReset:     "reset your password",
}

// SendOTP issues a fresh code for the given purpose and delivers it over the
// channel implied by the identifier. An empty purpose defaults to LOGIN. The
// account must exist; this endpoint deliberately reports unknown identifiers
// as 404.
func (s *service) SendOTP(ctx context.Context, identifier string, purpose OTPPurpose) error {
	if purpose == "" {
		purpose = OTPPurposeLogin
	}

	ident, ok := ParseIdentifier(identifier)
	if !ok {
		return ErrNotFound
	}

	user, err := s.repo.FindUserByIdentifier(ctx, ident)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return s.storeErr(ctx, "find user for otp", err)
	}

	return s.sendOTPCode(ctx, user, ident, purpose)
}

// sendOTPCode generates, persists and dispatches a code. A resend inside the
// cooldown window is rejected before any record is written.
func (s *service) sendOTPCode(ctx context.Context, user *User, ident Identifier, purpose OTPPurpose) error {
	acquired, err := s.cooldown.Acquire(ctx, "otp:"+string(purpose)+":"+ident.Value)
	if err != nil {
		return s.storeErr(ctx, "otp cooldown", err)
	}
	if !acquired {
		return ErrOTPCooldown
	}

	code, err := s.otp.Generate()
	if err != nil {
		return ErrInternal.WithCause(err)
	}

	rec := &OTPRecord{
		UserID:    user.ID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(s.otpTTL),
	}
	if err := s.repo.CreateOTP(ctx, rec); err != nil {
		return s.storeErr(ctx, "create otp", err)
	}

	channel := notification.ChannelEmail
	if ident.Kind == IdentifierPhone {
		channel = notification.ChannelSMS
	}
	n, err := notification.BuildOTPNotification(ident.Value, channel, "Your verification code", notification.OTPMessageData{
		Name:       user.Name,
		Code:       code,
		Reason:     otpReasons[purpose],
		TTLMinutes: int(s.otpTTL.Minutes()),
	})
	if err != nil {
		return ErrInternal.WithCause(err)
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		// Delivery is asynchronous; Send only fails on dispatch setup.
		s.log.ErrorContext(ctx, "failed to dispatch otp", "userId", user.ID, "channel", channel, "error", err)
	}

	s.log.InfoContext(ctx, "otp issued", "userId", user.ID, "purpose", purpose)
	return nil
}

// VerifyOTP consumes a verification code. The lookup is purpose-agnostic:
// any live code belonging to the user matches, and the side effect is driven
// by the purpose stored on the matched record. For the contact-verification
// purposes the user flag is set before the code is consumed, so a crash
// between the two steps leaves a retryable code rather than an unverified
// flag.
func (s *service) VerifyOTP(ctx context.Context, identifier, code string) error {
	ident, ok := ParseIdentifier(identifier)
	if !ok {
		return ErrNotFound
	}

	user, err := s.repo.FindUserByIdentifier(ctx, ident)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return s.storeErr(ctx, "find user for otp verify", err)
	}

	rec, err := s.repo.FindValidOTP(ctx, user.ID, code, nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidOTP.WithCause(err)
		}
		return s.storeErr(ctx, "find otp", err)
	}

	switch rec.Purpose {
	case OTPPurposeEmailVerification:
		if err := s.repo.SetEmailVerified(ctx, user.ID); err != nil {
			return s.storeErr(ctx, "set email verified", err)
		}
	case OTPPurposePhoneVerification:
		if err := s.repo.SetPhoneVerified(ctx, user.ID); err != nil {
			return s.storeErr(ctx, "set phone verified", err)
		}
	}

	if err := s.repo.MarkOTPVerified(ctx, rec.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			// A concurrent request consumed the code first.
			return ErrInvalidOTP.WithCause(err)
		}
		return s.storeErr(ctx, "mark otp verified", err)
	}

	s.log.InfoContext(ctx, "otp verified", "userId", user.ID, "purpose", rec.Purpose)
	return nil
}

// LoginWithOTP exchanges a LOGIN-purpose code for a token pair. The code is
// consumed before tokens are issued; if two requests race on the same code,
// only one of them signs in.
func (s *service) LoginWithOTP(ctx context.Context, identifier, code string) (*AuthResult, error) {
	ident, ok := ParseIdentifier(identifier)
	if !ok {
		return nil, ErrInvalidOTP
	}

	user, err := s.repo.FindUserByIdentifier(ctx, ident)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidOTP.WithCause(err)
		}
		return nil, s.storeErr(ctx, "find user for otp login", err)
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	purpose := OTPPurposeLogin
	rec, err := s.repo.FindValidOTP(ctx, user.ID, code, &purpose)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidOTP.WithCause(err)
		}
		return nil, s.storeErr(ctx, "find login otp", err)
	}
	if err := s.repo.MarkOTPVerified(ctx, rec.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidOTP.WithCause(err)
		}
		return nil, s.storeErr(ctx, "mark login otp verified", err)
	}

	// Completing an OTP login proves control of the channel the code was
	// delivered to, so the matching verified flag is set opportunistically.
	if ident.Kind == IdentifierEmail && !user.EmailVerified {
		if err := s.repo.SetEmailVerified(ctx, user.ID); err != nil {
			s.log.WarnContext(ctx, "could not set email verified on otp login", "userId", user.ID, "error", err)
		} else {
			user.EmailVerified = true
		}
	}
	if ident.Kind == IdentifierPhone && !user.PhoneVerified {
		if err := s.repo.SetPhoneVerified(ctx, user.ID); err != nil {
			s.log.WarnContext(ctx, "could not set phone verified on otp login", "userId", user.ID, "error", err)
		} else {
			user.PhoneVerified = true
		}
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user logged in with otp", "userId", user.ID)
	return &AuthResult{User: user, Tokens: tokens}, nil
}
