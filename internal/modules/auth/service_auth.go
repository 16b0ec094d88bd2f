package auth

import (
	"context"
	"errors"
	"strings"

	authcore "github.com/trovekart/api-gateway/internal/auth"
)

// Signup registers a new local-credential account, signs it in and kicks off
// contact verification for the supplied channel.
func (s *service) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Role == "" {
		in.Role = RoleCustomer
	}

	// Pre-check both unique columns so the common duplicate case gets a clean
	// error without consuming an insert. The unique constraints remain the
	// authority under concurrent signups.
	if in.Email != "" {
		if _, err := s.repo.FindUserByEmail(ctx, in.Email); err == nil {
			return nil, ErrDuplicateUser
		} else if !errors.Is(err, ErrNotFound) {
			return nil, s.storeErr(ctx, "find user by email", err)
		}
	}
	if in.Phone != "" {
		if _, err := s.repo.FindUserByPhone(ctx, in.Phone); err == nil {
			return nil, ErrDuplicateUser
		} else if !errors.Is(err, ErrNotFound) {
			return nil, s.storeErr(ctx, "find user by phone", err)
		}
	}

	hash, err := authcore.HashPassword(in.Password)
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}

	id, err := newID()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}
	user := &User{
		ID:           id,
		Name:         in.Name,
		PasswordHash: &hash,
		Role:         in.Role,
		IsActive:     true,
	}
	if in.Email != "" {
		user.Email = &in.Email
	}
	if in.Phone != "" {
		user.Phone = &in.Phone
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return nil, err
		}
		return nil, s.storeErr(ctx, "create user", err)
	}

	// Contact verification starts immediately. The code record must exist
	// once the registration succeeds; only delivery itself is asynchronous
	// and allowed to fail quietly.
	ident := Identifier{Kind: IdentifierEmail, Value: in.Email}
	purpose := OTPPurposeEmailVerification
	if in.Email == "" {
		ident = Identifier{Kind: IdentifierPhone, Value: in.Phone}
		purpose = OTPPurposePhoneVerification
	}
	if err := s.sendOTPCode(ctx, user, ident, purpose); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user registered", "userId", user.ID, "role", user.Role)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// LoginWithEmail authenticates an email/password pair.
func (s *service) LoginWithEmail(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.FindUserByEmail(ctx, email)
	return s.finishPasswordLogin(ctx, user, err, password)
}

// LoginWithPhone authenticates a phone/password pair.
func (s *service) LoginWithPhone(ctx context.Context, phone, password string) (*AuthResult, error) {
	user, err := s.repo.FindUserByPhone(ctx, strings.TrimSpace(phone))
	return s.finishPasswordLogin(ctx, user, err, password)
}

// finishPasswordLogin applies the shared credential checks. Account status
// is checked before the password; for active accounts, social-only and
// wrong-password failures collapse into the same ErrInvalidCredentials as an
// unknown identifier.
func (s *service) finishPasswordLogin(ctx context.Context, user *User, lookupErr error, password string) (*AuthResult, error) {
	if lookupErr != nil {
		if errors.Is(lookupErr, ErrNotFound) {
			return nil, ErrInvalidCredentials.WithCause(lookupErr)
		}
		return nil, s.storeErr(ctx, "find user", lookupErr)
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if !authcore.CheckPassword(password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user logged in", "userId", user.ID)
	return &AuthResult{User: user, Tokens: tokens}, nil
}
