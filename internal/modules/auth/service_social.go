package auth

import (
	"context"
	"errors"
	"strings"
)

// SocialSignIn logs in or provisions an account from a provider-asserted
// identity. The (provider, providerID) pair is the lookup key: repeated
// sign-ins with the same assertion always resolve to the same user, and
// concurrent first sign-ins are settled by the identity's unique constraint.
func (s *service) SocialSignIn(ctx context.Context, in SocialSignInInput) (*AuthResult, error) {
	in.Provider = strings.ToLower(strings.TrimSpace(in.Provider))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Provider == "" || in.ProviderID == "" {
		return nil, ErrUnsupportedProvider
	}

	ident, err := s.repo.FindSocialIdentity(ctx, in.Provider, in.ProviderID)
	switch {
	case err == nil:
		user, err := s.repo.FindUserByID(ctx, ident.UserID)
		if err != nil {
			return nil, s.storeErr(ctx, "find user for social identity", err)
		}
		if !user.IsActive {
			return nil, ErrAccountInactive
		}
		tokens, err := s.issueTokens(ctx, user)
		if err != nil {
			return nil, err
		}
		s.log.InfoContext(ctx, "social sign-in", "provider", in.Provider, "userId", user.ID)
		return &AuthResult{User: user, Tokens: tokens}, nil

	case errors.Is(err, ErrNotFound):
		return s.provisionSocialUser(ctx, in)

	default:
		return nil, s.storeErr(ctx, "find social identity", err)
	}
}

// provisionSocialUser creates the user and its identity link together. The
// provider vouched for the email address, so it arrives verified and no
// local password is set.
func (s *service) provisionSocialUser(ctx context.Context, in SocialSignInInput) (*AuthResult, error) {
	userID, err := newID()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}
	identID, err := newID()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}

	user := &User{
		ID:       userID,
		Name:     in.Name,
		Role:     RoleCustomer,
		IsActive: true,
	}
	if in.Email != "" {
		user.Email = &in.Email
		user.EmailVerified = true
	}
	identity := &SocialIdentity{
		ID:         identID,
		Provider:   in.Provider,
		ProviderID: in.ProviderID,
	}

	if err := s.repo.CreateUserWithSocialIdentity(ctx, user, identity); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return nil, err
		}
		return nil, s.storeErr(ctx, "provision social user", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "social account provisioned", "provider", in.Provider, "userId", user.ID)
	return &AuthResult{User: user, Tokens: tokens}, nil
}
