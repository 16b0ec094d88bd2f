package auth

import (
	"context"

	"github.com/trovekart/api-gateway/internal/httpx"
	"github.com/trovekart/api-gateway/internal/validation"
)

// SocialSignInRequest defines the body for a provider-asserted sign-in. The
// caller (a first-party app) has already completed the provider flow and
// forwards the asserted identity.
type SocialSignInRequest struct {
	Provider string `path:"provider"`
	Body     struct {
		ProviderID string `json:"providerId" validate:"required"`
		Email      string `json:"email,omitempty" validate:"omitempty,email"`
		Name       string `json:"name" validate:"required,min=2,max=100"`
	}
}

// SocialSignInHandler signs in or provisions a user from a provider identity.
func (h *Handler) SocialSignInHandler(ctx context.Context, input *SocialSignInRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	res, err := h.service.SocialSignIn(ctx, SocialSignInInput{
		Provider:   input.Provider,
		ProviderID: input.Body.ProviderID,
		Email:      input.Body.Email,
		Name:       input.Body.Name,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "social sign-in failed", "provider", input.Provider, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return toAuthResponse(res), nil
}
