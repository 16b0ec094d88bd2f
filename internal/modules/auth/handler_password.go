package auth

import (
	"context"

	"github.com/trovekart/api-gateway/internal/httpx"
	"github.com/trovekart/api-gateway/internal/validation"
)

// ResetRequestRequest defines the body for requesting a password reset code.
type ResetRequestRequest struct {
	Body struct {
		Identifier string `json:"identifier" validate:"required"`
	}
}

// ResetPasswordRequest defines the body for completing a password reset.
type ResetPasswordRequest struct {
	Body struct {
		Identifier  string `json:"identifier" validate:"required"`
		Code        string `json:"code" validate:"required,len=6,numeric"`
		NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
	}
}

// ResetRequestHandler starts the password reset flow. The response does not
// reveal whether the identifier maps to an account.
func (h *Handler) ResetRequestHandler(ctx context.Context, input *ResetRequestRequest) (*MessageResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	if err := h.service.RequestPasswordReset(ctx, input.Body.Identifier); err != nil {
		h.logger.WarnContext(ctx, "password reset request failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return messageResponse("if the account exists, a reset code has been sent"), nil
}

// ResetPasswordHandler completes the password reset flow.
func (h *Handler) ResetPasswordHandler(ctx context.Context, input *ResetPasswordRequest) (*MessageResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	if err := h.service.ResetPassword(ctx, input.Body.Identifier, input.Body.Code, input.Body.NewPassword); err != nil {
		h.logger.WarnContext(ctx, "password reset failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return messageResponse("password updated"), nil
}
