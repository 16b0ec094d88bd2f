package auth

import (
	"context"

	"github.com/trovekart/api-gateway/internal/httpx"
	"github.com/trovekart/api-gateway/internal/validation"
)

// SendOTPRequest defines the body for requesting a one-time code. Purpose is
// optional and defaults to LOGIN.
type SendOTPRequest struct {
	Body struct {
		Identifier string `json:"identifier" validate:"required"`
		Purpose    string `json:"purpose,omitempty" validate:"omitempty,oneof=EMAIL_VERIFICATION PHONE_VERIFICATION LOGIN PASSWORD_RESET"`
	}
}

// VerifyOTPRequest defines the body for verifying a one-time code. The code
// carries its own purpose; the caller does not state one.
type VerifyOTPRequest struct {
	Body struct {
		Identifier string `json:"identifier" validate:"required"`
		Code       string `json:"code" validate:"required,len=6,numeric"`
	}
}

// SendOTPHandler issues and delivers a one-time code.
func (h *Handler) SendOTPHandler(ctx context.Context, input *SendOTPRequest) (*MessageResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	if err := h.service.SendOTP(ctx, input.Body.Identifier, OTPPurpose(input.Body.Purpose)); err != nil {
		h.logger.WarnContext(ctx, "otp send failed", "purpose", input.Body.Purpose, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return messageResponse("code sent"), nil
}

// VerifyOTPHandler consumes a one-time code.
func (h *Handler) VerifyOTPHandler(ctx context.Context, input *VerifyOTPRequest) (*MessageResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	if err := h.service.VerifyOTP(ctx, input.Body.Identifier, input.Body.Code); err != nil {
		h.logger.WarnContext(ctx, "otp verify failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return messageResponse("code verified"), nil
}
