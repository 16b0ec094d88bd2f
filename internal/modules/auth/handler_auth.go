package auth

import (
	"context"

	"github.com/trovekart/api-gateway/internal/httpx"
	"github.com/trovekart/api-gateway/internal/validation"
)

// SignupRequest defines the registration request body. Email and phone are
// individually optional but at least one must be present.
type SignupRequest struct {
	Body struct {
		Email    string `json:"email,omitempty" validate:"omitempty,email"`
		Phone    string `json:"phone,omitempty" validate:"omitempty,phone"`
		Name     string `json:"name" validate:"required,min=2,max=100"`
		Password string `json:"password" validate:"required,min=8,max=72"`
		Role     string `json:"role,omitempty" validate:"omitempty,oneof=CUSTOMER SELLER"`
	}
}

// LoginEmailRequest defines the email login request body.
type LoginEmailRequest struct {
	Body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
}

// LoginPhoneRequest defines the phone login request body.
type LoginPhoneRequest struct {
	Body struct {
		Phone    string `json:"phone" validate:"required,phone"`
		Password string `json:"password" validate:"required"`
	}
}

// LoginOTPRequest defines the one-time-code login request body.
type LoginOTPRequest struct {
	Body struct {
		Identifier string `json:"identifier" validate:"required"`
		Code       string `json:"code" validate:"required,len=6,numeric"`
	}
}

// SignupHandler handles new account registration.
func (h *Handler) SignupHandler(ctx context.Context, input *SignupRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	if input.Body.Email == "" && input.Body.Phone == "" {
		return nil, httpx.ToProblem(ctx, validation.NewError("either email or phone is required", validation.FieldErrors{
			"email": {"either email or phone is required"},
			"phone": {"either email or phone is required"},
		}))
	}

	res, err := h.service.Signup(ctx, SignupInput{
		Email:    input.Body.Email,
		Phone:    input.Body.Phone,
		Name:     input.Body.Name,
		Password: input.Body.Password,
		Role:     Role(input.Body.Role),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "signup failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return toAuthResponse(res), nil
}

// LoginEmailHandler handles email/password login.
func (h *Handler) LoginEmailHandler(ctx context.Context, input *LoginEmailRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	res, err := h.service.LoginWithEmail(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "email login failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return toAuthResponse(res), nil
}

// LoginPhoneHandler handles phone/password login.
func (h *Handler) LoginPhoneHandler(ctx context.Context, input *LoginPhoneRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	res, err := h.service.LoginWithPhone(ctx, input.Body.Phone, input.Body.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "phone login failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return toAuthResponse(res), nil
}

// LoginOTPHandler handles one-time-code login.
func (h *Handler) LoginOTPHandler(ctx context.Context, input *LoginOTPRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	res, err := h.service.LoginWithOTP(ctx, input.Body.Identifier, input.Body.Code)
	if err != nil {
		h.logger.WarnContext(ctx, "otp login failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return toAuthResponse(res), nil
}
