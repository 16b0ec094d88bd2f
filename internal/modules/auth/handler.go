package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/trovekart/api-gateway/internal/middleware"
)

// Handler holds the dependencies for the auth module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
	auth    middleware.Func
}

// NewHandler creates a new handler for the auth module. The auth middleware
// guards the routes that require a bearer token.
func NewHandler(service Service, logger *slog.Logger, auth middleware.Func) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		auth:    auth,
	}
}

// RegisterRoutes sets up the routing for the auth module.
func (h *Handler) RegisterRoutes(api huma.API) {
	// --- Registration and credential login ---
	huma.Register(api, huma.Operation{
		OperationID:   "auth-signup",
		Method:        http.MethodPost,
		Path:          "/auth/signup",
		Summary:       "Register a new account",
		DefaultStatus: http.StatusCreated,
	}, h.SignupHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-login-email",
		Method:      http.MethodPost,
		Path:        "/auth/login/email",
		Summary:     "Log in with email and password",
	}, h.LoginEmailHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-login-phone",
		Method:      http.MethodPost,
		Path:        "/auth/login/phone",
		Summary:     "Log in with phone and password",
	}, h.LoginPhoneHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-login-otp",
		Method:      http.MethodPost,
		Path:        "/auth/login/otp",
		Summary:     "Log in with a one-time code",
	}, h.LoginOTPHandler)

	// --- One-time codes ---
	huma.Register(api, huma.Operation{
		OperationID: "auth-otp-send",
		Method:      http.MethodPost,
		Path:        "/auth/otp/send",
		Summary:     "Send a one-time code",
	}, h.SendOTPHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-otp-verify",
		Method:      http.MethodPost,
		Path:        "/auth/otp/verify",
		Summary:     "Verify a one-time code",
	}, h.VerifyOTPHandler)

	// --- Session lifecycle ---
	huma.Register(api, huma.Operation{
		OperationID: "auth-token-refresh",
		Method:      http.MethodPost,
		Path:        "/auth/token/refresh",
		Summary:     "Rotate a refresh token",
	}, h.RefreshHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Revoke the current session",
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: huma.Middlewares{h.auth},
	}, h.LogoutHandler)

	// --- Password reset ---
	huma.Register(api, huma.Operation{
		OperationID: "auth-password-reset-request",
		Method:      http.MethodPost,
		Path:        "/auth/password/reset-request",
		Summary:     "Request a password reset code",
	}, h.ResetRequestHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-password-reset",
		Method:      http.MethodPost,
		Path:        "/auth/password/reset",
		Summary:     "Reset password with a one-time code",
	}, h.ResetPasswordHandler)

	// --- Social and OAuth ---
	huma.Register(api, huma.Operation{
		OperationID: "auth-social-sign-in",
		Method:      http.MethodPost,
		Path:        "/auth/social/{provider}",
		Summary:     "Sign in with a provider-asserted identity",
	}, h.SocialSignInHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-oauth-authorize",
		Method:      http.MethodGet,
		Path:        "/auth/social/{provider}/authorize",
		Summary:     "Start the provider OAuth flow",
	}, h.OAuthAuthorizeHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-oauth-callback",
		Method:      http.MethodGet,
		Path:        "/auth/social/{provider}/callback",
		Summary:     "Complete the provider OAuth flow",
	}, h.OAuthCallbackHandler)
}

// --- Shared DTOs ---

// UserDTO is the outward representation of a user. The password hash never
// leaves the service layer.
type UserDTO struct {
	ID            string    `json:"id"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	IsActive      bool      `json:"isActive"`
	EmailVerified bool      `json:"emailVerified"`
	PhoneVerified bool      `json:"phoneVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AuthBody is the common response body for flows that end in a signed-in user.
type AuthBody struct {
	User   UserDTO   `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// AuthResponse wraps AuthBody for huma.
type AuthResponse struct {
	Body AuthBody
}

// MessageResponse is a simple confirmation body.
type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func toUserDTO(u *User) UserDTO {
	return UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Phone:         u.Phone,
		Name:          u.Name,
		Role:          string(u.Role),
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		CreatedAt:     u.CreatedAt,
	}
}

func toAuthResponse(res *AuthResult) *AuthResponse {
	return &AuthResponse{Body: AuthBody{
		User:   toUserDTO(res.User),
		Tokens: res.Tokens,
	}}
}

func messageResponse(msg string) *MessageResponse {
	resp := &MessageResponse{}
	resp.Body.Message = msg
	return resp
}
