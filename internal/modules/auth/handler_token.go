package auth

import (
	"context"

	"github.com/trovekart/api-gateway/internal/contextx"
	"github.com/trovekart/api-gateway/internal/httpx"
	"github.com/trovekart/api-gateway/internal/validation"
)

// RefreshRequest defines the token rotation request body.
type RefreshRequest struct {
	Body struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
}

// RefreshResponse carries the freshly rotated pair.
type RefreshResponse struct {
	Body struct {
		Tokens TokenPair `json:"tokens"`
	}
}

// RefreshHandler rotates a refresh token into a new pair.
func (h *Handler) RefreshHandler(ctx context.Context, input *RefreshRequest) (*RefreshResponse, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	tokens, err := h.service.Refresh(ctx, input.Body.RefreshToken)
	if err != nil {
		h.logger.WarnContext(ctx, "token refresh failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &RefreshResponse{}
	resp.Body.Tokens = tokens
	return resp, nil
}

// LogoutHandler revokes the session behind the presented bearer token. The
// auth middleware has already validated the token and stored it in context.
func (h *Handler) LogoutHandler(ctx context.Context, _ *struct{}) (*MessageResponse, error) {
	accessToken, _ := ctx.Value(contextx.AccessTokenKey).(string)
	if accessToken == "" {
		return nil, httpx.ToProblem(ctx, ErrMissingToken)
	}

	if err := h.service.Logout(ctx, accessToken); err != nil {
		h.logger.WarnContext(ctx, "logout failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return messageResponse("logged out"), nil
}
