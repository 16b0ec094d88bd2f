package auth

import (
	"context"
	"net/http"

	"github.com/trovekart/api-gateway/internal/httpx"
)

// OAuthAuthorizeRequest identifies the provider to start a web flow with.
type OAuthAuthorizeRequest struct {
	Provider string `path:"provider"`
}

// OAuthAuthorizeResponse redirects the browser to the provider's consent page.
type OAuthAuthorizeResponse struct {
	Status   int
	Location string `header:"Location"`
}

// OAuthCallbackRequest carries the provider's redirect parameters.
type OAuthCallbackRequest struct {
	Provider string `path:"provider"`
	State    string `query:"state"`
	Code     string `query:"code"`
}

// OAuthAuthorizeHandler starts the OAuth web flow with a 302 to the provider.
func (h *Handler) OAuthAuthorizeHandler(ctx context.Context, input *OAuthAuthorizeRequest) (*OAuthAuthorizeResponse, error) {
	url, err := h.service.InitiateOAuthLogin(ctx, input.Provider)
	if err != nil {
		h.logger.WarnContext(ctx, "oauth initiation failed", "provider", input.Provider, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return &OAuthAuthorizeResponse{
		Status:   http.StatusFound,
		Location: url,
	}, nil
}

// OAuthCallbackHandler completes the OAuth web flow and signs the user in.
func (h *Handler) OAuthCallbackHandler(ctx context.Context, input *OAuthCallbackRequest) (*AuthResponse, error) {
	if input.State == "" || input.Code == "" {
		return nil, httpx.ToProblem(ctx, ErrOAuthStateInvalid)
	}

	res, err := h.service.CompleteOAuthLogin(ctx, input.Provider, input.State, input.Code)
	if err != nil {
		h.logger.WarnContext(ctx, "oauth callback failed", "provider", input.Provider, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return toAuthResponse(res), nil
}
