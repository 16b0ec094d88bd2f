package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	chimw "github.com/go-chi/chi/v5/middleware"

	authcore "github.com/trovekart/api-gateway/internal/auth"
	"github.com/trovekart/api-gateway/internal/contextx"
	"github.com/trovekart/api-gateway/internal/httpx"
)

// Func is the operation middleware shape huma.Middlewares is made of.
type Func = func(huma.Context, func(huma.Context))

// BearerAuth is a router-agnostic Huma middleware that validates the access
// token and injects the caller's identity into the request context.
//
// A request with no Authorization header at all is a malformed request (400);
// a present but unusable token is an authentication failure (401).
func BearerAuth(tokens *authcore.Issuer, logger *slog.Logger) Func {
	return func(ctx huma.Context, next func(huma.Context)) {
		r, w := humachi.Unwrap(ctx)

		writeProblem := func(status int, code, detail string) {
			p := &httpx.Problem{
				Type:      "urn:problem:auth/" + strings.ToLower(strings.ReplaceAll(code, "Err", "err-")),
				Title:     http.StatusText(status),
				Status:    status,
				Detail:    detail,
				Code:      code,
				RequestID: chimw.GetReqID(r.Context()),
			}
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(p.GetStatus())
			_ = json.NewEncoder(w).Encode(p)
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeProblem(http.StatusBadRequest, "ErrMissingToken", "no token provided")
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			writeProblem(http.StatusUnauthorized, "ErrInvalidToken", "invalid authorization header format")
			return
		}

		payload, err := tokens.VerifyAccess(tokenString)
		if err != nil {
			logger.Warn("rejected access token", "error", err)
			writeProblem(http.StatusUnauthorized, "ErrInvalidToken", "invalid or expired token")
			return
		}

		ctx = huma.WithValue(ctx, contextx.UserIDKey, payload.UserID)
		ctx = huma.WithValue(ctx, contextx.UserRoleKey, payload.Role)
		ctx = huma.WithValue(ctx, contextx.AccessTokenKey, tokenString)
		next(ctx)
	}
}
