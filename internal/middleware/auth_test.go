package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authcore "github.com/trovekart/api-gateway/internal/auth"
	"github.com/trovekart/api-gateway/internal/contextx"
)

type whoamiBody struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// newProtectedAPI builds a minimal API with a single bearer-guarded route
// that echoes the identity the middleware injected.
func newProtectedAPI(issuer *authcore.Issuer) http.Handler {
	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("test", "0.0.1"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	huma.Register(api, huma.Operation{
		OperationID: "whoami",
		Method:      http.MethodGet,
		Path:        "/whoami",
		Middlewares: huma.Middlewares{BearerAuth(issuer, logger)},
	}, func(ctx context.Context, _ *struct{}) (*struct{ Body whoamiBody }, error) {
		resp := &struct{ Body whoamiBody }{}
		resp.Body.UserID, _ = ctx.Value(contextx.UserIDKey).(string)
		resp.Body.Role, _ = ctx.Value(contextx.UserRoleKey).(string)
		return resp, nil
	})
	return router
}

func testIssuer() *authcore.Issuer {
	return authcore.NewIssuer(authcore.IssuerConfig{
		AccessSecret:  "access-test-secret",
		RefreshSecret: "refresh-test-secret",
	})
}

func TestBearerAuthMissingHeader(t *testing.T) {
	handler := newProtectedAPI(testIssuer())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "ErrMissingToken", problem.Code)
}

func TestBearerAuthRejectsBadTokens(t *testing.T) {
	handler := newProtectedAPI(testIssuer())

	for name, header := range map[string]string{
		"not bearer":    "Basic abc123",
		"garbage token": "Bearer not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestBearerAuthRejectsRefreshToken(t *testing.T) {
	issuer := testIssuer()
	handler := newProtectedAPI(issuer)

	refresh, err := issuer.IssueRefresh(authcore.TokenPayload{UserID: "u-1", Role: "CUSTOMER"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuthInjectsIdentity(t *testing.T) {
	issuer := testIssuer()
	handler := newProtectedAPI(issuer)

	access, err := issuer.IssueAccess(authcore.TokenPayload{UserID: "u-1", Role: "SELLER"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body whoamiBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u-1", body.UserID)
	assert.Equal(t, "SELLER", body.Role)
}
