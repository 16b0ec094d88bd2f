package store

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/trovekart/api-gateway/internal/contextx"
	"github.com/trovekart/api-gateway/internal/middleware"
)

// Handler serves the storefront gateway routes. Catalog routes are public;
// account routes require a bearer token and echo the authenticated identity.
//
// The catalog and order backends are separate services; until their proxies
// land these endpoints return empty collections so clients can integrate
// against the final shapes.
type Handler struct {
	logger *slog.Logger
	auth   middleware.Func
}

// NewHandler creates a new storefront handler.
func NewHandler(logger *slog.Logger, auth middleware.Func) *Handler {
	return &Handler{logger: logger, auth: auth}
}

// RegisterRoutes sets up the storefront routes.
func (h *Handler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "store-list-products",
		Method:      http.MethodGet,
		Path:        "/store/products",
		Summary:     "List products",
	}, h.ListProductsHandler)

	huma.Register(api, huma.Operation{
		OperationID: "store-list-orders",
		Method:      http.MethodGet,
		Path:        "/store/orders",
		Summary:     "List the current user's orders",
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: huma.Middlewares{h.auth},
	}, h.ListOrdersHandler)

	huma.Register(api, huma.Operation{
		OperationID: "store-me",
		Method:      http.MethodGet,
		Path:        "/store/me",
		Summary:     "Get the authenticated identity",
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: huma.Middlewares{h.auth},
	}, h.MeHandler)
}

// ProductsResponse is the (currently empty) product collection.
type ProductsResponse struct {
	Body struct {
		Products []any `json:"products"`
	}
}

// OrdersResponse is the (currently empty) order collection.
type OrdersResponse struct {
	Body struct {
		Orders []any `json:"orders"`
	}
}

// MeResponse echoes the identity the gateway resolved from the bearer token.
type MeResponse struct {
	Body struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
	}
}

// ListProductsHandler returns the product catalog.
func (h *Handler) ListProductsHandler(ctx context.Context, _ *struct{}) (*ProductsResponse, error) {
	resp := &ProductsResponse{}
	resp.Body.Products = []any{}
	return resp, nil
}

// ListOrdersHandler returns the caller's orders.
func (h *Handler) ListOrdersHandler(ctx context.Context, _ *struct{}) (*OrdersResponse, error) {
	resp := &OrdersResponse{}
	resp.Body.Orders = []any{}
	return resp, nil
}

// MeHandler returns the identity injected by the auth middleware.
func (h *Handler) MeHandler(ctx context.Context, _ *struct{}) (*MeResponse, error) {
	resp := &MeResponse{}
	resp.Body.UserID, _ = ctx.Value(contextx.UserIDKey).(string)
	resp.Body.Role, _ = ctx.Value(contextx.UserRoleKey).(string)
	return resp, nil
}
