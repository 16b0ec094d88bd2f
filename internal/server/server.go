package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authcore "github.com/trovekart/api-gateway/internal/auth"
	appmiddleware "github.com/trovekart/api-gateway/internal/middleware"
	"github.com/trovekart/api-gateway/internal/modules/auth"
	"github.com/trovekart/api-gateway/internal/modules/store"
)

// New creates and configures the gateway's HTTP router.
func New(log *slog.Logger, authService auth.Service, tokens *authcore.Issuer) chi.Router {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	apiConfig := huma.DefaultConfig("TroveKart API Gateway", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(router, apiConfig)

	bearerAuth := appmiddleware.BearerAuth(tokens, log)

	authHandler := auth.NewHandler(authService, log, bearerAuth)
	authHandler.RegisterRoutes(api)

	storeHandler := store.NewHandler(log, bearerAuth)
	storeHandler.RegisterRoutes(api)

	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health Check",
		Description: "Responds with the server's health status.",
	}, func(ctx context.Context, input *struct{}) (*struct {
		Body struct {
			Status string `json:"status"`
		}
	}, error) {
		resp := &struct {
			Body struct {
				Status string `json:"status"`
			}
		}{}
		resp.Body.Status = "ok"
		return resp, nil
	})

	return router
}
