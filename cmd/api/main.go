package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	authcore "github.com/trovekart/api-gateway/internal/auth"
	"github.com/trovekart/api-gateway/internal/cache"
	"github.com/trovekart/api-gateway/internal/config"
	"github.com/trovekart/api-gateway/internal/database"
	"github.com/trovekart/api-gateway/internal/modules/auth"
	"github.com/trovekart/api-gateway/internal/notification"
	"github.com/trovekart/api-gateway/internal/ratelimit"
	"github.com/trovekart/api-gateway/internal/server"
	"github.com/trovekart/api-gateway/internal/session"
)

// Options for the CLI.
type Options struct {
	Port int `help:"Port to listen on" short:"p" default:"8080"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		cfg := config.Load()
		logger.Info("configuration loaded", "env", cfg.Server.Env)

		// --- Database & Cache ---
		dbPool := database.NewPostgresPool(cfg.Database.URL)
		if dbPool == nil {
			logger.Error("failed to connect to postgres")
			os.Exit(1)
		}
		hooks.OnStop(dbPool.Close)
		logger.Info("successfully connected to postgres database")

		redisClient := cache.NewRedisClient(cfg.Redis.URL)
		if redisClient == nil {
			logger.Error("failed to connect to redis")
			os.Exit(1)
		}
		hooks.OnStop(func() { redisClient.Close() })
		logger.Info("successfully connected to redis")

		// --- Shared infrastructure ---
		tokens := authcore.NewIssuer(authcore.IssuerConfig{
			AccessSecret:  cfg.Auth.AccessTokenSecret,
			RefreshSecret: cfg.Auth.RefreshTokenSecret,
			AccessTTL:     time.Duration(cfg.Auth.AccessTTLMinutes) * time.Minute,
			RefreshTTL:    time.Duration(cfg.Auth.RefreshTTLDays) * 24 * time.Hour,
		})
		sessions := session.NewPostgresProvider(dbPool)
		notifier := notification.NewService(logger,
			notification.NewSMTPEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, logger),
			notification.NewDummySMSSender(logger),
		)
		cooldown := ratelimit.NewCooldown(redisClient,
			time.Duration(cfg.OTP.ResendCooldownSeconds)*time.Second)

		var googleOAuth *oauth2.Config
		if cfg.Google.ClientID != "" {
			googleOAuth = &oauth2.Config{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				RedirectURL:  cfg.Google.RedirectURL,
				Scopes:       []string{"openid", "email", "profile"},
				Endpoint:     google.Endpoint,
			}
		}

		// --- Module Initialization (Bottom-Up) ---
		authRepo := auth.NewRepository(dbPool)
		authService := auth.NewService(auth.ServiceConfig{
			Logger:   logger,
			Repo:     authRepo,
			Sessions: sessions,
			Tokens:   tokens,
			OTP:      authcore.NewOTPGenerator(),
			Notifier: notifier,
			Cooldown: cooldown,
			Redis:    redisClient,
			OTPTTL:   time.Duration(cfg.OTP.TTLMinutes) * time.Minute,
			Google:   googleOAuth,
		})

		router := server.New(logger, authService, tokens)
		hooks.OnStart(func() {
			logger.Info(fmt.Sprintf("Starting server on port %d...", options.Port))
			if err := http.ListenAndServe(fmt.Sprintf(":%d", options.Port), router); err != nil {
				slog.Error("Server failed to start", "error", err)
				os.Exit(1)
			}
		})
	})
	cli.Run()
}
