package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all the configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	OTP      OTPConfig
	Google   GoogleConfig
	SMTP     SMTPConfig
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig holds the Redis configuration.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// AuthConfig holds token signing configuration. Both secrets are mandatory:
// there is deliberately no built-in fallback value, so a misconfigured
// deployment fails at startup instead of signing tokens with a known key.
type AuthConfig struct {
	AccessTokenSecret  string `mapstructure:"accesssecret"`
	RefreshTokenSecret string `mapstructure:"refreshsecret"`
	AccessTTLMinutes   int    `mapstructure:"accessttlminutes"`
	RefreshTTLDays     int    `mapstructure:"refreshttldays"`
}

// OTPConfig controls one-time passcode issuance.
type OTPConfig struct {
	TTLMinutes            int `mapstructure:"ttlminutes"`
	ResendCooldownSeconds int `mapstructure:"resendcooldownseconds"`
}

// GoogleConfig holds OAuth client settings for the Google web flow.
type GoogleConfig struct {
	ClientID     string `mapstructure:"clientid"`
	ClientSecret string `mapstructure:"clientsecret"`
	RedirectURL  string `mapstructure:"redirecturl"`
}

// SMTPConfig holds outbound email settings.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Load creates a new Config object from environment variables and an optional
// .env file. It terminates the process when a required secret is missing.
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Load .env into the process environment so BindEnv picks up file-based values.
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ godotenv could not load .env: %v", err)
	}

	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("database.url", "DATABASE_URL")
	_ = viper.BindEnv("redis.url", "REDIS_URL")
	_ = viper.BindEnv("auth.accesssecret", "ACCESS_TOKEN_SECRET")
	_ = viper.BindEnv("auth.refreshsecret", "REFRESH_TOKEN_SECRET")
	_ = viper.BindEnv("auth.accessttlminutes", "ACCESS_TOKEN_TTL_MINUTES")
	_ = viper.BindEnv("auth.refreshttldays", "REFRESH_TOKEN_TTL_DAYS")
	_ = viper.BindEnv("otp.ttlminutes", "OTP_TTL_MINUTES")
	_ = viper.BindEnv("otp.resendcooldownseconds", "OTP_RESEND_COOLDOWN_SECONDS")
	_ = viper.BindEnv("google.clientid", "GOOGLE_CLIENT_ID")
	_ = viper.BindEnv("google.clientsecret", "GOOGLE_CLIENT_SECRET")
	_ = viper.BindEnv("google.redirecturl", "GOOGLE_REDIRECT_URL")
	_ = viper.BindEnv("smtp.host", "SMTP_HOST")
	_ = viper.BindEnv("smtp.port", "SMTP_PORT")
	_ = viper.BindEnv("smtp.username", "SMTP_USERNAME")
	_ = viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	_ = viper.BindEnv("smtp.from", "SMTP_FROM")

	if err := viper.ReadInConfig(); err != nil {
		// Proceed without a .env file as long as the environment carries the config.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("❌ Error reading config file: %s", err)
		} else {
			log.Printf("⚠️ .env file not found, relying on environment variables")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("❌ Unable to decode config into struct: %v", err)
	}

	// Signing secrets must be externally supplied. No insecure defaults.
	if cfg.Auth.AccessTokenSecret == "" {
		log.Fatal("❌ ACCESS_TOKEN_SECRET environment variable is not set")
	}
	if cfg.Auth.RefreshTokenSecret == "" {
		log.Fatal("❌ REFRESH_TOKEN_SECRET environment variable is not set")
	}

	// Defaults for everything else.
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Auth.AccessTTLMinutes <= 0 {
		cfg.Auth.AccessTTLMinutes = 15
	}
	if cfg.Auth.RefreshTTLDays <= 0 {
		cfg.Auth.RefreshTTLDays = 7
	}
	if cfg.OTP.TTLMinutes <= 0 {
		cfg.OTP.TTLMinutes = 10
	}
	if cfg.OTP.ResendCooldownSeconds <= 0 {
		cfg.OTP.ResendCooldownSeconds = 60
	}

	log.Println("✅ Configuration loaded successfully")
	return &cfg
}
