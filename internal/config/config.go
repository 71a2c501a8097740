package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"debug"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	// Database (PostgreSQL)
	DBHost        string        `envconfig:"DB_HOST" required:"true"`
	DBPort        string        `envconfig:"DB_PORT" required:"true"`
	DBUser        string        `envconfig:"DB_USER" required:"true"`
	DBName        string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_IDLE_TIMEOUT" default:"5m"`
	// Secret field, loaded from a secrets file, not from env
	DBPassword string

	// Redis (JWT revocation store and rate limit buckets)
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`
	// Secret field, loaded from a secrets file when present
	RedisPassword string

	// JWT settings; secrets loaded from files
	JWTSecret       string
	PasswordPepper  string
	AccessTokenTTL  time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"JWT_REFRESH_TOKEN_TTL" default:"168h"` // 7 days

	// Email verification / password reset token windows
	VerificationTokenTTL time.Duration `envconfig:"VERIFICATION_TOKEN_TTL" default:"24h"`
	ResetTokenTTL        time.Duration `envconfig:"RESET_TOKEN_TTL" default:"60m"`
	TokenPurgeInterval   time.Duration `envconfig:"TOKEN_PURGE_INTERVAL" default:"1h"`

	// AI answering backend
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"openai"` // openai or ollama
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AIModel      string        `envconfig:"AI_MODEL" default:"google/gemini-2.0-flash-001"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"20s"`
	// Secret field, loaded from a secrets file when present
	AIAPIKey string

	// Outbound email (SMTP)
	SMTPHost string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER"`
	SMTPFrom string `envconfig:"SMTP_FROM" default:"noreply@guessgame.local"`
	// Secret field, loaded from a secrets file when present
	SMTPPassword string
	// FrontendBaseURL is used to build verification and reset links.
	FrontendBaseURL string `envconfig:"FRONTEND_BASE_URL" default:"http://localhost:3000"`
	// ContactRecipient receives contact form submissions.
	ContactRecipient string `envconfig:"CONTACT_RECIPIENT" default:"support@guessgame.local"`

	// reCAPTCHA v3
	RecaptchaEnabled   bool    `envconfig:"RECAPTCHA_ENABLED" default:"false"`
	RecaptchaThreshold float64 `envconfig:"RECAPTCHA_THRESHOLD" default:"0.5"`
	// Secret field, loaded from a secrets file when present
	RecaptchaSecret string

	// Rate limiting (Redis-backed buckets)
	RateLimitGeneral   int           `envconfig:"RATE_LIMIT_GENERAL" default:"100"`
	RateLimitPeriod    time.Duration `envconfig:"RATE_LIMIT_PERIOD" default:"1h"`
	RateLimitQuestions int           `envconfig:"RATE_LIMIT_QUESTIONS" default:"20"`

	// CORS settings
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// LoadConfig loads configuration from environment variables and secrets.
func LoadConfig(envFilePath string) (*Config, error) {
	if _, err := os.Stat(envFilePath); err == nil {
		if err := godotenv.Load(envFilePath); err != nil {
			log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
		} else {
			log.Printf("Loaded configuration from %s", envFilePath)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	// Required secrets
	var loadErr error
	cfg.DBPassword, loadErr = readSecret("db_password")
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.JWTSecret, loadErr = readSecret("jwt_secret")
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.PasswordPepper, loadErr = readSecret("password_pepper")
	if loadErr != nil {
		return nil, loadErr
	}

	// Optional secrets: absence just leaves the field empty
	for _, opt := range []struct {
		name   string
		target *string
	}{
		{"redis_password", &cfg.RedisPassword},
		{"ai_api_key", &cfg.AIAPIKey},
		{"smtp_password", &cfg.SMTPPassword},
		{"recaptcha_secret", &cfg.RecaptchaSecret},
	} {
		value, err := readSecret(opt.name)
		if err == nil {
			*opt.target = value
			log.Printf("Secret '%s' loaded from file.", opt.name)
		} else {
			log.Printf("Optional secret '%s' not found or failed to read: %v.", opt.name, err)
		}
	}

	log.Println("Configuration loaded successfully (secrets read from files).")
	return &cfg, nil
}
