package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig encapsulates all runtime configuration knobs.
type AppConfig struct {
	App           AppSettings
	HTTP          HTTPSettings
	Auth          AuthSettings
	Log           LogSettings
	Database      DatabaseSettings
	SMTP          SMTPSettings
	Notifications NotificationSettings
}

type AppSettings struct {
	Name        string
	Version     string
	Environment string
	// FrontendURL is the origin allowed by CORS and linked from emails.
	FrontendURL string
	// BackendURL is the public base of this API, used to build signature links.
	BackendURL string
}

type HTTPSettings struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type AuthSettings struct {
	// JWTSecret signs and verifies the HS256 tokens issued at login.
	JWTSecret string
	TokenTTL  time.Duration
}

type LogSettings struct {
	Level string
}

type DatabaseSettings struct {
	// URL takes precedence over the discrete fields when set.
	URL             string
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MinConns        int
	ConnMaxLifetime time.Duration
	RunMigrations   bool
}

type SMTPSettings struct {
	Host     string
	Port     int
	User     string
	Password string
	// From is the sender identity on outbound mail.
	From string
	// SupportEmail receives the staff copy of every claim.
	SupportEmail string
}

type NotificationSettings struct {
	Workers   int
	QueueSize int
	// SendDelay throttles deliveries, useful against strict SMTP relays.
	SendDelay time.Duration
}

// Load resolves the application configuration from environment variables.
// It first attempts to load variables from a .env file if it exists.
// Environment variables set in the system take precedence over .env file values.
func Load() (AppConfig, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	// This allows the application to work both with .env files (local dev)
	// and environment variables (Docker, production)
	_ = godotenv.Load()

	cfg := AppConfig{
		App: AppSettings{
			Name:        getEnv("APP_NAME", "libro-reclamaciones"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:4321"),
			BackendURL:  getEnv("BACKEND_URL", "http://localhost:3001"),
		},
		HTTP: HTTPSettings{
			Port:            getEnvAsInt("PORT", 3001),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvAsDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Auth: AuthSettings{
			JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
			TokenTTL:  getEnvAsDuration("JWT_TOKEN_TTL", 24*time.Hour),
		},
		Log: LogSettings{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseSettings{
			URL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Database:        getEnv("DB_NAME", "libro_reclamaciones"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			RunMigrations:   getEnvAsBool("DB_RUN_MIGRATIONS", false),
		},
		SMTP: SMTPSettings{
			Host:         getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:         getEnvAsInt("SMTP_PORT", 465),
			User:         strings.TrimSpace(os.Getenv("SMTP_USER")),
			Password:     strings.TrimSpace(os.Getenv("SMTP_PASS")),
			From:         getEnv("SMTP_FROM", "Libro de Reclamaciones CODEPLEX"),
			SupportEmail: getEnv("SUPPORT_EMAIL", "soporte@codeplex.pe"),
		},
		Notifications: NotificationSettings{
			Workers:   getEnvAsInt("NOTIFICATION_WORKERS", 2),
			QueueSize: getEnvAsInt("NOTIFICATION_QUEUE_SIZE", 64),
			SendDelay: getEnvAsDuration("NOTIFICATION_SEND_DELAY", 0),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return cfg, errors.New("invalid config: JWT_SECRET is required")
	}
	if cfg.Notifications.Workers < 1 {
		return cfg, errors.New("invalid config: NOTIFICATION_WORKERS must be greater than 0")
	}
	if cfg.Notifications.QueueSize < 1 {
		return cfg, errors.New("invalid config: NOTIFICATION_QUEUE_SIZE must be greater than 0")
	}

	return cfg, nil
}

// Address returns the HTTP listen address in host:port form.
func (h HTTPSettings) Address() string {
	return fmt.Sprintf(":%d", h.Port)
}

// ConnString builds a pgx connection string from the discrete fields, or
// returns the explicit DATABASE_URL when one was provided.
func (d DatabaseSettings) ConnString() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// IsDevelopment reports whether the app runs in a local/dev environment.
func (a AppSettings) IsDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(a.Environment)) {
	case "local", "dev", "development":
		return true
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
