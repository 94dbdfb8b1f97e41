package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	StorageBackend string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	LogLevel       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Bootstrap admin created at startup when all three are set.
	AdminEmail        string
	AdminPassword     string
	AdminOrganization string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	ReportCacheTTL time.Duration
	RateLimit      string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	ReceiptsBucket     string

	AMQPURL      string
	AMQPExchange string

	// Warnings collects fallbacks applied while loading; they are logged once a logger exists.
	Warnings []string
}

func (c *Config) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func (c *Config) duration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			c.warn("invalid value for %s (%q), defaulting to %s", key, raw, fallback)
		}
		return fallback
	}
	return d
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("STORAGE_BACKEND", StoragePostgres)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("READ_TIMEOUT", "15s")
	viper.SetDefault("WRITE_TIMEOUT", "30s")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "pettycash-backend")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REPORT_CACHE_TTL", "5m")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AMQP_EXCHANGE", "pettycash.records")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		StorageBackend:     strings.ToLower(viper.GetString("STORAGE_BACKEND")),
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      viper.GetBool("ENABLE_DB_CHECK"),
		LogLevel:           viper.GetString("LOG_LEVEL"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		JWTIssuer:          viper.GetString("JWT_ISSUER"),
		AdminEmail:         viper.GetString("ADMIN_EMAIL"),
		AdminPassword:      viper.GetString("ADMIN_PASSWORD"),
		AdminOrganization:  viper.GetString("ADMIN_ORGANIZATION"),
		GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		FrontendBaseURL:    viper.GetString("FRONTEND_BASE_URL"),
		RedisAddr:          viper.GetString("REDIS_ADDR"),
		RedisPassword:      viper.GetString("REDIS_PASSWORD"),
		RedisDB:            viper.GetInt("REDIS_DB"),
		RateLimit:          viper.GetString("RATE_LIMIT"),
		AWSRegion:          viper.GetString("AWS_REGION"),
		AWSAccessKeyID:     viper.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: viper.GetString("AWS_SECRET_ACCESS_KEY"),
		ReceiptsBucket:     viper.GetString("RECEIPTS_BUCKET"),
		AMQPURL:            viper.GetString("AMQP_URL"),
		AMQPExchange:       viper.GetString("AMQP_EXCHANGE"),
	}

	cfg.ReadTimeout = cfg.duration("READ_TIMEOUT", 15*time.Second)
	cfg.WriteTimeout = cfg.duration("WRITE_TIMEOUT", 30*time.Second)
	cfg.JWTExpiryDuration = cfg.duration("JWT_EXPIRY_DURATION", time.Hour)
	cfg.ReportCacheTTL = cfg.duration("REPORT_CACHE_TTL", 5*time.Minute)

	switch cfg.StorageBackend {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_BACKEND is %q", StoragePostgres)
		}
	case StorageMemory:
		cfg.warn("STORAGE_BACKEND=memory: data is lost on restart")
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		cfg.warn("PORT not set, defaulting to %s", cfg.Port)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret
		cfg.warn("JWT_SECRET not set, using default insecure key")
	}

	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		cfg.warn("Google OAuth is not fully configured and will not function")
	}

	return cfg, nil
}

// GoogleOAuthEnabled reports whether every Google OAuth setting is present.
func (c *Config) GoogleOAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}
