// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :3000). PORT, when set, wins as ":<PORT>".
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// Port is the bare port some platforms inject instead of a full address.
	Port string `mapstructure:"PORT"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// DBMaxOpenConns caps the connection pool; 0 means unlimited.
	DBMaxOpenConns int `mapstructure:"DB_MAX_OPEN_CONNS"`
	// DBMaxIdleConns caps idle pooled connections.
	DBMaxIdleConns int `mapstructure:"DB_MAX_IDLE_CONNS"`
	// MigrateOnStart applies pending migrations before the server starts listening.
	MigrateOnStart bool `mapstructure:"MIGRATE_ON_START"`

	// JWTSecret is the HMAC signing secret (HS256). Required unless a key pair is configured.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; used with JWT_PUBLIC_KEY for RS256/ES256.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; used with JWT_PRIVATE_KEY.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the iss claim.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim.
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is the minimum zap level (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// ShutdownTimeout bounds graceful shutdown (e.g. "15s").
	ShutdownTimeout string `mapstructure:"SHUTDOWN_TIMEOUT"`

	// OTLPEndpoint is the OTLP gRPC collector endpoint; empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces a plaintext OTLP connection even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// ServiceName is reported as service.name on traces and metrics.
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
}

const minProductionSecretLen = 32

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("PORT", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("MIGRATE_ON_START", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_ISSUER", "org-membership-service")
	v.SetDefault("JWT_AUDIENCE", "org-membership-api")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "org-membership-service")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if p := strings.TrimSpace(cfg.Port); p != "" {
		cfg.HTTPAddr = ":" + strings.TrimPrefix(p, ":")
	}
	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	hasKeys := cfg.JWTPrivateKey != "" || cfg.JWTPublicKey != ""
	if hasKeys && (cfg.JWTPrivateKey == "" || cfg.JWTPublicKey == "") {
		return nil, errors.New("config: JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must be set together")
	}
	if !hasKeys && cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET (or JWT_PRIVATE_KEY/JWT_PUBLIC_KEY) must be set")
	}
	if !hasKeys && cfg.IsProduction() && len(cfg.JWTSecret) < minProductionSecretLen {
		return nil, errors.New("config: JWT_SECRET must be at least 32 bytes when APP_ENV=production")
	}

	return &cfg, nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// UsesKeyPair reports whether tokens are signed with an asymmetric key pair instead of JWT_SECRET.
func (c *Config) UsesKeyPair() bool {
	return c.JWTPrivateKey != "" && c.JWTPublicKey != ""
}

// GracefulTimeout parses ShutdownTimeout. Returns 15s if unset or invalid.
func (c *Config) GracefulTimeout() time.Duration {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}
