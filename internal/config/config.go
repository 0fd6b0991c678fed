// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"hotel-booking-account/backend/internal/audit"
	apperrors "hotel-booking-account/backend/internal/platform/errors"
)

// Permission catalog backings selectable with PERMISSION_CATALOG.
const (
	CatalogStatic   = "static"
	CatalogDatabase = "database"
	CatalogPolicy   = "policy"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the REST API listens on (e.g. :8081).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// GRPCAddr is the address the gRPC health and interceptor surface listens on (e.g. :9090).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN. Empty runs with in-memory stores seeded with demo accounts.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// JWTPrivateKey is the PEM-encoded PKCS8 RSA private key or a path to it.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded PKIX RSA public key or a path to it.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTExpirationMs is the access token lifetime in milliseconds.
	JWTExpirationMs int64 `mapstructure:"JWT_EXPIRATION"`
	// JWTIssuer is the optional iss claim. When set, tokens without it are rejected.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`

	// RefreshTokenTTL is the refresh token lifetime (e.g. "168h"); "0" disables expiry.
	RefreshTokenTTL string `mapstructure:"REFRESH_TOKEN_TTL"`
	// RefreshTokenRotation makes every refresh consume the presented token.
	RefreshTokenRotation bool `mapstructure:"REFRESH_TOKEN_ROTATION"`
	// RefreshPurgeInterval is how often expired refresh tokens are deleted.
	RefreshPurgeInterval string `mapstructure:"REFRESH_PURGE_INTERVAL"`

	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// PermissionCatalog selects the role to permission source: static, database or policy.
	PermissionCatalog string `mapstructure:"PERMISSION_CATALOG"`
	// PolicyFile is an optional Rego module replacing the generated default policy.
	PolicyFile string `mapstructure:"POLICY_FILE"`

	// LoginRatePerMinute and LoginRateBurst bound credential attempts per client IP.
	LoginRatePerMinute int `mapstructure:"LOGIN_RATE_PER_MINUTE"`
	LoginRateBurst     int `mapstructure:"LOGIN_RATE_BURST"`
	// TrustedProxies is a comma-separated list of proxy addresses or CIDRs whose
	// X-Forwarded-For and X-Real-IP headers are believed. Empty trusts none.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`

	// KafkaBrokers is a comma-separated broker list. When set, audit events are
	// also published to AuditKafkaTopic.
	KafkaBrokers    string `mapstructure:"KAFKA_BROKERS"`
	AuditKafkaTopic string `mapstructure:"AUDIT_KAFKA_TOPIC"`

	// OTel export. An empty endpoint keeps providers local.
	OTelEndpoint    string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelInsecure    bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	OTelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns a configuration error if
// a field is invalid. Signing keys are checked separately by RequireSigningKeys.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8081")
	v.SetDefault("GRPC_ADDR", ":9090")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_EXPIRATION", 3600000) // 1h
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h") // 7d
	v.SetDefault("REFRESH_TOKEN_ROTATION", true)
	v.SetDefault("REFRESH_PURGE_INTERVAL", "10m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("PERMISSION_CATALOG", CatalogStatic)
	v.SetDefault("POLICY_FILE", "")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("LOGIN_RATE_BURST", 5)
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("AUDIT_KAFKA_TOPIC", "account-audit")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "account-service")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Configuration("config: "+err.Error(), err)
	}

	if cfg.HTTPAddr == "" {
		return nil, apperrors.Configuration("config: HTTP_ADDR must be set", nil)
	}
	if cfg.GRPCAddr == "" {
		return nil, apperrors.Configuration("config: GRPC_ADDR must be set", nil)
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, apperrors.Configuration("config: BCRYPT_COST must be between 4 and 31", nil)
	}

	if cfg.JWTExpirationMs < 1000 {
		return nil, apperrors.Configuration("config: JWT_EXPIRATION must be at least 1000 ms", nil)
	}
	if _, err := parseDuration(cfg.RefreshTokenTTL); err != nil {
		return nil, apperrors.Configuration("config: REFRESH_TOKEN_TTL must be a duration", err)
	}

	cfg.PermissionCatalog = strings.ToLower(strings.TrimSpace(cfg.PermissionCatalog))
	switch cfg.PermissionCatalog {
	case CatalogStatic, CatalogPolicy:
	case CatalogDatabase:
		if cfg.DatabaseURL == "" {
			return nil, apperrors.Configuration("config: PERMISSION_CATALOG=database requires DATABASE_URL", nil)
		}
	default:
		return nil, apperrors.Configuration("config: PERMISSION_CATALOG must be static, database or policy", nil)
	}

	if _, err := cfg.ParsedTrustedProxies(); err != nil {
		return nil, apperrors.Configuration("config: TRUSTED_PROXIES: "+err.Error(), err)
	}

	if len(cfg.KafkaBrokerList()) > 0 && strings.TrimSpace(cfg.AuditKafkaTopic) == "" {
		return nil, apperrors.Configuration("config: AUDIT_KAFKA_TOPIC must be set when KAFKA_BROKERS is", nil)
	}

	return &cfg, nil
}

// KafkaBrokerList splits KafkaBrokers on commas, dropping empty entries.
func (c *Config) KafkaBrokerList() []string {
	return splitList(c.KafkaBrokers)
}

// ParsedTrustedProxies parses TrustedProxies.
func (c *Config) ParsedTrustedProxies() (*audit.TrustedProxies, error) {
	return audit.ParseTrustedProxies(splitList(c.TrustedProxies))
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// RequireSigningKeys returns a configuration error unless both JWT keys are set.
func (c *Config) RequireSigningKeys() error {
	if strings.TrimSpace(c.JWTPrivateKey) == "" || strings.TrimSpace(c.JWTPublicKey) == "" {
		return apperrors.Configuration("config: JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must be set", nil)
	}
	return nil
}

// AccessTTL returns JWTExpirationMs as a time.Duration.
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTExpirationMs) * time.Millisecond
}

// RefreshTTL parses RefreshTokenTTL. Zero means refresh tokens never expire.
func (c *Config) RefreshTTL() time.Duration {
	d, err := parseDuration(c.RefreshTokenTTL)
	if err != nil {
		return 168 * time.Hour
	}
	return d
}

// PurgeInterval parses RefreshPurgeInterval. Returns 10m if unset or invalid.
func (c *Config) PurgeInterval() time.Duration {
	d, err := parseDuration(c.RefreshPurgeInterval)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, apperrors.New(apperrors.CodeInvalidInput, "negative duration")
	}
	return d, nil
}
