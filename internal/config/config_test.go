package config

import (
	"testing"
	"time"

	apperrors "hotel-booking-account/backend/internal/platform/errors"
)

var configKeys = []string{
	"HTTP_ADDR", "GRPC_ADDR", "DATABASE_URL", "JWT_PRIVATE_KEY", "JWT_PUBLIC_KEY",
	"JWT_EXPIRATION", "JWT_ISSUER", "REFRESH_TOKEN_TTL", "REFRESH_TOKEN_ROTATION",
	"REFRESH_PURGE_INTERVAL", "BCRYPT_COST", "PERMISSION_CATALOG", "POLICY_FILE",
	"LOGIN_RATE_PER_MINUTE", "LOGIN_RATE_BURST", "TRUSTED_PROXIES", "KAFKA_BROKERS", "AUDIT_KAFKA_TOPIC", "OTEL_EXPORTER_OTLP_ENDPOINT",
	"OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SERVICE_NAME", "APP_ENV", "LOG_LEVEL",
}

// clearEnv blanks every config key for the test; viper ignores empty values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8081" {
		t.Errorf("HTTPAddr = %q, want :8081", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != ":9090" {
		t.Errorf("GRPCAddr = %q, want :9090", cfg.GRPCAddr)
	}
	if cfg.AccessTTL() != time.Hour {
		t.Errorf("AccessTTL = %v, want 1h", cfg.AccessTTL())
	}
	if cfg.RefreshTTL() != 168*time.Hour {
		t.Errorf("RefreshTTL = %v, want 168h", cfg.RefreshTTL())
	}
	if !cfg.RefreshTokenRotation {
		t.Error("RefreshTokenRotation should default to true")
	}
	if cfg.PurgeInterval() != 10*time.Minute {
		t.Errorf("PurgeInterval = %v, want 10m", cfg.PurgeInterval())
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.PermissionCatalog != CatalogStatic {
		t.Errorf("PermissionCatalog = %q, want static", cfg.PermissionCatalog)
	}
	if cfg.LoginRatePerMinute != 10 || cfg.LoginRateBurst != 5 {
		t.Errorf("login rate = %d/%d, want 10/5", cfg.LoginRatePerMinute, cfg.LoginRateBurst)
	}
	if cfg.OTelServiceName != "account-service" {
		t.Errorf("OTelServiceName = %q", cfg.OTelServiceName)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.JWTIssuer != "" {
		t.Errorf("JWTIssuer = %q, want empty", cfg.JWTIssuer)
	}
	if len(cfg.KafkaBrokerList()) != 0 || cfg.AuditKafkaTopic != "account-audit" {
		t.Errorf("kafka = %v / %q", cfg.KafkaBrokerList(), cfg.AuditKafkaTopic)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":8000")
	t.Setenv("JWT_EXPIRATION", "900000")
	t.Setenv("JWT_ISSUER", "account-service")
	t.Setenv("REFRESH_TOKEN_TTL", "0")
	t.Setenv("REFRESH_TOKEN_ROTATION", "false")
	t.Setenv("BCRYPT_COST", "14")
	t.Setenv("PERMISSION_CATALOG", "Policy")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.AccessTTL() != 15*time.Minute {
		t.Errorf("AccessTTL = %v, want 15m", cfg.AccessTTL())
	}
	if cfg.JWTIssuer != "account-service" {
		t.Errorf("JWTIssuer = %q", cfg.JWTIssuer)
	}
	if cfg.RefreshTTL() != 0 {
		t.Errorf("RefreshTTL = %v, want 0 (no expiry)", cfg.RefreshTTL())
	}
	if cfg.RefreshTokenRotation {
		t.Error("RefreshTokenRotation should be false")
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
	if cfg.PermissionCatalog != CatalogPolicy {
		t.Errorf("PermissionCatalog = %q, want policy", cfg.PermissionCatalog)
	}
}

func TestLoad_BCRYPT_COSTRange(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  int
		err   bool
	}{
		{"valid min", "4", 4, false},
		{"valid max", "31", 31, false},
		{"valid middle", "12", 12, false},
		{"too low", "3", 0, true},
		{"too high", "32", 0, true},
		{"zero", "0", 12, false}, // Should default to 12
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("BCRYPT_COST", tc.value)

			cfg, err := Load()
			if tc.err {
				if !apperrors.IsCode(err, apperrors.CodeConfiguration) {
					t.Fatalf("Load should return a configuration error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.BcryptCost != tc.want {
				t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, tc.want)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{"sub-second expiration", map[string]string{"JWT_EXPIRATION": "500"}},
		{"bad refresh ttl", map[string]string{"REFRESH_TOKEN_TTL": "soon"}},
		{"negative refresh ttl", map[string]string{"REFRESH_TOKEN_TTL": "-1h"}},
		{"unknown catalog", map[string]string{"PERMISSION_CATALOG": "ldap"}},
		{"database catalog without database", map[string]string{"PERMISSION_CATALOG": "database"}},
		{"bad trusted proxy", map[string]string{"TRUSTED_PROXIES": "10.0.0.0/8, gateway"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if !apperrors.IsCode(err, apperrors.CodeConfiguration) {
				t.Fatalf("want configuration error, got %v", err)
			}
			if cfg != nil {
				t.Error("Load should return nil config on error")
			}
		})
	}
}

func TestLoad_DatabaseCatalog(t *testing.T) {
	clearEnv(t)
	t.Setenv("PERMISSION_CATALOG", "database")
	t.Setenv("DATABASE_URL", "postgres://localhost/accounts")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PermissionCatalog != CatalogDatabase {
		t.Errorf("PermissionCatalog = %q", cfg.PermissionCatalog)
	}
}

func TestRequireSigningKeys(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireSigningKeys(); !apperrors.IsCode(err, apperrors.CodeConfiguration) {
		t.Fatalf("missing keys: want configuration error, got %v", err)
	}
	cfg.JWTPrivateKey = "/keys/private.pem"
	if err := cfg.RequireSigningKeys(); err == nil {
		t.Fatal("missing public key should fail")
	}
	cfg.JWTPublicKey = "/keys/public.pem"
	if err := cfg.RequireSigningKeys(); err != nil {
		t.Fatalf("RequireSigningKeys: %v", err)
	}
}

func TestPurgeInterval_InvalidDuration(t *testing.T) {
	cfg := &Config{RefreshPurgeInterval: "invalid"}
	if got := cfg.PurgeInterval(); got != 10*time.Minute {
		t.Errorf("PurgeInterval = %v, want 10m", got)
	}
}

func TestIsProduction(t *testing.T) {
	if !(&Config{Env: "Production"}).IsProduction() {
		t.Error("Production should match case-insensitively")
	}
	if (&Config{Env: "development"}).IsProduction() {
		t.Error("development is not production")
	}
}

func TestKafkaBrokerList(t *testing.T) {
	cfg := &Config{KafkaBrokers: " kafka-1:9092, ,kafka-2:9092,"}
	got := cfg.KafkaBrokerList()
	if len(got) != 2 || got[0] != "kafka-1:9092" || got[1] != "kafka-2:9092" {
		t.Errorf("KafkaBrokerList = %v", got)
	}
}

func TestParsedTrustedProxies(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tp, err := cfg.ParsedTrustedProxies()
	if err != nil {
		t.Fatalf("ParsedTrustedProxies: %v", err)
	}
	if !tp.Trusts("10.4.5.6") || !tp.Trusts("192.0.2.1") || tp.Trusts("203.0.113.7") {
		t.Errorf("unexpected trust set from %q", cfg.TrustedProxies)
	}
}
