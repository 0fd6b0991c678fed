package migrate

import (
	"errors"
	"os"
	"testing"
)

func TestRun_EmptyDSN(t *testing.T) {
	for _, dsn := range []string{"", "   "} {
		if _, err := Run(dsn, Up, 0); err == nil {
			t.Errorf("Run(%q) should return error", dsn)
		}
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	for _, direction := range []string{"", "invalid", "both", "UP", "Up"} {
		t.Run(direction, func(t *testing.T) {
			if _, err := Run("postgres://localhost/test", direction, 0); err == nil {
				t.Errorf("Run with direction %q should return error", direction)
			}
		})
	}
}

func TestRun_NegativeSteps(t *testing.T) {
	if _, err := Run("postgres://localhost/test", Down, -1); err == nil {
		t.Fatal("negative steps should be rejected")
	}
}

func TestRun_InvalidDSN(t *testing.T) {
	testCases := []struct {
		name string
		dsn  string
	}{
		{"invalid format", "invalid-dsn"},
		{"missing driver", "://localhost/test"},
		{"spaces", "postgres://localhost with spaces/test"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Run(tc.dsn, Up, 0)
			if err == nil {
				t.Errorf("Run with invalid DSN %q should return error", tc.dsn)
			}
			if errors.Is(err, ErrNoChange) {
				t.Error("Run should never return ErrNoChange")
			}
		})
	}
}

func TestRun_UpThenNoChange(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	if _, err := Run(dsn, Up, 0); err != nil {
		t.Fatalf("Run up: %v", err)
	}
	res, err := Run(dsn, Up, 0)
	if err != nil {
		t.Fatalf("second Run up: %v", err)
	}
	if res.Changed || res.Dirty || res.Version == 0 {
		t.Errorf("second run = %+v, want unchanged clean schema", res)
	}
}
