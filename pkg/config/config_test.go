package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("storage type = %q, want memory", cfg.Storage.Type)
	}
	if cfg.RateLimit.Capacity != 50 || cfg.RateLimit.RefillRate != 25 {
		t.Errorf("rate limit = %d/%g, want 50/25", cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
	}
	if !cfg.Observability.Metrics.Enabled || cfg.Observability.Metrics.Path != "/metrics" {
		t.Errorf("metrics = %+v, want enabled at /metrics", cfg.Observability.Metrics)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9100
  read_timeout: 10s
rate_limit:
  capacity: 5
  refill_rate: 2.5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read timeout = %v, want 10s", cfg.Server.ReadTimeout)
	}
	if cfg.RateLimit.Capacity != 5 || cfg.RateLimit.RefillRate != 2.5 {
		t.Errorf("rate limit = %d/%g, want 5/2.5", cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("write timeout = %v, want default 30s", cfg.Server.WriteTimeout)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeTempConfig(t, "server:\n  port: 9100\n")
	t.Setenv("PARLEY_PORT", "9200")
	t.Setenv("PARLEY_RATE_CAPACITY", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9200 {
		t.Errorf("port = %d, want env override 9200", cfg.Server.Port)
	}
	if cfg.RateLimit.Capacity != 3 {
		t.Errorf("capacity = %d, want env override 3", cfg.RateLimit.Capacity)
	}
}

func TestLoad_DSNFileResolution(t *testing.T) {
	dsnPath := filepath.Join(t.TempDir(), "dsn")
	if err := os.WriteFile(dsnPath, []byte("postgres://parley:secret@db/parley\n"), 0o600); err != nil {
		t.Fatalf("writing dsn file: %v", err)
	}
	path := writeTempConfig(t, `
storage:
  type: postgres
  postgres:
    dsn_file: `+dsnPath+`
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.Postgres.DSN != "postgres://parley:secret@db/parley" {
		t.Errorf("dsn = %q, want trimmed file content", cfg.Storage.Postgres.DSN)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad port", "server:\n  port: 70000\n"},
		{"bad storage type", "storage:\n  type: sqlite\n"},
		{"postgres without dsn", "storage:\n  type: postgres\n"},
		{"zero capacity", "rate_limit:\n  capacity: 0\n"},
		{"negative refill", "rate_limit:\n  refill_rate: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeTempConfig(t, tt.yaml)); err == nil {
				t.Error("Load = nil error, want validation failure")
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load = nil error, want read failure for explicit path")
	}
}
