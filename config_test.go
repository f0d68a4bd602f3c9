package gridplan

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Name != "Grid Planner" || cfg.Addr != ":3000" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxUploadSize != 10<<20 || cfg.UploadsPerMinute != 60 {
		t.Errorf("unexpected upload defaults: %+v", cfg)
	}
	if cfg.WorkspaceTTL != 2*time.Hour || cfg.DecodeWorkers != 4 {
		t.Errorf("unexpected workspace defaults: %+v", cfg)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridplan.yaml")
	data := `name: My Planner
addr: ":8080"
cookie_secure: true
workspace_ttl: 30m
decode_workers: 2
log:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAddr, ":9090")
	t.Setenv(EnvMaxUploadSize, "2048")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "My Planner" {
		t.Errorf("expected name from file, got %q", cfg.Name)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("env should override file addr, got %q", cfg.Addr)
	}
	if !cfg.CookieSecure || cfg.WorkspaceTTL != 30*time.Minute || cfg.DecodeWorkers != 2 {
		t.Errorf("unexpected file values: %+v", cfg)
	}
	if cfg.MaxUploadSize != 2048 {
		t.Errorf("expected max upload size from env, got %d", cfg.MaxUploadSize)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("addr: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Errorf("expected parse error")
	}

	t.Setenv(EnvWorkspaceTTL, "soon")
	if _, err := LoadConfig(""); err == nil {
		t.Errorf("expected error for bad duration")
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("GRIDPLAN_TEST_VALUE", "set")
	if got := EnvOr("GRIDPLAN_TEST_VALUE", "fallback"); got != "set" {
		t.Errorf("expected set, got %q", got)
	}
	if got := EnvOr("GRIDPLAN_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}
