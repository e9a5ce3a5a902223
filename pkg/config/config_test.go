package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NEXTRIDE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine.CacheTTL() != 25*time.Second {
		t.Errorf("unexpected cache TTL %v", cfg.Engine.CacheTTL())
	}
	if cfg.Engine.MatchTolerance() != 2*time.Hour {
		t.Errorf("unexpected match tolerance %v", cfg.Engine.MatchTolerance())
	}
	if cfg.Engine.Window() != time.Hour {
		t.Errorf("unexpected window %v", cfg.Engine.Window())
	}
	if cfg.Engine.MaxResults != 25 {
		t.Errorf("unexpected max results %d", cfg.Engine.MaxResults)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nextride.yaml")
	contents := `
engine:
  cacheTTLSeconds: 30
  maxResults: 10
siri:
  endpoint: http://siri.example.com/SiriWS.asmx
  userKey: TEST123
`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NEXTRIDE_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine.CacheTTLSeconds != 30 {
		t.Errorf("unexpected cache TTL seconds %d", cfg.Engine.CacheTTLSeconds)
	}
	if cfg.Engine.MaxResults != 10 {
		t.Errorf("unexpected max results %d", cfg.Engine.MaxResults)
	}
	// Untouched values keep their defaults.
	if cfg.Engine.WindowMinutes != 60 {
		t.Errorf("unexpected window minutes %d", cfg.Engine.WindowMinutes)
	}
	if cfg.SIRI.Endpoint != "http://siri.example.com/SiriWS.asmx" {
		t.Errorf("unexpected endpoint %q", cfg.SIRI.Endpoint)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nextride.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  cacheTTLSeconds: 30\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NEXTRIDE_CONFIG", path)
	t.Setenv("NEXTRIDE_CACHE_TTL_SECONDS", "99")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine.CacheTTLSeconds != 99 {
		t.Errorf("environment should win over the file, got %d", cfg.Engine.CacheTTLSeconds)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("NEXTRIDE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("NEXTRIDE_CACHE_TTL_SECONDS", "-5")

	if _, err := Load(); err == nil {
		t.Error("expected a validation error for a negative TTL")
	}
}

func TestLoadRejectsInvalidEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nextride.yaml")
	if err := os.WriteFile(path, []byte("siri:\n  endpoint: not-a-url\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NEXTRIDE_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Error("expected a validation error for a malformed endpoint")
	}
}
