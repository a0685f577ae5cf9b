package appconfig

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.ConfigVersion != CurrentConfigVersion {
		t.Fatalf("expected config version %d, got %d", CurrentConfigVersion, cfg.ConfigVersion)
	}
	if cfg.Render.Color != "auto" {
		t.Fatalf("expected color auto, got %q", cfg.Render.Color)
	}
	if !strings.HasSuffix(cfg.Registry.File, "providers.json") {
		t.Fatalf("unexpected registry file: %q", cfg.Registry.File)
	}
	if !strings.HasSuffix(cfg.Keystore.Dir, "credentials") {
		t.Fatalf("unexpected keystore dir: %q", cfg.Keystore.Dir)
	}
	if cfg.HTTP.TimeoutSeconds <= 0 {
		t.Fatalf("expected positive http timeout, got %d", cfg.HTTP.TimeoutSeconds)
	}
}
