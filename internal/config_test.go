package internal

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "s3cret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestKanekiConfig_RejectsBadURL(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Kaneki.BaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid base URL should fail validation")
	}
}

func TestKanekiConfig_NegativeTimeout(t *testing.T) {
	cfg := KanekiConfig{BaseURL: "http://localhost:3595", Timeout: -time.Second}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative timeout should fail validation")
	}
}

func TestSettingsConfig_Backend(t *testing.T) {
	cfg := SettingsConfig{Path: "data.json"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty backend should default to file: %v", err)
	}
	if cfg.Backend != SettingsBackendFile {
		t.Errorf("backend = %q", cfg.Backend)
	}

	cfg = SettingsConfig{Backend: "redis", Path: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown backend should fail")
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	cfg := HTTPConfig{Host: "127.0.0.1", Port: 3596}
	if got := cfg.Address(); got != "127.0.0.1:3596" {
		t.Errorf("address = %q", got)
	}
}
