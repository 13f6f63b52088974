package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Notify.WSPath != "/api/ws" {
		t.Errorf("WSPath = %q, want /api/ws", cfg.Notify.WSPath)
	}
	if cfg.Notify.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.Notify.PollInterval)
	}
	if cfg.IsProduction() {
		t.Error("IsProduction() = true for default env")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENV", "production")
	t.Setenv("POLL_INTERVAL", "2s")
	t.Setenv("WS_SEND_BUFFER", "32")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Server.Port)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false with ENV=production")
	}
	if cfg.Notify.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.Notify.PollInterval)
	}
	if cfg.Notify.SendBufferLen != 32 {
		t.Errorf("SendBufferLen = %d, want 32", cfg.Notify.SendBufferLen)
	}
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")
	t.Setenv("WS_SEND_BUFFER", "-4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Notify.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s fallback", cfg.Notify.PollInterval)
	}
	if cfg.Notify.SendBufferLen != 256 {
		t.Errorf("SendBufferLen = %d, want 256 fallback", cfg.Notify.SendBufferLen)
	}
}
