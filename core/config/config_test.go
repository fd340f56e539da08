package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Report.MaxDetailsLen != 1000 {
		t.Fatalf("max_details_len = %d, want 1000", cfg.Report.MaxDetailsLen)
	}
	if cfg.Report.CooldownSeconds != 60 {
		t.Fatalf("cooldown_seconds = %d, want 60", cfg.Report.CooldownSeconds)
	}
	if cfg.Report.SessionIdleMinutes != 30 {
		t.Fatalf("session_idle_minutes = %d, want 30", cfg.Report.SessionIdleMinutes)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	if err := Normalize(&Config{}); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "Polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRejectsUnknownRunMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown run mode")
	}
}

func TestNormalizeWebhookRequiresEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestNormalizeDedupsAdminIDs(t *testing.T) {
	cfg := validConfig()
	cfg.Report.AdminIDs = []int64{10, 0, 20, 10, 20}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(cfg.Report.AdminIDs) != 2 || cfg.Report.AdminIDs[0] != 10 || cfg.Report.AdminIDs[1] != 20 {
		t.Fatalf("admin_ids = %v, want [10 20]", cfg.Report.AdminIDs)
	}
}

func TestNormalizeRejectsNegativeReportValues(t *testing.T) {
	cfg := validConfig()
	cfg.Report.MaxDetailsLen = -1
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for negative max_details_len")
	}

	cfg = validConfig()
	cfg.Report.SessionIdleMinutes = -5
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for negative session_idle_minutes")
	}
}

func TestNormalizeValidatesExcludeUpdates(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback "}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Fatalf("exclude_updates = %v", cfg.RateLimit.ExcludeUpdates)
	}

	cfg = validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"edited_message"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unsupported update type")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
telegram:
  token: "123:abc"
report:
  admin_ids: [11, 22]
  channel_id: "@reports"
  cooldown_seconds: 90
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Report.ChannelID != "@reports" {
		t.Fatalf("channel_id = %q", cfg.Report.ChannelID)
	}
	if cfg.Report.CooldownSeconds != 90 {
		t.Fatalf("cooldown_seconds = %d, want 90", cfg.Report.CooldownSeconds)
	}
	if len(cfg.Report.AdminIDs) != 2 {
		t.Fatalf("admin_ids = %v", cfg.Report.AdminIDs)
	}
	if cfg.Report.MaxDetailsLen != 1000 {
		t.Fatalf("max_details_len default = %d", cfg.Report.MaxDetailsLen)
	}
}
