package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LISTEN", "")
	t.Setenv("AI_MODEL", "")
	t.Setenv("GOOGLE_CALENDAR_ID", "")
	t.Setenv("BUSYHUB_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.AIModel != "openai/gpt-4o-mini" {
		t.Errorf("AIModel = %q", cfg.AIModel)
	}
	if cfg.GoogleCalendarID != "primary" {
		t.Errorf("GoogleCalendarID = %q", cfg.GoogleCalendarID)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "busyhub.yaml")
	content := `
sources:
  - id: team
    name: Team calendar
    url: https://example.com/team.ics
digest_cron: "0 9 * * MON"
keywords:
  recurring:
    - retro
  external:
    - partner
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BUSYHUB_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.File.Sources) != 1 || cfg.File.Sources[0].ID != "team" {
		t.Errorf("Sources = %+v", cfg.File.Sources)
	}
	if cfg.File.DigestCron != "0 9 * * MON" {
		t.Errorf("DigestCron = %q", cfg.File.DigestCron)
	}
	if len(cfg.File.Keywords.Recurring) != 1 || cfg.File.Keywords.Recurring[0] != "retro" {
		t.Errorf("Keywords.Recurring = %v", cfg.File.Keywords.Recurring)
	}
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "busyhub.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BUSYHUB_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
