package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validSections() Sections {
	return Sections{
		"repository": {"User": "app", "Password": "pw", "Endpoint": "db", "Port": 3307, "Database": "pulse"},
		"slack":      {"BotToken": " xoxb-1 ", "AlertChannel": "COPS"},
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	cfg, err := Load(validSections())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Repository.Port != 3307 || cfg.Slack.BotToken != "xoxb-1" || cfg.Slack.AlertChannel != "COPS" {
		t.Fatalf("cfg = %+v", cfg)
	}
	s := cfg.Server
	if s.Port != DefaultPort || s.LogLevel != "info" || s.SearchLimit != 20 || s.SyncInterval != DefaultSyncInterval {
		t.Fatalf("server = %+v", s)
	}
}

func TestLoadMissingKey(t *testing.T) {
	sections := validSections()
	delete(sections["repository"], "Endpoint")
	_, err := Load(sections)
	if err == nil || !strings.Contains(err.Error(), "repository.Endpoint") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadBadNumber(t *testing.T) {
	sections := validSections()
	sections["server"] = map[string]interface{}{"SearchLimit": "many"}
	if _, err := Load(sections); err == nil || !strings.Contains(err.Error(), "server.SearchLimit") {
		t.Fatalf("err = %v", err)
	}
}

func TestServerPortEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	cfg, err := Load(validSections())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port = %s", cfg.Server.Port)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	path := filepath.Join(t.TempDir(), "weeklypulse.yaml")
	body := `
repository:
  User: app
  Endpoint: localhost
  Port: 3306
  Database: pulse
server:
  Port: "8080"
  SearchLimit: 30
  LogFormat: json
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	sections, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(sections)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "8080" || cfg.Server.SearchLimit != 30 || cfg.Server.LogFormat != "json" || cfg.Slack.BotToken != "" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
