package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("expected defaults for a missing file, got %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.TurnSemantics != SemanticsAssign {
		t.Errorf("expected assign semantics by default, got %q", cfg.TurnSemantics)
	}
	if cfg.InitialUserTurn {
		t.Error("expected the agent to hold the turn by default")
	}
	if cfg.TopicPrefix != "sic" {
		t.Errorf("expected default topic prefix, got %q", cfg.TopicPrefix)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	contents := `{
		"listen_addr": ":9000",
		"server_url": "ws://robot:9000/ws",
		"turn_semantics": "toggle",
		"initial_user_turn": true,
		"follow_up_target": "menu.html"
	}`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("expected fixture write to succeed, got %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("expected listen addr from file, got %q", cfg.ListenAddr)
	}
	if cfg.ServerURL != "ws://robot:9000/ws" {
		t.Errorf("expected server url from file, got %q", cfg.ServerURL)
	}
	if cfg.TurnSemantics != SemanticsToggle {
		t.Errorf("expected toggle semantics, got %q", cfg.TurnSemantics)
	}
	if !cfg.InitialUserTurn {
		t.Error("expected the user to hold the initial turn")
	}
	if cfg.FollowUpTarget != "menu.html" {
		t.Errorf("expected follow-up target from file, got %q", cfg.FollowUpTarget)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"listen_addr": ":9000"}`), 0644); err != nil {
		t.Fatalf("expected fixture write to succeed, got %v", err)
	}

	t.Setenv("WEBCLIENT_LISTEN_ADDR", ":7000")
	t.Setenv("WEBCLIENT_INITIAL_USER_TURN", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if cfg.ListenAddr != ":7000" {
		t.Errorf("expected env override, got %q", cfg.ListenAddr)
	}
	if !cfg.InitialUserTurn {
		t.Error("expected env override of the initial turn")
	}
}

func TestLoadRejectsUnknownSemantics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"turn_semantics": "random"}`), 0644); err != nil {
		t.Fatalf("expected fixture write to succeed, got %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected unknown turn semantics to be rejected")
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("expected fixture write to succeed, got %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected malformed config to be rejected")
	}
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	original, err := Load("")
	if err != nil {
		t.Fatalf("expected defaults to load, got %v", err)
	}
	original.ListenAddr = ":9999"
	if err := original.Save(path); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("expected reload to succeed, got %v", err)
	}
	if reloaded.ListenAddr != ":9999" {
		t.Errorf("expected saved value to survive a reload, got %q", reloaded.ListenAddr)
	}
}
