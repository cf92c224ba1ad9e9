package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.OwnerID != "default" {
		t.Errorf("unexpected default owner: %q", cfg.OwnerID)
	}
	if cfg.Debounce.Duration != 300*time.Millisecond {
		t.Errorf("unexpected default debounce: %v", cfg.Debounce.Duration)
	}
	if cfg.SearchLimit != 20 {
		t.Errorf("unexpected default limit: %d", cfg.SearchLimit)
	}
	if len(cfg.Domains) != len(core.SearchableDomains) {
		t.Errorf("expected all domains by default, got %v", cfg.Domains)
	}
	if cfg.Server.ListenAddr != ":8787" {
		t.Errorf("unexpected default listen addr: %q", cfg.Server.ListenAddr)
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := &Config{
		StorageDir:  dir,
		OwnerID:     "alice",
		Debounce:    Duration{150 * time.Millisecond},
		SearchLimit: 50,
		Domains:     []string{"task", "project"},
		Server:      ServerConfig{ListenAddr: ":9999"},
	}
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.OwnerID != "alice" || loaded.SearchLimit != 50 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Debounce.Duration != 150*time.Millisecond {
		t.Errorf("duration not round-tripped: %v", loaded.Debounce.Duration)
	}
	types := loaded.DomainTypes()
	if len(types) != 2 || types[0] != core.DomainTask || types[1] != core.DomainProject {
		t.Errorf("domains not round-tripped: %v", types)
	}
}

func TestLoadConfigRejectsUnknownDomain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	raw := "storage_dir = \"" + dir + "\"\ndomains = [\"task\", \"spaceship\"]\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected an error for the unknown domain")
	}
}

func TestLoadConfigFillsPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	raw := "storage_dir = \"" + dir + "\"\nowner_id = \"bob\"\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.OwnerID != "bob" {
		t.Errorf("explicit value overridden: %q", cfg.OwnerID)
	}
	if cfg.SearchLimit != 20 || cfg.Debounce.Duration != 300*time.Millisecond {
		t.Errorf("missing fields must fall back to defaults: %+v", cfg)
	}
}

func TestSaveTemplateConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := &Config{StorageDir: dir}
	if err := cfg.SaveTemplateConfig(path); err != nil {
		t.Fatalf("SaveTemplateConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), dir) {
		t.Error("template must carry the configured storage dir")
	}

	// The template itself must load cleanly.
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("loading the written template: %v", err)
	}
	if loaded.StorageDir != dir {
		t.Errorf("template storage dir not applied: %q", loaded.StorageDir)
	}
}
