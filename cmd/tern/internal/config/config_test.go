package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module github.com/example/birdwatch\n\ngo 1.24\n")

	resolved, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.ModulePath != "github.com/example/birdwatch" {
		t.Errorf("expected module path github.com/example/birdwatch, got %q", resolved.ModulePath)
	}
	if resolved.AppName != "birdwatch" {
		t.Errorf("expected app name birdwatch, got %q", resolved.AppName)
	}
	if resolved.InspectorPort != DefaultInspectorPort {
		t.Errorf("expected default port %d, got %d", DefaultInspectorPort, resolved.InspectorPort)
	}
}

func TestResolveWithConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/app\n")
	writeFile(t, dir, "tern.yaml", `app:
  name: custom
  id: abc-123
inspector:
  enabled: true
  port: 9000
`)

	resolved, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.AppName != "custom" {
		t.Errorf("expected app name custom, got %q", resolved.AppName)
	}
	if resolved.AppID != "abc-123" {
		t.Errorf("expected app id abc-123, got %q", resolved.AppID)
	}
	if resolved.InspectorPort != 9000 {
		t.Errorf("expected port 9000, got %d", resolved.InspectorPort)
	}
}

func TestResolveBadPort(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/app\n")
	writeFile(t, dir, "tern.yaml", "inspector:\n  port: 123456\n")

	if _, err := Resolve(dir); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestResolveMissingGoMod(t *testing.T) {
	if _, err := Resolve(t.TempDir()); err == nil {
		t.Error("expected error when go.mod is missing")
	}
}

func TestLoadOptionalMissing(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOptional failed: %v", err)
	}
	if cfg.App.Name != "" || cfg.Inspector.Port != 0 {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadOptionalMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tern.yaml", "app: [not a mapping\n")

	if _, err := LoadOptional(dir); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
