package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prime-run/evremap/internal/mapping"
)

func TestLoadMissingFileIsError(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.toml"); err == nil {
		t.Fatal("expected an error for a missing config file, got nil")
	}
}

func TestLoadDecodesRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
device_name = "AT Translated Set 2 keyboard"
phys = "usb-0000:00:14.0-1/input0"

[[dual_role]]
input = "KEY_CAPSLOCK"
hold = ["KEY_LEFTCTRL"]
tap = ["KEY_ESC"]

[[remap]]
input = ["KEY_LEFTALT", "KEY_F"]
output = ["KEY_MINUS"]

[[mode_switch]]
input = ["KEY_LEFTALT", "KEY_M"]
mode = "nav"

[[modes.nav.remap]]
input = ["KEY_H"]
output = ["KEY_LEFT"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.DeviceName != "AT Translated Set 2 keyboard" {
		t.Errorf("expected device_name to decode, got %q", src.DeviceName)
	}
	if src.Phys != "usb-0000:00:14.0-1/input0" {
		t.Errorf("expected phys to decode, got %q", src.Phys)
	}
	if len(src.DualRole) != 1 || src.DualRole[0].Input != "KEY_CAPSLOCK" {
		t.Fatalf("expected one dual_role rule, got %+v", src.DualRole)
	}
	if len(src.Remap) != 1 || len(src.Remap[0].Input) != 2 {
		t.Fatalf("expected one 2-key remap rule, got %+v", src.Remap)
	}
	if len(src.ModeSwitch) != 1 || src.ModeSwitch[0].Mode != "nav" {
		t.Fatalf("expected one mode_switch rule targeting nav, got %+v", src.ModeSwitch)
	}
	if _, ok := src.Modes["nav"]; !ok {
		t.Fatalf("expected a nav mode block, got %+v", src.Modes)
	}

	if _, err := mapping.Build(src, nil); err != nil {
		t.Fatalf("decoded config failed to build a mapping set: %v", err)
	}
}

func TestLoadRejectsInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte("this is not [ valid toml"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error for malformed TOML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	src := &mapping.SourceConfig{
		DeviceName: "Test Keyboard",
		DualRole:   []mapping.SourceDualRole{{Input: "KEY_CAPSLOCK", Hold: []string{"KEY_LEFTCTRL"}, Tap: []string{"KEY_ESC"}}},
		Remap:      []mapping.SourceRemap{{Input: []string{"KEY_LEFTALT", "KEY_F"}, Output: []string{"KEY_MINUS"}}},
	}

	if err := Save(path, src); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}

	if loaded.DeviceName != "Test Keyboard" {
		t.Errorf("expected device_name preserved, got %q", loaded.DeviceName)
	}
	if len(loaded.DualRole) != 1 || loaded.DualRole[0].Input != "KEY_CAPSLOCK" {
		t.Fatalf("expected dual_role rule preserved, got %+v", loaded.DualRole)
	}
	if len(loaded.Remap) != 1 || loaded.Remap[0].Output[0] != "KEY_MINUS" {
		t.Fatalf("expected remap rule preserved, got %+v", loaded.Remap)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "config.toml")

	src := &mapping.SourceConfig{DeviceName: "Test Keyboard"}
	if err := Save(path, src); err != nil {
		t.Fatalf("Save failed to create nested dirs: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist at %s: %v", path, err)
	}
}

func TestSaveLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := Save(path, &mapping.SourceConfig{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.toml" {
		t.Fatalf("expected only config.toml in dir, got %v", entries)
	}
}

func TestDefaultPathEndsInExpectedSuffix(t *testing.T) {
	got := DefaultPath()
	if got == "" {
		t.Skip("no home directory available in this environment")
	}
	if filepath.Base(filepath.Dir(got)) != "evremap" || filepath.Base(got) != "config.toml" {
		t.Errorf("expected path ending in evremap/config.toml, got %s", got)
	}
}
