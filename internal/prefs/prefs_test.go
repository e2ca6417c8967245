package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := Load("")
	if p != Defaults() {
		t.Fatalf("Load = %+v, want %+v", p, Defaults())
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "foxnuts")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte("theme = \"Midnight\"\nview = \"Cart\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load("")
	if p.Theme != "Midnight" || p.View != "cart" {
		t.Fatalf("Load = %+v, want Midnight/cart", p)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	if err := Save(prefsFile, Prefs{Theme: "Paper", View: "wishlist"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded := Load(prefsFile)
	if loaded.Theme != "Paper" || loaded.View != "wishlist" {
		t.Fatalf("Load = %+v, want Paper/wishlist", loaded)
	}
}

func TestLoad_BlankAndUnknownValuesFallBack(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"\"\nview = \"checkout\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(prefsFile)
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.View != defaultView {
		t.Fatalf("View = %q, want %q", p.View, defaultView)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if p := Load(prefsFile); p != Defaults() {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}
