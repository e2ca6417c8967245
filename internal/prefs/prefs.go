// Package prefs persists foxnuts UI preferences in ~/.config/foxnuts/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds what the terminal UI remembers between runs.
type Prefs struct {
	Theme string `toml:"theme"`
	// View is the screen shown at start-up: products, cart or wishlist.
	View string `toml:"view"`
}

const (
	defaultPrefsPath = "~/.config/foxnuts/prefs.toml"
	defaultTheme     = "Foxnut"
	defaultView      = "products"
)

var knownViews = map[string]bool{"products": true, "cart": true, "wishlist": true}

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, View: defaultView}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. Preferences are cosmetic, so a missing,
// unreadable or malformed file yields the defaults rather than an error.
func Load(path string) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults()
	}

	bytes, err := readFile(resolved)
	if err != nil {
		return Defaults()
	}

	var p Prefs
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Defaults()
	}
	return normalize(p)
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	defer func() { _ = file.Close() }()
	return io.ReadAll(file)
}

func normalize(p Prefs) Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.View = strings.ToLower(strings.TrimSpace(p.View))
	if !knownViews[p.View] {
		p.View = defaultView
	}
	return p
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(normalize(p))
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
