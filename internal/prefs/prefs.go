// Package prefs handles vitrine user preferences persistence.
// Preferences are stored in ~/.config/vitrine/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/mknopf/vitrine/internal/view"
)

// Prefs holds user preferences for vitrine.
type Prefs struct {
	Theme    string `toml:"theme"`
	PageSize int    `toml:"page_size"`
	Sort     string `toml:"sort"`
}

const (
	defaultPrefsPath = "~/.config/vitrine/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultPageSize  = 10
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

func defaults() Prefs {
	return Prefs{
		Theme:    defaultTheme,
		PageSize: defaultPageSize,
		Sort:     string(view.SortCreatedDesc),
	}
}

// SortKey returns the preferred sort, falling back to the default for
// unknown keys.
func (p Prefs) SortKey() view.Sort {
	if s := view.Sort(p.Sort); s.Known() {
		return s
	}
	return view.SortCreatedDesc
}

// Load reads preferences from the given path, falling back to defaults on
// any failure. A broken prefs file should never stop the app from starting.
func Load(path string) Prefs {
	prefs := defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs
		}
		return prefs
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return defaults()
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if prefs.PageSize <= 0 {
		prefs.PageSize = defaultPageSize
	}
	if !view.Sort(prefs.Sort).Known() {
		prefs.Sort = string(view.SortCreatedDesc)
	}
	return prefs
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
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
