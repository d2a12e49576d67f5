package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader discovers Lua scripts in a directory.
type Loader struct {
	dir string
}

// ScriptInfo describes one discovered script.
type ScriptInfo struct {
	Name   string
	Path   string
	State  State
	Error  error
	Labels []string
}

// NewLoader creates a loader for dir.
// An empty dir selects DefaultPluginDir.
func NewLoader(dir string) *Loader {
	if dir == "" {
		dir = DefaultPluginDir()
	}
	return &Loader{dir: dir}
}

// DefaultPluginDir returns ~/.config/keycalc/plugins, or "plugins" when
// the home directory is unknown.
func DefaultPluginDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "keycalc", "plugins")
	}
	return "plugins"
}

// Dir returns the directory the loader scans.
func (l *Loader) Dir() string {
	return l.dir
}

// Discover lists the *.lua files in the directory sorted by name.
// Subdirectories and hidden files are skipped.
func (l *Loader) Discover() ([]*ScriptInfo, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPluginDirNotFound, l.dir)
		}
		return nil, fmt.Errorf("read plugin dir: %w", err)
	}

	scripts := make([]*ScriptInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".lua" {
			continue
		}
		scripts = append(scripts, &ScriptInfo{
			Name:  strings.TrimSuffix(name, ".lua"),
			Path:  filepath.Join(l.dir, name),
			State: StateUnloaded,
		})
	}

	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].Name < scripts[j].Name
	})
	return scripts, nil
}
