package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dshills/keycalc/internal/config/loader"
	"github.com/dshills/keycalc/internal/config/watcher"
)

// DefaultFileName is the config file looked up in the user config directory.
const DefaultFileName = "keycalc.toml"

// Config provides layered access to the calculator settings.
type Config struct {
	mu sync.RWMutex

	// Layers, lowest first
	defaults map[string]any
	file     map[string]any
	env      map[string]any
	flags    map[string]any
	merged   map[string]any

	// Sources
	path      string
	fs        loader.FileSystem
	envPrefix string

	// Live reload
	watcher        *watcher.Watcher
	debounce       time.Duration
	reloadHandlers []func(Settings)
	errorHandlers  []func(error)

	// configErrors stores type mismatches found while building Settings.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithPath sets the config file path. An empty path disables the file layer.
func WithPath(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFileSystem sets the file system the config file is read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithReloadDebounce sets the quiet period before a changed file is reloaded.
func WithReloadDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.debounce = d
	}
}

// New creates a new Config instance with the given options.
// Until Load is called only the defaults are visible.
func New(opts ...Option) *Config {
	c := &Config{
		defaults:  defaultConfig(),
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		debounce:  100 * time.Millisecond,
		flags:     make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.merged = c.merge()
	return c
}

// DefaultPath returns the config file location in the user config directory.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "keycalc", DefaultFileName)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "keycalc", DefaultFileName)
}

// Path returns the config file path.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Load reads the config file and environment.
// A missing config file is not an error.
func (c *Config) Load(_ context.Context) error {
	file, err := c.loadFile()
	if err != nil {
		return err
	}

	env, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}

	c.mu.Lock()
	c.file = file
	c.env = env
	c.merged = c.merge()
	c.configErrors = nil
	c.mu.Unlock()

	return c.Settings().Validate()
}

// Reload re-reads the config file and environment and notifies reload
// handlers. On error the previous configuration stays in effect.
func (c *Config) Reload() error {
	c.mu.RLock()
	prevFile, prevEnv := c.file, c.env
	c.mu.RUnlock()

	if err := c.Load(context.Background()); err != nil {
		c.mu.Lock()
		c.file, c.env = prevFile, prevEnv
		c.merged = c.merge()
		c.mu.Unlock()
		return err
	}

	settings := c.Settings()

	c.mu.RLock()
	handlers := make([]func(Settings), len(c.reloadHandlers))
	copy(handlers, c.reloadHandlers)
	c.mu.RUnlock()

	for _, h := range handlers {
		h(settings)
	}
	return nil
}

// loadFile reads the config file layer.
func (c *Config) loadFile() (map[string]any, error) {
	c.mu.RLock()
	path, fsys := c.path, c.fs
	c.mu.RUnlock()

	if path == "" {
		return nil, nil
	}

	l, err := loader.NewFileLoaderWithFS(fsys, path)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

// merge combines the layers. Caller must hold mu or own c exclusively.
func (c *Config) merge() map[string]any {
	merged := loader.Clone(c.defaults)
	for _, layer := range []map[string]any{c.file, c.env, c.flags} {
		merged = loader.DeepMerge(merged, layer)
	}
	return merged
}

// Set overrides a setting in the command-line layer.
func (c *Config) Set(path string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	loader.SetPath(c.flags, path, value)
	c.merged = c.merge()
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.GetPath(c.merged, path)
}

// Merged returns a copy of the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration at the given path. Strings are parsed with
// time.ParseDuration; bare numbers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("string %q", val)}
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	case float64:
		return time.Duration(val * float64(time.Millisecond)), nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// GetStringMap returns a table of strings at the given path.
func (c *Config) GetStringMap(path string) (map[string]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "table", Actual: typeName(v)}
	}

	out := make(map[string]string, len(m))
	for key, val := range m {
		s, ok := val.(string)
		if !ok {
			return nil, &TypeError{Path: path + "." + key, Expected: "string", Actual: typeName(val)}
		}
		out[key] = s
	}
	return out, nil
}

// OnReload registers a handler run with the new settings after each
// successful reload.
func (c *Config) OnReload(fn func(Settings)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reloadHandlers = append(c.reloadHandlers, fn)
}

// OnError registers a handler for reload and watcher failures.
func (c *Config) OnError(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorHandlers = append(c.errorHandlers, fn)
}

// Watch starts reloading the config file when it changes.
func (c *Config) Watch() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return ErrNoConfigFile
	}
	if c.watcher != nil {
		return nil
	}

	w, err := watcher.New(c.path, watcher.WithDebounce(c.debounce))
	if err != nil {
		return fmt.Errorf("watching %s: %w", c.path, err)
	}
	w.OnChange(c.handleFileChange)
	w.OnError(c.reportError)
	if err := w.Start(); err != nil {
		_ = w.Stop()
		return err
	}

	c.watcher = w
	return nil
}

// handleFileChange reloads after the config file changed.
func (c *Config) handleFileChange(event watcher.Event) {
	if err := c.Reload(); err != nil {
		c.reportError(fmt.Errorf("reloading after %s of %s: %w", event.Op, event.Path, err))
	}
}

func (c *Config) reportError(err error) {
	c.mu.RLock()
	handlers := make([]func(error), len(c.errorHandlers))
	copy(handlers, c.errorHandlers)
	c.mu.RUnlock()

	for _, h := range handlers {
		h(err)
	}
}

// Close stops watching the config file.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		_ = w.Stop()
	}
}

// ConfigErrors returns type mismatches found while reading settings.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	out := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		out[k] = v
	}
	return out
}

// recordConfigError keeps the first error seen for a path.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
