package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	c := New()
	s := c.Settings()

	if s.Locale != "ru" {
		t.Errorf("Locale = %q, want 'ru'", s.Locale)
	}
	if s.ErrorDuration != 2*time.Second {
		t.Errorf("ErrorDuration = %v, want 2s", s.ErrorDuration)
	}
	if s.HistoryLimit != 1000 {
		t.Errorf("HistoryLimit = %d, want 1000", s.HistoryLimit)
	}
	if s.ScientificThreshold != 20 {
		t.Errorf("ScientificThreshold = %d, want 20", s.ScientificThreshold)
	}
	if s.ErrorBlocksInput || s.ImplicitMultiply || s.Metrics {
		t.Error("expected blocking, implicit multiply and metrics off by default")
	}
	if s.Keys["x"] != "*" {
		t.Errorf("Keys[x] = %q, want '*'", s.Keys["x"])
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c := New(WithPath(filepath.Join(t.TempDir(), "absent.toml")), WithEnvPrefix("KEYCALC_TEST_NONE_"))

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := c.Settings().Locale; got != "ru" {
		t.Errorf("Locale = %q, want default", got)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "keycalc.toml", `
locale = "en"
error_duration = "500ms"
history_limit = 10
implicit_multiply = true

[log]
level = "debug"

[theme]
operator = "#ff8800"

[keys]
"*" = "×"
`)

	c := New(WithPath(path), WithEnvPrefix("KEYCALC_TEST_NONE_"))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	s := c.Settings()

	if s.Locale != "en" {
		t.Errorf("Locale = %q, want 'en'", s.Locale)
	}
	if s.ErrorDuration != 500*time.Millisecond {
		t.Errorf("ErrorDuration = %v, want 500ms", s.ErrorDuration)
	}
	if s.HistoryLimit != 10 {
		t.Errorf("HistoryLimit = %d, want 10", s.HistoryLimit)
	}
	if !s.ImplicitMultiply {
		t.Error("ImplicitMultiply = false, want true")
	}
	if s.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want 'debug'", s.Log.Level)
	}
	if s.Theme.Operator != "#ff8800" {
		t.Errorf("Theme.Operator = %q, want '#ff8800'", s.Theme.Operator)
	}
	if s.Theme.Digit != "#45475a" {
		t.Errorf("Theme.Digit = %q, want default kept", s.Theme.Digit)
	}
	if s.Keys["*"] != "×" || s.Keys["x"] != "*" {
		t.Errorf("Keys = %v, want file keys merged over defaults", s.Keys)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "keycalc.yml", `
decimal_separator: "."
error_duration: 1000
plugins:
  dir: /opt/keycalc/lua
`)

	c := New(WithPath(path), WithEnvPrefix("KEYCALC_TEST_NONE_"))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	s := c.Settings()

	if s.DecimalSeparator != "." {
		t.Errorf("DecimalSeparator = %q, want '.'", s.DecimalSeparator)
	}
	if s.ErrorDuration != time.Second {
		t.Errorf("ErrorDuration = %v, want bare number read as milliseconds", s.ErrorDuration)
	}
	if s.Plugins.Dir != "/opt/keycalc/lua" {
		t.Errorf("Plugins.Dir = %q", s.Plugins.Dir)
	}
}

func TestLayerPrecedence(t *testing.T) {
	path := writeFile(t, t.TempDir(), "keycalc.toml", `
locale = "en"
history_limit = 10
scientific_threshold = 12
`)
	t.Setenv("KEYCALC_HISTORY_LIMIT", "20")
	t.Setenv("KEYCALC_SCIENTIFIC_THRESHOLD", "14")
	t.Setenv("KEYCALC_METRICS", "on")

	c := New(WithPath(path))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	c.Set("scientific_threshold", 16)

	s := c.Settings()
	if s.Locale != "en" {
		t.Errorf("Locale = %q, want file value", s.Locale)
	}
	if s.HistoryLimit != 20 {
		t.Errorf("HistoryLimit = %d, want env over file", s.HistoryLimit)
	}
	if s.ScientificThreshold != 16 {
		t.Errorf("ScientificThreshold = %d, want flag over env", s.ScientificThreshold)
	}
	if !s.Metrics {
		t.Error("Metrics = false, want env value")
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "keycalc.toml", "locale = = 1\n")

	err := New(WithPath(path)).Load(context.Background())
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestLoadValidationError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "keycalc.toml", "history_limit = 0\n")

	err := New(WithPath(path), WithEnvPrefix("KEYCALC_TEST_NONE_")).Load(context.Background())
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Path != "history_limit" {
		t.Errorf("Path = %q, want 'history_limit'", verr.Path)
	}
}

func TestTypeMismatchFallsBack(t *testing.T) {
	path := writeFile(t, t.TempDir(), "keycalc.toml", `history_limit = "many"`)

	c := New(WithPath(path), WithEnvPrefix("KEYCALC_TEST_NONE_"))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := c.Settings().HistoryLimit; got != 1000 {
		t.Errorf("HistoryLimit = %d, want default", got)
	}
	err := c.ConfigErrors()["history_limit"]
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected recorded type mismatch, got %v", err)
	}
}

func TestGetters(t *testing.T) {
	c := New()
	c.Set("a.str", "x")
	c.Set("a.int", int64(3))
	c.Set("a.float", 2.0)
	c.Set("a.dur", "250ms")
	c.Set("a.bad", "later")

	if v, err := c.GetString("a.str"); err != nil || v != "x" {
		t.Errorf("GetString = %q, %v", v, err)
	}
	if v, err := c.GetInt("a.int"); err != nil || v != 3 {
		t.Errorf("GetInt = %d, %v", v, err)
	}
	if v, err := c.GetInt("a.float"); err != nil || v != 2 {
		t.Errorf("GetInt(float) = %d, %v", v, err)
	}
	if v, err := c.GetDuration("a.dur"); err != nil || v != 250*time.Millisecond {
		t.Errorf("GetDuration = %v, %v", v, err)
	}
	if _, err := c.GetDuration("a.bad"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetDuration(bad) error = %v, want ErrTypeMismatch", err)
	}
	if _, err := c.GetBool("a.str"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetBool(string) error = %v, want ErrTypeMismatch", err)
	}
	if _, err := c.GetString("a.missing"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("GetString(missing) error = %v, want ErrSettingNotFound", err)
	}
}

func TestMergedIsCopy(t *testing.T) {
	c := New()
	m := c.Merged()
	m["locale"] = "en"

	if got, _ := c.GetString("locale"); got != "ru" {
		t.Errorf("locale = %q, mutation of Merged leaked", got)
	}
}

func TestReloadNotifiesHandlers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "keycalc.toml", `locale = "en"`)

	c := New(WithPath(path), WithEnvPrefix("KEYCALC_TEST_NONE_"))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var got Settings
	c.OnReload(func(s Settings) { got = s })

	writeFile(t, dir, "keycalc.toml", `locale = "de"`)
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if got.Locale != "de" {
		t.Errorf("handler saw Locale = %q, want 'de'", got.Locale)
	}
}

func TestReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "keycalc.toml", `locale = "en"`)

	c := New(WithPath(path), WithEnvPrefix("KEYCALC_TEST_NONE_"))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, "keycalc.toml", `locale = `)
	if err := c.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if got := c.Settings().Locale; got != "en" {
		t.Errorf("Locale = %q, want previous 'en'", got)
	}
}

func TestWatchWithoutPath(t *testing.T) {
	if err := New().Watch(); !errors.Is(err, ErrNoConfigFile) {
		t.Errorf("Watch() = %v, want ErrNoConfigFile", err)
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "keycalc.toml", `locale = "en"`)

	c := New(WithPath(path), WithEnvPrefix("KEYCALC_TEST_NONE_"), WithReloadDebounce(20*time.Millisecond))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var locales []string
	c.OnReload(func(s Settings) {
		mu.Lock()
		locales = append(locales, s.Locale)
		mu.Unlock()
	})

	if err := c.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer c.Close()

	writeFile(t, dir, "keycalc.toml", `locale = "fr"`)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		done := len(locales) > 0 && locales[len(locales)-1] == "fr"
		mu.Unlock()
		if done {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(locales) == 0 || locales[len(locales)-1] != "fr" {
		t.Errorf("reloaded locales = %v, want last 'fr'", locales)
	}
}

func TestSettingsValidate(t *testing.T) {
	base := New().Settings()

	tests := []struct {
		name   string
		mutate func(*Settings)
		path   string
	}{
		{"threshold", func(s *Settings) { s.ScientificThreshold = 3 }, "scientific_threshold"},
		{"duration", func(s *Settings) { s.ErrorDuration = 0 }, "error_duration"},
		{"separator", func(s *Settings) { s.DecimalSeparator = ";" }, "decimal_separator"},
		{"plugin timeout", func(s *Settings) { s.Plugins.Timeout = 0 }, "plugins.timeout"},
		{"key", func(s *Settings) { s.Keys = map[string]string{"ab": "C"} }, "keys.ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)

			var verr *ValidationError
			if err := s.Validate(); !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Errorf("Path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}
