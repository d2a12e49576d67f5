package config

import (
	"errors"
	"time"
	"unicode/utf8"
)

// Settings is a typed snapshot of the merged configuration.
type Settings struct {
	// Locale picks the decimal separator (BCP 47 tag).
	Locale string

	// DecimalSeparator overrides the locale's separator when non-empty.
	DecimalSeparator string

	// ErrorDuration is how long the error marker stays visible.
	ErrorDuration time.Duration

	// ErrorBlocksInput refuses input while the error marker is visible.
	ErrorBlocksInput bool

	// HistoryLimit bounds the undo and redo stacks.
	HistoryLimit int

	// ScientificThreshold is the longest result shown in plain notation.
	ScientificThreshold int

	// ImplicitMultiply joins π and e to a preceding operand with "*".
	ImplicitMultiply bool

	// Metrics counts presses per button label.
	Metrics bool

	Log     LogSettings
	Plugins PluginSettings
	Theme   ThemeSettings

	// Keys maps keyboard characters to button labels.
	Keys map[string]string
}

// LogSettings configures the application logger.
type LogSettings struct {
	Level string
	File  string
}

// PluginSettings configures Lua user functions.
type PluginSettings struct {
	Enabled bool
	Dir     string
	Timeout time.Duration
}

// ThemeSettings holds keypad colours as hex strings.
type ThemeSettings struct {
	Background string
	Display    string
	Digit      string
	Operator   string
	Function   string
	Text       string
	Error      string
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"locale":               "ru",
		"decimal_separator":    "",
		"error_duration":       "2s",
		"error_blocks_input":   false,
		"history_limit":        1000,
		"scientific_threshold": 20,
		"implicit_multiply":    false,
		"metrics":              false,
		"log": map[string]any{
			"level": "info",
			"file":  "",
		},
		"plugins": map[string]any{
			"enabled": true,
			"dir":     "",
			"timeout": "250ms",
		},
		"theme": map[string]any{
			"background": "#1e1e2e",
			"display":    "#313244",
			"digit":      "#45475a",
			"operator":   "#fab387",
			"function":   "#89b4fa",
			"text":       "#cdd6f4",
			"error":      "#f38ba8",
		},
		"keys": map[string]any{
			"\r":   "=",
			"\n":   "=",
			"x":    "*",
			"X":    "*",
			"c":    "C",
			"u":    "CE",
			"r":    "↷",
			"s":    "√",
			"q":    "n²",
			"l":    "ln",
			"p":    "π",
			"m":    "≡",
			"\x7f": "⌫",
			"\b":   "⌫",
		},
	}
}

// Settings builds a typed snapshot of the merged configuration.
// Values of the wrong type fall back to their defaults and are reported
// through ConfigErrors.
func (c *Config) Settings() Settings {
	s := Settings{
		Locale:              c.getStringOr("locale", "ru"),
		DecimalSeparator:    c.getStringOr("decimal_separator", ""),
		ErrorDuration:       c.getDurationOr("error_duration", 2*time.Second),
		ErrorBlocksInput:    c.getBoolOr("error_blocks_input", false),
		HistoryLimit:        c.getIntOr("history_limit", 1000),
		ScientificThreshold: c.getIntOr("scientific_threshold", 20),
		ImplicitMultiply:    c.getBoolOr("implicit_multiply", false),
		Metrics:             c.getBoolOr("metrics", false),
		Log: LogSettings{
			Level: c.getStringOr("log.level", "info"),
			File:  c.getStringOr("log.file", ""),
		},
		Plugins: PluginSettings{
			Enabled: c.getBoolOr("plugins.enabled", true),
			Dir:     c.getStringOr("plugins.dir", ""),
			Timeout: c.getDurationOr("plugins.timeout", 250*time.Millisecond),
		},
		Theme: ThemeSettings{
			Background: c.getStringOr("theme.background", "#1e1e2e"),
			Display:    c.getStringOr("theme.display", "#313244"),
			Digit:      c.getStringOr("theme.digit", "#45475a"),
			Operator:   c.getStringOr("theme.operator", "#fab387"),
			Function:   c.getStringOr("theme.function", "#89b4fa"),
			Text:       c.getStringOr("theme.text", "#cdd6f4"),
			Error:      c.getStringOr("theme.error", "#f38ba8"),
		},
	}

	keys, err := c.GetStringMap("keys")
	if err != nil && !errors.Is(err, ErrSettingNotFound) {
		c.recordConfigError("keys", err)
	}
	s.Keys = keys

	return s
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	switch {
	case s.HistoryLimit <= 0:
		return &ValidationError{Path: "history_limit", Message: "must be positive", Value: s.HistoryLimit}
	case s.ScientificThreshold < 8:
		return &ValidationError{Path: "scientific_threshold", Message: "must be at least 8", Value: s.ScientificThreshold}
	case s.ErrorDuration <= 0:
		return &ValidationError{Path: "error_duration", Message: "must be positive", Value: s.ErrorDuration}
	case s.DecimalSeparator != "" && s.DecimalSeparator != "." && s.DecimalSeparator != ",":
		return &ValidationError{Path: "decimal_separator", Message: `must be "." or ","`, Value: s.DecimalSeparator}
	case s.Plugins.Timeout <= 0:
		return &ValidationError{Path: "plugins.timeout", Message: "must be positive", Value: s.Plugins.Timeout}
	}

	for key, label := range s.Keys {
		if utf8.RuneCountInString(key) != 1 || label == "" {
			return &ValidationError{Path: "keys." + key, Message: "must map one character to a label", Value: label}
		}
	}
	return nil
}

// These accessors return the default when a setting is missing. Type
// errors are recorded and also fall back to the default.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}
