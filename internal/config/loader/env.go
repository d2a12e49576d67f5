package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of calculator environment variables.
const DefaultEnvPrefix = "KEYCALC_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "KEYCALC_")
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "KEYCALC_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

// defaultEnvMapping maps every top-level setting and the nested log and
// plugin settings to their variables.
func defaultEnvMapping(prefix string) map[string]string {
	paths := []string{
		"locale",
		"decimal_separator",
		"error_duration",
		"error_blocks_input",
		"history_limit",
		"scientific_threshold",
		"implicit_multiply",
		"metrics",
		"log.level",
		"log.file",
		"plugins.enabled",
		"plugins.dir",
		"plugins.timeout",
	}

	mapping := make(map[string]string, len(paths))
	for _, path := range paths {
		env := prefix + strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
		mapping[env] = path
	}
	return mapping
}

// Load reads environment variables and returns a configuration map.
// Empty values are treated as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		SetPath(config, path, ParseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// RemoveMapping removes an environment variable mapping.
func (l *EnvLoader) RemoveMapping(envVar string) {
	delete(l.mapping, envVar)
}

// envToPath converts an unmapped variable to a section path:
// KEYCALC_THEME_OPERATOR_BG becomes theme.operator_bg.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, rest, ok := strings.Cut(name, "_")
	if !ok {
		return name
	}
	if section == "" || rest == "" {
		return ""
	}
	return section + "." + rest
}

// ParseValue converts a string into the most specific scalar it spells:
// bool, integer, float, or the string itself. Durations stay strings and
// are parsed by the settings reader.
func ParseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	return s
}
