package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat indicates a config file extension with no decoder.
var ErrUnsupportedFormat = errors.New("loader: unsupported config format")

// Format is a config file encoding.
type Format uint8

const (
	// FormatTOML is the primary format.
	FormatTOML Format = iota
	// FormatYAML is accepted for .yaml and .yml files.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// FileConfigLoader loads a TOML or YAML config file.
type FileConfigLoader struct {
	fs     FileSystem
	path   string
	format Format
}

// NewFileLoader creates a loader for path, choosing the format by extension.
func NewFileLoader(path string) (*FileConfigLoader, error) {
	return NewFileLoaderWithFS(DefaultFS(), path)
}

// NewFileLoaderWithFS creates a file loader with a custom file system.
func NewFileLoaderWithFS(fsys FileSystem, path string) (*FileConfigLoader, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	return &FileConfigLoader{fs: fsys, path: path, format: format}, nil
}

// Path returns the configured path.
func (l *FileConfigLoader) Path() string {
	return l.path
}

// Format returns the file format.
func (l *FileConfigLoader) Format() Format {
	return l.format
}

// Load reads configuration from the configured path.
func (l *FileConfigLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path.
// A missing file yields nil, nil.
func (l *FileConfigLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	return Parse(path, l.format, data)
}

// LoadFromReader reads configuration from an io.Reader.
func (l *FileConfigLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Parse("<reader>", l.format, data)
}

// Parse decodes data into a map.
func Parse(source string, format Format, data []byte) (map[string]any, error) {
	var config map[string]any

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &config); err != nil {
			perr := &ParseError{Path: source, Message: err.Error(), Err: err}
			var decodeErr *toml.DecodeError
			if errors.As(err, &decodeErr) {
				perr.Line, perr.Column = decodeErr.Position()
			}
			return nil, perr
		}

	case FormatYAML:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if config == nil {
		config = make(map[string]any)
	}
	return normalizeMap(config), nil
}

// normalizeMap converts nested YAML maps to map[string]any.
func normalizeMap(m map[string]any) map[string]any {
	for key, val := range m {
		m[key] = normalizeValue(val)
	}
	return m
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeMap(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[fmt.Sprint(k)] = normalizeValue(inner)
		}
		return out
	case []any:
		for i := range val {
			val[i] = normalizeValue(val[i])
		}
		return val
	default:
		return v
	}
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
