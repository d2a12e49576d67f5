package plugin

import "errors"

// Plugin system errors.
var (
	// ErrPluginDirNotFound is returned when the plugin directory is missing.
	ErrPluginDirNotFound = errors.New("plugin directory not found")

	// ErrHostClosed is returned when loading into a closed host.
	ErrHostClosed = errors.New("plugin host is closed")

	// ErrDuplicateLabel is returned when two scripts register the same label.
	ErrDuplicateLabel = errors.New("label already registered by a plugin")
)
