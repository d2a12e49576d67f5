package dispatcher

import "time"

// Config holds dispatcher configuration options.
type Config struct {
	// EnableMetrics enables dispatch timing and statistics collection.
	EnableMetrics bool

	// RecoverFromPanic wraps command execution in panic recovery.
	RecoverFromPanic bool

	// ErrorDuration is how long the error marker stays on the display.
	ErrorDuration time.Duration

	// BlockWhileError refuses input while the error marker is shown instead
	// of cancelling the pending reset.
	BlockWhileError bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics:    false,
		RecoverFromPanic: true,
		ErrorDuration:    2 * time.Second,
		BlockWhileError:  false,
	}
}

// WithMetrics returns a copy of the config with metrics collection set.
func (c Config) WithMetrics(enable bool) Config {
	c.EnableMetrics = enable
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithErrorDuration returns a copy of the config with the error duration set.
func (c Config) WithErrorDuration(d time.Duration) Config {
	if d > 0 {
		c.ErrorDuration = d
	}
	return c
}

// WithBlockWhileError returns a copy of the config with blocking set.
func (c Config) WithBlockWhileError(block bool) Config {
	c.BlockWhileError = block
	return c
}
