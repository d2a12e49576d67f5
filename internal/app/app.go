// Package app wires the calculator together: configuration, logging, the
// display, the command dispatcher, Lua plugins and the terminal keypad.
// It manages the application lifecycle for both the interactive keypad and
// batch evaluation.
package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/dispatcher"
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/engine/display"
	"github.com/dshills/keycalc/internal/numfmt"
	"github.com/dshills/keycalc/internal/plugin"
	"github.com/dshills/keycalc/internal/ui"
)

// Application is the central coordinator for all keycalc components.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	config   *config.Config
	settings config.Settings
	logger   *Logger
	logFile  io.Closer

	// Calculator components
	numbers    *numfmt.Formatter
	display    *display.Display
	dispatcher *dispatcher.Dispatcher
	aliases    *dispatcher.AliasHook

	// Extension components
	plugins *plugin.Host

	// View (interactive mode only)
	keypad *ui.Keypad

	// State
	running atomic.Bool
	closed  atomic.Bool

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	// Empty uses config.DefaultPath.
	ConfigPath string

	// LogLevel overrides the configured log level.
	LogLevel string

	// Locale overrides the configured locale.
	Locale string

	// Metrics turns on per-label press counting regardless of the config.
	Metrics bool

	// Interactive selects keypad mode. Logs then go only to log.file,
	// since stderr shares the terminal with the keypad.
	Interactive bool

	// LogOutput receives logs in batch mode. Defaults to os.Stderr.
	LogOutput io.Writer

	// EnvPrefix overrides the environment variable prefix.
	EnvPrefix string

	// Scheduler replaces the error display timer, for tests.
	Scheduler display.Scheduler
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}

	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run shows the keypad on screen and blocks until the user quits or ctx
// is cancelled. The config file is watched for changes while running.
func (app *Application) Run(ctx context.Context, screen tcell.Screen) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	keypad := ui.New(screen, app.dispatcher, app.display,
		ui.WithTheme(app.theme(app.Settings())),
		ui.WithLayout(app.layout()),
		ui.WithLogger(app.logger.WithComponent("ui").Debug),
	)

	app.mu.Lock()
	app.keypad = keypad
	app.mu.Unlock()

	// The error timer fires on its own goroutine.
	stopRefresh := app.display.OnChange(keypad.Refresh)
	defer func() {
		stopRefresh()
		app.mu.Lock()
		app.keypad = nil
		app.mu.Unlock()
	}()

	if err := app.config.Watch(); err != nil && !errors.Is(err, config.ErrNoConfigFile) {
		app.logger.Warn("config watch disabled: %v", err)
	}

	app.logger.Info("keypad started")
	err := keypad.Run(ctx)
	app.logger.Info("keypad stopped")
	return err
}

// IsRunning returns true while the keypad is shown.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Close releases all components in reverse initialization order.
// It is safe to call more than once.
func (app *Application) Close() error {
	if !app.closed.CompareAndSwap(false, true) {
		return nil
	}

	errs := NewErrorList()

	if app.config != nil {
		app.config.Close()
	}
	if app.plugins != nil {
		if err := app.plugins.Close(); err != nil {
			errs.Add(NewComponentError("plugin", "close", err))
		}
	}
	if app.display != nil {
		app.display.Close()
	}

	app.logStats()
	app.logger.Debug("shutdown complete")
	if app.logFile != nil {
		if err := app.logFile.Close(); err != nil {
			errs.Add(NewComponentError("log", "close", err))
		}
	}
	return errs.AsError()
}

// applySettings updates running components after a config reload.
func (app *Application) applySettings(s config.Settings) {
	app.mu.Lock()
	app.settings = s
	keypad := app.keypad
	app.mu.Unlock()

	app.logger.SetLevel(ParseLogLevel(s.Log.Level))

	if numbers, err := newFormatter(s); err != nil {
		app.logger.Warn("%v", NewComponentError("numbers", "reload", err))
	} else {
		app.mu.Lock()
		app.numbers = numbers
		app.mu.Unlock()
		app.dispatcher.SetNumbers(numbers)
	}

	app.display.SetHistoryLimit(s.HistoryLimit)
	app.dispatcher.SetConfig(dispatcherConfig(app.dispatcher.Config(), s))
	app.dispatcher.SetSettings(execctx.Settings{ImplicitMultiply: s.ImplicitMultiply})
	app.aliases.SetAliases(s.Keys)

	if keypad != nil {
		keypad.SetLayout(app.layout())
		keypad.SetTheme(app.theme(s))
	}

	app.logger.Info("configuration reloaded")
}

// theme parses the configured colours, falling back to the default theme.
func (app *Application) theme(s config.Settings) ui.Theme {
	theme, err := ui.ParseTheme(s.Theme)
	if err != nil {
		app.logger.Warn("%v", NewComponentError("ui", "theme", err))
		return ui.DefaultTheme()
	}
	return theme
}

// layout builds the keypad grid with the current separator and plugin buttons.
func (app *Application) layout() *ui.Layout {
	var extra []string
	if app.plugins != nil {
		extra = app.plugins.Labels()
	}
	return ui.NewLayout(app.Numbers().Separator(), extra...)
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// Settings returns the settings currently in effect.
func (app *Application) Settings() config.Settings {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.settings
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Numbers returns the number formatter.
func (app *Application) Numbers() *numfmt.Formatter {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.numbers
}

// Display returns the calculator display.
func (app *Application) Display() *display.Display {
	return app.display
}

// Dispatcher returns the dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Plugins returns the plugin host (may be nil).
func (app *Application) Plugins() *plugin.Host {
	return app.plugins
}
