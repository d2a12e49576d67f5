package app

import (
	"context"
	"errors"

	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/dispatcher"
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handlers/editor"
	"github.com/dshills/keycalc/internal/dispatcher/handlers/scientific"
	"github.com/dshills/keycalc/internal/engine/display"
	"github.com/dshills/keycalc/internal/numfmt"
	"github.com/dshills/keycalc/internal/plugin"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 6),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initNumbers,
		b.initDisplay,
		b.initDispatcher,
		b.initPlugins,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}

	b.app.config.OnReload(b.app.applySettings)
	b.app.config.OnError(func(err error) {
		b.app.logger.Warn("%v", NewComponentError("config", "reload", err))
	})

	b.app.logger.Debug("initialized %v", b.initOrder)
	return nil
}

// initConfig loads the layered configuration. Command-line overrides go
// into the flags layer before the file and environment are read.
func (b *bootstrapper) initConfig() error {
	path := b.opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	opts := []config.Option{config.WithPath(path)}
	if b.opts.EnvPrefix != "" {
		opts = append(opts, config.WithEnvPrefix(b.opts.EnvPrefix))
	}
	cfg := config.New(opts...)

	if b.opts.Locale != "" {
		cfg.Set("locale", b.opts.Locale)
	}
	if b.opts.LogLevel != "" {
		cfg.Set("log.level", b.opts.LogLevel)
	}
	if b.opts.Metrics {
		cfg.Set("metrics", true)
	}

	if err := cfg.Load(context.Background()); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	b.app.config = cfg
	b.app.settings = cfg.Settings()
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogger creates the session logger.
func (b *bootstrapper) initLogger() error {
	s := b.app.settings

	cfg := DefaultLoggerConfig()
	cfg.Level = ParseLogLevel(s.Log.Level)
	if b.opts.LogOutput != nil {
		cfg.Output = b.opts.LogOutput
	}

	var disabled bool
	switch {
	case s.Log.File != "":
		f, err := OpenLogFile(s.Log.File)
		if err != nil {
			return &InitError{Component: "logger", Err: err}
		}
		b.app.logFile = f
		cfg.Output = f
	case b.opts.Interactive:
		disabled = true
	}

	root := NewLogger(cfg)
	if disabled {
		root.Disable()
	}
	b.app.logger = root.WithSession()

	for path, err := range b.app.config.ConfigErrors() {
		b.app.logger.Warn("config %s: %v", path, err)
	}

	b.initOrder = append(b.initOrder, "logger")
	return nil
}

// initNumbers resolves the decimal separator and notation threshold.
func (b *bootstrapper) initNumbers() error {
	numbers, err := newFormatter(b.app.settings)
	if err != nil {
		return &InitError{Component: "numbers", Err: err}
	}
	b.app.numbers = numbers
	b.initOrder = append(b.initOrder, "numbers")
	return nil
}

// initDisplay creates the display buffer and its history.
func (b *bootstrapper) initDisplay() error {
	opts := []display.Option{display.WithHistoryLimit(b.app.settings.HistoryLimit)}
	if b.opts.Scheduler != nil {
		opts = append(opts, display.WithScheduler(b.opts.Scheduler))
	}
	b.app.display = display.New(opts...)
	b.initOrder = append(b.initOrder, "display")
	return nil
}

// initDispatcher registers the built-in buttons and hooks.
func (b *bootstrapper) initDispatcher() error {
	s := b.app.settings

	d := dispatcher.New(dispatcherConfig(dispatcher.DefaultConfig(), s))
	d.SetDisplay(b.app.display)
	d.SetNumbers(b.app.numbers)
	d.SetSettings(execctx.Settings{ImplicitMultiply: s.ImplicitMultiply})
	d.SetFallback(editor.NewAppendCommand())

	editor.Commands().RegisterAll(d)
	scientific.Commands().RegisterAll(d)

	b.app.aliases = dispatcher.NewAliasHook(s.Keys)
	d.AddPreHook(b.app.aliases)

	log := b.app.logger.WithComponent("dispatcher")
	d.AddPostHook(dispatcher.NewLoggingHook(log.Debug, log.Warn))

	b.app.dispatcher = d
	b.initOrder = append(b.initOrder, "dispatcher")
	return nil
}

// initPlugins runs the user's Lua scripts and registers their buttons.
// A missing plugin directory or a failing script is not fatal.
func (b *bootstrapper) initPlugins() error {
	s := b.app.settings.Plugins
	if !s.Enabled {
		return nil
	}

	log := b.app.logger.WithComponent("plugin")
	scripts, err := plugin.NewLoader(s.Dir).Discover()
	if err != nil {
		if errors.Is(err, plugin.ErrPluginDirNotFound) {
			log.Debug("%v", err)
		} else {
			log.Warn("%v", err)
		}
		return nil
	}

	host := plugin.NewHost(plugin.WithTimeout(s.Timeout), plugin.WithLogger(log.Info))
	if err := host.LoadAll(context.Background(), scripts); err != nil {
		log.Warn("%v", err)
	}
	host.Commands().RegisterAll(b.app.dispatcher)

	for _, script := range scripts {
		log.Debug("script %s: %s %v", script.Name, script.State, script.Labels)
	}

	b.app.plugins = host
	b.initOrder = append(b.initOrder, "plugins")
	return nil
}

// cleanup releases components started before a failure.
func (b *bootstrapper) cleanup() {
	if b.app.display != nil {
		b.app.display.Close()
	}
	if b.app.config != nil {
		b.app.config.Close()
	}
	if b.app.logFile != nil {
		_ = b.app.logFile.Close()
	}
}

// newFormatter builds the number formatter for s.
func newFormatter(s config.Settings) (*numfmt.Formatter, error) {
	return numfmt.New(numfmt.Config{
		Locale:              s.Locale,
		Separator:           s.DecimalSeparator,
		ScientificThreshold: s.ScientificThreshold,
	})
}

// dispatcherConfig applies error display and metrics settings to base.
func dispatcherConfig(base dispatcher.Config, s config.Settings) dispatcher.Config {
	return base.
		WithErrorDuration(s.ErrorDuration).
		WithBlockWhileError(s.ErrorBlocksInput).
		WithMetrics(s.Metrics)
}
