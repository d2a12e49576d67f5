// Package main is the entry point for the keycalc calculator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keycalc/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app    app.Options
	batch  bool
	json   bool
	pretty bool
	stats  bool
	args   []string
}

func main() {
	os.Exit(run())
}

func run() int {
	cli := parseFlags()

	batch := cli.batch || len(cli.args) > 0 || !app.IsTerminal(os.Stdin)
	cli.app.Interactive = !batch

	application, err := app.New(cli.app)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if batch {
		return runBatch(ctx, application, cli)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.Run(ctx, screen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runBatch(ctx context.Context, application *app.Application, cli cliOptions) int {
	tokens := cli.args
	if len(tokens) == 0 {
		var err error
		if tokens, err = app.ReadTokens(os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	opts := app.BatchOptions{
		JSON:   cli.json || cli.pretty,
		Pretty: cli.pretty,
		Color:  cli.pretty && app.IsTerminal(os.Stdout),
		Stats:  cli.stats,
	}
	if err := application.RunBatch(ctx, tokens, os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() cliOptions {
	var cli cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&cli.app.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&cli.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&cli.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&cli.app.Locale, "locale", "", "Locale for the decimal separator, e.g. en or ru")
	flag.BoolVar(&cli.batch, "batch", false, "Evaluate button labels from arguments or stdin")
	flag.BoolVar(&cli.batch, "b", false, "Evaluate button labels from arguments or stdin (shorthand)")
	flag.BoolVar(&cli.json, "json", false, "Print one JSON record per button press in batch mode")
	flag.BoolVar(&cli.pretty, "pretty", false, "Indent JSON output (implies -json)")
	flag.BoolVar(&cli.stats, "stats", false, "Count presses per label; print them after a batch, log them on exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keycalc - keypad calculator for the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keycalc [options] [labels...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keycalc                     Open the keypad\n")
		fmt.Fprintf(os.Stderr, "  keycalc '12+3='             Print 15\n")
		fmt.Fprintf(os.Stderr, "  keycalc 9 √                 Press 9 then the square root key\n")
		fmt.Fprintf(os.Stderr, "  echo '1/0=' | keycalc -json Print each step as JSON\n")
		fmt.Fprintf(os.Stderr, "  keycalc -stats '12+3='      Print 15 and the press counts\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keycalc %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch cli.app.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", cli.app.LogLevel)
		os.Exit(1)
	}

	cli.app.Metrics = cli.stats
	cli.args = flag.Args()
	return cli
}
