package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"golang.org/x/term"

	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// BatchOptions selects the batch output format.
type BatchOptions struct {
	// JSON writes one record per dispatched label instead of the final text.
	JSON bool
	// Pretty indents JSON output.
	Pretty bool
	// Color highlights pretty JSON, for terminals.
	Color bool
	// Stats appends the press statistics as a JSON object. Requires metrics.
	Stats bool
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ReadTokens splits r into whitespace-separated tokens.
func ReadTokens(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tokens: %w", err)
	}
	return tokens, nil
}

// Tokenize turns tokens into button labels. Each token is consumed from
// the left by the longest matching label, or else by one grapheme, so
// "12+3=" and "2√" expand to individual presses while "CE" stays whole.
func Tokenize(tokens, labels []string) []string {
	sorted := make([]string, len(labels))
	copy(sorted, labels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	var out []string
	for _, tok := range tokens {
		for tok != "" {
			if label := longestPrefix(tok, sorted); label != "" {
				out = append(out, label)
				tok = tok[len(label):]
				continue
			}
			cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(tok, -1)
			out = append(out, cluster)
			tok = rest
		}
	}
	return out
}

// longestPrefix returns the first label in sorted that prefixes s.
func longestPrefix(s string, sorted []string) string {
	for _, label := range sorted {
		if label != "" && strings.HasPrefix(s, label) {
			return label
		}
	}
	return ""
}

// RunBatch dispatches tokens in order and writes the result to w: the
// final display text, or a JSON array of per-step records.
func (app *Application) RunBatch(ctx context.Context, tokens []string, w io.Writer, opts BatchOptions) error {
	if len(tokens) == 0 {
		return ErrNoTokens
	}
	metrics := app.dispatcher.Metrics()
	if opts.Stats && metrics == nil {
		return ErrMetricsDisabled
	}

	labels := Tokenize(tokens, app.dispatcher.Labels())
	app.logger.Debug("batch: %d tokens, %d presses", len(tokens), len(labels))

	records := []byte(`[]`)
	for i, label := range labels {
		if err := ctx.Err(); err != nil {
			return err
		}

		result := app.dispatcher.Dispatch(label)
		if !opts.JSON {
			continue
		}

		rec, err := batchRecord(i+1, label, result)
		if err != nil {
			return err
		}
		if records, err = sjson.SetRawBytes(records, "-1", rec); err != nil {
			return fmt.Errorf("batch record: %w", err)
		}
	}

	var out []byte
	if opts.JSON {
		out = formatJSON(records, opts)
	} else {
		out = []byte(app.display.Text() + "\n")
	}

	if opts.Stats {
		stats, err := statsJSON(metrics.Stats())
		if err != nil {
			return err
		}
		out = append(out, formatJSON(stats, opts)...)
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write batch output: %w", err)
	}
	return nil
}

// formatJSON renders one JSON document on its own line.
func formatJSON(doc []byte, opts BatchOptions) []byte {
	if !opts.Pretty {
		return append(doc, '\n')
	}
	out := pretty.Pretty(doc)
	if opts.Color {
		out = pretty.Color(out, nil)
	}
	return out
}

// batchRecord builds the JSON record for one dispatch.
func batchRecord(step int, label string, result handler.Result) ([]byte, error) {
	type field struct {
		path  string
		value any
	}
	fields := []field{
		{"step", step},
		{"label", label},
		{"status", result.Status.String()},
		{"text", result.Text},
	}
	if result.Error != nil {
		fields = append(fields, field{"error", result.Error.Error()})
	}
	if result.Message != "" {
		fields = append(fields, field{"message", result.Message})
	}
	if result.ViewUpdate.ToggleMenu {
		fields = append(fields, field{"toggle_menu", true})
	}

	rec := []byte(`{}`)
	for _, f := range fields {
		var err error
		if rec, err = sjson.SetBytes(rec, f.path, f.value); err != nil {
			return nil, fmt.Errorf("batch record %s: %w", f.path, err)
		}
	}
	return rec, nil
}
