// Package numfmt converts between float64 values and display text.
//
// The display uses a locale-dependent decimal separator and switches to
// scientific notation when the plain rendering of a result gets too long.
package numfmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Defaults.
const (
	// DefaultLocale gives "," as the decimal separator.
	DefaultLocale = "ru"

	// DefaultScientificThreshold is the longest result rendered in plain notation.
	DefaultScientificThreshold = 20
)

var (
	// ErrNotNumber indicates the text is not a single number.
	ErrNotNumber = errors.New("numfmt: not a number")

	// ErrInvalidLocale indicates the locale tag could not be parsed.
	ErrInvalidLocale = errors.New("numfmt: invalid locale")
)

// Config selects the display conventions.
type Config struct {
	// Locale is a BCP 47 tag used to pick the decimal separator.
	Locale string

	// Separator overrides the locale's decimal separator when non-empty.
	Separator string

	// ScientificThreshold is the maximum length of a plain rendering.
	// Zero uses DefaultScientificThreshold.
	ScientificThreshold int
}

// Formatter renders and parses numbers for the display.
type Formatter struct {
	sep       string
	threshold int
}

// New creates a formatter from cfg.
func New(cfg Config) (*Formatter, error) {
	sep := cfg.Separator
	if sep == "" {
		locale := cfg.Locale
		if locale == "" {
			locale = DefaultLocale
		}
		var err error
		sep, err = SeparatorFor(locale)
		if err != nil {
			return nil, err
		}
	}

	threshold := cfg.ScientificThreshold
	if threshold <= 0 {
		threshold = DefaultScientificThreshold
	}

	return &Formatter{sep: sep, threshold: threshold}, nil
}

// Default returns a formatter for DefaultLocale.
func Default() *Formatter {
	return &Formatter{sep: ",", threshold: DefaultScientificThreshold}
}

// SeparatorFor returns the decimal separator used by a locale.
func SeparatorFor(locale string) (string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidLocale, locale, err)
	}

	p := message.NewPrinter(tag)
	sample := p.Sprint(number.Decimal(1.5, number.Scale(1)))

	// The separator is whatever sits between the two digits.
	for _, r := range sample {
		if r < '0' || r > '9' {
			return string(r), nil
		}
	}
	return ".", nil
}

// Separator returns the decimal separator.
func (f *Formatter) Separator() string {
	return f.sep
}

// Threshold returns the scientific notation threshold.
func (f *Formatter) Threshold() int {
	return f.threshold
}

// Format renders v using the shortest text that round-trips.
// Renderings longer than the threshold use scientific notation.
func (f *Formatter) Format(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if utf8.RuneCountInString(s) > f.threshold {
		s = strconv.FormatFloat(v, 'E', -1, 64)
	}
	return strings.Replace(s, ".", f.sep, 1)
}

// Parse reads display text holding exactly one number.
func (f *Formatter) Parse(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty text", ErrNotNumber)
	}

	plain := s
	if f.sep != "." {
		plain = strings.ReplaceAll(s, f.sep, ".")
	}
	plain = strings.ReplaceAll(plain, "−", "-")

	for _, r := range plain {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'E', r == 'e':
		default:
			return 0, fmt.Errorf("%w: %q", ErrNotNumber, s)
		}
	}

	v, err := strconv.ParseFloat(plain, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumber, s)
	}
	return v, nil
}

// glyphs maps display operator glyphs to evaluator operators.
var glyphs = strings.NewReplacer(
	"×", "*",
	"·", "*",
	"÷", "/",
	":", "/",
	"−", "-",
)

// Normalize rewrites display text into evaluator syntax: the decimal
// separator becomes "." and operator glyphs become ASCII.
func (f *Formatter) Normalize(text string) string {
	out := glyphs.Replace(text)
	if f.sep != "." {
		out = strings.ReplaceAll(out, f.sep, ".")
	}
	return out
}
