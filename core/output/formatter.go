// Package output provides output formatting for calculator views.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"io"
	"strings"

	"quote-calculator/core/selection"
	"quote-calculator/core/ui"
	qerrors "quote-calculator/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given view
	Render(w io.Writer, v selection.View) error
}

// ForFormat returns the formatter for a format name
func ForFormat(name string, noColor bool) (Formatter, error) {
	switch Format(strings.ToLower(name)) {
	case FormatCLI, "":
		return &CLIFormatter{NoColor: noColor}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: true}, nil
	}
	return nil, qerrors.Inputf("unknown output format %q (want cli or json)", name)
}

// CLIFormatter renders with the terminal UI
type CLIFormatter struct {
	NoColor bool
}

// Format implements Formatter
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render implements Formatter
func (f *CLIFormatter) Render(w io.Writer, v selection.View) error {
	ui.NewWriter(w, f.NoColor).NewQuoteSummary(v).Render()
	return nil
}

// JSONFormatter renders the view as JSON
type JSONFormatter struct {
	Indent bool
}

// Format implements Formatter
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render implements Formatter
func (f *JSONFormatter) Render(w io.Writer, v selection.View) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
