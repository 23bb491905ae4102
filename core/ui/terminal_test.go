package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	tbl := w.NewTable("Item", "Amount")
	tbl.AddRow("Base Package", "$250.00")
	tbl.AddRow("DJ", "$1,000.00", "ignored")
	tbl.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "Item         │ Amount   ", lines[0])
	assert.Equal(t, "DJ           │ $1,000.00", lines[3])
	assert.NotContains(t, lines[3], "ignored")
}

func TestVerbosity(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	w.Debug("hidden")
	w.Info("shown %d", 1)
	w.SetVerbosity(0)
	w.Info("quiet")
	w.SetVerbosity(2)
	w.Debug("debug %s", "on")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "shown 1")
	assert.Contains(t, out, "debug on")
}

func TestColorToggle(t *testing.T) {
	var plain, colored bytes.Buffer
	NewWriter(&plain, true).Success("done")
	NewWriter(&colored, false).Success("done")

	assert.Equal(t, "✓ done\n", plain.String())
	assert.Contains(t, colored.String(), Green)
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf, true).NewSpinner("resolving")
	s.Start()
	s.Stop(false)
	s.Stop(true)
	assert.Equal(t, 1, strings.Count(buf.String(), "✗ resolving"))
}
