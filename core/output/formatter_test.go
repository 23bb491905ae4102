package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-calculator/core/pricing"
	"quote-calculator/core/selection"
)

func sampleView(t *testing.T) selection.View {
	t.Helper()
	c := selection.NewController(pricing.Builtin())
	s, err := c.Initial("sa-atx")
	require.NoError(t, err)
	s, _, err = c.Apply(s, selection.SetAddress{Address: "Alamo"})
	require.NoError(t, err)
	s, _, err = c.Apply(s, selection.PickTier{Category: pricing.CategorySound, Tier: "fullStack"})
	require.NoError(t, err)

	miles := decimal.RequireFromString("23.4")
	b, err := c.Quote(s, miles)
	require.NoError(t, err)
	p, err := c.Profile(s)
	require.NoError(t, err)
	return selection.Render(p, s, b, miles, "")
}

func TestForFormat(t *testing.T) {
	f, err := ForFormat("", false)
	require.NoError(t, err)
	assert.Equal(t, FormatCLI, f.Format())

	f, err = ForFormat("JSON", false)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f.Format())

	_, err = ForFormat("html", false)
	assert.Error(t, err)
}

func TestCLIFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CLIFormatter{NoColor: true}).Render(&buf, sampleView(t)))

	out := buf.String()
	assert.Contains(t, out, "Quote: ")
	assert.Contains(t, out, "4 hours")
	assert.Contains(t, out, "Base Package")
	assert.Contains(t, out, "$350.00")
	assert.Contains(t, out, "Travel Cost")
	assert.Contains(t, out, "23.4 miles ($15.21)")
	assert.Contains(t, out, "Total:    $365.21")
	assert.Contains(t, out, "included")
	assert.NotContains(t, out, "\033[")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Render(&buf, sampleView(t)))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "sa-atx", decoded["location"])
	q, ok := decoded["quote"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "365.21", q["total"])
}
