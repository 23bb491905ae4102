package selection

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-calculator/core/pricing"
)

func TestRenderGroupsAndSelection(t *testing.T) {
	c := newController()
	s := mustInitial(t, c, "sa-atx")
	s, _ = mustApply(t, c, s, PickTier{Category: pricing.CategorySound, Tier: "premium"})
	profile, err := c.Profile(s)
	require.NoError(t, err)

	miles := decimal.RequireFromString("23.4")
	b, err := c.Quote(s, miles)
	require.NoError(t, err)

	v := Render(profile, s, b, miles, "")
	assert.Equal(t, "sa-atx", v.Location)
	assert.Equal(t, "4 hours", v.HoursLabel)
	require.Len(t, v.Groups, len(pricing.Categories))

	sound := v.Groups[0]
	assert.Equal(t, pricing.CategorySound, sound.Category)
	require.Len(t, sound.Options, 3)
	assert.False(t, sound.Options[0].Selected)
	assert.True(t, sound.Options[1].Selected)
	assert.Equal(t, "$300 base (4hrs), +$35/hr after", sound.Options[1].Price)

	water := v.Groups[4]
	assert.Equal(t, pricing.CategoryWater, water.Category)
	assert.False(t, water.Visible)
	assert.Empty(t, water.Options)

	assert.Equal(t, "15.21", v.Distance.Cost.StringFixed(2))
	assert.Equal(t, "23.4 miles ($15.21)", v.Distance.Text())
	assert.Equal(t, b, v.Quote)
}

func TestRenderLockedVisualHasNoSelection(t *testing.T) {
	c := newController()
	s := mustInitial(t, c, "sa-atx")
	s, _ = mustApply(t, c, s, PickTier{Category: pricing.CategorySound, Tier: "fullStack"})
	profile, err := c.Profile(s)
	require.NoError(t, err)

	v := Render(profile, s, nil, decimal.Zero, "Address not found")
	visual := v.Groups[2]
	assert.Equal(t, pricing.CategoryVisual, visual.Category)
	assert.True(t, visual.Visible)
	assert.False(t, visual.Enabled)
	require.NotEmpty(t, visual.Options)
	for _, o := range visual.Options {
		assert.False(t, o.Selected, o.Name)
	}
	assert.Equal(t, "Address not found", v.Distance.Text())
	assert.True(t, v.Distance.Cost.IsZero())
}

func TestHoursLabel(t *testing.T) {
	assert.Equal(t, "1 hour", HoursLabel(decimal.NewFromInt(1)))
	assert.Equal(t, "2 hours", HoursLabel(decimal.NewFromInt(2)))
	assert.Equal(t, "2.5 hours", HoursLabel(decimal.RequireFromString("2.5")))
}
