package distance

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-calculator/core/pricing"
	qerrors "quote-calculator/internal/errors"
)

// gatedResolver answers each address once its gate is released
type gatedResolver struct {
	gates   map[string]chan struct{}
	answers map[string]decimal.Decimal
}

func (g *gatedResolver) Resolve(ctx context.Context, address string, _ pricing.Coordinate) (decimal.Decimal, error) {
	if gate, ok := g.gates[address]; ok {
		<-gate
	}
	if m, ok := g.answers[address]; ok {
		return m, nil
	}
	return decimal.Zero, qerrors.AddressNotFound(fmt.Errorf("%s", address))
}

func TestTrackerAcceptsLatest(t *testing.T) {
	r := &gatedResolver{answers: map[string]decimal.Decimal{"a": decimal.NewFromInt(10)}}
	tr := NewTracker(r, nil)

	seq := tr.Begin()
	res, latest := tr.Resolve(context.Background(), seq, "a", origin)
	require.True(t, latest)
	assert.True(t, res.OK())
	assert.Equal(t, "10", tr.Current().Miles.String())
}

func TestTrackerDiscardsStaleResult(t *testing.T) {
	r := &gatedResolver{
		gates:   map[string]chan struct{}{"slow": make(chan struct{})},
		answers: map[string]decimal.Decimal{"slow": decimal.NewFromInt(99), "fast": decimal.NewFromInt(5)},
	}
	tr := NewTracker(r, nil)

	first := tr.Begin()
	done := make(chan bool)
	go func() {
		_, latest := tr.Resolve(context.Background(), first, "slow", origin)
		done <- latest
	}()

	second := tr.Begin()
	_, latest := tr.Resolve(context.Background(), second, "fast", origin)
	require.True(t, latest)

	close(r.gates["slow"])
	assert.False(t, <-done)
	assert.Equal(t, "5", tr.Current().Miles.String())
	assert.Equal(t, second, tr.Current().Seq)
	assert.False(t, tr.Latest(first))
}

func TestTrackerFailureZeroesDistance(t *testing.T) {
	r := &gatedResolver{answers: map[string]decimal.Decimal{"ok": decimal.NewFromInt(12)}}
	tr := NewTracker(r, nil)

	_, _ = tr.Resolve(context.Background(), tr.Begin(), "ok", origin)
	require.Equal(t, "12", tr.Current().Miles.String())

	res, latest := tr.Resolve(context.Background(), tr.Begin(), "missing", origin)
	require.True(t, latest)
	assert.False(t, res.OK())
	assert.Equal(t, "Address not found", res.Message)
	assert.True(t, tr.Current().Miles.IsZero())
}

func TestTrackerNotConfiguredMessage(t *testing.T) {
	tr := NewTracker(NewClient(""), nil)
	res, _ := tr.Resolve(context.Background(), tr.Begin(), "x", origin)
	assert.Equal(t, "API not configured", res.Message)
	assert.True(t, res.Miles.IsZero())
}

func TestTrackerClear(t *testing.T) {
	r := &gatedResolver{answers: map[string]decimal.Decimal{"ok": decimal.NewFromInt(12)}}
	tr := NewTracker(r, nil)

	seq := tr.Begin()
	tr.Clear()
	_, latest := tr.Resolve(context.Background(), seq, "ok", origin)
	assert.False(t, latest)
	assert.True(t, tr.Current().Miles.IsZero())
}
