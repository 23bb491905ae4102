// Package distance - Latest-request tracking
package distance

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quote-calculator/core/pricing"
	qerrors "quote-calculator/internal/errors"
)

// Result is the outcome of one resolution request
type Result struct {
	Seq     uint64          `json:"seq"`
	Address string          `json:"address,omitempty"`
	Miles   decimal.Decimal `json:"miles"`
	Message string          `json:"message,omitempty"`
	Err     error           `json:"-"`
}

// OK reports whether the resolution succeeded
func (r Result) OK() bool {
	return r.Err == nil
}

// Tracker serializes distance lookups so only the most recently issued request wins.
// Failures never escape: they become a zero distance plus a message.
type Tracker struct {
	mu       sync.Mutex
	resolver Resolver
	logger   *zap.Logger
	seq      uint64
	current  Result
}

// NewTracker creates a tracker over a resolver
func NewTracker(r Resolver, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{resolver: r, logger: logger, current: Result{Miles: decimal.Zero}}
}

// Begin issues a new sequence number, invalidating every earlier request
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	return t.seq
}

// Clear invalidates pending requests and resets the distance to zero
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.current = Result{Seq: t.seq, Miles: decimal.Zero}
}

// Resolve runs the lookup for a sequence number issued by Begin.
// The returned bool is false when a newer request was issued meanwhile; the result is then discarded.
func (t *Tracker) Resolve(ctx context.Context, seq uint64, address string, origin pricing.Coordinate) (Result, bool) {
	res := Result{Seq: seq, Address: address, Miles: decimal.Zero}

	miles, err := t.resolver.Resolve(ctx, address, origin)
	if err != nil {
		res.Err = err
		res.Message = qerrors.Summary(err)
	} else {
		res.Miles = miles
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if seq != t.seq {
		t.logger.Debug("discarding stale distance result",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", t.seq),
		)
		return res, false
	}
	t.current = res
	return res, true
}

// Current returns the latest accepted result
func (t *Tracker) Current() Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Latest reports whether seq is still the newest request
func (t *Tracker) Latest(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return seq == t.seq
}
