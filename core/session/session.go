// Package session drives one calculator instance: it applies events through the selection
// controller, recomputes the quote, and resolves the event address in the background.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quote-calculator/core/distance"
	"quote-calculator/core/pricing"
	"quote-calculator/core/selection"
	qerrors "quote-calculator/internal/errors"
)

// UpdateFunc receives a fresh view after a background distance lookup lands.
// It runs outside the session lock, so it can arrive after a later Dispatch has
// returned; drop views whose Revision is below the last one seen.
type UpdateFunc func(selection.View)

// Option configures a session
type Option func(*Session)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithUpdates registers the update callback
func WithUpdates(fn UpdateFunc) Option {
	return func(s *Session) {
		s.onUpdate = fn
	}
}

// WithLocation sets the starting location
func WithLocation(id string) Option {
	return func(s *Session) {
		s.location = id
	}
}

// Session is safe for concurrent use
type Session struct {
	ID string

	mu       sync.Mutex
	ctrl     *selection.Controller
	tracker  *distance.Tracker
	state    selection.State
	rev      uint64
	location string
	onUpdate UpdateFunc
	logger   *zap.Logger
	pending  sync.WaitGroup
}

// New creates a session in its initial state
func New(ctrl *selection.Controller, resolver distance.Resolver, opts ...Option) (*Session, error) {
	s := &Session{
		ID:     uuid.NewString(),
		ctrl:   ctrl,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.ID))
	s.tracker = distance.NewTracker(resolver, s.logger)

	state, err := ctrl.Initial(s.location)
	if err != nil {
		return nil, err
	}
	s.state = state
	return s, nil
}

// State returns the current state snapshot
func (s *Session) State() selection.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View renders the current state
func (s *Session) View() selection.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render()
}

// Dispatch applies one event and returns the resulting view.
// A rejected event leaves the state unchanged; the view then carries the error message.
func (s *Session) Dispatch(ctx context.Context, ev selection.Event) (selection.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, fx, err := s.ctrl.Apply(s.state, ev)
	if err != nil {
		s.logger.Debug("event rejected", zap.Error(err))
		v := s.render()
		v.Error = qerrors.UserMessage(err)
		return v, err
	}
	s.state = next
	s.rev++

	if next.Address == "" {
		s.tracker.Clear()
	}
	if fx.ResolveAddress != "" {
		profile, err := s.ctrl.Profile(next)
		if err != nil {
			return s.render(), err
		}
		seq := s.tracker.Begin()
		s.pending.Add(1)
		go s.resolve(context.WithoutCancel(ctx), seq, fx.ResolveAddress, profile.Origin)
	}

	return s.render(), nil
}

// Wait blocks until every background lookup has finished
func (s *Session) Wait() {
	s.pending.Wait()
}

func (s *Session) resolve(ctx context.Context, seq uint64, address string, origin pricing.Coordinate) {
	defer s.pending.Done()

	res, latest := s.tracker.Resolve(ctx, seq, address, origin)
	if !latest {
		return
	}
	if !res.OK() {
		s.logger.Info("distance lookup failed",
			zap.String("address", address),
			zap.String("message", res.Message),
			zap.Error(res.Err),
		)
	}

	s.mu.Lock()
	if !s.tracker.Latest(seq) {
		s.mu.Unlock()
		return
	}
	s.rev++
	v := s.render()
	fn := s.onUpdate
	s.mu.Unlock()

	if fn != nil {
		fn(v)
	}
}

// render must be called with mu held
func (s *Session) render() selection.View {
	profile, err := s.ctrl.Profile(s.state)
	if err != nil {
		return selection.View{Location: s.state.Location, Error: qerrors.UserMessage(err), Revision: s.rev}
	}

	dist := s.tracker.Current()
	b, err := s.ctrl.Quote(s.state, dist.Miles)
	v := selection.Render(profile, s.state, b, dist.Miles, dist.Message)
	v.Revision = s.rev
	if err != nil {
		v.Error = qerrors.UserMessage(err)
	}
	return v
}
