// Package api - Quote orchestration
// This handler wraps the controller; it contains NO pricing logic.
package api

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quote-calculator/core/distance"
	"quote-calculator/core/pricing"
	"quote-calculator/core/selection"
	qerrors "quote-calculator/internal/errors"
)

// Handler turns quote requests into views
type Handler struct {
	ctrl     *selection.Controller
	resolver distance.Resolver
	logger   *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(ctrl *selection.Controller, resolver distance.Resolver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{ctrl: ctrl, resolver: resolver, logger: logger}
}

// Quote replays a request as events against a fresh state and renders the result.
// Categories are applied in canonical order so dependent groups see their parents first.
func (h *Handler) Quote(ctx context.Context, req *QuoteRequest) (selection.View, error) {
	state, err := h.ctrl.Initial(req.Location)
	if err != nil {
		return selection.View{}, err
	}

	if req.Hours != nil {
		if state, _, err = h.ctrl.Apply(state, selection.SetHours{Hours: *req.Hours}); err != nil {
			return selection.View{}, err
		}
	}

	for cat := range req.Selections {
		if !cat.Valid() {
			return selection.View{}, qerrors.Inputf("unknown category %q", cat)
		}
	}
	for _, cat := range pricing.Categories {
		tier, ok := req.Selections[cat]
		if !ok {
			continue
		}
		if state, _, err = h.ctrl.Apply(state, selection.PickTier{Category: cat, Tier: tier}); err != nil {
			return selection.View{}, err
		}
	}

	state, fx, err := h.ctrl.Apply(state, selection.SetAddress{Address: req.Address})
	if err != nil {
		return selection.View{}, err
	}

	profile, err := h.ctrl.Profile(state)
	if err != nil {
		return selection.View{}, err
	}

	miles := decimal.Zero
	var message string
	switch {
	case req.Miles != nil:
		if req.Miles.IsNegative() {
			return selection.View{}, qerrors.Input("miles must not be negative")
		}
		miles = *req.Miles
	case fx.ResolveAddress != "":
		m, err := h.resolver.Resolve(ctx, fx.ResolveAddress, profile.Origin)
		if err != nil {
			h.logger.Info("distance lookup failed",
				zap.String("address", fx.ResolveAddress),
				zap.Error(err),
			)
			message = qerrors.Summary(err)
		} else {
			miles = m
		}
	}

	b, err := h.ctrl.Quote(state, miles)
	if err != nil {
		return selection.View{}, err
	}
	return selection.Render(profile, state, b, miles, message), nil
}

// Distance resolves an address against a location origin
func (h *Handler) Distance(ctx context.Context, location, address string) (*DistanceResponse, error) {
	profile, err := h.profile(location)
	if err != nil {
		return nil, err
	}
	miles, err := h.resolver.Resolve(ctx, address, profile.Origin)
	if err != nil {
		return nil, err
	}
	dv := selection.DistanceView{Miles: miles, Cost: miles.Mul(profile.RatePerMile).Round(2)}
	return &DistanceResponse{
		Location: profile.ID,
		Address:  address,
		Miles:    dv.Miles,
		Cost:     dv.Cost,
		Text:     dv.Text(),
	}, nil
}

func (h *Handler) profile(location string) (*pricing.Profile, error) {
	if location == "" {
		if p := h.ctrl.Catalog().DefaultProfile(); p != nil {
			return p, nil
		}
	}
	return h.ctrl.Catalog().Profile(location)
}

// statusFor maps an error type to an HTTP status
func statusFor(err error) int {
	switch qerrors.TypeOf(err) {
	case qerrors.TypeInput:
		return http.StatusBadRequest
	case qerrors.TypeNotFound, qerrors.TypeAddressNotFound:
		return http.StatusNotFound
	case qerrors.TypeDistanceUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
