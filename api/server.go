// Package api - Thin HTTP layer over the quote calculator.
// The API is ONLY responsible for: input ingestion, controller orchestration, output serialization.
// The API NEVER performs pricing logic.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quote-calculator/core/distance"
	"quote-calculator/core/selection"
	qerrors "quote-calculator/internal/errors"
	"quote-calculator/internal/secrets"
)

// Options configures a server
type Options struct {
	Version         string
	Controller      *selection.Controller
	Resolver        distance.Resolver
	Secrets         secrets.Source
	PublicDir       string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
}

// Server is the API server
type Server struct {
	handler  *Handler
	router   chi.Router
	version  string
	secrets  secrets.Source
	shutdown time.Duration
	logger   *zap.Logger
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		handler:  NewHandler(opts.Controller, opts.Resolver, logger),
		router:   chi.NewRouter(),
		version:  opts.Version,
		secrets:  opts.Secrets,
		shutdown: opts.ShutdownTimeout,
		logger:   logger,
	}
	s.registerRoutes(opts)
	return s
}

// registerRoutes registers all routes
func (s *Server) registerRoutes(opts Options) {
	s.router.Use(requestID)
	s.router.Use(accessLog(s.logger))
	s.router.Use(recoverer(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	s.router.Use(optionsOK)

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/config", s.handleConfig)
		r.Get("/catalog", s.handleCatalog)
		r.Post("/quote", s.handleQuote)
		r.Get("/distance", s.handleDistance)
	})

	if opts.PublicDir != "" {
		s.router.NotFound(newSPAHandler(opts.PublicDir).ServeHTTP)
	} else {
		s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, ErrorResponse{Error: "Not found"}, http.StatusNotFound)
		})
	}
}

// handleConfig handles GET /api/config
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var (
		key string
		err error
	)
	if s.secrets == nil {
		err = qerrors.NotConfigured("no secret source")
	} else {
		key, err = s.secrets.Key()
	}
	if err != nil {
		s.logger.Warn("api key unavailable",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, ErrorResponse{
			Error:   "Failed to load API configuration",
			Message: qerrors.Summary(err),
		}, http.StatusInternalServerError)
		return
	}
	writeJSON(w, ConfigResponse{APIKey: key, Message: "Configuration loaded successfully"}, http.StatusOK)
}

// handleCatalog handles GET /api/catalog
func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, catalogResponse(s.handler.ctrl.Catalog()), http.StatusOK)
}

// handleQuote handles POST /api/quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, qerrors.Wrap(qerrors.TypeInput, "invalid JSON body", err))
		return
	}

	view, err := s.handler.Quote(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, view, http.StatusOK)
}

// handleDistance handles GET /api/distance?location=&address=
func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.handler.Distance(r.Context(), q.Get("location"), q.Get("address"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, resp, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, HealthResponse{
		Status:         "healthy",
		Version:        s.version,
		CatalogVersion: s.handler.ctrl.Catalog().Version,
		Time:           time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
	}
	writeJSON(w, ErrorResponse{
		Error:   qerrors.Summary(err),
		Message: qerrors.UserMessage(err),
	}, status)
}

func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return qerrors.Config("listen", err).WithContext("addr", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on an existing listener until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdown)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
