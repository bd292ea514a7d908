// Package api - Thin HTTP layer over the basket pricer
// The API is ONLY responsible for: request decoding, basket filling, output serialization.
// The API NEVER performs pricing logic.
package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"basket-pricer/core/basket"
	"basket-pricer/core/output"
	"basket-pricer/internal/errors"
	"basket-pricer/internal/logging"
)

// maxRequestBytes bounds a quote request body
const maxRequestBytes = 1 << 20

// Server is the API server
type Server struct {
	router         chi.Router
	pricer         *basket.Pricer
	version        string
	allowedOrigins []string
	registry       *prometheus.Registry
	metrics        *metrics
}

// Option configures a Server
type Option func(*Server)

// WithAllowedOrigins enables CORS for the given origins
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// NewServer creates a new API server pricing against pricer
func NewServer(version string, pricer *basket.Pricer, opts ...Option) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		pricer:   pricer,
		version:  version,
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newMetrics("basket", s.registry)

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	if len(s.allowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"X-Skipped-Items"},
			MaxAge:         300,
		}))
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.router.Post("/quote", s.handleQuote)
	s.router.Get("/catalog", s.handleCatalog)

	// Supporting endpoints
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// handleQuote handles POST /quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req QuoteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.metrics.quotes.WithLabelValues(resultInvalid).Inc()
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	b := s.pricer.NewBasket()
	var skipped []string
	for _, code := range req.Items {
		err := b.Add(code)
		if err == nil {
			continue
		}
		if req.SkipUnknown && errors.IsType(err, errors.TypeUnknownProduct) {
			skipped = append(skipped, code)
			s.metrics.skippedItems.Inc()
			continue
		}
		s.metrics.quotes.WithLabelValues(resultUnknownProduct).Inc()
		s.writeDomainError(w, err)
		return
	}

	breakdown := b.Breakdown()
	s.metrics.quotes.WithLabelValues(resultOK).Inc()
	s.metrics.basketItems.Observe(float64(breakdown.Units))
	logging.Info("basket quoted",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("basket_id", breakdown.BasketID),
		zap.Int("items", breakdown.Units),
		zap.Strings("skipped", skipped),
		logging.Amount("total", breakdown.Total),
		zap.Duration("duration", time.Since(start)))

	w.Header().Set("Content-Type", "application/json")
	if len(skipped) > 0 {
		w.Header().Set("X-Skipped-Items", strings.Join(skipped, ","))
	}
	w.WriteHeader(http.StatusOK)
	if err := (&output.JSONFormatter{}).Render(w, breakdown); err != nil {
		logging.Error("failed to write quote", zap.Error(err))
	}
}

// handleCatalog handles GET /catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, newCatalogResponse(s.pricer), http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "basket-pricer",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message},
	}, status)
}

// writeDomainError maps typed errors onto HTTP statuses
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		s.writeError(w, string(errors.TypeInternal), err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusInternalServerError
	switch e.Type {
	case errors.TypeUnknownProduct:
		status = http.StatusUnprocessableEntity
	case errors.TypeInput:
		status = http.StatusBadRequest
	case errors.TypeNotFound:
		status = http.StatusNotFound
	}
	s.writeJSON(w, ErrorResponse{
		Error: ErrorBody{Code: string(e.Type), Message: e.Message, Context: e.Context},
	}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
