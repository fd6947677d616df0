package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/clientrank/internal/domain"
	"github.com/kailas-cloud/clientrank/internal/logger"
	healthuc "github.com/kailas-cloud/clientrank/internal/usecase/health"
	rankinguc "github.com/kailas-cloud/clientrank/internal/usecase/ranking"
)

// maxBodyBytes bounds request bodies; a rank request carries whole client books.
const maxBodyBytes = 32 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the ranking engine over HTTP.
type Server struct {
	ranking       *rankinguc.Service
	health        *healthuc.Service
	validate      *validator.Validate
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(ranking *rankinguc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		ranking:  ranking,
		health:   health,
		validate: newValidator(),
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, CodeInvalidFilter),
		sentinelHandler(domain.ErrInvalidClientID, http.StatusBadRequest, CodeInvalidClientID),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domain.ErrStorageUnavailable, http.StatusServiceUnavailable, CodeUnavailable),
	}
	return s
}

// Mount registers the API routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/rank", s.Rank)
		r.Get("/filters/defaults", s.DefaultFilters)
		r.Post("/filters/active-count", s.CountActiveFilters)
		r.Get("/recent", s.ListRecent)
		r.Delete("/recent", s.ClearRecent)
		r.Post("/recent/{clientID}", s.TouchRecent)
	})
}

// Rank handles POST /v1/rank.
func (s *Server) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if !s.decode(w, r, &req) {
		return
	}

	in, dropped, err := req.ToInput(s.ranking.DefaultFilters())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res := s.ranking.Rank(r.Context(), in)
	if dropped > 0 {
		logger.FromContext(r.Context()).Debug("Malformed records dropped at decode",
			zap.Int("dropped", dropped),
		)
	}

	writeJSON(w, http.StatusOK, NewRankResponse(res, dropped))
}

// DefaultFilters handles GET /v1/filters/defaults.
func (s *Server) DefaultFilters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, filterOptionsFromDomain(s.ranking.DefaultFilters()))
}

// CountActiveFilters handles POST /v1/filters/active-count.
func (s *Server) CountActiveFilters(w http.ResponseWriter, r *http.Request) {
	var req FilterOptions
	if !s.decode(w, r, &req) {
		return
	}
	opts, err := req.toDomain(s.ranking.DefaultFilters())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: s.ranking.CountActiveFilters(opts)})
}

// ListRecent handles GET /v1/recent.
func (s *Server) ListRecent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ranking.Recent(r.Context()))
}

// ClearRecent handles DELETE /v1/recent.
func (s *Server) ClearRecent(w http.ResponseWriter, r *http.Request) {
	if err := s.ranking.ClearRecent(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TouchRecent handles POST /v1/recent/{clientID}.
func (s *Server) TouchRecent(w http.ResponseWriter, r *http.Request) {
	if err := s.ranking.TouchRecent(r.Context(), chi.URLParam(r, "clientID")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads and validates a JSON body. On failure it writes the 400 and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidFilter, validationMessage(err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation errors only echo the caller's own input and are passed through.
func safeDomainMessage(err error) string {
	for _, s := range []error{domain.ErrInvalidFilter, domain.ErrInvalidClientID, domain.ErrInvalidInput} {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return domain.ErrStorageUnavailable.Error()
	}
	return "internal error"
}
