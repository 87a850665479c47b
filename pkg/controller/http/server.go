package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/usecase"
	"github.com/secmon-lab/riskscore/pkg/utils/errutil"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
	"github.com/secmon-lab/riskscore/pkg/utils/safe"
)

const maxRequestBody = 1 << 20

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	if uc == nil {
		return nil, goerr.New("use cases are required")
	}

	r := chi.NewRouter()
	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/criteria", s.getCriteria)
		r.Get("/selection-config", s.getSelectionConfig)
		r.Get("/risk-thresholds", s.getRiskThresholds)
		r.Get("/thresholds/preview", s.getThresholdPreview)
		r.Post("/score", s.postScore)

		// Admin routes pick the branch explicitly and see every branch
		r.Route("/admin/assessments", func(r chi.Router) {
			r.Get("/", s.listAssessments(adminScope))
			r.Post("/", s.createAssessment(adminScope))
			r.Get("/{id}", s.getAssessment(adminScope))
			r.Put("/{id}", s.updateAssessment(adminScope))
			r.Delete("/{id}", s.deleteAssessment(adminScope))
		})

		// Officer routes are bound to the branch in the request header
		r.Route("/assessments", func(r chi.Router) {
			r.Use(requireBranch)
			r.Get("/", s.listAssessments(officerScope))
			r.Post("/", s.createAssessment(officerScope))
			r.Get("/{id}", s.getAssessment(officerScope))
			r.Put("/{id}", s.updateAssessment(officerScope))
			r.Delete("/{id}", s.deleteAssessment(officerScope))
		})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrAssessmentNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func readJSON(r *http.Request, w http.ResponseWriter, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(errors.Join(model.ErrValidation, err), "invalid JSON body")
	}
	return nil
}
