package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/telia-oss/github-pr-insights/team"
)

// Loader returns the current team metrics.
type Loader func() (team.Report, error)

// Server exposes the aggregated team metrics read-only.
type Server struct {
	Router *chi.Mux

	load   Loader
	logger *slog.Logger
}

// Bucket is one labelled bar of the integration time histogram.
type Bucket struct {
	Bucket string `json:"bucket"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// NewServer ...
func NewServer(load Loader, logger *slog.Logger) *Server {
	s := &Server{load: load, logger: logger}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.healthCheck)

	r.Route("/api/teams", func(r chi.Router) {
		r.Get("/", s.listTeams)
		r.Get("/{team}", s.getTeam)
		r.Get("/{team}/integration-time", s.getIntegrationTime)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	s.Router = r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request served",
			"op", "serve",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	report, ok := s.report(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": report.Teams()})
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	m, ok := s.team(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) getIntegrationTime(w http.ResponseWriter, r *http.Request) {
	m, ok := s.team(w, r)
	if !ok {
		return
	}
	buckets := make([]Bucket, 0, team.Buckets)
	for i, n := range m.IntegrationTime {
		buckets = append(buckets, Bucket{
			Bucket: "opt" + strconv.Itoa(i+1),
			Label:  team.BucketLabels[i],
			Count:  n,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"team":             chi.URLParam(r, "team"),
		"integration_time": buckets,
	})
}

func (s *Server) report(w http.ResponseWriter) (team.Report, bool) {
	report, err := s.load()
	if err != nil {
		s.logger.Error("failed to load team metrics", "op", "load report", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "team metrics are unavailable")
		return nil, false
	}
	return report, true
}

func (s *Server) team(w http.ResponseWriter, r *http.Request) (*team.Metrics, bool) {
	report, ok := s.report(w)
	if !ok {
		return nil, false
	}
	name := chi.URLParam(r, "team")
	m, found := report[name]
	if !found || m == nil {
		writeError(w, http.StatusNotFound, "unknown team "+name)
		return nil, false
	}
	return m, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
