package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/analysis"
)

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Response, error)
}

// Info is reported by the status endpoint. NATS is nil when messaging is
// disabled.
type Info struct {
	Version  string
	Narrator string
	Model    string
	NATS     func() bool
}

type Server struct {
	router    *chi.Mux
	port      int
	analyzer  Analyzer
	info      Info
	maxUpload int64
	logger    *slog.Logger
	srv       *http.Server
}

func NewServer(port int, a Analyzer, info Info, maxUploadBytes int64, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		port:      port,
		analyzer:  a,
		info:      info,
		maxUpload: maxUploadBytes,
		logger:    logger,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.status)
		r.Post("/analyze", s.analyze)
	})

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start blocks until the server stops. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	nats := "disabled"
	if s.info.NATS != nil {
		nats = "disconnected"
		if s.info.NATS() {
			nats = "connected"
		}
	}
	body := map[string]string{
		"service":  "realmbti",
		"version":  s.info.Version,
		"narrator": s.info.Narrator,
		"nats":     nats,
	}
	if s.info.Model != "" {
		body["model"] = s.info.Model
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, map[string]string{"error": fmt.Sprintf(format, args...)})
}
