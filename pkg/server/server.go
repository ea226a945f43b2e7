// Package server exposes the analyzer over HTTP: config upload and
// analysis, stored analyses, report history and downloads.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/user/aclsec/pkg/engine"
	"github.com/user/aclsec/pkg/logger"
	"github.com/user/aclsec/pkg/report"
)

type Options struct {
	UploadDir      string
	ReportDir      string
	MaxUploadBytes int64
	Formats        []report.Format
}

type Server struct {
	opts      Options
	evaluator *engine.Evaluator
	ports     engine.PortTable
	store     *engine.Store
	router    *mux.Router
	now       func() time.Time
}

// New wires the routes. ports is only reported by /api/checks; the
// evaluator decides what is actually checked.
func New(opts Options, ev *engine.Evaluator, ports engine.PortTable, store *engine.Store) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 16 << 20
	}
	if len(opts.Formats) == 0 {
		opts.Formats = report.AllFormats
	}
	if store == nil {
		store = engine.NewStore()
	}
	s := &Server{
		opts:      opts,
		evaluator: ev,
		ports:     ports,
		store:     store,
		router:    mux.NewRouter(),
		now:       time.Now,
	}
	s.Router(s.router)
	return s
}

func (s *Server) Router(router *mux.Router) {
	router.HandleFunc("/api/health", s.Health).Methods("GET")
	router.HandleFunc("/api/analyze", s.Analyze).Methods("POST")
	router.HandleFunc("/api/analyses", s.ListAnalyses).Methods("GET")
	router.HandleFunc("/api/analyses/{id}", s.GetAnalysis).Methods("GET")
	router.HandleFunc("/api/reports", s.ListReports).Methods("GET")
	router.HandleFunc("/api/reports/{name}", s.Download).Methods("GET")
	router.HandleFunc("/api/checks", s.Checks).Methods("GET")
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ResponseMsg(w, http.StatusNotFound, "not found")
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	for _, dir := range []string{s.opts.UploadDir, s.opts.ReportDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Server running at: http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ResponseJson(w, map[string]string{"status": "ok"})
}

type checkInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) Checks(w http.ResponseWriter, r *http.Request) {
	checks := make([]checkInfo, 0)
	for _, c := range s.evaluator.Checks() {
		checks = append(checks, checkInfo{ID: c.ID, Name: c.Name})
	}
	ports := s.ports
	if ports == nil {
		ports = engine.PortTable{}
	}
	ResponseJson(w, struct {
		Checks     []checkInfo      `json:"checks"`
		RiskyPorts engine.PortTable `json:"risky_ports"`
	}{checks, ports})
}
