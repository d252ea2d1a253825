// Package server provides the curvewatch HTTP API: cached observations,
// latest reports and rendered charts.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/curvewatch/curvewatch/internal/config"
	"github.com/curvewatch/curvewatch/store/sqlite"
)

// Server is the curvewatch HTTP API server.
type Server struct {
	config *config.Config
	store  *sqlite.Store
	router chi.Router
}

// New creates a new Server over an open store.
func New(cfg *config.Config, store *sqlite.Store) *Server {
	s := &Server{config: cfg, store: store}
	s.router = s.buildRouter()
	return s
}

// Start runs the HTTP server until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.ServerAddr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("curvewatch server listening on %s", s.config.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/series/{id}", s.handleGetSeries)
		r.Get("/reports/latest", s.handleLatestReport)
	})

	// Rendered chart PNGs.
	fileServer := http.StripPrefix("/charts/", http.FileServer(http.Dir(s.config.ChartDir)))
	r.Get("/charts/*", fileServer.ServeHTTP)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return r
}

type observationJSON struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type seriesResponse struct {
	SeriesID     string            `json:"series_id"`
	Source       string            `json:"source"`
	Observations []observationJSON `json:"observations"`
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "id")

	var start time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid start date %q", raw))
			return
		}
		start = parsed
	}

	sr, err := s.store.GetSeries(seriesID, start)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sr.Len() == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no cached observations for %q", seriesID))
		return
	}

	resp := seriesResponse{SeriesID: seriesID, Source: sr.Source}
	for _, p := range sr.Points {
		resp.Observations = append(resp.Observations, observationJSON{
			Date:  p.Date.Format("2006-01-02"),
			Value: p.Value,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing key parameter")
		return
	}

	rep, err := s.store.LatestReport(key)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no reports for %q", key))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
