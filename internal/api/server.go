// Package api exposes the flight profile engine over HTTP.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"aeroprofile/pkg/version"
)

// NewRouter wires every endpoint. shutdown may be nil, in which case the
// shutdown endpoint is not registered.
func NewRouter(flightH *FlightHandler, streamH *StreamHandler, stats *StatsHandler, shutdown func()) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth)
	r.Get("/api/version", handleVersion)
	r.Get("/api/log/latest", handleLatestLog)
	r.Method(http.MethodGet, "/api/stats", stats)

	r.Get("/api/profile", flightH.HandleProfile)
	r.Get("/api/state", flightH.HandleState)
	r.Get("/api/sample", flightH.HandleSample)
	r.Get("/api/track", flightH.HandleTrack)
	r.Method(http.MethodGet, "/api/stream", streamH)

	if shutdown != nil {
		r.Post("/api/shutdown", func(w http.ResponseWriter, r *http.Request) {
			slog.Info("Graceful shutdown initiated via API")
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write([]byte("Shutting down...")); err != nil {
				slog.Error("Failed to write shutdown response", "error", err)
			}
			// Let the response flush first.
			go func() {
				time.Sleep(100 * time.Millisecond)
				shutdown()
			}()
		})
	}

	return r
}

// NewServer creates and configures the HTTP server.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: streams outlive it and set per-frame deadlines.
		IdleTimeout: 60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": %q}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
