// Package status serves the sync daemon's local status endpoint.
package status

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"hostelbook-client/internal/config"
	"hostelbook-client/internal/jobs"
	"hostelbook-client/internal/logger"
	"hostelbook-client/internal/store"
)

// Server exposes daemon health and the latest observations over HTTP,
// bound to localhost by default.
type Server struct {
	httpServer *http.Server
	store      *store.Store
	runner     *jobs.Runner
	watches    []config.Watch
	startedAt  time.Time
}

// NewServer builds the status server.
func NewServer(addr string, st *store.Store, runner *jobs.Runner, watches []config.Watch) *Server {
	s := &Server{
		store:     st,
		runner:    runner,
		watches:   watches,
		startedAt: time.Now(),
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/status/snapshots/{hostelID}", s.handleSnapshots).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until Shutdown. It blocks; run it in a goroutine.
func (s *Server) Start() error {
	logger.Info("status server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusResponse struct {
	UptimeSeconds int64                `json:"uptimeSeconds"`
	LastRuns      map[string]time.Time `json:"lastRuns"`
	LastBalance   float64              `json:"lastBalance"`
	BalanceAsOf   *time.Time           `json:"balanceAsOf,omitempty"`
	Watches       int                  `json:"watches"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		LastRuns:      s.runner.LastRuns(),
		Watches:       len(s.watches),
	}

	balance, fetchedAt, err := s.store.LastBalance(r.Context())
	if err != nil {
		logger.Warn("failed to read last balance for status", "error", err)
	} else {
		resp.LastBalance = balance
		if !fetchedAt.IsZero() {
			resp.BalanceAsOf = &fetchedAt
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	hostelID := mux.Vars(r)["hostelID"]

	count, err := s.store.SnapshotCount(r.Context(), hostelID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hostelId":  hostelID,
		"snapshots": count,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode status response", "error", err)
	}
}
