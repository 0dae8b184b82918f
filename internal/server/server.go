// Package server exposes the running game over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ayusman/handgame/internal/game"
	"github.com/ayusman/handgame/internal/store"
)

// Game is the part of the game loop the server reads from and commands.
type Game interface {
	Snapshot() game.Snapshot
	LatestFrame() ([]byte, bool)
	Send(cmd game.Command) bool
}

// Config holds the server configuration.
type Config struct {
	Game Game
	// Store and SessionID back the history endpoints when set.
	Store     *store.Store
	SessionID string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
}

// Server is the HTTP surface of the game.
type Server struct {
	config Config
	logger *slog.Logger
	router *mux.Router
	states *StateHandler
	start  time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: config,
		logger: logger,
		router: mux.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	if s.config.Game != nil {
		s.states = NewStateHandler(s.config.Game, s.logger)

		r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
		r.HandleFunc("/api/restart", s.handleRestart).Methods(http.MethodPost)
		r.Handle("/api/stream", NewStreamHandler(s.config.Game)).Methods(http.MethodGet)
		r.HandleFunc("/api/snapshot.jpg", s.handleSnapshot).Methods(http.MethodGet)
		r.Handle("/api/ws", s.states).Methods(http.MethodGet)
	}

	if s.config.Store != nil {
		r.HandleFunc("/api/rounds", s.handleRounds).Methods(http.MethodGet)
		r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	}

	if s.config.Metrics != nil {
		r.Handle("/metrics", s.config.Metrics).Methods(http.MethodGet)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if s.states != nil {
		go s.states.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

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

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.config.Game.Snapshot())
}

// handleRestart queues a restart for the game loop. It is accepted, not
// applied, when the response is written.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if !s.config.Game.Send(game.CommandRestart) {
		writeError(w, http.StatusServiceUnavailable, "command queue full")
		return
	}
	s.logger.Info("restart requested over http", "remote", r.RemoteAddr)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// handleRounds lists history, newest first. session=all spans every session;
// the default is the running one.
func (s *Server) handleRounds(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	rounds, err := s.config.Store.Rounds().List(s.sessionFilter(r), limit)
	if err != nil {
		s.logger.Error("list rounds", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list rounds")
		return
	}
	if rounds == nil {
		rounds = []*store.Round{}
	}
	writeJSON(w, http.StatusOK, rounds)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	session, err := s.config.Store.Rounds().Tally(s.config.SessionID)
	if err != nil {
		s.logger.Error("tally session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	allTime, err := s.config.Store.Rounds().Tally("")
	if err != nil {
		s.logger.Error("tally all", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]store.Tally{
		"session":  session,
		"all_time": allTime,
	})
}

func (s *Server) sessionFilter(r *http.Request) string {
	if r.URL.Query().Get("session") == "all" {
		return ""
	}
	return s.config.SessionID
}
