package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const serviceVersion = "2.0"

// Runner processes one import session; the API only triggers it.
type Runner interface {
	Run(ctx context.Context, sessionID string, userAPIKey string) error
}

type importRequest struct {
	SessionID       string `json:"session_id"`
	AnthropicAPIKey string `json:"anthropic_api_key"`
}

type Server struct {
	runner Runner
	server *http.Server
}

func NewServer(port int, runner Runner) *Server {

	s := &Server{runner: runner}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/import", s.handleImport)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Run() error {
	log.Infof("api server listening on %v", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "remoteflow-import-worker",
		"version": serviceVersion,
	})
}

// handleImport kicks off the session in the background and replies
// immediately; progress lands in the store, not in this response.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	go func() {
		if err := s.runner.Run(context.Background(), req.SessionID, req.AnthropicAPIKey); err != nil {
			log.Errorf("failed to run session %v: %v", req.SessionID, err)
		}
	}()

	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "started",
		"session_id": req.SessionID,
		"message":    "Import worker spawned successfully",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
