// Package api provides the optional HTTP status server: health, a stats
// snapshot, pause control and a live websocket tap of filter decisions.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/ITJesse/mouse-smoother/internal/config"
	"github.com/ITJesse/mouse-smoother/internal/protocol"
	"github.com/ITJesse/mouse-smoother/internal/smoother"
)

// Server exposes session status and control over HTTP.
type Server struct {
	configMgr *config.Manager
	session   *smoother.Session
	log       *slog.Logger
	token     string
	wsMgr     *WSManager
}

// NewServer creates a new API server
func NewServer(configMgr *config.Manager, session *smoother.Session, log *slog.Logger) *Server {
	s := &Server{
		configMgr: configMgr,
		session:   session,
		log:       log,
	}
	s.wsMgr = newWSManager(s)
	return s
}

// Start starts the API server on the specified port. It blocks.
func (s *Server) Start(port int) error {
	cfg := s.configMgr.Get()
	s.token = cfg.API.Token

	go s.wsMgr.start()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/pause", s.handlePause)
	mux.HandleFunc("/ws", s.wsMgr.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	// Local tool: bind loopback only.
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	s.log.Info("starting API server", "addr", addr)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("api listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler: s.authMiddleware(s.recoverMiddleware(mux)),
	}
	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// BroadcastDecision streams a filter verdict to all connected observers.
func (s *Server) BroadcastDecision(p protocol.DecisionPayload) {
	s.wsMgr.broadcastAsync(protocol.Message{Type: protocol.TypeDecision, Payload: p})
}

// recoverMiddleware prevents panics from crashing the whole server
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.log.Error("api handler panic", "err", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware checks the API token if one is configured
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("api request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)

		// Skip auth for health check
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		if s.token != "" {
			if r.Header.Get("Authorization") != "Bearer "+s.token {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) statusPayload() protocol.StatusPayload {
	stats := s.session.Stats()
	return protocol.StatusPayload{
		Device:               s.session.DevicePath(),
		VirtualDevice:        "Virtual " + s.session.DeviceName(),
		Paused:               s.session.Paused(),
		EventsIn:             stats.EventsIn,
		EventsOut:            stats.EventsOut,
		Cycles:               stats.Cycles,
		SuppressedVertical:   stats.SuppressedVertical,
		SuppressedHorizontal: stats.SuppressedHorizontal,
	}
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.configMgr.Get()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": s.statusPayload(),
		"wheel":  cfg.Wheel,
	})
}

// handlePause handles POST /api/pause with a JSON {"paused": bool} body
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var p protocol.PausePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid pause payload", http.StatusBadRequest)
		return
	}

	s.session.SetPaused(p.Paused)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"paused": p.Paused,
	})
}

// handleHealth handles GET /health (for monitoring)
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
