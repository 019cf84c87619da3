// Package admin provides the local admin endpoint over a Unix socket.
// It is a read-only window into the running bot: health, live
// sessions, and an activity stream. Nothing here mutates state, and
// nothing here is reachable off-host.
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/gitscribe/gitscribe/activity"
	"github.com/gitscribe/gitscribe/logging"
	"github.com/gitscribe/gitscribe/session"
	"github.com/gitscribe/gitscribe/version"
)

// Server serves the admin API over a Unix socket.
type Server struct {
	logger    *logrus.Entry
	server    *http.Server
	sessions  *session.Store
	activity  *activity.Log
	guilds    func() int
	startedAt time.Time
	upgrader  websocket.Upgrader
	done      chan struct{}
}

// New creates the admin server. guilds reports how many guilds the
// chat surface currently sees; pass nil when the surface is not up.
func New(sessions *session.Store, log *activity.Log, guilds func() int) *Server {
	if guilds == nil {
		guilds = func() int { return 0 }
	}
	return &Server{
		logger:    logging.NewLogger("admin"),
		sessions:  sessions,
		activity:  log,
		guilds:    guilds,
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// ListenAndServe starts the admin API on the given unix socket path.
// It blocks until the server stops or fails.
func (s *Server) ListenAndServe(socketPath string) error {
	// Cleanup stale socket
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	// The socket directory doubles as the state directory; keep it
	// owner-only since sessions reference private repositories.
	if err := os.MkdirAll(filepath.Dir(socketPath), 0700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}

	// Set restrictive permissions on socket
	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/sessions", s.handleSessions)
	mux.HandleFunc("/api/stream", s.handleStream)

	s.server = &http.Server{
		Handler: h2c.NewHandler(mux, &http2.Server{}),
	}

	s.logger.WithField("socket", socketPath).Info("Admin endpoint listening")
	if err := s.server.Serve(listener); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and ends any open streams.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.done)
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

type healthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Guilds  int    `json:"guilds"`
}

// handleHealth reports liveness plus enough detail to eyeball a
// deployment without reading logs.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthStatus{
		Status:  "ok",
		Version: version.Version,
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
		Guilds:  s.guilds(),
	})
}

type sessionList struct {
	Count    int                        `json:"count"`
	Sessions map[string]session.Session `json:"sessions"`
}

// handleSessions returns every live session as JSON.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		http.Error(w, "session store not initialized", http.StatusServiceUnavailable)
		return
	}

	snapshot := s.sessions.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessionList{
		Count:    len(snapshot),
		Sessions: snapshot,
	})
}

// handleStream upgrades to a websocket and pushes activity events as
// they are recorded, one JSON object per message.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.activity == nil {
		http.Error(w, "activity log not initialized", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Stream upgrade failed")
		return
	}
	defer conn.Close()

	events := s.activity.Subscribe()
	defer s.activity.Unsubscribe(events)

	// The hello message tells the client its subscription is live;
	// everything recorded after reading it will be delivered.
	if err := conn.WriteJSON(map[string]string{"status": "connected"}); err != nil {
		return
	}

	s.logger.Debug("Stream client connected")

	// Drain client frames so close and ping frames are processed.
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Debug("Stream client disconnected")
				return
			}
		case <-disconnected:
			s.logger.Debug("Stream client disconnected")
			return
		case <-s.done:
			return
		}
	}
}
