package inspector

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-tern/tern/pkg/runtime"
)

// Server exposes an app's committed tree over HTTP for out-of-process
// inspection. Endpoints:
//
//	/tree   last committed snapshot as JSON
//	/dump   last committed snapshot box-drawn as text
//	/stats  pass counter and loop phase
//	/health liveness check
//
// The app must be built with runtime.WithInspection so that snapshots
// are published at every commit.
type Server struct {
	mu       sync.Mutex
	app      *runtime.App
	server   *http.Server
	listener net.Listener
}

// NewServer returns a server reading snapshots from app.
func NewServer(app *runtime.App) *Server {
	return &Server{app: app}
}

// Start binds the listener and serves in a background goroutine.
// Returns the actual port, which is useful when port is 0.
func (s *Server) Start(port int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return s.listener.Addr().(*net.TCPAddr).Port, nil
	}

	// Bind first to fail fast on port conflicts.
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return 0, fmt.Errorf("inspector listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/tree", s.handleTree)
	mux.HandleFunc("/dump", s.handleDump)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/health", handleHealth)

	srv := &http.Server{Handler: mux}
	s.server = srv
	s.listener = ln

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.mu.Lock()
			s.server = nil
			s.listener = nil
			s.mu.Unlock()
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port, nil
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.app.LastSnapshot()
	if snap == nil {
		http.Error(w, "no committed tree", http.StatusServiceUnavailable)
		return
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleDump(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.app.LastSnapshot()
	if snap == nil {
		http.Error(w, "no committed tree", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, Dump(snap))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	stats := struct {
		Passes uint64 `json:"passes"`
		Phase  string `json:"phase"`
	}{
		Passes: s.app.Passes(),
		Phase:  s.app.Phase().String(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
