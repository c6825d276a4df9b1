// Package server hosts the generated playlists over HTTP for players on the
// local network.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"
)

// Server serves the output directory read-only. The generator replaces
// playlist files atomically, so a read never observes a partial document.
type Server struct {
	fs        afero.Fs
	outputDir string
	addr      string
	router    *mux.Router
	log       *slog.Logger
}

// New creates a server for the given output directory listening on addr.
func New(fsys afero.Fs, outputDir, addr string) *Server {
	s := &Server{
		fs:        fsys,
		outputDir: outputDir,
		addr:      addr,
		log:       slog.Default().With("component", "server"),
	}

	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/playlists/{name}", s.handlePlaylist).Methods(http.MethodGet, http.MethodOptions)
	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run blocks until ctx is cancelled or the listener fails. On cancellation it
// stops accepting new connections and waits briefly for in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}

	serverErr := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", s.addr, "dir", s.outputDir)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen on %s: %w", s.addr, err)
		}
		return nil
	case <-ctx.Done():
		s.log.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("server shutdown incomplete", "error", err)
		}
		<-serverErr
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handlePlaylist serves one generated playlist by file name. Only plain .m3u
// names are accepted; anything that could leave the output directory is
// rejected before touching the filesystem.
func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !validPlaylistName(name) {
		http.Error(w, "invalid playlist name", http.StatusBadRequest)
		return
	}

	data, err := afero.ReadFile(s.fs, filepath.Join(s.outputDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		s.log.Error("playlist read failed", "name", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/x-mpegurl")
	w.Write(data)
}

// validPlaylistName accepts bare .m3u file names only, no separators and no
// parent references.
func validPlaylistName(name string) bool {
	if !strings.HasSuffix(name, ".m3u") || name == ".m3u" {
		return false
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}
