// Package site serves the browser pages from a directory on disk.
package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
)

// ErrNoDir is returned when the configured site directory is unusable.
var ErrNoDir = errors.New("site directory not found")

// Register attaches the static site at / when dir exists. It returns
// ErrNoDir when dir is missing or is not a directory.
func Register(_ context.Context, mux *http.ServeMux, dir string) error {
	if mux == nil {
		panic("mux is nil")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is a file", ErrNoDir, dir)
	}
	mux.Handle("GET /", NewRootHandler(dir))
	return nil
}

// RootHandler serves files below a directory.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler for dir.
func NewRootHandler(dir string) *RootHandler {
	return &RootHandler{files: http.FileServer(FS(dir))}
}

// ServeHTTP serves the requested file, index.html for directories.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	h.files.ServeHTTP(w, r)
}

// FS returns an http.FileSystem rooted at dir.
func FS(dir string) http.FileSystem {
	return http.FS(os.DirFS(dir))
}
