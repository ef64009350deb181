// Package server is galleryd: it accepts media uploads, indexes them and
// answers text searches over the index.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jason-riddle/gallery-go/internal/indexer"
	"github.com/jason-riddle/gallery-go/internal/storage"
	"github.com/jason-riddle/gallery-go/page"
)

// maxMemory is the part of a multipart upload kept in memory; the rest is
// spooled to temporary files.
const maxMemory = 32 << 20

// Options configures a Server.
type Options struct {
	UploadsDir string
	Limit      int
	Threshold  float64
	// Page is the markup served at "/" and used for server-side rendering.
	// Empty selects the built-in page.
	Page []byte
}

// Server holds the index and the uploads directory behind the HTTP API.
type Server struct {
	db         *storage.DB
	embedder   indexer.Embedder
	uploadsDir string
	limit      int
	threshold  float64
	page       []byte
}

// New creates a Server. The uploads directory is created if needed.
func New(db *storage.DB, embedder indexer.Embedder, opts Options) (*Server, error) {
	if db == nil {
		return nil, errors.New("storage database is required")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if opts.UploadsDir == "" {
		return nil, errors.New("uploads directory is required")
	}
	if err := os.MkdirAll(opts.UploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}

	s := &Server{
		db:         db,
		embedder:   embedder,
		uploadsDir: opts.UploadsDir,
		limit:      opts.Limit,
		threshold:  opts.Threshold,
		page:       opts.Page,
	}
	if s.limit <= 0 {
		s.limit = indexer.DefaultLimit
	}
	if len(s.page) == 0 {
		s.page = page.DefaultHTML()
	}
	return s, nil
}

// Reindex indexes files already present in the uploads directory.
func (s *Server) Reindex(ctx context.Context) (indexer.BuildSummary, error) {
	return indexer.BuildIndex(ctx, s.db, s.embedder, s.uploadsDir)
}

// Run serves h on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("galleryd started", "addr", addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		slog.Info("galleryd stopped")
		return nil
	case err := <-errCh:
		if err != nil {
			return err
		}
		slog.Info("galleryd stopped")
		return nil
	}
}
