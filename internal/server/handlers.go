package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	gallery "github.com/jason-riddle/gallery-go"
	"github.com/jason-riddle/gallery-go/internal/indexer"
	"github.com/jason-riddle/gallery-go/internal/metrics"
)

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.page)
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("request_id", middleware.GetReqID(r.Context()))

	var files []*multipart.FileHeader
	if err := r.ParseMultipartForm(maxMemory); err == nil {
		files = r.MultipartForm.File[gallery.UploadField]
		defer r.MultipartForm.RemoveAll()
	} else if !errors.Is(err, http.ErrNotMultipart) {
		logger.Warn("parse upload", "error", err)
	}
	if len(files) == 0 {
		logger.Warn("no files received")
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "No files uploaded"})
		return
	}

	saved := 0
	for _, fh := range files {
		name, ok := sanitizeName(fh.Filename)
		if !ok {
			logger.Warn("rejected upload name", "name", fh.Filename)
			continue
		}

		path := filepath.Join(s.uploadsDir, name)
		if err := saveUpload(fh, path); err != nil {
			logger.Error("save upload", "file", name, "error", err)
			writeJSON(w, http.StatusInternalServerError, messageResponse{Message: fmt.Sprintf("Failed to save %s", name)})
			return
		}
		saved++
		logger.Info("saved file", "file", name, "size", humanize.Bytes(uint64(fh.Size)))

		// Embedding failures leave the file stored but unsearchable.
		if _, err := indexer.IndexFile(r.Context(), s.db, s.embedder, path); err != nil {
			metrics.MediaSkipped.Add(1)
			logger.Warn("skipped embedding", "file", name, "error", err)
		}
	}

	if count, err := s.db.CountMedia(); err == nil {
		metrics.MediaCount.Set(int64(count))
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Uploaded and processed %d files.", saved)})
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("request_id", middleware.GetReqID(r.Context()))

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid JSON body"})
		return
	}
	metrics.ServerSearchesTotal.Add(1)

	resp := searchResponse{Matches: []match{}}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	summary, err := indexer.SearchIndex(r.Context(), s.db, s.embedder, query, s.limit, s.threshold)
	if err != nil {
		logger.Warn("search unavailable", "query", query, "error", err)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	for _, res := range summary.Results {
		resp.Matches = append(resp.Matches, match{Filename: res.Filename, Similarity: res.Similarity})
	}
	logger.Info("search", "query", query, "matches", len(resp.Matches), "query_time_ms", summary.QueryTimeMs)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) mediaHandler(w http.ResponseWriter, r *http.Request) {
	name, ok := sanitizeName(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.uploadsDir, name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// sanitizeName reduces a client-supplied file name to a plain base name.
func sanitizeName(name string) (string, bool) {
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == ".." || name == "/" || name == "" || strings.HasPrefix(name, ".") {
		return "", false
	}
	return name, true
}

func saveUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return dst.Close()
}
