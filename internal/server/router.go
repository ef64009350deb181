package server

import (
	"expvar"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns the galleryd routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	// UI
	r.Get("/", s.pageHandler)
	r.Get("/gallery", s.galleryHandler)

	// API
	r.Post("/upload", s.uploadHandler)
	r.Post("/search", s.searchHandler)

	// Media
	r.Get("/uploads/{name}", s.mediaHandler)
	r.Get("/static/uploads/{name}", s.mediaHandler)

	// Health/metrics
	r.Get("/healthz", healthzHandler)
	r.Handle("/debug/vars", expvar.Handler())

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
