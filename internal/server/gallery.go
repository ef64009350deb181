package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	gallery "github.com/jason-riddle/gallery-go"
	"github.com/jason-riddle/gallery-go/internal/indexer"
	"github.com/jason-riddle/gallery-go/internal/storage"
	"github.com/jason-riddle/gallery-go/page"
)

// galleryHandler renders the page with results filled in on the server:
// the matches for ?q=, or every indexed file when q is empty.
func (s *Server) galleryHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	set, err := s.gallerySet(r, query)
	if err != nil {
		slog.Error("gallery", "query", query, "error", err)
		http.Error(w, "gallery unavailable", http.StatusInternalServerError)
		return
	}

	doc, err := page.Load(bytes.NewReader(s.page))
	if err != nil {
		slog.Error("gallery page", "error", err)
		http.Error(w, "gallery unavailable", http.StatusInternalServerError)
		return
	}
	els := page.Resolve(doc)
	doc.Mutate(func(*goquery.Document) {
		if input := els.Get(page.SearchInput); input != nil && query != "" {
			input.SetAttr("value", query)
		}
		page.RenderResults(els.Get(page.ResultsContainer), set)
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := doc.Render(w); err != nil {
		slog.Error("render gallery", "error", err)
	}
}

func (s *Server) gallerySet(r *http.Request, query string) (gallery.ResultSet, error) {
	if query == "" {
		media, err := s.db.ListMedia()
		if err != nil {
			return nil, err
		}
		set := make(gallery.ResultSet, 0, len(media))
		for _, m := range media {
			set = append(set, record(m.Filename, nil))
		}
		return set, nil
	}

	summary, err := indexer.SearchIndex(r.Context(), s.db, s.embedder, query, s.limit, s.threshold)
	if err != nil {
		return nil, err
	}
	return resultSet(summary.Results), nil
}

func resultSet(results []storage.SearchResult) gallery.ResultSet {
	set := make(gallery.ResultSet, 0, len(results))
	for _, res := range results {
		score := res.Similarity
		set = append(set, record(res.Filename, &score))
	}
	return set
}

func record(filename string, score *float64) gallery.ResultRecord {
	return gallery.ResultRecord{
		Filename:    filename,
		URL:         gallery.UploadsURL(filename),
		FallbackURL: gallery.StaticUploadsURL(filename),
		Score:       score,
		Kind:        gallery.KindOf(filename),
	}
}
