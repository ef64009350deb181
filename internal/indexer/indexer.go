// Package indexer embeds uploaded media into the storage index and answers
// similarity searches against it.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"

	"github.com/jason-riddle/gallery-go/internal/embedding"
	"github.com/jason-riddle/gallery-go/internal/metrics"
	"github.com/jason-riddle/gallery-go/internal/storage"
)

// Defaults for SearchIndex.
const (
	DefaultLimit     = 5
	DefaultThreshold = 0.1
)

// Media kinds stored in the index.
const (
	KindImage = "image"
	KindVideo = "video"
)

var kinds = map[string]string{
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".bmp":  KindImage,
	".gif":  KindImage,
	".webp": KindImage,
	".mp4":  KindVideo,
	".avi":  KindVideo,
	".mov":  KindVideo,
	".mkv":  KindVideo,
	".webm": KindVideo,
}

// ErrEmptyQuery is returned by SearchIndex for a blank query.
var ErrEmptyQuery = errors.New("query is required")

// Embedder generates vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// Classify returns the media kind of filename, or false when the file type
// is not indexed.
func Classify(filename string) (string, bool) {
	kind, ok := kinds[strings.ToLower(filepath.Ext(filename))]
	return kind, ok
}

// IndexFile embeds the file at path and stores it under its base name. It
// reports false, without error, for unsupported file types.
func IndexFile(ctx context.Context, db *storage.DB, embedder Embedder, path string) (bool, error) {
	if db == nil {
		return false, errors.New("storage database is required")
	}
	if embedder == nil {
		return false, errors.New("embedder is required")
	}

	name := filepath.Base(path)
	kind, ok := Classify(name)
	if !ok {
		metrics.MediaSkipped.Add(1)
		slog.Debug("not indexing unsupported file", "file", name)
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", name, err)
	}

	var width, height int
	if kind == KindImage {
		width, height = imageSize(path)
	}

	vector, err := embedder.Embed(ctx, embedding.FormatMediaText(name, kind))
	if err != nil {
		return false, fmt.Errorf("generate embedding for %s: %w", name, err)
	}

	if err := db.UpsertMedia(storage.Media{
		Filename: name,
		Path:     path,
		Kind:     kind,
		Size:     info.Size(),
		Width:    width,
		Height:   height,
		Model:    embedder.Model(),
		Vector:   vector,
	}); err != nil {
		return false, err
	}

	metrics.MediaIndexed.Add(1)
	slog.Info("indexed media", "file", name, "kind", kind,
		"size", humanize.Bytes(uint64(info.Size())), "width", width, "height", height)
	return true, nil
}

// BuildSummary describes the result of an index build.
type BuildSummary struct {
	FilesFound   int `json:"files_found"`
	FilesIndexed int `json:"files_indexed"`
	FilesSkipped int `json:"files_skipped"`
	FilesFailed  int `json:"files_failed"`
	FilesPruned  int `json:"files_pruned"`
}

// BuildIndex indexes every supported file directly under dir that is not
// already indexed with the same model and size, and drops rows whose file
// is gone. A file that fails to embed is logged and left unsearchable.
func BuildIndex(ctx context.Context, db *storage.DB, embedder Embedder, dir string) (BuildSummary, error) {
	var summary BuildSummary

	if db == nil {
		return summary, errors.New("storage database is required")
	}
	if embedder == nil {
		return summary, errors.New("embedder is required")
	}

	names, err := doublestar.Glob(os.DirFS(dir), "*", doublestar.WithFilesOnly())
	if err != nil {
		return summary, fmt.Errorf("list %s: %w", dir, err)
	}

	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}

	for _, name := range names {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if _, ok := Classify(name); !ok {
			continue
		}
		summary.FilesFound++

		path := filepath.Join(dir, name)
		existing, err := db.GetMedia(name)
		if err != nil {
			return summary, err
		}
		if existing != nil && existing.Model == embedder.Model() {
			if info, err := os.Stat(path); err == nil && info.Size() == existing.Size {
				summary.FilesSkipped++
				continue
			}
		}

		if _, err := IndexFile(ctx, db, embedder, path); err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			metrics.MediaSkipped.Add(1)
			slog.Warn("skipped embedding", "file", name, "error", err)
			summary.FilesFailed++
			continue
		}
		summary.FilesIndexed++
	}

	indexed, err := db.ListMedia()
	if err != nil {
		return summary, err
	}
	for _, m := range indexed {
		if present[m.Filename] {
			continue
		}
		if err := db.DeleteMedia(m.Filename); err != nil {
			return summary, err
		}
		slog.Info("pruned missing media", "file", m.Filename)
		summary.FilesPruned++
	}

	if count, err := db.CountMedia(); err == nil {
		metrics.MediaCount.Set(int64(count))
	}
	return summary, nil
}

// SearchSummary includes the results and timing for a search.
type SearchSummary struct {
	Results      []storage.SearchResult `json:"results"`
	QueryTimeMs  int64                  `json:"query_time_ms"`
	TotalResults int                    `json:"total_results"`
}

// SearchIndex embeds query and returns up to limit indexed files whose
// similarity exceeds threshold. A limit <= 0 selects DefaultLimit.
func SearchIndex(ctx context.Context, db *storage.DB, embedder Embedder, query string, limit int, threshold float64) (SearchSummary, error) {
	var summary SearchSummary

	if db == nil {
		return summary, errors.New("storage database is required")
	}
	if embedder == nil {
		return summary, errors.New("embedder is required")
	}
	if strings.TrimSpace(query) == "" {
		return summary, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	select {
	case <-ctx.Done():
		return summary, ctx.Err()
	default:
	}

	start := time.Now()
	vector, err := embedder.Embed(ctx, query)
	if err != nil {
		return summary, fmt.Errorf("generate embedding for query: %w", err)
	}

	results, err := db.SearchSimilar(vector, limit, threshold)
	if err != nil {
		return summary, err
	}

	summary.Results = results
	summary.TotalResults = len(results)
	summary.QueryTimeMs = time.Since(start).Milliseconds()

	return summary, nil
}
