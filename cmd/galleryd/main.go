package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jason-riddle/gallery-go/internal/config"
	"github.com/jason-riddle/gallery-go/internal/embedding"
	"github.com/jason-riddle/gallery-go/internal/indexer"
	"github.com/jason-riddle/gallery-go/internal/logging"
	"github.com/jason-riddle/gallery-go/internal/server"
	"github.com/jason-riddle/gallery-go/internal/storage"
)

const usage = `galleryd: AI gallery server

Usage:
  galleryd serve  [flags]          Index the uploads directory and serve the gallery (default)
  galleryd index  [flags]          Index the uploads directory and exit
  galleryd search [flags] <query>  Search the index from the command line
  galleryd help

Flags:
  -config     YAML config file (or GALLERY_CONFIG)
  -listen     Listen address
  -uploads    Uploads directory
  -db         SQLite index path
  -page       HTML page served at /
  -log-level  debug, info, warn or error
  -limit      Max search results (search only)
  -threshold  Similarity threshold (search only)
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "galleryd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve", "index", "search":
	case "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command: %s", cmd)
	}

	flags := flag.NewFlagSet(cmd, flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "YAML config file")
	listen := flags.String("listen", "", "Listen address")
	uploadsDir := flags.String("uploads", "", "Uploads directory")
	dbPath := flags.String("db", "", "SQLite index path")
	pagePath := flags.String("page", "", "HTML page served at /")
	logLevel := flags.String("log-level", "", "Log level")
	limit := flags.Int("limit", 0, "Max search results")
	threshold := flags.Float64("threshold", -2, "Similarity threshold")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if *uploadsDir != "" {
		cfg.Server.UploadsDir = *uploadsDir
	}
	if *dbPath != "" {
		cfg.Server.DBPath = *dbPath
	}
	if *logLevel != "" {
		cfg.Server.LogLevel = *logLevel
	}
	if *limit > 0 {
		cfg.Server.Limit = *limit
	}
	if *threshold >= -1 {
		cfg.Server.Threshold = *threshold
	}
	if err := cfg.Check(); err != nil {
		return err
	}

	if _, err := logging.Setup(stderr, cfg.Server.LogLevel); err != nil {
		return err
	}

	var query string
	if cmd == "search" {
		query = strings.TrimSpace(strings.Join(flags.Args(), " "))
		if query == "" {
			return errors.New("usage: galleryd search [flags] <query>")
		}
	}

	db, err := storage.NewDB(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	embedder := newEmbedder(cfg.Server.Embeddings)
	slog.Debug("embedder ready", "model", embedder.Model())

	switch cmd {
	case "search":
		summary, err := indexer.SearchIndex(ctx, db, embedder, query, cfg.Server.Limit, cfg.Server.Threshold)
		if err != nil {
			return err
		}
		return writeJSON(stdout, summary)

	case "index":
		start := time.Now()
		summary, err := indexer.BuildIndex(ctx, db, embedder, cfg.Server.UploadsDir)
		if err != nil {
			return err
		}
		return writeJSON(stdout, struct {
			indexer.BuildSummary
			DurationMs int64 `json:"duration_ms"`
		}{
			BuildSummary: summary,
			DurationMs:   time.Since(start).Milliseconds(),
		})
	}

	var pageHTML []byte
	if *pagePath != "" {
		if pageHTML, err = os.ReadFile(*pagePath); err != nil {
			return fmt.Errorf("read page: %w", err)
		}
	}

	srv, err := server.New(db, embedder, server.Options{
		UploadsDir: cfg.Server.UploadsDir,
		Limit:      cfg.Server.Limit,
		Threshold:  cfg.Server.Threshold,
		Page:       pageHTML,
	})
	if err != nil {
		return err
	}

	// A failed reindex leaves older files unsearchable; uploads still work.
	if summary, err := srv.Reindex(ctx); err != nil {
		slog.Warn("reindex uploads", "error", err)
	} else {
		slog.Info("uploads indexed",
			"found", summary.FilesFound,
			"indexed", summary.FilesIndexed,
			"unchanged", summary.FilesSkipped,
			"failed", summary.FilesFailed,
			"pruned", summary.FilesPruned)
	}

	return server.Run(ctx, cfg.Server.Listen, srv.Handler())
}

// newEmbedder selects the OpenAI-compatible API when one is configured and
// the local hashed embedder otherwise.
func newEmbedder(cfg config.Embeddings) *embedding.Service {
	if cfg.URL != "" {
		return embedding.NewService(embedding.NewClient(cfg.URL, cfg.Key, cfg.Model))
	}
	return embedding.NewService(embedding.NewHashEmbedder(embedding.DefaultDimensions))
}

func writeJSON(w io.Writer, value interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
