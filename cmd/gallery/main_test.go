package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jason-riddle/gallery-go/internal/config"
	"github.com/jason-riddle/gallery-go/internal/embedding"
	"github.com/jason-riddle/gallery-go/internal/server"
	"github.com/jason-riddle/gallery-go/internal/storage"
	"github.com/jason-riddle/gallery-go/internal/ui"
)

func newGalleryServer(t *testing.T) *httptest.Server {
	t.Helper()
	for _, k := range []string{config.EnvConfig, config.EnvServerURL, config.EnvEmbeddingsURL, config.EnvEmbeddingsKey, config.EnvEmbeddingsModel} {
		t.Setenv(k, "")
	}

	tmp := t.TempDir()
	db, err := storage.NewDB(filepath.Join(tmp, "gallery.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := server.New(db, embedding.NewHashEmbedder(0), server.Options{
		UploadsDir: filepath.Join(tmp, "uploads"),
		Threshold:  0.1,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"-log-level", "error"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func writeMedia(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestCLI_Help(t *testing.T) {
	stdout, _, err := runCLI(t, "help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	if !strings.Contains(stdout, "Commands:") || !strings.Contains(stdout, "upload <glob>") {
		t.Errorf("unexpected help output: %s", stdout)
	}
}

func TestCLI_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no command", nil, "no command given"},
		{"unknown command", []string{"frobnicate"}, "unknown command: frobnicate"},
		{"bad config", []string{"-config", "/does/not/exist.yaml", "inspect"}, "read config file"},
		{"bad log level", []string{"-log-level", "loud", "inspect"}, "unknown log level"},
		{"bad url flag", []string{"-url", "ftp://example.com", "inspect"}, "client.server_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tt.args, &stdout, &stderr)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestCLI_UploadAndSearch(t *testing.T) {
	ts := newGalleryServer(t)
	dir := t.TempDir()
	writeMedia(t, dir, "pets/cat.jpg", "pets/deep/dog.png", "notes.txt")

	stdout, _, err := runCLI(t, "-url", ts.URL, "upload", filepath.Join(dir, "**", "*.{jpg,png}"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	var up UploadOutput
	if err := json.Unmarshal([]byte(stdout), &up); err != nil {
		t.Fatalf("upload output is not JSON: %v\n%s", err, stdout)
	}
	if len(up.Files) != 2 {
		t.Errorf("files: got %v want 2", up.Files)
	}
	if up.Status != "Uploaded and processed 2 files." {
		t.Errorf("status: got %q", up.Status)
	}

	stdout, _, err = runCLI(t, "-url", ts.URL, "search", "cat")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	var got SearchOutput
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("search output is not JSON: %v\n%s", err, stdout)
	}
	if got.Count != 1 || got.Results[0].Filename != "cat.jpg" {
		t.Fatalf("unexpected search output: %+v", got)
	}
	if got.Results[0].URL != "/uploads/cat.jpg" {
		t.Errorf("url: got %q", got.Results[0].URL)
	}
}

func TestCLI_UploadNoMatches(t *testing.T) {
	ts := newGalleryServer(t)

	stdout, _, err := runCLI(t, "-url", ts.URL, "upload", filepath.Join(t.TempDir(), "*.jpg"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	var up UploadOutput
	if err := json.Unmarshal([]byte(stdout), &up); err != nil {
		t.Fatalf("upload output is not JSON: %v", err)
	}
	if up.Status != ui.StatusNoFiles {
		t.Errorf("status: got %q want %q", up.Status, ui.StatusNoFiles)
	}
}

func TestCLI_SearchBlankQueryAlerts(t *testing.T) {
	ts := newGalleryServer(t)

	_, stderr, err := runCLI(t, "-url", ts.URL, "search", "  ")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(stderr, "alert: "+ui.EmptyQueryAlert) {
		t.Errorf("stderr missing alert: %q", stderr)
	}
}

func TestCLI_SearchUnreachableServer(t *testing.T) {
	ts := newGalleryServer(t)
	url := ts.URL
	ts.Close()

	stdout, _, err := runCLI(t, "-url", url, "search", "cat")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(stdout, "Error during search (see console)") {
		t.Errorf("expected transport placeholder, got: %s", stdout)
	}
}

func TestCLI_InspectAndOut(t *testing.T) {
	ts := newGalleryServer(t)
	out := filepath.Join(t.TempDir(), "page.html")

	stdout, _, err := runCLI(t, "-url", ts.URL, "-out", out, "inspect")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	var snap ui.Snapshot
	if err := json.Unmarshal([]byte(stdout), &snap); err != nil {
		t.Fatalf("inspect output is not JSON: %v", err)
	}
	if !snap.UploadEnabled || !snap.SearchEnabled {
		t.Errorf("capabilities: %+v", snap)
	}

	html, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(html), `id="results"`) {
		t.Errorf("page not written: %s", html)
	}
}

func TestCLI_PageWithoutSearch(t *testing.T) {
	ts := newGalleryServer(t)
	pagePath := filepath.Join(t.TempDir(), "upload-only.html")
	if err := os.WriteFile(pagePath, []byte(`<input type="file" id="fileInput">`), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}

	_, _, err := runCLI(t, "-url", ts.URL, "-page", pagePath, "search", "cat")
	if err == nil || !strings.Contains(err.Error(), "search is not available") {
		t.Fatalf("expected search unavailable error, got: %v", err)
	}

	stdout, _, err := runCLI(t, "-url", ts.URL, "-page", pagePath, "-out", "-", "inspect")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !strings.Contains(stdout, `id="uploadStatus"`) {
		t.Errorf("synthesized status label missing from page: %s", stdout)
	}
}
