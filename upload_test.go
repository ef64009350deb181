package gallery

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Upload(t *testing.T) {
	t.Run("sends every file under the file field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "POST" {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if r.URL.Path != "/upload" {
				t.Errorf("path = %s, want /upload", r.URL.Path)
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("ParseMultipartForm: %v", err)
				return
			}
			if len(r.MultipartForm.File) != 1 {
				t.Errorf("fields = %d, want only %q", len(r.MultipartForm.File), UploadField)
			}
			headers := r.MultipartForm.File[UploadField]
			if len(headers) != 3 {
				t.Errorf("files = %d, want 3", len(headers))
				return
			}
			wantNames := []string{"a.jpg", "b.mp4", "c.png"}
			for i, h := range headers {
				if h.Filename != wantNames[i] {
					t.Errorf("file %d name = %q, want %q", i, h.Filename, wantNames[i])
				}
			}
			f, err := headers[1].Open()
			if err != nil {
				t.Errorf("open part: %v", err)
				return
			}
			defer f.Close()
			content, _ := io.ReadAll(f)
			if string(content) != "video-bytes" {
				t.Errorf("content = %q, want video-bytes", content)
			}
			w.Write([]byte(`{"message":"Uploaded and processed 3 files."}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		resp, err := c.Upload(context.Background(), []File{
			{Name: "a.jpg", Body: strings.NewReader("image-bytes")},
			{Name: "b.mp4", Body: strings.NewReader("video-bytes")},
			{Name: "c.png", Body: strings.NewReader("png-bytes")},
		})
		if err != nil {
			t.Fatalf("Upload failed: %v", err)
		}
		if resp.Message != "Uploaded and processed 3 files." {
			t.Errorf("message = %q", resp.Message)
		}
	})

	t.Run("success without message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		resp, err := c.Upload(context.Background(), []File{{Name: "a.jpg", Body: strings.NewReader("x")}})
		if err != nil {
			t.Fatalf("Upload failed: %v", err)
		}
		if resp.Message != "" {
			t.Errorf("message = %q, want empty", resp.Message)
		}
	})

	t.Run("application failure keeps server message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"No files uploaded"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.Upload(context.Background(), []File{{Name: "a.jpg", Body: strings.NewReader("x")}})
		if !IsStatus(err, http.StatusBadRequest) {
			t.Fatalf("expected 400 API error, got %v", err)
		}
		if msg, _ := ServerMessage(err); msg != "No files uploaded" {
			t.Errorf("message = %q", msg)
		}
		if apiErr := err.(*Error); apiErr.Op != "Upload" {
			t.Errorf("op = %q, want Upload", apiErr.Op)
		}
	})

	t.Run("no files", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1")
		if _, err := c.Upload(context.Background(), nil); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
