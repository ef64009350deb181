package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	gallery "github.com/jason-riddle/gallery-go"
	"github.com/jason-riddle/gallery-go/internal/metrics"
	"github.com/jason-riddle/gallery-go/page"
)

// Upload status texts.
const (
	StatusNoFiles      = "No files selected"
	StatusUploadFailed = "Upload failed"
	StatusUploadError  = "Error uploading files (see console)"
)

// UploadingStatus is shown while n files are being sent.
func UploadingStatus(n int) string {
	return fmt.Sprintf("Uploading %d file(s)...", n)
}

// UploadedStatus is shown after a successful upload without a server message.
func UploadedStatus(n int) string {
	return fmt.Sprintf("Uploaded %d file(s)", n)
}

// Uploader sends files to the gallery server.
type Uploader interface {
	Upload(ctx context.Context, files []gallery.File) (*gallery.UploadResponse, error)
}

// UploadOrchestrator runs the upload sequence and owns the upload status.
type UploadOrchestrator struct {
	api    Uploader
	picker Picker
	status *StatusState
	flight inflight
}

// NewUploadOrchestrator creates an orchestrator writing to status.
func NewUploadOrchestrator(api Uploader, picker Picker, status *StatusState) *UploadOrchestrator {
	return &UploadOrchestrator{api: api, picker: picker, status: status}
}

// Wire registers the orchestrator's handlers for the resolved elements.
// It reports whether uploads are possible at all.
func (u *UploadOrchestrator) Wire(d *Dispatcher, els *page.Elements) bool {
	if !els.Has(page.FileInput) {
		slog.Warn("upload disabled: no file input")
		return false
	}

	if els.Has(page.UploadButton) {
		d.On(page.UploadButton, Click, func(ctx context.Context, _ Event) {
			if u.picker == nil {
				slog.Warn("upload button clicked but no file picker is configured")
				return
			}
			files, err := u.picker.Pick(ctx)
			if err != nil {
				slog.Error("file picker failed", "error", err)
				return
			}
			d.Dispatch(ctx, Event{Type: Change, Role: page.FileInput, Files: files})
		})
	}

	d.On(page.FileInput, Change, func(ctx context.Context, ev Event) {
		u.Upload(ctx, ev.Files)
	})
	return true
}

// Upload sends files and moves the status through its transitions. An
// empty selection only sets "No files selected". Uploads are never
// cancelled by later ones; only the latest upload's status is shown.
func (u *UploadOrchestrator) Upload(ctx context.Context, files []gallery.File) {
	if len(files) == 0 {
		u.status.Set(StatusNoFiles)
		return
	}

	token := u.flight.next()

	opID := uuid.NewString()
	ctx = gallery.WithRequestID(ctx, opID)
	logger := slog.With("op", "upload", "op_id", opID)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	logger.Info("files selected", "count", len(files), "names", names)

	u.setStatus(token, UploadingStatus(len(files)))
	metrics.UploadsTotal.Add(1)

	resp, err := u.api.Upload(ctx, files)
	if err != nil {
		metrics.UploadsFailed.Add(1)
		var apiErr *gallery.Error
		if errors.As(err, &apiErr) {
			logger.Warn("upload rejected", "status", apiErr.StatusCode, "message", apiErr.Message)
			if apiErr.Message != "" {
				u.setStatus(token, apiErr.Message)
			} else {
				u.setStatus(token, StatusUploadFailed)
			}
			return
		}
		logger.Error("upload error", "error", err)
		u.setStatus(token, StatusUploadError)
		return
	}

	logger.Info("upload response", "message", resp.Message)
	metrics.FilesUploadedTotal.Add(int64(len(files)))
	if resp.Message != "" {
		u.setStatus(token, resp.Message)
	} else {
		u.setStatus(token, UploadedStatus(len(files)))
	}
}

func (u *UploadOrchestrator) setStatus(token uint64, text string) {
	if !u.flight.apply(token, func() { u.status.Set(text) }) {
		slog.Debug("dropped status from superseded upload", "status", text)
	}
}
