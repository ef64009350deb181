package gallery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/dustin/go-humanize"
)

// UploadField is the repeated multipart field name the server reads files from.
const UploadField = "file"

// Upload sends files to POST /upload as one multipart request, each under
// the repeated field "file" with its original name.
func (c *Client) Upload(ctx context.Context, files []File) (*UploadResponse, error) {
	if len(files) == 0 {
		return nil, wrapError(fmt.Errorf("no files to upload"), "Upload")
	}

	body, contentType, err := buildMultipart(files)
	if err != nil {
		return nil, wrapError(err, "Upload")
	}

	slog.Debug("uploading files", "count", len(files), "size", humanize.Bytes(uint64(len(body))))

	var result UploadResponse
	if err := c.doRequest(ctx, "POST", uploadPath, contentType, body, &result); err != nil {
		return nil, wrapError(err, "Upload")
	}

	return &result, nil
}

// buildMultipart encodes files into a multipart/form-data body.
func buildMultipart(files []File) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := w.CreateFormFile(UploadField, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %q: %w", f.Name, err)
		}
		if f.Body != nil {
			if _, err := io.Copy(part, f.Body); err != nil {
				return nil, "", fmt.Errorf("copy %q: %w", f.Name, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
