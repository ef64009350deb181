package gallery

import "io"

// File is one selected file to upload.
type File struct {
	Name string    // Original file name, sent as the multipart filename
	Body io.Reader // File content
}

// UploadResponse is the JSON body returned by POST /upload.
type UploadResponse struct {
	Message string `json:"message,omitempty"`
}

// SearchRequest is the JSON body sent to POST /search.
type SearchRequest struct {
	Query string `json:"query"`
}

// messageEnvelope picks the server message out of any response body.
type messageEnvelope struct {
	Message string `json:"message"`
}
