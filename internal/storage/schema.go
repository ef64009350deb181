package storage

import "time"

// Media is one indexed upload.
type Media struct {
	ID        int       `json:"id"`
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Kind      string    `json:"kind"`
	Size      int64     `json:"size"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	Model     string    `json:"model"`
	Vector    []float32 `json:"-"`
	IndexedAt time.Time `json:"indexed_at"`
}

// SearchResult is a media row ranked against a query vector.
type SearchResult struct {
	Filename   string  `json:"filename"`
	Kind       string  `json:"kind"`
	Similarity float64 `json:"similarity"`
}
