package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jason-riddle/gallery-go/internal/metrics"
)

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// Service provides embedding generation with validation and metrics.
type Service struct {
	embedder Embedder
}

// NewService creates a new embedding service
func NewService(embedder Embedder) *Service {
	return &Service{embedder: embedder}
}

// Model returns the wrapped embedder's model name.
func (s *Service) Model() string {
	return s.embedder.Model()
}

// Embed generates an embedding for text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		metrics.EmbeddingsFailedTotal.Add(1)
		return nil, errors.New("text cannot be empty")
	}

	slog.Debug("generating embedding", "model", s.embedder.Model(), "text_length", len(text))

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		metrics.EmbeddingsFailedTotal.Add(1)
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	metrics.EmbeddingsGeneratedTotal.Add(1)
	slog.Debug("generated embedding", "dimensions", len(vector))
	return vector, nil
}

// FormatMediaText is the text embedded for an uploaded file: the words of
// its base name followed by its kind, e.g. "golden retriever beach video".
func FormatMediaText(filename, kind string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	words := Tokenize(base)
	if kind != "" {
		words = append(words, kind)
	}
	return strings.Join(words, " ")
}
