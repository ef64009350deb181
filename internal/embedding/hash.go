package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDimensions is the vector size of the local embedder.
const DefaultDimensions = 256

// HashEmbedder embeds text locally as a normalized bag of hashed tokens.
// Texts sharing words get positive similarity; it needs no model server.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a local embedder with dims buckets. Values <= 0
// select DefaultDimensions.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &HashEmbedder{dims: dims}
}

// Model names the embedder and its size, so vectors from different
// configurations are never mixed up.
func (h *HashEmbedder) Model() string {
	return fmt.Sprintf("hash-bow-%d", h.dims)
}

// Embed never fails for non-empty text except on cancellation.
func (h *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vector := make([]float32, h.dims)
	for _, tok := range Tokenize(text) {
		f := fnv.New32a()
		f.Write([]byte(tok))
		sum := f.Sum32()
		vector[int(sum%uint32(h.dims))] += 1
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vector, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vector {
		vector[i] *= scale
	}
	return vector, nil
}

// Tokenize lowercases text and splits it into letter/digit runs.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
