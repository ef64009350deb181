package storage

import (
	"testing"
)

func TestSearchSimilar(t *testing.T) {
	var db = setupTestDB(t)

	var media = []Media{
		{Filename: "sunset.jpg", Kind: "image", Vector: []float32{1.0, 0.0, 0.0}},
		{Filename: "beach.mp4", Kind: "video", Vector: []float32{0.9, 0.1, 0.0}},
		{Filename: "cat.png", Kind: "image", Vector: []float32{0.0, 1.0, 0.0}},
		{Filename: "dog.png", Kind: "image", Vector: []float32{0.0, 0.0, 1.0}},
	}
	for _, m := range media {
		m.Path = "uploads/" + m.Filename
		m.Model = "test"
		if err := db.UpsertMedia(m); err != nil {
			t.Fatalf("Failed to insert media: %v", err)
		}
	}

	var tests = []struct {
		name      string
		query     []float32
		limit     int
		threshold float64
		want      []string
	}{
		{"ranked above threshold", []float32{1, 0, 0}, 10, 0.5, []string{"sunset.jpg", "beach.mp4"}},
		{"limit applies after ranking", []float32{1, 0, 0}, 1, 0.1, []string{"sunset.jpg"}},
		{"threshold is strict", []float32{0, 1, 0}, 10, 1.0, nil},
		{"no limit", []float32{1, 1, 1}, 0, 0.1, []string{"beach.mp4", "sunset.jpg", "cat.png", "dog.png"}},
		{"nothing similar", []float32{0, -1, 0}, 5, 0.1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var results, err = db.SearchSimilar(tt.query, tt.limit, tt.threshold)
			if err != nil {
				t.Fatalf("SearchSimilar failed: %v", err)
			}
			if len(results) != len(tt.want) {
				t.Fatalf("Expected %d results, got %+v", len(tt.want), results)
			}
			for i, name := range tt.want {
				if results[i].Filename != name {
					t.Errorf("result %d = %q, want %q", i, results[i].Filename, name)
				}
			}
			for i := 1; i < len(results); i++ {
				if results[i].Similarity > results[i-1].Similarity {
					t.Errorf("results not sorted at %d", i)
				}
			}
		})
	}
}
