package gallery

import (
	"encoding/json"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"clip.mp4", KindVideo},
		{"CLIP.MOV", KindVideo},
		{"a.webm", KindVideo},
		{"a.avi", KindVideo},
		{"a.mkv", KindVideo},
		{"/uploads/clip.mp4?t=3", KindVideo},
		{"cat.jpg", KindImage},
		{"noext", KindImage},
		{"", KindImage},
		{"archive.mp4.png", KindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.name); got != tt.want {
				t.Errorf("KindOf(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDecodeRecord(t *testing.T) {
	score := func(f float64) *float64 { return &f }

	tests := []struct {
		name   string
		raw    string
		want   ResultRecord
		wantOK bool
	}{
		{
			name:   "bare string",
			raw:    `"/uploads/cat.jpg"`,
			want:   ResultRecord{Filename: "cat.jpg", URL: "/uploads/cat.jpg", Kind: KindImage},
			wantOK: true,
		},
		{
			name:   "object with url",
			raw:    `{"filename":"dog.png","url":"https://cdn.example/dog.png","score":0.5}`,
			want:   ResultRecord{Filename: "dog.png", URL: "https://cdn.example/dog.png", Score: score(0.5), Kind: KindImage},
			wantOK: true,
		},
		{
			name: "object without url",
			raw:  `{"filename":"clip.mp4","similarity":0.8765}`,
			want: ResultRecord{
				Filename:    "clip.mp4",
				URL:         "/uploads/clip.mp4",
				FallbackURL: "/static/uploads/clip.mp4",
				Score:       score(0.8765),
				Kind:        KindVideo,
			},
			wantOK: true,
		},
		{
			name: "name instead of filename",
			raw:  `{"name":"beach.jpeg"}`,
			want: ResultRecord{
				Filename:    "beach.jpeg",
				URL:         "/uploads/beach.jpeg",
				FallbackURL: "/static/uploads/beach.jpeg",
				Kind:        KindImage,
			},
			wantOK: true,
		},
		{
			name: "filename wins over name",
			raw:  `{"filename":"a.jpg","name":"b.jpg"}`,
			want: ResultRecord{
				Filename:    "a.jpg",
				URL:         "/uploads/a.jpg",
				FallbackURL: "/static/uploads/a.jpg",
				Kind:        KindImage,
			},
			wantOK: true,
		},
		{
			name:   "similarity wins over score",
			raw:    `{"url":"/x/y.mkv","similarity":0,"score":0.9}`,
			want:   ResultRecord{Filename: "y.mkv", URL: "/x/y.mkv", Score: score(0), Kind: KindVideo},
			wantOK: true,
		},
		{
			name:   "nothing to render",
			raw:    `{"similarity":0.3}`,
			wantOK: false,
		},
		{
			name:   "empty string",
			raw:    `""`,
			wantOK: false,
		},
		{
			name:   "number",
			raw:    `42`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := DecodeRecord(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("DecodeRecord() error = %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("DecodeRecord() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Filename != tt.want.Filename || got.URL != tt.want.URL || got.FallbackURL != tt.want.FallbackURL || got.Kind != tt.want.Kind {
				t.Errorf("DecodeRecord() = %+v, want %+v", got, tt.want)
			}
			switch {
			case tt.want.Score == nil && got.Score != nil:
				t.Errorf("Score = %v, want nil", *got.Score)
			case tt.want.Score != nil && (got.Score == nil || *got.Score != *tt.want.Score):
				t.Errorf("Score = %v, want %v", got.Score, *tt.want.Score)
			}
		})
	}
}

func TestDecodeRecord_Malformed(t *testing.T) {
	if _, _, err := DecodeRecord(json.RawMessage(`{"filename":12}`)); err == nil {
		t.Error("expected error for non-string filename")
	}
}

func TestDecodeResults_PreservesOrderAndSkips(t *testing.T) {
	raws := []json.RawMessage{
		json.RawMessage(`"/uploads/b.jpg"`),
		json.RawMessage(`{"score":1}`),
		json.RawMessage(`{"filename":"a.mp4"}`),
		json.RawMessage(`{"filename":false}`),
	}

	set := DecodeResults(raws)
	if len(set) != 2 {
		t.Fatalf("len = %d, want 2", len(set))
	}
	if set[0].Filename != "b.jpg" || set[1].Filename != "a.mp4" {
		t.Errorf("order = [%s %s], want [b.jpg a.mp4]", set[0].Filename, set[1].Filename)
	}
	for _, rec := range set {
		if rec.URL == "" {
			t.Errorf("record %+v has empty URL", rec)
		}
	}
}

func TestResultRecord_Caption(t *testing.T) {
	s := 0.8765
	tests := []struct {
		name string
		rec  ResultRecord
		want string
	}{
		{"with score", ResultRecord{Filename: "clip.mp4", Score: &s}, "clip.mp4 — 0.88"},
		{"without score", ResultRecord{Filename: "cat.jpg"}, "cat.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Caption(); got != tt.want {
				t.Errorf("Caption() = %q, want %q", got, tt.want)
			}
		})
	}
}
