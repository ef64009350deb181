package gallery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"
)

// Kind is the media type of a result record.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

var videoExtensions = map[string]bool{
	"mp4":  true,
	"mov":  true,
	"webm": true,
	"avi":  true,
	"mkv":  true,
}

// KindOf classifies a file name or URL by its lowercase extension.
func KindOf(name string) Kind {
	if videoExtensions[extension(name)] {
		return KindVideo
	}
	return KindImage
}

func extension(name string) string {
	// Query strings and fragments are not part of the file name.
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	ext := path.Ext(name)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ResultRecord is one normalized search hit ready for rendering.
type ResultRecord struct {
	Filename    string   `json:"filename,omitempty"`     // Empty when the server sent none
	URL         string   `json:"url"`                    // Always non-empty
	FallbackURL string   `json:"fallback_url,omitempty"` // Secondary media location, if any
	Score       *float64 `json:"score,omitempty"`
	Kind        Kind     `json:"kind"`
}

// Caption is the card caption: the filename, plus " — 0.88" when scored.
func (r ResultRecord) Caption() string {
	if r.Score == nil {
		return r.Filename
	}
	return fmt.Sprintf("%s — %.2f", r.Filename, *r.Score)
}

// ResultSet is an ordered sequence of records in server order.
type ResultSet []ResultRecord

// UploadsURL is the primary convention for serving an uploaded file.
func UploadsURL(filename string) string {
	return "/uploads/" + filename
}

// StaticUploadsURL is the secondary convention for serving an uploaded file.
func StaticUploadsURL(filename string) string {
	return "/static/uploads/" + filename
}

// wireRecord is an object-shaped result as the server may send it.
type wireRecord struct {
	Filename   *string  `json:"filename"`
	Name       *string  `json:"name"`
	URL        *string  `json:"url"`
	Similarity *float64 `json:"similarity"`
	Score      *float64 `json:"score"`
}

// DecodeRecord normalizes one raw result into a ResultRecord. The second
// return value is false when the raw value carries neither a URL nor a
// filename and so cannot be rendered.
func DecodeRecord(raw json.RawMessage) (ResultRecord, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ResultRecord{}, false, nil
	}

	switch trimmed[0] {
	case '"':
		var u string
		if err := json.Unmarshal(trimmed, &u); err != nil {
			return ResultRecord{}, false, fmt.Errorf("decode string record: %w", err)
		}
		if u == "" {
			return ResultRecord{}, false, nil
		}
		name := lastSegment(u)
		return ResultRecord{Filename: name, URL: u, Kind: KindOf(name)}, true, nil

	case '{':
		var w wireRecord
		if err := json.Unmarshal(trimmed, &w); err != nil {
			return ResultRecord{}, false, fmt.Errorf("decode object record: %w", err)
		}
		return w.normalize()

	default:
		return ResultRecord{}, false, nil
	}
}

func (w wireRecord) normalize() (ResultRecord, bool, error) {
	var rec ResultRecord

	rec.Filename = firstNonEmpty(w.Filename, w.Name)
	if w.URL != nil && *w.URL != "" {
		rec.URL = *w.URL
	} else if rec.Filename != "" {
		rec.URL = UploadsURL(rec.Filename)
		rec.FallbackURL = StaticUploadsURL(rec.Filename)
	} else {
		return ResultRecord{}, false, nil
	}
	if rec.Filename == "" {
		rec.Filename = lastSegment(rec.URL)
	}

	switch {
	case w.Similarity != nil:
		rec.Score = w.Similarity
	case w.Score != nil:
		rec.Score = w.Score
	}

	rec.Kind = KindOf(rec.Filename)
	return rec, true, nil
}

// DecodeResults normalizes a raw result list, preserving order. Entries
// that cannot be rendered are skipped and logged.
func DecodeResults(raws []json.RawMessage) ResultSet {
	set := make(ResultSet, 0, len(raws))
	for i, raw := range raws {
		rec, ok, err := DecodeRecord(raw)
		if err != nil {
			slog.Warn("skipping malformed result", "index", i, "error", err)
			continue
		}
		if !ok {
			slog.Warn("skipping result without url or filename", "index", i)
			continue
		}
		set = append(set, rec)
	}
	return set
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func lastSegment(u string) string {
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}
