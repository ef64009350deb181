package ui

import (
	"github.com/PuerkitoBio/goquery"

	gallery "github.com/jason-riddle/gallery-go"
	"github.com/jason-riddle/gallery-go/page"
)

// Diagnostics exposes a session's internals for manual inspection. Nothing
// in the session depends on it.
type Diagnostics struct {
	// Render shows records in the results container, as a search would.
	Render func(gallery.ResultSet)

	Status      *goquery.Selection
	FileInput   *goquery.Selection
	SearchInput *goquery.Selection
	Results     *goquery.Selection
	Presence    map[string]bool

	doc *page.Document
}

// Snapshot is a point-in-time summary suitable for JSON output.
type Snapshot struct {
	Presence      map[string]bool `json:"presence"`
	UploadEnabled bool            `json:"upload_enabled"`
	SearchEnabled bool            `json:"search_enabled"`
	Status        string          `json:"status"`
	Query         string          `json:"query"`
	Cards         int             `json:"cards"`
	Results       string          `json:"results"`
}

// Diagnostics returns the inspection handles of s.
func (s *Session) Diagnostics() Diagnostics {
	return Diagnostics{
		Render: func(set gallery.ResultSet) {
			s.Results.Set(ResultsView{Records: set})
		},
		Status:      s.els.Get(page.StatusLabel),
		FileInput:   s.els.Get(page.FileInput),
		SearchInput: s.els.Get(page.SearchInput),
		Results:     s.els.Get(page.ResultsContainer),
		Presence:    s.els.Presence(),
		doc:         s.doc,
	}
}

// Snapshot reads the current state of the session's page.
func (s *Session) Snapshot() Snapshot {
	d := s.Diagnostics()
	snap := Snapshot{
		Presence:      d.Presence,
		UploadEnabled: s.uploadEnabled,
		SearchEnabled: s.searchEnabled,
	}

	d.doc.Mutate(func(*goquery.Document) {
		snap.Status = d.Status.Text()
		if d.SearchInput != nil {
			snap.Query = d.SearchInput.AttrOr("value", "")
		}
		snap.Cards = d.Results.Find("." + page.CardClass).Length()
		snap.Results = d.Results.Text()
	})

	return snap
}
