package ui

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	gallery "github.com/jason-riddle/gallery-go"
	"github.com/jason-riddle/gallery-go/page"
)

// API is the part of the gallery client a session needs.
type API interface {
	Uploader
	Searcher
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPicker sets the file picker opened by the upload button.
func WithPicker(p Picker) SessionOption {
	return func(s *Session) {
		s.picker = p
	}
}

// WithAlerter sets how blocking messages reach the user.
func WithAlerter(a Alerter) SessionOption {
	return func(s *Session) {
		s.alerter = a
	}
}

// Session is one page load: the document, its resolved elements and the
// orchestrators wired to them.
type Session struct {
	doc     *page.Document
	els     *page.Elements
	events  *Dispatcher
	picker  Picker
	alerter Alerter

	Status  *StatusState
	Results *ResultsState

	upload *UploadOrchestrator
	search *SearchOrchestrator

	uploadEnabled bool
	searchEnabled bool
}

// NewSession resolves the page's elements once and wires the upload and
// search capabilities that the page supports.
func NewSession(doc *page.Document, api API, opts ...SessionOption) *Session {
	s := &Session{
		doc:     doc,
		events:  NewDispatcher(),
		Status:  &StatusState{},
		Results: &ResultsState{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.els = page.Resolve(doc)
	s.bind()

	s.upload = NewUploadOrchestrator(api, s.picker, s.Status)
	s.uploadEnabled = s.upload.Wire(s.events, s.els)

	s.search = NewSearchOrchestrator(api, s.alerter, s.Results)
	s.searchEnabled = s.search.Wire(s.events, s.els, s.doc)

	return s
}

// bind mirrors state changes into the document.
func (s *Session) bind() {
	status := s.els.Get(page.StatusLabel)
	s.Status.Subscribe(func(text string) {
		s.doc.Mutate(func(*goquery.Document) {
			status.SetText(text)
		})
	})

	results := s.els.Get(page.ResultsContainer)
	s.Results.Subscribe(func(v ResultsView) {
		s.doc.Mutate(func(*goquery.Document) {
			if v.Placeholder != "" {
				page.RenderPlaceholder(results, v.Placeholder)
				return
			}
			page.RenderResults(results, v.Records)
		})
	})
}

// Document returns the page the session drives.
func (s *Session) Document() *page.Document {
	return s.doc
}

// UploadEnabled reports whether the page supports uploads.
func (s *Session) UploadEnabled() bool {
	return s.uploadEnabled
}

// SearchEnabled reports whether the page supports search.
func (s *Session) SearchEnabled() bool {
	return s.searchEnabled
}

// Click simulates a click on role's element. It reports whether anything
// handled it.
func (s *Session) Click(ctx context.Context, role page.Role) bool {
	return s.events.Dispatch(ctx, Event{Type: Click, Role: role})
}

// SelectFiles simulates a change of the file input's selection.
func (s *Session) SelectFiles(ctx context.Context, files []gallery.File) bool {
	return s.events.Dispatch(ctx, Event{Type: Change, Role: page.FileInput, Files: files})
}

// TypeQuery sets the search input's value. It reports false when the page
// has no search input.
func (s *Session) TypeQuery(q string) bool {
	input := s.els.Get(page.SearchInput)
	if input == nil {
		return false
	}
	s.doc.Mutate(func(*goquery.Document) {
		input.SetAttr("value", q)
	})
	return true
}
