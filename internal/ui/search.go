package ui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	gallery "github.com/jason-riddle/gallery-go"
	"github.com/jason-riddle/gallery-go/internal/metrics"
	"github.com/jason-riddle/gallery-go/page"
)

// EmptyQueryAlert is shown when the search input is blank.
const EmptyQueryAlert = "Please enter a search query."

// Searcher queries the gallery server's index.
type Searcher interface {
	Search(ctx context.Context, query string) (gallery.ResultSet, error)
}

// SearchOrchestrator runs the search sequence and owns the results view.
type SearchOrchestrator struct {
	api     Searcher
	alerter Alerter
	results *ResultsState
	flight  inflight
}

// NewSearchOrchestrator creates an orchestrator writing to results.
func NewSearchOrchestrator(api Searcher, alerter Alerter, results *ResultsState) *SearchOrchestrator {
	return &SearchOrchestrator{api: api, alerter: alerter, results: results}
}

// Wire registers the search button handler. Search needs both the button
// and the input; without either it stays disabled.
func (s *SearchOrchestrator) Wire(d *Dispatcher, els *page.Elements, doc *page.Document) bool {
	if !els.Has(page.SearchButton) || !els.Has(page.SearchInput) {
		slog.Warn("search disabled: search button or input missing",
			"searchButton", els.Has(page.SearchButton),
			"searchInput", els.Has(page.SearchInput))
		return false
	}

	input := els.Get(page.SearchInput)
	d.On(page.SearchButton, Click, func(ctx context.Context, _ Event) {
		var query string
		doc.Mutate(func(*goquery.Document) {
			query = input.AttrOr("value", "")
		})
		s.Search(ctx, query)
	})
	return true
}

// Search validates the query, sends it and hands the outcome to the
// results view.
func (s *SearchOrchestrator) Search(ctx context.Context, raw string) {
	query := strings.TrimSpace(raw)
	if query == "" {
		metrics.SearchesRejected.Add(1)
		if s.alerter != nil {
			s.alerter.Alert(EmptyQueryAlert)
		}
		return
	}

	ctx, token, release := s.flight.begin(ctx)
	defer release()

	opID := uuid.NewString()
	ctx = gallery.WithRequestID(ctx, opID)
	logger := slog.With("op", "search", "op_id", opID)

	logger.Info("searching", "query", query)
	s.show(token, ResultsView{Placeholder: page.Searching})
	metrics.SearchRequestsTotal.Add(1)

	set, err := s.api.Search(ctx, query)
	if err != nil {
		metrics.SearchesFailed.Add(1)
		logger.Error("search error", "error", err)
		s.show(token, ResultsView{Placeholder: page.SearchError})
		return
	}

	logger.Info("search response", "results", len(set))
	s.show(token, ResultsView{Records: set})
}

func (s *SearchOrchestrator) show(token uint64, v ResultsView) {
	if !s.flight.apply(token, func() { s.results.Set(v) }) {
		slog.Debug("dropped results from superseded search", "placeholder", v.Placeholder, "results", len(v.Records))
	}
}
