package metrics

import (
	"expvar"
)

var (
	// UploadsTotal counts upload operations that reached the network
	UploadsTotal = expvar.NewInt("uploads_total")

	// UploadsFailed counts uploads that ended in an application or transport failure
	UploadsFailed = expvar.NewInt("uploads_failed")

	// FilesUploadedTotal counts files sent in successful uploads
	FilesUploadedTotal = expvar.NewInt("files_uploaded_total")

	// SearchRequestsTotal counts searches that reached the network
	SearchRequestsTotal = expvar.NewInt("search_requests_total")

	// SearchesFailed counts searches that ended in an error placeholder
	SearchesFailed = expvar.NewInt("searches_failed")

	// SearchesRejected counts searches stopped by query validation
	SearchesRejected = expvar.NewInt("searches_rejected")

	// ResultsRenderedTotal counts result cards rendered
	ResultsRenderedTotal = expvar.NewInt("results_rendered_total")

	// StaleUpdatesDropped counts state updates from superseded operations
	StaleUpdatesDropped = expvar.NewInt("stale_updates_dropped")

	// ElementsResolved is the presence map of the last element resolution
	ElementsResolved = expvar.NewMap("elements_resolved")

	// MediaIndexed counts files embedded into the server index
	MediaIndexed = expvar.NewInt("media_indexed")

	// MediaSkipped counts uploaded files that were stored but not indexed
	MediaSkipped = expvar.NewInt("media_skipped")

	// ServerSearchesTotal counts searches served by galleryd
	ServerSearchesTotal = expvar.NewInt("server_searches_total")

	// EmbeddingsGeneratedTotal counts successful embedding generations
	EmbeddingsGeneratedTotal = expvar.NewInt("embeddings_generated_total")

	// EmbeddingsFailedTotal counts failed embedding generations
	EmbeddingsFailedTotal = expvar.NewInt("embeddings_failed_total")

	// MediaCount tracks the number of files in the server index
	MediaCount = expvar.NewInt("media_count")
)

// RecordPresence publishes a role presence map.
func RecordPresence(presence map[string]bool) {
	for role, ok := range presence {
		v := new(expvar.Int)
		if ok {
			v.Set(1)
		}
		ElementsResolved.Set(role, v)
	}
}
