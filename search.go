package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// SearchResponse is the JSON body returned by POST /search. Servers send
// the hits under either "matches" or "results".
type SearchResponse struct {
	Matches *[]json.RawMessage `json:"matches"`
	Results *[]json.RawMessage `json:"results"`
}

// Raw returns the raw hit list: matches if present, else results, else nil.
func (r SearchResponse) Raw() []json.RawMessage {
	if r.Matches != nil {
		return *r.Matches
	}
	if r.Results != nil {
		return *r.Results
	}
	return nil
}

// Records decodes the hit list into normalized records.
func (r SearchResponse) Records() ResultSet {
	return DecodeResults(r.Raw())
}

// Search sends query to POST /search and returns the normalized results.
// A query that is blank after trimming returns ErrEmptyQuery without
// touching the network.
//
// The status code does not matter once the body decodes: the hit list of
// any JSON response is returned, and a body without one yields an empty
// set. Only transport and decode failures are errors.
func (c *Client) Search(ctx context.Context, query string) (ResultSet, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	payload, err := json.Marshal(SearchRequest{Query: query})
	if err != nil {
		return nil, wrapError(fmt.Errorf("encode request: %w", err), "Search")
	}

	var result SearchResponse
	if err := c.doRequest(ctx, "POST", searchPath, "application/json", payload, &result); err != nil {
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			return nil, wrapError(err, "Search")
		}
		slog.Warn("search returned non-2xx status", "status", apiErr.StatusCode, "message", apiErr.Message)
	}

	return result.Records(), nil
}
