// Copyright 2026 Pangea Cyber Corporation
//
// Search pagination. The wrapper holds the base response together with the
// originating parameters and exposes explicit Count/Total/Next accessors;
// there is no attribute forwarding onto the response.

package audit

import (
	"strconv"
	"strings"

	"github.com/pangeacyber/go-pangea/pkg/errors"
	"github.com/pangeacyber/go-pangea/pkg/request"
)

// SearchResults wraps one page of search results with pagination support.
type SearchResults struct {
	// Response is the transport envelope the page arrived in.
	Response *request.Response

	// Result is the decoded page payload.
	Result *SearchResult

	// Roots is the snapshot of published roots resolved for this page,
	// keyed by tree size. A key mapped to nil records a size that could
	// not be resolved from any permitted source. Empty when the response
	// carried no root.
	Roots map[int64]*Root

	params SearchOptions
}

func newSearchResults(resp *request.Response, result *SearchResult, params SearchOptions) *SearchResults {
	return &SearchResults{
		Response: resp,
		Result:   result,
		Roots:    make(map[int64]*Root),
		params:   params,
	}
}

// Count returns how many events have been delivered up to and including
// this page, per the server's pagination cursor. Zero when the cursor is
// absent or malformed.
func (r *SearchResults) Count() int64 {
	count, _, err := parseLast(r.Result.Last)
	if err != nil {
		return 0
	}
	return count
}

// Total returns the total number of matching events. Zero when the cursor
// is absent or malformed.
func (r *SearchResults) Total() int64 {
	_, total, err := parseLast(r.Result.Last)
	if err != nil {
		return 0
	}
	return total
}

// Next returns the parameters for the following page, or nil when the
// result set is exhausted (count >= total) or the cursor is unusable.
func (r *SearchResults) Next() *SearchOptions {
	count, total, err := parseLast(r.Result.Last)
	if err != nil || count >= total {
		return nil
	}

	next := r.params
	next.Last = r.Result.Last
	return &next
}

// parseLast splits the "<count>|<total>|<opaque>" pagination cursor.
func parseLast(last string) (count, total int64, err error) {
	parts := strings.SplitN(last, "|", 3)
	if len(parts) < 2 {
		return 0, 0, errors.Newf(errors.ErrorCodeDecodeFailed, "malformed pagination cursor %q", last)
	}

	count, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(err, errors.ErrorCodeDecodeFailed, "malformed count in cursor %q", last)
	}
	total, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(err, errors.ErrorCodeDecodeFailed, "malformed total in cursor %q", last)
	}
	return count, total, nil
}
