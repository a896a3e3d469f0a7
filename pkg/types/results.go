// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Pagination describes the window of a result set. StartRecord is the
// 1-based record offset sent to the backend; CurrentPage is the 1-based
// page shown to the user.
type Pagination struct {
	StartRecord int `json:"start_record" yaml:"start_record"`
	CurrentPage int `json:"current_page" yaml:"current_page"`
	PerPage     int `json:"per_page" yaml:"per_page"`
}

// NewPagination converts a 0-based start offset and page size into the
// 1-based window backends expect. A non-positive perPage is treated as 1
// so the page arithmetic stays defined.
func NewPagination(start, perPage int) Pagination {
	if perPage <= 0 {
		perPage = 1
	}
	if start < 0 {
		start = 0
	}
	return Pagination{
		StartRecord: start + 1,
		CurrentPage: start/perPage + 1,
		PerPage:     perPage,
	}
}

// ClampStartRecord bounds StartRecord to max and recomputes CurrentPage
// from the clamped value. Backends with a hard offset ceiling (WorldCat
// rejects startRecord above 9999) get the clamped request silently, and
// the returned Pagination reflects what was actually sent.
func (p Pagination) ClampStartRecord(max int) Pagination {
	if p.StartRecord <= max {
		return p
	}
	p.StartRecord = max
	p.CurrentPage = (p.StartRecord-1)/p.PerPage + 1
	return p
}

// SearchError carries the failure detail embedded in a failed ResultSet.
type SearchError struct {
	// Info is a human-readable message, taken from the backend's own error
	// document when one was parseable.
	Info string `json:"error_info" yaml:"error_info"`

	// HTTPStatus is the response status code, when the failure came from
	// an HTTP-level error rather than transport or parsing.
	HTTPStatus int `json:"http_status,omitempty" yaml:"http_status,omitempty"`
}

// ResultSet is the outcome of one Engine.Search call. Search never fails
// with a Go error: zero results is Failed=false with empty Items, and a
// backend failure is Failed=true with Error set and Items empty. A
// ResultSet is never partially populated on failure.
type ResultSet struct {
	Items []ResultItem `json:"items" yaml:"items"`

	// TotalItems is the backend-reported total match count, or -1 when the
	// backend does not report one.
	TotalItems int `json:"total_items" yaml:"total_items"`

	Pagination Pagination   `json:"pagination" yaml:"pagination"`
	Failed     bool         `json:"failed" yaml:"failed"`
	Error      *SearchError `json:"error,omitempty" yaml:"error,omitempty"`
	EngineID   string       `json:"engine_id" yaml:"engine_id"`
}

// FailedResultSet builds the uniform failure value for Search.
func FailedResultSet(engineID, info string, httpStatus int) ResultSet {
	return ResultSet{
		TotalItems: -1,
		Failed:     true,
		Error:      &SearchError{Info: info, HTTPStatus: httpStatus},
		EngineID:   engineID,
	}
}
