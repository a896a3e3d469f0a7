// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"errors"
	"fmt"

	"github.com/pdiddy/metasearch/pkg/types"
)

// The error taxonomy distinguishes how a lookup failed, because callers
// treat "confirmed absent" differently from "could not confirm":
//
//   - ConfigurationError: unknown engine id, or required configuration
//     missing at construction. Surfaced immediately, never retried.
//   - InvalidIdentifierError: Get called with a malformed identifier.
//     Caller error, raised before any network call.
//   - NotFoundError: Get resolved to zero backend matches.
//   - FetchError: transport failure, backend-reported error document, or
//     unparseable payload.
//
// Search never returns any of these; its failures are embedded in the
// ResultSet.

// ConfigurationError reports an unknown engine id or invalid engine
// configuration.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// InvalidIdentifierError reports a Get identifier that does not match the
// engine's expected shape.
type InvalidIdentifierError struct {
	EngineID   string
	Identifier string
	Reason     string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("%s: invalid identifier %q: %s", e.EngineID, e.Identifier, e.Reason)
}

// NotFoundError reports that a Get identifier resolved to zero matches.
type NotFoundError struct {
	EngineID   string
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no record found for %q", e.EngineID, e.Identifier)
}

// FetchError reports a transport failure, a backend error response, or an
// unparseable payload. Message carries the backend's own wording when one
// was derivable from its error body.
type FetchError struct {
	EngineID string
	Message  string

	// HTTPStatus is set when the backend answered with a non-2xx status.
	HTTPStatus int

	Err error
}

func (e *FetchError) Error() string {
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("%s: %s: %v", e.EngineID, e.Message, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.EngineID, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.EngineID, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ErrLookupNotSupported is returned by Get on engines that have no
// single-record lookup (JournalTOCs feeds).
var ErrLookupNotSupported = errors.New("engine does not support single-record lookup")

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// failedResultSet converts an internal search error into the uniform
// failed ResultSet shape Search returns instead of raising.
func failedResultSet(engineID string, err error) types.ResultSet {
	var fe *FetchError
	if errors.As(err, &fe) {
		info := fe.Message
		if info == "" {
			info = fe.Error()
		}
		return types.FailedResultSet(engineID, info, fe.HTTPStatus)
	}
	return types.FailedResultSet(engineID, err.Error(), 0)
}
