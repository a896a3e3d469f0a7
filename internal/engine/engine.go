// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine translates normalized queries into the idiosyncratic
// syntax of external bibliographic APIs, executes them over HTTP, and
// parses the heterogeneous responses back into the shared result model.
// Each backend (EBSCO Host EIT, WorldCat SRU-DC, JournalTOCs) implements
// the Engine interface per the Strategy pattern; a Registry maps engine
// ids to configured instances.
package engine

import (
	"context"

	"github.com/pdiddy/metasearch/pkg/types"
)

// Engine is one configured backend adapter. Implementations hold only
// immutable configuration and an HTTP client, so a single instance is
// safe for concurrent calls.
//
// The Search/Get error asymmetry is deliberate. Search is a best-effort
// call made in fan-out contexts where zero results and backend outages
// are expected outcomes, so both are encoded in the ResultSet and Search
// never returns a Go error. Get is a precise single-record lookup with no
// sensible "empty but successful" state, so every failure is an error:
// InvalidIdentifierError before any network call for malformed input,
// NotFoundError for zero matches, FetchError for everything else.
type Engine interface {
	// ID returns the engine identifier this instance was registered under.
	ID() string

	Search(ctx context.Context, q types.Query) types.ResultSet
	Get(ctx context.Context, identifier string) (types.ResultItem, error)
}
