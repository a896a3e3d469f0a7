// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/pdiddy/metasearch/pkg/types"
)

// Registry maps engine identifiers to configured Engine instances. It is
// populated at startup and read concurrently afterwards; Register and
// Reset are configuration-time operations. Callers construct and pass a
// Registry explicitly rather than reaching a hidden global.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Engine)}
}

// Register adds or replaces the engine under id.
func (r *Registry) Register(id string, e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[id] = e
}

// Get returns the engine registered under id, or a ConfigurationError if
// the id is unknown.
func (r *Registry) Get(id string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[id]
	if !ok {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("no engine registered with id %q", id)}
	}
	return e, nil
}

// IDs returns the registered engine ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.engines))
	for id := range r.engines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset clears all registrations. Used to isolate test runs.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines = make(map[string]Engine)
}

// Default engine ids used by FromConfig.
const (
	IDEBSCO       = "ebsco"
	IDWorldCat    = "worldcat"
	IDJournalTOCs = "journal_tocs"
)

const defaultTimeout = 20 * time.Second

// FromConfig builds a registry containing one engine per configured
// section. Engines share a single HTTP client so connection pooling works
// across concurrent calls. Missing required fields surface as
// ConfigurationError.
func FromConfig(cfg types.EnginesConfig) (*Registry, error) {
	timeout := cfg.HTTP.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	r := NewRegistry()
	if cfg.EBSCO != nil {
		e, err := NewEBSCO(IDEBSCO, *cfg.EBSCO, cfg.HTTP, client)
		if err != nil {
			return nil, err
		}
		r.Register(IDEBSCO, e)
	}
	if cfg.WorldCat != nil {
		e, err := NewWorldCat(IDWorldCat, *cfg.WorldCat, cfg.HTTP, client)
		if err != nil {
			return nil, err
		}
		r.Register(IDWorldCat, e)
	}
	if cfg.JournalTOCs != nil {
		e, err := NewJournalTOCs(IDJournalTOCs, *cfg.JournalTOCs, cfg.HTTP, client)
		if err != nil {
			return nil, err
		}
		r.Register(IDJournalTOCs, e)
	}
	return r, nil
}
