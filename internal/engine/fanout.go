// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"sync"

	"github.com/pdiddy/metasearch/pkg/types"
)

// SearchAll fans the same query out to every engine concurrently and fans
// the results back in. Engines never coordinate with each other, so each
// ResultSet is independent; a failed backend shows up as a failed
// ResultSet in its slot, never as a missing one. Results are returned in
// input engine order regardless of completion order.
func SearchAll(ctx context.Context, engines []Engine, q types.Query) []types.ResultSet {
	results := make([]types.ResultSet, len(engines))

	var wg sync.WaitGroup
	for i, e := range engines {
		wg.Add(1)
		go func(i int, e Engine) {
			defer wg.Done()
			results[i] = e.Search(ctx, q)
		}(i, e)
	}
	wg.Wait()

	return results
}
