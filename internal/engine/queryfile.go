// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/metasearch/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results.
// A search can be saved to a file and reloaded later without re-querying
// the backends, or its query block reused to rerun the same search.
type QueryFile struct {
	Query   types.Query       `yaml:"query"`
	Results []types.ResultSet `yaml:"results"`
	Summary QuerySummary      `yaml:"summary"`
}

// QuerySummary stores per-run statistics and a timestamp.
type QuerySummary struct {
	Engines       []string  `yaml:"engines"`
	TotalReturned int       `yaml:"total_returned"`
	FailedEngines []string  `yaml:"failed_engines,omitempty"`
	Timestamp     time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a query and the result sets it produced to a YAML
// file.
func WriteQueryFile(path string, q types.Query, results []types.ResultSet) error {
	qf := QueryFile{
		Query:   q,
		Results: results,
		Summary: QuerySummary{Timestamp: time.Now()},
	}
	for _, rs := range results {
		qf.Summary.Engines = append(qf.Summary.Engines, rs.EngineID)
		qf.Summary.TotalReturned += len(rs.Items)
		if rs.Failed {
			qf.Summary.FailedEngines = append(qf.Summary.FailedEngines, rs.EngineID)
		}
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
