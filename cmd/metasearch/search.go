// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/metasearch/internal/display"
	"github.com/pdiddy/metasearch/internal/engine"
	"github.com/pdiddy/metasearch/internal/history"
	"github.com/pdiddy/metasearch/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords...]",
	Short: "Search configured engines with one normalized query",
	Long: `Search runs one query against the selected engines concurrently and
prints each engine's normalized results. A failing engine reports its error
in place; the other engines' results are still shown.

Keywords are free text. Use --field name=value for fielded queries
(title, author, subject, issn, isbn, oclcnum), repeatable to combine
fields. --semantic-field scopes the keywords to one portable field instead.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSlice("engines", nil, "engines to query (default: all configured)")
	searchCmd.Flags().String("query", "", "free-text query (alternative to positional keywords)")
	searchCmd.Flags().StringArray("field", nil, "fielded query part as name=value (repeatable)")
	searchCmd.Flags().String("semantic-field", "", "scope keywords to one portable field name")
	searchCmd.Flags().Int("start", 0, "zero-based offset of the first result")
	searchCmd.Flags().Int("per-page", types.DefaultPerPage, "results per engine")
	searchCmd.Flags().String("sort", "", "sort order: relevance or date_desc")
	searchCmd.Flags().Bool("peer-reviewed", false, "restrict to peer-reviewed items (engines that support it)")
	searchCmd.Flags().String("year-start", "", "earliest publication year")
	searchCmd.Flags().String("year-end", "", "latest publication year")
	searchCmd.Flags().StringSlice("databases", nil, "EBSCO databases to search (overrides config)")
	searchCmd.Flags().Bool("auth", false, "treat the request as authenticated (WorldCat full service level)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as CSL-YAML")
	searchCmd.Flags().String("history-db", "", "SQLite file to log searches to")
	searchCmd.Flags().String("save", "", "write the query and results to a YAML file")
	searchCmd.Flags().String("load", "", "rerun the query block of a saved YAML file")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if loadPath, _ := cmd.Flags().GetString("load"); loadPath != "" {
		qf, err := engine.ReadQueryFile(loadPath)
		if err != nil {
			return err
		}
		q = qf.Query
	}
	if q.IsEmpty() {
		return fmt.Errorf("provide keywords or at least one --field")
	}

	reg, err := buildRegistry()
	if err != nil {
		return err
	}
	engines, err := selectEngines(cmd, reg)
	if err != nil {
		return err
	}

	results := engine.SearchAll(context.Background(), engines, q)

	if path, _ := cmd.Flags().GetString("history-db"); path != "" {
		if err := logSearches(path, q, results); err != nil {
			fmt.Fprintln(os.Stderr, "history:", err)
		}
	}
	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := engine.WriteQueryFile(path, q, results); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Saved search to", path)
	}

	return printResults(cmd, results)
}

// queryFromFlags builds a normalized query from command-line flags.
func queryFromFlags(cmd *cobra.Command, args []string) (types.Query, error) {
	q := types.Query{Keywords: strings.Join(args, " ")}
	if flagQuery, _ := cmd.Flags().GetString("query"); flagQuery != "" {
		q.Keywords = flagQuery
	}

	fieldPairs, _ := cmd.Flags().GetStringArray("field")
	if len(fieldPairs) > 0 {
		q.Fields = make(map[string]string, len(fieldPairs))
		for _, pair := range fieldPairs {
			name, value, ok := strings.Cut(pair, "=")
			if !ok || name == "" || value == "" {
				return types.Query{}, fmt.Errorf("invalid --field %q, want name=value", pair)
			}
			q.Fields[name] = value
		}
	}

	q.SemanticField, _ = cmd.Flags().GetString("semantic-field")
	q.Start, _ = cmd.Flags().GetInt("start")
	q.PerPage, _ = cmd.Flags().GetInt("per-page")
	q.PeerReviewedOnly, _ = cmd.Flags().GetBool("peer-reviewed")
	q.PubYearStart, _ = cmd.Flags().GetString("year-start")
	q.PubYearEnd, _ = cmd.Flags().GetString("year-end")
	q.Databases, _ = cmd.Flags().GetStringSlice("databases")

	if sortFlag, _ := cmd.Flags().GetString("sort"); sortFlag != "" {
		switch types.Sort(sortFlag) {
		case types.SortRelevance, types.SortDateDesc:
			q.Sort = types.Sort(sortFlag)
		default:
			return types.Query{}, fmt.Errorf("unknown sort %q, want relevance or date_desc", sortFlag)
		}
	}

	// Only an explicit --auth overrides the per-engine default.
	if cmd.Flags().Changed("auth") {
		auth, _ := cmd.Flags().GetBool("auth")
		q.Auth = &auth
	}

	return q, nil
}

// selectEngines resolves --engines against the registry, defaulting to all
// configured engines.
func selectEngines(cmd *cobra.Command, reg *engine.Registry) ([]engine.Engine, error) {
	ids, _ := cmd.Flags().GetStringSlice("engines")
	if len(ids) == 0 {
		ids = reg.IDs()
	}
	engines := make([]engine.Engine, 0, len(ids))
	for _, id := range ids {
		e, err := reg.Get(id)
		if err != nil {
			return nil, err
		}
		engines = append(engines, e)
	}
	return engines, nil
}

func logSearches(path string, q types.Query, results []types.ResultSet) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, rs := range results {
		if err := store.RecordSearch(q, rs); err != nil {
			return err
		}
	}
	return nil
}

func printResults(cmd *cobra.Command, results []types.ResultSet) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return display.FormatJSON(results, os.Stdout)
	}
	if asCSL, _ := cmd.Flags().GetBool("csl"); asCSL {
		var items []types.ResultItem
		for _, rs := range results {
			items = append(items, rs.Items...)
		}
		return display.FormatCSL(items, os.Stdout)
	}
	for _, rs := range results {
		display.FormatTable(rs, os.Stdout)
	}
	return nil
}
