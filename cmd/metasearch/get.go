// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/metasearch/internal/display"
	"github.com/pdiddy/metasearch/internal/engine"
	"github.com/pdiddy/metasearch/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get <engine> <identifier>",
	Short: "Fetch one record by its engine-specific identifier",
	Long: `Get fetches a single record from one engine by the unique identifier
reported in its search results: "db:accession" for ebsco, an OCLC number
for worldcat. journal_tocs does not support record lookup.`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func init() {
	getCmd.Flags().Bool("json", false, "output the record as JSON")
	getCmd.Flags().Bool("csl", false, "output the record as CSL-YAML")
	getCmd.Flags().Bool("openurl", false, "print an OpenURL context object for the record")

	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}
	e, err := reg.Get(args[0])
	if err != nil {
		return err
	}

	item, err := e.Get(context.Background(), args[1])
	if err != nil {
		if engine.IsNotFound(err) {
			return fmt.Errorf("no record with identifier %q in %s", args[1], args[0])
		}
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return display.FormatJSON([]types.ResultSet{{
			EngineID:   e.ID(),
			Items:      []types.ResultItem{item},
			TotalItems: 1,
		}}, os.Stdout)
	}
	if asCSL, _ := cmd.Flags().GetBool("csl"); asCSL {
		return display.FormatCSL([]types.ResultItem{item}, os.Stdout)
	}
	if asOpenURL, _ := cmd.Flags().GetBool("openurl"); asOpenURL {
		fmt.Println(display.OpenURL(item))
		return nil
	}

	display.FormatTable(types.ResultSet{
		EngineID:   e.ID(),
		Items:      []types.ResultItem{item},
		TotalItems: 1,
		Pagination: types.NewPagination(0, 1),
	}, os.Stdout)
	return nil
}
