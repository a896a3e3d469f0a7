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

var tocCmd = &cobra.Command{
	Use:   "toc <issn>",
	Short: "List a journal's current articles by ISSN",
	Long: `Toc fetches the JournalTOCs feed for one journal and prints its current
articles, newest first. Requires a registered JournalTOCs email in the
configuration or secrets.`,
	Args: cobra.ExactArgs(1),
	RunE: runTOC,
}

func init() {
	tocCmd.Flags().Bool("json", false, "output articles as JSON")
	tocCmd.Flags().Bool("csl", false, "output articles as CSL-YAML")

	rootCmd.AddCommand(tocCmd)
}

func runTOC(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}
	e, err := reg.Get(engine.IDJournalTOCs)
	if err != nil {
		return err
	}
	jt, ok := e.(*engine.JournalTOCsEngine)
	if !ok {
		return fmt.Errorf("engine %s does not serve journal feeds", e.ID())
	}

	rs, err := jt.FetchByISSN(context.Background(), args[0])
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return display.FormatJSON([]types.ResultSet{rs}, os.Stdout)
	}
	if asCSL, _ := cmd.Flags().GetBool("csl"); asCSL {
		return display.FormatCSL(rs.Items, os.Stdout)
	}
	display.FormatTable(rs, os.Stdout)
	return nil
}
