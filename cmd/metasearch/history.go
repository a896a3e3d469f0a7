// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/metasearch/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently logged searches",
	Long: `History lists searches previously logged with search --history-db,
newest first.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("history-db", "metasearch-history.db", "SQLite history file")
	historyCmd.Flags().Int("limit", 20, "maximum entries to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("history-db")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No logged searches.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tENGINE\tQUERY\tTOTAL\tSTATUS")
	for _, e := range entries {
		status := "ok"
		if e.Failed {
			status = "failed: " + e.ErrorInfo
		}
		total := fmt.Sprintf("%d", e.TotalItems)
		if e.TotalItems < 0 {
			total = "?"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.EngineID, e.Query, total, status)
	}
	return w.Flush()
}
