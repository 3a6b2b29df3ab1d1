// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/review-engine/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past literature-review runs",
	Long: `History lists completed runs recorded in the run-history database,
newest first. Use --papers with a run ID to show the papers reviewed
in that run.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	papersRun, _ := cmd.Flags().GetInt64("papers")

	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no run history at %s", dbPath)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if papersRun > 0 {
		return showPapers(s, papersRun, jsonOutput)
	}

	runs, err := s.History(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-20s  %-9s  %-7s  %s\n",
		"ID", "Started", "Analyzed", "Failed", "Output")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-5d  %-20s  %-9d  %-7d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Analyzed, r.Failed, r.OutputPath)
	}
	return nil
}

func showPapers(s *store.Store, runID int64, jsonOutput bool) error {
	papers, err := s.Papers(context.Background(), runID)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}

	if len(papers) == 0 {
		fmt.Printf("No papers recorded for run %d.\n", runID)
		return nil
	}
	for _, p := range papers {
		fmt.Println("- " + p.Citation)
	}
	return nil
}

func init() {
	historyCmd.Flags().String("db", "review-history.db", "path to the run-history database")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Int64("papers", 0, "show the papers reviewed in the given run ID")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}
