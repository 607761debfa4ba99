// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bot-trainer/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded training runs (list, search, export)",
	Long: `History reads the SQLite database of past training runs kept in the
training directory. Every analyze run and every add-qa update is recorded
there unless history.enabled is false.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent training runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.NewStore(settings.History, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}
	return formatRuns(cmd.OutOrStdout(), runs)
}

func formatRuns(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-19s  %-30s  %-6s  %-9s  %s\n",
		"ID", "Started", "Log", "Convs", "Questions", "Report")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range runs {
		logPath := r.LogPath
		if r.Sample {
			logPath = "(sample)"
		}
		if len(logPath) > 30 {
			logPath = "..." + logPath[len(logPath)-27:]
		}
		fmt.Fprintf(w, "%-4d  %-19s  %-30s  %-6d  %-9d  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), logPath,
			r.TotalConversations, r.Questions, r.ReportPath)
	}

	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search questions across all recorded runs",
	Long: `Search finds recorded questions containing every word of QUERY and
shows how often each was asked across all runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHistorySearch,
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := history.NewStore(settings.History, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.SearchQuestions(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}
	return formatSearchResults(cmd.OutOrStdout(), results, jsonOutput)
}

func formatSearchResults(w io.Writer, results []history.QuestionResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-5s  %s\n", "Rank", "Question", "Asked", "Runs")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for i, r := range results {
		q := r.Question
		if len(q) > 60 {
			q = q[:57] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-5d  %d\n", i+1, q, r.Total, r.Runs)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run history to YAML or JSON",
	Long: `Export writes every recorded run with its question and topic counts,
plus all knowledge-base updates, to history_export.yaml or history_export.json
in the training directory (or the path given by --output).`,
	Args: cobra.NoArgs,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := history.NewStore(settings.History, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	switch format {
	case "yaml", "":
		if output == "" {
			output = filepath.Join(settings.Analysis.TrainingDir, "history_export.yaml")
		}
		if err := store.ExportYAML(ctx, output); err != nil {
			return err
		}
	case "json":
		if output == "" {
			output = filepath.Join(settings.Analysis.TrainingDir, "history_export.json")
		}
		if err := store.ExportJSON(ctx, output); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
	return nil
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "maximum runs to list (0 = use default)")

	historySearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	historySearchCmd.Flags().Bool("json", false, "output results as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("output", "", "output file (default: <training-dir>/history_export.<format>)")

	// Wire subcommands.
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
