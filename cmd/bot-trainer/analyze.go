// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze conversation logs and write a training report",
	Long: `Analyze reads the conversation log given by --log-file (a JSON array of
conversations, or a directory of conversations_*.json files), counts
questions and topics, and writes training_report_YYYYMMDD_HHMMSS.md to the
training directory. Key findings and next steps are printed to stdout.

A missing log file is not an error: the built-in sample analysis is used
instead. A log file that is not valid JSON is an error.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// The root command has no --json flag; GetBool then reports false.
	jsonOut, _ := cmd.Flags().GetBool("json")
	return newTrainer(settings, logger, cmd.OutOrStdout(), cmd.ErrOrStderr()).session(context.Background(), jsonOut)
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "print the analysis as JSON instead of the key findings")

	rootCmd.AddCommand(analyzeCmd)
}
