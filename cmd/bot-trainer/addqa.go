// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bot-trainer/internal/kbpatch"
	"github.com/pdiddy/bot-trainer/pkg/types"
)

var addQACmd = &cobra.Command{
	Use:   "add-qa [QUESTION ANSWER]",
	Short: "Add question/answer pairs to the knowledge base",
	Long: `Add-qa appends entries to the commonQuestions list in the knowledge-base
config given by --config. Pass a single QUESTION and ANSWER as arguments, or
use --file with a YAML or JSON list of {question, response} pairs.

The file is edited in place with no backup. Running the same command twice
adds the entries twice. When the file or its commonQuestions list is missing
nothing is changed.`,
	RunE: runAddQA,
}

func runAddQA(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")

	var entries []types.QAPair
	switch {
	case file != "" && len(args) > 0:
		return fmt.Errorf("use either QUESTION ANSWER arguments or --file, not both")
	case file != "":
		loaded, err := kbpatch.LoadEntries(file)
		if err != nil {
			return err
		}
		entries = loaded
	case len(args) == 2:
		entries = []types.QAPair{{Question: args[0], Response: args[1]}}
	default:
		return fmt.Errorf("expected QUESTION and ANSWER arguments or --file")
	}

	return newTrainer(settings, logger, cmd.OutOrStdout(), cmd.ErrOrStderr()).addEntries(context.Background(), entries)
}

func init() {
	addQACmd.Flags().String("file", "", "YAML or JSON file with a list of {question, response} pairs")

	rootCmd.AddCommand(addQACmd)
}
