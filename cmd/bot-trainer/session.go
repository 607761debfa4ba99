// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bot-trainer/internal/analysis"
	"github.com/pdiddy/bot-trainer/internal/history"
	"github.com/pdiddy/bot-trainer/internal/kbpatch"
	"github.com/pdiddy/bot-trainer/pkg/types"
)

// trainer runs the CLI operations against one resolved configuration.
type trainer struct {
	cfg types.TrainerConfig
	log logrus.FieldLogger
	out io.Writer

	// errOut receives progress lines when out must carry only JSON.
	errOut io.Writer
	now    func() time.Time
}

func newTrainer(cfg types.TrainerConfig, log logrus.FieldLogger, out, errOut io.Writer) *trainer {
	return &trainer{cfg: cfg, log: log, out: out, errOut: errOut, now: time.Now}
}

var nextSteps = []string{
	"1. Review the training report",
	"2. Update knowledge base with new Q&A pairs",
	"3. Test the bot with new scenarios",
	"4. Collect more conversation data for future training",
}

// session analyzes the configured log, writes the report, prints the key
// findings, and records the run in history. With jsonOut the analysis is
// printed as JSON instead of the findings, and progress goes to errOut.
func (t *trainer) session(ctx context.Context, jsonOut bool) error {
	progress := t.out
	if jsonOut {
		progress = t.errOut
	}
	fmt.Fprintln(progress, "Starting bot training session...")

	a, err := analysis.NewAnalyzer(t.log).Analyze(t.cfg.Analysis.LogFile, progress)
	if err != nil {
		return err
	}

	suggestions := analysis.Suggest(a, t.cfg.Analysis)

	now := t.now()
	reportPath, err := analysis.WriteReport(t.cfg.Analysis.TrainingDir, a, t.cfg.Analysis, now)
	if err != nil {
		return err
	}
	t.recordRun(ctx, a, reportPath, now)

	fmt.Fprintf(progress, "Analysis complete! Report saved to: %s\n", reportPath)

	if jsonOut {
		enc := json.NewEncoder(t.out)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	fmt.Fprintln(t.out, "\nKey Findings:")
	for _, s := range suggestions {
		fmt.Fprintln(t.out, s)
	}

	fmt.Fprintln(t.out, "\nNext Steps:")
	for _, s := range nextSteps {
		fmt.Fprintln(t.out, s)
	}
	return nil
}

// addEntries patches the knowledge base with entries as given. Nothing is
// printed when the config file or its commonQuestions list is missing.
func (t *trainer) addEntries(ctx context.Context, entries []types.QAPair) error {
	path := t.cfg.KnowledgeBase.Path
	added, err := kbpatch.PatchFile(path, entries)
	if err != nil {
		return err
	}
	if added == 0 {
		t.log.WithField("config_path", path).Debug("knowledge base not updated")
		return nil
	}

	fmt.Fprintf(t.out, "Updated knowledge base with %d new Q&A pairs\n", added)
	t.recordPatch(ctx, path, entries)
	return nil
}

// recordRun stores the run in history. Failures are logged, not returned.
func (t *trainer) recordRun(ctx context.Context, a *types.Analysis, reportPath string, at time.Time) {
	if !t.cfg.History.Enabled {
		return
	}
	store, err := t.openHistory()
	if err != nil {
		t.log.WithError(err).Warn("run history unavailable")
		return
	}
	defer store.Close()

	id, err := store.RecordRun(ctx, a, reportPath, at)
	if err != nil {
		t.log.WithError(err).Warn("recording run failed")
		return
	}
	t.log.WithField("run_id", id).Info("run recorded")
}

func (t *trainer) recordPatch(ctx context.Context, configPath string, entries []types.QAPair) {
	if !t.cfg.History.Enabled {
		return
	}
	store, err := t.openHistory()
	if err != nil {
		t.log.WithError(err).Warn("run history unavailable")
		return
	}
	defer store.Close()

	if err := store.RecordPatch(ctx, configPath, entries, t.now()); err != nil {
		t.log.WithError(err).Warn("recording knowledge base update failed")
	}
}

func (t *trainer) openHistory() (*history.Store, error) {
	return history.NewStore(t.cfg.History, t.log)
}
