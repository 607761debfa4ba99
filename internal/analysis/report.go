// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

const (
	reportTimeFormat = "2006-01-02 15:04:05"
	reportFileFormat = "20060102_150405"
)

// Report renders the analysis as a Markdown training report generated at now.
// Zero-valued cfg fields use the defaults (top 10 questions).
func Report(a *types.Analysis, cfg types.AnalysisConfig, now time.Time) string {
	cfg = withDefaults(cfg)

	accuracy := 0.0
	if a.ResponseQuality != nil {
		accuracy = a.ResponseQuality.TechnicalAccuracy
	}

	var b strings.Builder
	b.WriteString("# Bot Training Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format(reportTimeFormat))

	b.WriteString("## Overview\n")
	fmt.Fprintf(&b, "- Total conversations analyzed: %d\n", a.TotalConversations)
	fmt.Fprintf(&b, "- Response quality score: %.2f\n", accuracy)

	b.WriteString("\n## Most Common Questions\n")
	for _, q := range TopQuestions(a, cfg.TopReport) {
		fmt.Fprintf(&b, "- %s: %d times\n", q.Key, q.Count)
	}

	b.WriteString("\n## Technical Topics Distribution\n")
	for _, t := range a.TechnicalTopics {
		fmt.Fprintf(&b, "- %s: %d mentions\n", t.Key, t.Count)
	}

	if len(a.UnansweredQuestions) > 0 {
		b.WriteString("\n## Unanswered Questions\n")
		for _, q := range a.UnansweredQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	b.WriteString("\n## Suggested Improvements\n")
	for _, s := range a.SuggestedImprovements {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	return b.String()
}

// ReportFileName returns the report file name for a run at now.
func ReportFileName(now time.Time) string {
	return "training_report_" + now.Format(reportFileFormat) + ".md"
}

// WriteReport renders the report and writes it to dir, creating dir if
// needed. It returns the path of the written file.
func WriteReport(dir string, a *types.Analysis, cfg types.AnalysisConfig, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating training directory: %w", err)
	}
	path := filepath.Join(dir, ReportFileName(now))
	if err := os.WriteFile(path, []byte(Report(a, cfg, now)), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
