// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"fmt"
	"sort"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

const (
	defaultQualityThreshold = 0.9
	defaultTopSuggestions   = 5
	defaultTopReport        = 10
)

// withDefaults fills zero-valued analysis settings.
func withDefaults(cfg types.AnalysisConfig) types.AnalysisConfig {
	if cfg.QualityThreshold <= 0 {
		cfg.QualityThreshold = defaultQualityThreshold
	}
	if cfg.TopSuggestions <= 0 {
		cfg.TopSuggestions = defaultTopSuggestions
	}
	if cfg.TopReport <= 0 {
		cfg.TopReport = defaultTopReport
	}
	return cfg
}

// TopQuestions returns up to n questions by descending count. Questions with
// equal counts keep the order in which they were first seen.
func TopQuestions(a *types.Analysis, n int) []types.Tally {
	sorted := make([]types.Tally, len(a.CommonQuestions))
	copy(sorted, a.CommonQuestions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Suggest produces human-readable training suggestions: the most frequent
// questions, knowledge-base additions for unanswered questions, and response
// quality advice when technical accuracy is below the configured threshold.
// Zero-valued cfg fields use the defaults (threshold 0.9, top 5).
func Suggest(a *types.Analysis, cfg types.AnalysisConfig) []string {
	cfg = withDefaults(cfg)

	suggestions := []string{"Top questions to address:"}
	for _, q := range TopQuestions(a, cfg.TopSuggestions) {
		suggestions = append(suggestions, fmt.Sprintf("  - '%s' (asked %d times)", q.Key, q.Count))
	}

	if len(a.UnansweredQuestions) > 0 {
		suggestions = append(suggestions, "\nKnowledge base additions needed:")
		for _, q := range a.UnansweredQuestions {
			suggestions = append(suggestions, "  - Add response for: "+q)
		}
	}

	if a.ResponseQuality != nil && a.ResponseQuality.TechnicalAccuracy < cfg.QualityThreshold {
		suggestions = append(suggestions,
			"\nResponse quality improvements:",
			"  - Add more technical details to responses",
			"  - Include code examples where appropriate",
		)
	}

	return suggestions
}
