// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

// ExportRun holds a run with its full tallies for export.
type ExportRun struct {
	Run                   `yaml:",inline"`
	CommonQuestions       []types.Tally `json:"common_questions" yaml:"common_questions"`
	TechnicalTopics       []types.Tally `json:"technical_topics" yaml:"technical_topics"`
	UnansweredQuestions   []string      `json:"unanswered_questions,omitempty" yaml:"unanswered_questions,omitempty"`
	SuggestedImprovements []string      `json:"suggested_improvements,omitempty" yaml:"suggested_improvements,omitempty"`
}

// Update is one question/response pair applied to a knowledge base.
type Update struct {
	AppliedAt  time.Time `json:"applied_at" yaml:"applied_at"`
	ConfigPath string    `json:"config_path" yaml:"config_path"`
	Question   string    `json:"question" yaml:"question"`
	Response   string    `json:"response" yaml:"response"`
}

// Export is the full history document.
type Export struct {
	Runs    []ExportRun `json:"runs" yaml:"runs"`
	Updates []Update    `json:"updates" yaml:"updates"`
}

const exportLimit = 100000

// ExportYAML writes the full history to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	doc, err := s.export(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the full history to path as JSON.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	doc, err := s.export(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) export(ctx context.Context) (*Export, error) {
	runs, err := s.ListRuns(ctx, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	doc := &Export{Runs: make([]ExportRun, len(runs)), Updates: []Update{}}
	for i, r := range runs {
		questions, topics, err := s.runTallies(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		unanswered, improvements, err := s.runTextLists(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		doc.Runs[i] = ExportRun{
			Run:                   r,
			CommonQuestions:       questions,
			TechnicalTopics:       topics,
			UnansweredQuestions:   unanswered,
			SuggestedImprovements: improvements,
		}
	}

	updates, err := s.Updates(ctx)
	if err != nil {
		return nil, err
	}
	doc.Updates = append(doc.Updates, updates...)
	return doc, nil
}

// Updates returns all recorded knowledge-base updates, oldest first.
func (s *Store) Updates(ctx context.Context) ([]Update, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT applied_at, config_path, question, response FROM kb_updates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying knowledge base updates: %w", err)
	}
	defer rows.Close()

	var updates []Update
	for rows.Next() {
		var (
			u         Update
			appliedAt string
		)
		if err := rows.Scan(&appliedAt, &u.ConfigPath, &u.Question, &u.Response); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		u.AppliedAt, _ = time.Parse(time.RFC3339Nano, appliedAt)
		updates = append(updates, u)
	}
	return updates, rows.Err()
}
