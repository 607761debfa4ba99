// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

// Run summarizes one recorded training run.
type Run struct {
	ID                 int64     `json:"id" yaml:"id"`
	StartedAt          time.Time `json:"started_at" yaml:"started_at"`
	LogPath            string    `json:"log_path,omitempty" yaml:"log_path,omitempty"`
	Sample             bool      `json:"sample" yaml:"sample"`
	TotalConversations int       `json:"total_conversations" yaml:"total_conversations"`
	Questions          int       `json:"questions" yaml:"questions"`
	ReportPath         string    `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// QuestionResult aggregates one question across all recorded runs.
type QuestionResult struct {
	Question string `json:"question" yaml:"question"`
	Total    int    `json:"total" yaml:"total"`
	Runs     int    `json:"runs" yaml:"runs"`
}

// ListRuns returns up to limit runs, most recent first. A limit of zero or
// less uses the store default.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.started_at, r.log_path, r.sample, r.total_conversations, r.report_path,
			(SELECT count(*) FROM questions q WHERE q.run_id = r.id)
		FROM runs r
		ORDER BY r.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		r          Run
		startedAt  string
		logPath    sql.NullString
		reportPath sql.NullString
	)
	if err := rows.Scan(&r.ID, &startedAt, &logPath, &r.Sample,
		&r.TotalConversations, &reportPath, &r.Questions); err != nil {
		return r, fmt.Errorf("scanning run: %w", err)
	}
	r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	r.LogPath = logPath.String
	r.ReportPath = reportPath.String
	return r, nil
}

// SearchQuestions finds recorded questions matching query and aggregates
// their counts across runs, most frequent first. Sample runs are left out
// of the totals. A limit of zero or less uses the store default.
func (s *Store) SearchQuestions(ctx context.Context, query string, limit int) ([]QuestionResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		stmt string
		arg  string
	)
	if s.fts {
		stmt = `SELECT q.question, SUM(q.count), COUNT(DISTINCT q.run_id)
			FROM questions_fts
			JOIN questions q ON q.rowid = questions_fts.rowid
			JOIN runs r ON r.id = q.run_id
			WHERE questions_fts MATCH ? AND r.sample = 0
			GROUP BY q.question
			ORDER BY SUM(q.count) DESC, q.question
			LIMIT ?`
		arg = ftsQuery(query)
	} else {
		stmt = `SELECT q.question, SUM(q.count), COUNT(DISTINCT q.run_id)
			FROM questions q
			JOIN runs r ON r.id = q.run_id
			WHERE q.question LIKE '%' || ? || '%' ESCAPE '\' AND r.sample = 0
			GROUP BY q.question
			ORDER BY SUM(q.count) DESC, q.question
			LIMIT ?`
		arg = escapeLike(strings.ToLower(query))
	}

	rows, err := s.db.QueryContext(ctx, stmt, arg, limit)
	if err != nil {
		return nil, fmt.Errorf("searching questions: %w", err)
	}
	defer rows.Close()

	var results []QuestionResult
	for rows.Next() {
		var qr QuestionResult
		if err := rows.Scan(&qr.Question, &qr.Total, &qr.Runs); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, qr)
	}
	return results, rows.Err()
}

// ftsQuery quotes each word of text as an FTS5 string so punctuation in
// questions is not parsed as query syntax. Words are ANDed.
func ftsQuery(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = `"` + strings.ReplaceAll(w, `"`, `""`) + `"`
	}
	return strings.Join(words, " ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in text match literally under ESCAPE '\'.
func escapeLike(text string) string {
	return likeEscaper.Replace(text)
}

// runTallies returns the question and topic tallies of a run in recorded order.
func (s *Store) runTallies(ctx context.Context, runID int64) (questions, topics []types.Tally, err error) {
	questions, err = s.tallies(ctx,
		`SELECT question, count FROM questions WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading questions for run %d: %w", runID, err)
	}
	topics, err = s.tallies(ctx,
		`SELECT topic, count FROM topics WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading topics for run %d: %w", runID, err)
	}
	return questions, topics, nil
}

func (s *Store) tallies(ctx context.Context, query string, runID int64) ([]types.Tally, error) {
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tallies := []types.Tally{}
	for rows.Next() {
		var t types.Tally
		if err := rows.Scan(&t.Key, &t.Count); err != nil {
			return nil, err
		}
		tallies = append(tallies, t)
	}
	return tallies, rows.Err()
}

// runTextLists returns the unanswered questions and improvements of a run.
func (s *Store) runTextLists(ctx context.Context, runID int64) (unanswered, improvements []string, err error) {
	var uJSON, iJSON sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT unanswered, improvements FROM runs WHERE id = ?`, runID,
	).Scan(&uJSON, &iJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, fmt.Errorf("run %d not found", runID)
		}
		return nil, nil, fmt.Errorf("looking up run: %w", err)
	}
	if uJSON.Valid {
		if err := json.Unmarshal([]byte(uJSON.String), &unanswered); err != nil {
			return nil, nil, fmt.Errorf("decoding unanswered questions of run %d: %w", runID, err)
		}
	}
	if iJSON.Valid {
		if err := json.Unmarshal([]byte(iJSON.String), &improvements); err != nil {
			return nil, nil, fmt.Errorf("decoding improvements of run %d: %w", runID, err)
		}
	}
	return unanswered, improvements, nil
}
