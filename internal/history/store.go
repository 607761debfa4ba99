// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records training runs and knowledge-base updates in a
// SQLite database so question trends can be searched across runs.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

const (
	defaultDBPath     = "training_data/history.db"
	defaultMaxResults = 20
)

// Store manages the run history SQLite database.
type Store struct {
	db         *sql.DB
	log        logrus.FieldLogger
	maxResults int

	// fts is false when the linked SQLite lacks FTS5; search then falls
	// back to substring matching.
	fts bool
}

// NewStore opens or creates the history database at cfg.DBPath and creates
// the schema if it does not exist.
func NewStore(cfg types.HistoryConfig, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		log:        log.WithField("db_path", dbPath),
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			log_path TEXT,
			sample INTEGER NOT NULL,
			total_conversations INTEGER NOT NULL,
			report_path TEXT,
			unanswered TEXT,
			improvements TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			question TEXT NOT NULL,
			count INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_run_id ON questions(run_id)`,
		`CREATE TABLE IF NOT EXISTS topics (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			topic TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, topic)
		)`,
		`CREATE TABLE IF NOT EXISTS kb_updates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			applied_at TEXT NOT NULL,
			config_path TEXT NOT NULL,
			question TEXT NOT NULL,
			response TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='questions_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE questions_fts USING fts5(question, content=questions, content_rowid=rowid)`,
		`CREATE TRIGGER questions_ai AFTER INSERT ON questions BEGIN
			INSERT INTO questions_fts(rowid, question) VALUES (new.rowid, new.question);
		END`,
		`CREATE TRIGGER questions_ad AFTER DELETE ON questions BEGIN
			INSERT INTO questions_fts(questions_fts, rowid, question) VALUES('delete', old.rowid, old.question);
		END`,
	}
	if _, err := s.db.Exec(ftsStatements[0]); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			s.log.Debug("sqlite built without fts5, question search uses substring matching")
			return nil
		}
		return fmt.Errorf("creating FTS infrastructure: %w", err)
	}
	for _, stmt := range ftsStatements[1:] {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// RecordRun stores an analysis and the path of its report. It returns the
// new run ID.
func (s *Store) RecordRun(ctx context.Context, a *types.Analysis, reportPath string, at time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	unansweredJSON, err := json.Marshal(a.UnansweredQuestions)
	if err != nil {
		return 0, fmt.Errorf("encoding unanswered questions: %w", err)
	}
	improvementsJSON, err := json.Marshal(a.SuggestedImprovements)
	if err != nil {
		return 0, fmt.Errorf("encoding improvements: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, log_path, sample, total_conversations, report_path, unanswered, improvements)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		at.UTC().Format(time.RFC3339Nano), a.LogPath, a.Sample, a.TotalConversations,
		reportPath, string(unansweredJSON), string(improvementsJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	if err := insertTallies(ctx, tx,
		`INSERT INTO questions (run_id, position, question, count) VALUES (?, ?, ?, ?)`,
		runID, a.CommonQuestions); err != nil {
		return 0, fmt.Errorf("inserting questions: %w", err)
	}
	if err := insertTallies(ctx, tx,
		`INSERT INTO topics (run_id, position, topic, count) VALUES (?, ?, ?, ?)`,
		runID, a.TechnicalTopics); err != nil {
		return 0, fmt.Errorf("inserting topics: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"run_id":    runID,
		"questions": len(a.CommonQuestions),
	}).Debug("recorded run")
	return runID, nil
}

func insertTallies(ctx context.Context, tx *sql.Tx, query string, runID int64, tallies []types.Tally) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tallies {
		if _, err := stmt.ExecContext(ctx, runID, i, t.Key, t.Count); err != nil {
			return err
		}
	}
	return nil
}

// RecordPatch stores knowledge-base entries applied to configPath.
func (s *Store) RecordPatch(ctx context.Context, configPath string, entries []types.QAPair, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	appliedAt := at.UTC().Format(time.RFC3339Nano)
	for _, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO kb_updates (applied_at, config_path, question, response) VALUES (?, ?, ?, ?)`,
			appliedAt, configPath, e.Question, e.Response,
		)
		if err != nil {
			return fmt.Errorf("inserting knowledge base update: %w", err)
		}
	}
	return tx.Commit()
}
