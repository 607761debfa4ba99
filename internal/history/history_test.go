// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	logger, _ := logtest.NewNullLogger()

	cfg := types.HistoryConfig{
		Enabled:    true,
		DBPath:     filepath.Join(tmpDir, "training_data", "history.db"),
		MaxResults: 20,
	}
	store, err := NewStore(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, tmpDir
}

func analysisWith(questions ...types.Tally) *types.Analysis {
	return &types.Analysis{
		LogPath:            "conversation_logs",
		TotalConversations: len(questions),
		CommonQuestions:    questions,
		TechnicalTopics: []types.Tally{
			{Key: types.TopicTechnology, Count: 2},
			{Key: types.TopicProjects, Count: 1},
		},
		UnansweredQuestions:   []string{"What about Kubernetes?"},
		SuggestedImprovements: []string{"Add knowledge base responses for 1 unanswered question(s)"},
	}
}

var (
	t0 = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	t1 = t0.Add(24 * time.Hour)
)

func TestNewStoreCreatesDirectory(t *testing.T) {
	_, tmpDir := testStore(t)
	_, err := os.Stat(filepath.Join(tmpDir, "training_data", "history.db"))
	require.NoError(t, err)
}

func TestNewStoreReopen(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := types.HistoryConfig{DBPath: filepath.Join(tmpDir, "history.db")}

	s1, err := NewStore(cfg, nil)
	require.NoError(t, err)
	_, err = s1.RecordRun(context.Background(), analysisWith(types.Tally{Key: "hi", Count: 1}), "", t0)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := NewStore(cfg, nil)
	require.NoError(t, err)
	defer s2.Close()
	runs, err := s2.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRecordAndListRuns(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	id1, err := store.RecordRun(ctx, analysisWith(
		types.Tally{Key: "do you use docker?", Count: 2},
		types.Tally{Key: "tell me about your projects", Count: 1},
	), "training_data/training_report_1.md", t0)
	require.NoError(t, err)

	sample := &types.Analysis{Sample: true, CommonQuestions: []types.Tally{{Key: "x", Count: 5}}}
	id2, err := store.RecordRun(ctx, sample, "training_data/training_report_2.md", t1)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, id2, runs[0].ID)
	assert.True(t, runs[0].Sample)
	assert.Equal(t, 1, runs[0].Questions)
	assert.True(t, runs[0].StartedAt.Equal(t1))

	assert.Equal(t, id1, runs[1].ID)
	assert.False(t, runs[1].Sample)
	assert.Equal(t, "conversation_logs", runs[1].LogPath)
	assert.Equal(t, 2, runs[1].TotalConversations)
	assert.Equal(t, 2, runs[1].Questions)
	assert.Equal(t, "training_data/training_report_1.md", runs[1].ReportPath)

	limited, err := store.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSearchQuestions(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	_, err := store.RecordRun(ctx, analysisWith(
		types.Tally{Key: "do you use docker?", Count: 2},
		types.Tally{Key: "what's your experience with kubernetes?", Count: 1},
	), "", t0)
	require.NoError(t, err)
	_, err = store.RecordRun(ctx, analysisWith(
		types.Tally{Key: "do you use docker?", Count: 3},
		types.Tally{Key: "docker or podman?", Count: 4},
	), "", t1)
	require.NoError(t, err)

	got, err := store.SearchQuestions(ctx, "docker", 0)
	require.NoError(t, err)
	assert.Equal(t, []QuestionResult{
		{Question: "do you use docker?", Total: 5, Runs: 2},
		{Question: "docker or podman?", Total: 4, Runs: 1},
	}, got)

	got, err = store.SearchQuestions(ctx, "Kubernetes?", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "what's your experience with kubernetes?", got[0].Question)

	got, err = store.SearchQuestions(ctx, "docker", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = store.SearchQuestions(ctx, "terraform", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = store.SearchQuestions(ctx, "  ", 0)
	assert.Error(t, err)
}

func TestSearchQuestionsSkipsSampleRuns(t *testing.T) {
	tests := []struct {
		name string
		fts  bool
	}{
		{"full text", true},
		{"like fallback", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := testStore(t)
			store.fts = store.fts && tt.fts
			ctx := context.Background()

			_, err := store.RecordRun(ctx, analysisWith(types.Tally{Key: "do you use docker?", Count: 2}), "", t0)
			require.NoError(t, err)
			sample := analysisWith(
				types.Tally{Key: "do you use docker?", Count: 5},
				types.Tally{Key: "docker in production?", Count: 1},
			)
			sample.Sample = true
			_, err = store.RecordRun(ctx, sample, "", t1)
			require.NoError(t, err)

			got, err := store.SearchQuestions(ctx, "docker", 0)
			require.NoError(t, err)
			assert.Equal(t, []QuestionResult{{Question: "do you use docker?", Total: 2, Runs: 1}}, got)
		})
	}
}

func TestSearchQuestionsLikeWildcards(t *testing.T) {
	store, _ := testStore(t)
	store.fts = false
	ctx := context.Background()

	_, err := store.RecordRun(ctx, analysisWith(
		types.Tally{Key: "what is snake_case?", Count: 1},
		types.Tally{Key: "what is 100% uptime?", Count: 1},
		types.Tally{Key: "do you use docker?", Count: 3},
	), "", t0)
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{"_", []string{"what is snake_case?"}},
		{"%", []string{"what is 100% uptime?"}},
		{"e_c", []string{"what is snake_case?"}},
		{`\`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := store.SearchQuestions(ctx, tt.query, 0)
			require.NoError(t, err)
			var questions []string
			for _, r := range got {
				questions = append(questions, r.Question)
			}
			assert.Equal(t, tt.want, questions)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% snake\_case c:\\go`, escapeLike(`100% snake_case c:\go`))
	assert.Equal(t, "docker", escapeLike("docker"))
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"kubernetes?"`, ftsQuery("kubernetes?"))
	assert.Equal(t, `"say" """hi"""`, ftsQuery(`say "hi"`))
}

func TestRecordPatchAndExport(t *testing.T) {
	store, tmpDir := testStore(t)
	ctx := context.Background()

	_, err := store.RecordRun(ctx, analysisWith(types.Tally{Key: "do you use docker?", Count: 2}), "r.md", t0)
	require.NoError(t, err)
	require.NoError(t, store.RecordPatch(ctx, "cipherConfig.ts", []types.QAPair{
		{Question: "Q1", Response: "R1"},
		{Question: "Q2", Response: "R2"},
	}, t1))

	updates, err := store.Updates(ctx)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, "Q1", updates[0].Question)
	assert.True(t, updates[1].AppliedAt.Equal(t1))

	yamlPath := filepath.Join(tmpDir, "export.yaml")
	require.NoError(t, store.ExportYAML(ctx, yamlPath))
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML Export
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML.Runs, 1)
	assert.Equal(t, []types.Tally{{Key: "do you use docker?", Count: 2}}, fromYAML.Runs[0].CommonQuestions)
	assert.Equal(t, "r.md", fromYAML.Runs[0].ReportPath)
	assert.Equal(t, []string{"What about Kubernetes?"}, fromYAML.Runs[0].UnansweredQuestions)
	assert.Len(t, fromYAML.Updates, 2)

	jsonPath := filepath.Join(tmpDir, "export.json")
	require.NoError(t, store.ExportJSON(ctx, jsonPath))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON Export
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON.Runs, 1)
	assert.Equal(t, 2, fromJSON.Runs[0].TechnicalTopics[0].Count)
	assert.Equal(t, "cipherConfig.ts", fromJSON.Updates[0].ConfigPath)
}

func TestExportCorruptTextList(t *testing.T) {
	tests := []struct {
		name   string
		column string
		errMsg string
	}{
		{"unanswered", "unanswered", "decoding unanswered questions"},
		{"improvements", "improvements", "decoding improvements"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, tmpDir := testStore(t)
			ctx := context.Background()

			id, err := store.RecordRun(ctx, analysisWith(types.Tally{Key: "hi", Count: 1}), "", t0)
			require.NoError(t, err)
			_, err = store.db.Exec(`UPDATE runs SET `+tt.column+` = '{not json' WHERE id = ?`, id)
			require.NoError(t, err)

			err = store.ExportJSON(ctx, filepath.Join(tmpDir, "export.json"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestExportEmpty(t *testing.T) {
	store, tmpDir := testStore(t)
	path := filepath.Join(tmpDir, "export.json")
	require.NoError(t, store.ExportJSON(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"runs": [], "updates": []}`, string(data))
}
