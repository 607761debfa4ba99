// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

// --- test helpers ---

func testAnalyzer(t *testing.T) (*Analyzer, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewAnalyzer(logger), hook
}

func writeLog(t *testing.T, path string, convs []types.Conversation) {
	t.Helper()
	data, err := json.Marshal(convs)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func userOnly(questions ...string) types.Conversation {
	var c types.Conversation
	for _, q := range questions {
		c.Messages = append(c.Messages,
			types.Message{Role: types.RoleUser, Content: q},
			types.Message{Role: types.RoleAssistant, Content: "answer"},
		)
	}
	return c
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"docker is technology", "do you use docker?", types.TopicTechnology},
		{"project is projects", "tell me about a project", types.TopicProjects},
		{"skill is background", "what skills do you have", types.TopicBackground},
		{"technology beats projects", "which python project are you proudest of", types.TopicTechnology},
		{"projects beats background", "what experience and background do you have", types.TopicProjects},
		{"technology beats background", "what is your aws expertise", types.TopicTechnology},
		{"case insensitive", "DOCKER", types.TopicTechnology},
		{"substring match", "how does your network stack look", types.TopicProjects},
		{"no keyword", "hello there", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.question))
		})
	}
}

func TestAnalyzeMissingFileReturnsSample(t *testing.T) {
	a, _ := testAnalyzer(t)
	var out bytes.Buffer

	got, err := a.Analyze(filepath.Join(t.TempDir(), "nope.json"), &out)
	require.NoError(t, err)

	assert.Equal(t, SampleAnalysis(), got)
	assert.Equal(t, 0, got.TotalConversations)
	require.NotNil(t, got.ResponseQuality)
	assert.Equal(t, 0.85, got.ResponseQuality.TechnicalAccuracy)
	assert.Len(t, got.UnansweredQuestions, 3)
	assert.Contains(t, out.String(), "not found. Creating sample analysis.")
}

func TestAnalyzeEmptyPathReturnsSample(t *testing.T) {
	a, _ := testAnalyzer(t)
	var out bytes.Buffer

	got, err := a.Analyze("", &out)
	require.NoError(t, err)
	assert.True(t, got.Sample)
	assert.Contains(t, out.String(), "Creating sample analysis.")
}

func TestAnalyzeZeroConversations(t *testing.T) {
	a, _ := testAnalyzer(t)
	path := filepath.Join(t.TempDir(), "logs.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	got, err := a.Analyze(path, &bytes.Buffer{})
	require.NoError(t, err)

	assert.False(t, got.Sample)
	assert.Equal(t, 0, got.TotalConversations)
	assert.Empty(t, got.CommonQuestions)
	assert.Empty(t, got.TechnicalTopics)
	assert.Nil(t, got.ResponseQuality)
	assert.Equal(t, path, got.LogPath)
}

func TestAnalyzeMalformedJSON(t *testing.T) {
	a, _ := testAnalyzer(t)
	path := filepath.Join(t.TempDir(), "logs.json")
	require.NoError(t, os.WriteFile(path, []byte("[{not json"), 0o644))

	_, err := a.Analyze(path, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing conversation log")
}

func TestAnalyzeCountsQuestionsAndTopics(t *testing.T) {
	a, hook := testAnalyzer(t)
	path := filepath.Join(t.TempDir(), "logs.json")
	writeLog(t, path, []types.Conversation{
		userOnly("Do you use Docker?", "Tell me about your project"),
		userOnly("do you use docker?"),
		userOnly("What is your background?"),
		userOnly("Hello"),
	})

	got, err := a.Analyze(path, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 4, got.TotalConversations)
	assert.Equal(t, 2, got.QuestionCount("do you use docker?"))
	assert.Equal(t, 1, got.QuestionCount("tell me about your project"))
	assert.Equal(t, 1, got.QuestionCount("hello"))
	assert.Equal(t, 0, got.QuestionCount("Do you use Docker?"))

	assert.Equal(t, []types.Tally{
		{Key: types.TopicTechnology, Count: 2},
		{Key: types.TopicProjects, Count: 1},
		{Key: types.TopicBackground, Count: 1},
	}, got.TechnicalTopics)

	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, "analyzed conversation log", hook.LastEntry().Message)
	assert.Equal(t, 4, hook.LastEntry().Data["conversations"])
}

func TestAnalyzeSingleDockerMessage(t *testing.T) {
	convs := []types.Conversation{userOnly("is docker part of your stack")}
	got := Tally(convs)
	assert.Equal(t, 1, got.TopicCount(types.TopicTechnology))
	assert.Equal(t, 0, got.TopicCount(types.TopicProjects))
	assert.Equal(t, 0, got.TopicCount(types.TopicBackground))
}

func TestTallyIgnoresNonUserRoles(t *testing.T) {
	convs := []types.Conversation{{Messages: []types.Message{
		{Role: "system", Content: "you are a docker expert"},
		{Role: types.RoleAssistant, Content: "I use python"},
	}}}
	got := Tally(convs)
	assert.Equal(t, 1, got.TotalConversations)
	assert.Empty(t, got.CommonQuestions)
	assert.Empty(t, got.TechnicalTopics)
}

func TestTallyUnansweredQuestions(t *testing.T) {
	convs := []types.Conversation{
		{Messages: []types.Message{
			{Role: types.RoleUser, Content: "What about Kubernetes?"},
			{Role: types.RoleAssistant, Content: "   "},
		}},
		{Messages: []types.Message{
			{Role: types.RoleUser, Content: "First?"},
			{Role: types.RoleUser, Content: "Second?"},
			{Role: types.RoleAssistant, Content: "Answer to second."},
		}},
		{Messages: []types.Message{
			{Role: types.RoleUser, Content: "What about Kubernetes?"},
		}},
	}

	got := Tally(convs)
	assert.Equal(t, []string{"What about Kubernetes?", "First?"}, got.UnansweredQuestions)
	assert.Equal(t, []string{"Add knowledge base responses for 2 unanswered question(s)"}, got.SuggestedImprovements)
}

func TestLoadConversationsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "conversations_2026-01-02.json"), []types.Conversation{userOnly("second day")})
	writeLog(t, filepath.Join(dir, "conversations_2026-01-01.json"), []types.Conversation{userOnly("first day")})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	convs, err := LoadConversations(dir)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "first day", convs[0].Messages[0].Content)
	assert.Equal(t, "second day", convs[1].Messages[0].Content)
}

func TestLoadConversationsTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.json")
	raw := `[{"timestamp":"2026-03-04T05:06:07.000Z","messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	convs, err := LoadConversations(path)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 2026, convs[0].Timestamp.Year())
	assert.Len(t, convs[0].Messages, 2)
}

func TestSampleAnalysisIsFresh(t *testing.T) {
	a := SampleAnalysis()
	a.CommonQuestions[0].Count = 99
	assert.Equal(t, 5, SampleAnalysis().QuestionCount("what technologies do you use?"))
}
