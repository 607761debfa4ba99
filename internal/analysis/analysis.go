// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis turns chat-bot conversation logs into question and topic
// tallies, training suggestions, and a Markdown training report.
package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

// topicRule assigns a topic when any keyword occurs in a question.
type topicRule struct {
	topic    string
	keywords []string
}

// topicRules is scanned in order; the first matching rule wins.
var topicRules = []topicRule{
	{types.TopicTechnology, []string{"react", "node", "python", "aws", "docker"}},
	{types.TopicProjects, []string{"project", "work", "experience"}},
	{types.TopicBackground, []string{"skill", "expertise", "background"}},
}

// Classify returns the topic for question, or "" when no keyword matches.
// Keywords match as substrings of the lowercased question.
func Classify(question string) string {
	q := strings.ToLower(question)
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.topic
			}
		}
	}
	return ""
}

// Analyzer analyzes conversation logs.
type Analyzer struct {
	log logrus.FieldLogger
}

// NewAnalyzer returns an Analyzer that logs through log. A nil log uses the
// logrus standard logger.
func NewAnalyzer(log logrus.FieldLogger) *Analyzer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Analyzer{log: log}
}

// Analyze reads the conversation log at logPath and tallies questions and
// topics. When logPath is empty or cannot be found, Analyze writes a notice
// to w and returns SampleAnalysis. A log that exists but does not parse is
// an error.
func (a *Analyzer) Analyze(logPath string, w io.Writer) (*types.Analysis, error) {
	if logPath == "" {
		fmt.Fprintln(w, "No log file given. Creating sample analysis.")
		return SampleAnalysis(), nil
	}
	if _, err := os.Stat(logPath); err != nil {
		a.log.WithField("log_path", logPath).WithError(err).Debug("log not available")
		fmt.Fprintf(w, "Log file %s not found. Creating sample analysis.\n", logPath)
		return SampleAnalysis(), nil
	}

	convs, err := LoadConversations(logPath)
	if err != nil {
		return nil, err
	}

	result := Tally(convs)
	result.LogPath = logPath

	a.log.WithFields(logrus.Fields{
		"log_path":      logPath,
		"conversations": result.TotalConversations,
		"questions":     len(result.CommonQuestions),
		"unanswered":    len(result.UnansweredQuestions),
	}).Info("analyzed conversation log")

	return result, nil
}

// Tally builds an Analysis from already loaded conversations.
func Tally(convs []types.Conversation) *types.Analysis {
	questions := newCounter()
	topics := newCounter()
	unanswered := newCounter()

	for _, conv := range convs {
		pending := ""
		for _, msg := range conv.Messages {
			switch msg.Role {
			case types.RoleUser:
				if pending != "" {
					unanswered.add(pending)
				}
				pending = strings.TrimSpace(msg.Content)

				question := strings.ToLower(msg.Content)
				questions.add(question)
				if topic := Classify(question); topic != "" {
					topics.add(topic)
				}
			case types.RoleAssistant:
				if strings.TrimSpace(msg.Content) != "" {
					pending = ""
				}
			}
		}
		if pending != "" {
			unanswered.add(pending)
		}
	}

	result := &types.Analysis{
		TotalConversations:    len(convs),
		CommonQuestions:       questions.tallies,
		TechnicalTopics:       topics.tallies,
		UnansweredQuestions:   unanswered.keys(),
		SuggestedImprovements: []string{},
	}
	if n := len(result.UnansweredQuestions); n > 0 {
		result.SuggestedImprovements = append(result.SuggestedImprovements,
			fmt.Sprintf("Add knowledge base responses for %d unanswered question(s)", n))
	}
	return result
}

// counter counts keys and remembers first-seen order.
type counter struct {
	index   map[string]int
	tallies []types.Tally
}

func newCounter() *counter {
	return &counter{index: make(map[string]int), tallies: []types.Tally{}}
}

func (c *counter) add(key string) {
	if i, ok := c.index[key]; ok {
		c.tallies[i].Count++
		return
	}
	c.index[key] = len(c.tallies)
	c.tallies = append(c.tallies, types.Tally{Key: key, Count: 1})
}

func (c *counter) keys() []string {
	keys := make([]string, len(c.tallies))
	for i, t := range c.tallies {
		keys[i] = t.Key
	}
	return keys
}

// LoadConversations reads a JSON array of conversations from path. When path
// is a directory, every conversations_*.json file in it is read in name
// order and the arrays are concatenated.
func LoadConversations(path string) ([]types.Conversation, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading conversation log %s: %w", path, err)
	}
	if !info.IsDir() {
		return readLogFile(path)
	}

	files, err := logFiles(path)
	if err != nil {
		return nil, err
	}
	convs := []types.Conversation{}
	for _, f := range files {
		c, err := readLogFile(f)
		if err != nil {
			return nil, err
		}
		convs = append(convs, c...)
	}
	return convs, nil
}

func readLogFile(path string) ([]types.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading conversation log %s: %w", path, err)
	}
	var convs []types.Conversation
	if err := json.Unmarshal(data, &convs); err != nil {
		return nil, fmt.Errorf("parsing conversation log %s: %w", path, err)
	}
	return convs, nil
}
