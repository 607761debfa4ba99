// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Topic labels assigned by keyword classification.
const (
	TopicTechnology = "technology"
	TopicProjects   = "projects"
	TopicBackground = "background"
)

// Tally is one counted key. Analysis keeps tallies in first-seen order so
// that reports and top-N selections are deterministic.
type Tally struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// ResponseQuality holds scores between 0.0 and 1.0 for the bot's answers.
// Only the sample dataset carries them; log analysis cannot derive them.
type ResponseQuality struct {
	TechnicalAccuracy float64 `json:"technical_accuracy" yaml:"technical_accuracy"`
	Helpfulness       float64 `json:"helpfulness" yaml:"helpfulness"`
	Clarity           float64 `json:"clarity" yaml:"clarity"`
}

// UserSatisfaction holds feedback counts. Sample dataset only.
type UserSatisfaction struct {
	PositiveFeedback int `json:"positive_feedback" yaml:"positive_feedback"`
	NeutralFeedback  int `json:"neutral_feedback" yaml:"neutral_feedback"`
	NegativeFeedback int `json:"negative_feedback" yaml:"negative_feedback"`
}

// Analysis is the result of analyzing a conversation log.
type Analysis struct {
	// LogPath is the log file or directory that was analyzed. Empty for the
	// sample dataset.
	LogPath string `json:"log_path,omitempty" yaml:"log_path,omitempty"`

	// Sample is true when the analysis is the built-in demonstration data.
	Sample bool `json:"sample" yaml:"sample"`

	// TotalConversations counts the conversations read from the log.
	TotalConversations int `json:"total_conversations" yaml:"total_conversations"`

	// CommonQuestions maps lowercased user question text to occurrence count,
	// in first-seen order.
	CommonQuestions []Tally `json:"common_questions" yaml:"common_questions"`

	// TechnicalTopics maps topic label to mention count, in first-seen order.
	TechnicalTopics []Tally `json:"technical_topics" yaml:"technical_topics"`

	// ResponseQuality is nil unless the analysis carries fixed scores.
	ResponseQuality *ResponseQuality `json:"response_quality,omitempty" yaml:"response_quality,omitempty"`

	// UserSatisfaction is nil unless the analysis carries fixed counts.
	UserSatisfaction *UserSatisfaction `json:"user_satisfaction,omitempty" yaml:"user_satisfaction,omitempty"`

	// UnansweredQuestions lists user questions that received no answer.
	UnansweredQuestions []string `json:"unanswered_questions" yaml:"unanswered_questions"`

	// SuggestedImprovements holds free-text improvement notes for the report.
	SuggestedImprovements []string `json:"suggested_improvements" yaml:"suggested_improvements"`
}

// QuestionCount returns the count recorded for question, or 0.
func (a *Analysis) QuestionCount(question string) int {
	return countOf(a.CommonQuestions, question)
}

// TopicCount returns the count recorded for topic, or 0.
func (a *Analysis) TopicCount(topic string) int {
	return countOf(a.TechnicalTopics, topic)
}

func countOf(tallies []Tally, key string) int {
	for _, t := range tallies {
		if t.Key == key {
			return t.Count
		}
	}
	return 0
}

// QAPair is a knowledge-base entry: a canned question and the bot's response.
type QAPair struct {
	Question string `json:"question" yaml:"question"`
	Response string `json:"response" yaml:"response"`
}
