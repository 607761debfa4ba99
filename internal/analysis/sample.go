// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import "github.com/pdiddy/bot-trainer/pkg/types"

// SampleAnalysis returns the demonstration analysis used when no
// conversation log is available. Each call returns a fresh copy.
func SampleAnalysis() *types.Analysis {
	return &types.Analysis{
		Sample:             true,
		TotalConversations: 0,
		CommonQuestions: []types.Tally{
			{Key: "what technologies do you use?", Count: 5},
			{Key: "tell me about your projects", Count: 3},
			{Key: "what's your experience with react?", Count: 2},
			{Key: "how do you approach system architecture?", Count: 2},
		},
		ResponseQuality: &types.ResponseQuality{
			TechnicalAccuracy: 0.85,
			Helpfulness:       0.90,
			Clarity:           0.88,
		},
		UserSatisfaction: &types.UserSatisfaction{
			PositiveFeedback: 8,
			NeutralFeedback:  2,
			NegativeFeedback: 0,
		},
		TechnicalTopics: []types.Tally{
			{Key: types.TopicTechnology, Count: 12},
			{Key: types.TopicProjects, Count: 8},
			{Key: types.TopicBackground, Count: 5},
		},
		UnansweredQuestions: []string{
			"What's your experience with Kubernetes?",
			"How do you handle database scaling?",
			"What's your approach to testing?",
		},
		SuggestedImprovements: []string{
			"Add more specific examples for technical questions",
			"Include Kubernetes and database scaling in knowledge base",
			"Expand testing methodology responses",
		},
	}
}
