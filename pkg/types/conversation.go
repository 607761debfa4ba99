// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Role identifies the sender of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn in a conversation log.
type Message struct {
	// Role is "user" or "assistant". Other roles are ignored by analysis.
	Role Role `json:"role" yaml:"role"`

	// Content is the message text as the chat endpoint received or produced it.
	Content string `json:"content" yaml:"content"`
}

// Conversation is one recorded exchange as written by the chat endpoint's
// conversation logger.
type Conversation struct {
	// Timestamp is when the exchange was logged. Zero when the log omits it.
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`

	// Messages holds the turns in the order they occurred.
	Messages []Message `json:"messages" yaml:"messages"`
}
