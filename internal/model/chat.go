package model

import "time"

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn in a listing conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatHistoryWindow is the number of trailing history messages included in a
// chat completion. Older messages are dropped from the prompt, never from the
// caller's history.
const ChatHistoryWindow = 6

// TailWindow returns the trailing window of at most ChatHistoryWindow
// messages, oldest first. The input slice is never mutated.
func TailWindow(history []ChatMessage) []ChatMessage {
	if len(history) <= ChatHistoryWindow {
		return history
	}
	return history[len(history)-ChatHistoryWindow:]
}
