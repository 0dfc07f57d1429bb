package entity

import "time"

// Persisted message roles. Exactly two: system/tool turns are never stored.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a conversation. Role and content are immutable
// once created; position in the conversation is the authoritative order,
// timestamps are advisory.
type Message struct {
	Id        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// Conversation is an append-only, ordered list of messages identified by an
// opaque caller-supplied id.
type Conversation struct {
	Id        string
	Name      string
	PageURL   string
	Domain    string
	CreatedAt time.Time
	Messages  []Message
}
