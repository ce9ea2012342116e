package models

import "time"

// ChatEntry represents a single turn in the conversation. It contains the unique identifier of the
// entry, the participant's role, the entry text, and the time the entry was created.
type ChatEntry struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// Role represents the role of a chat participant.
type Role string

const (
	// RoleUser represents a user entry.
	RoleUser Role = "user"
	// RoleAssistant represents an assistant entry. The most recent assistant entry is the target of
	// streamed text fragments while a generation request is active.
	RoleAssistant Role = "assistant"
)
