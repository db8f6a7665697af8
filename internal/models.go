package internal

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultSessionTitle is the placeholder title a session carries until the
// first user message rewrites it
const DefaultSessionTitle = "New Chat"

// titleMaxRunes is the prefix length the derived title is truncated to
const titleMaxRunes = 30

// Message represents one turn entry in a conversation.
// Steps is only ever set on assistant messages, and only when the step
// extractor found two or more steps. Image is only ever set on user messages.
type Message struct {
	ID        string   `json:"id" yaml:"id"`
	Role      Role     `json:"role" yaml:"role"`
	Content   string   `json:"content" yaml:"content"`
	Image     string   `json:"image,omitempty" yaml:"image,omitempty"`
	Timestamp int64    `json:"timestamp" yaml:"timestamp"` // milliseconds since epoch
	Steps     []string `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// NewUserMessage creates a user message from trimmed input text.
// at is the creation instant in milliseconds and doubles as the message id.
func NewUserMessage(content string, at int64) Message {
	return Message{
		ID:        strconv.FormatInt(at, 10),
		Role:      RoleUser,
		Content:   content,
		Timestamp: at,
	}
}

// NewUserImageMessage creates a user message carrying an encoded image payload
func NewUserImageMessage(content, image string, at int64) Message {
	msg := NewUserMessage(content, at)
	msg.Image = image
	return msg
}

// NewAssistantMessage creates an assistant message. The steps sequence is
// attached only when it holds at least two entries; a single-step result is
// treated as plain prose and dropped.
func NewAssistantMessage(content string, steps []string, at int64) Message {
	msg := Message{
		ID:        strconv.FormatInt(at, 10),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: at,
	}
	if len(steps) >= 2 {
		msg.Steps = append([]string(nil), steps...)
	}
	return msg
}

// HasSteps reports whether the message carries a step decomposition
func (m Message) HasSteps() bool {
	return len(m.Steps) > 0
}

// Time returns the message timestamp as a time.Time
func (m Message) Time() time.Time {
	return time.Unix(0, m.Timestamp*int64(time.Millisecond))
}

// ChatSession represents one persisted conversation thread
type ChatSession struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Messages  []Message `json:"messages" yaml:"messages"`
	CreatedAt int64     `json:"createdAt" yaml:"created_at"`
	UpdatedAt int64     `json:"updatedAt" yaml:"updated_at"`
}

// NewChatSession creates an empty session with the default title
func NewChatSession() ChatSession {
	now := time.Now().UnixMilli()
	return ChatSession{
		ID:        uuid.NewString(),
		Title:     DefaultSessionTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasDefaultTitle reports whether the session title is still the placeholder
func (s *ChatSession) HasDefaultTitle() bool {
	return s.Title == DefaultSessionTitle
}

// CreatedTime returns the session creation instant as a time.Time
func (s *ChatSession) CreatedTime() time.Time {
	return time.Unix(0, s.CreatedAt*int64(time.Millisecond))
}

// UpdatedTime returns the last mutation instant as a time.Time
func (s *ChatSession) UpdatedTime() time.Time {
	return time.Unix(0, s.UpdatedAt*int64(time.Millisecond))
}

// DeriveTitle builds a session title from the first user message in messages,
// truncated to a fixed prefix length. The second return value is false when
// messages holds no user message to derive from.
func DeriveTitle(messages []Message) (string, bool) {
	for _, msg := range messages {
		if msg.Role != RoleUser {
			continue
		}
		rs := []rune(msg.Content)
		if len(rs) > titleMaxRunes {
			return string(rs[:titleMaxRunes]) + "...", true
		}
		return msg.Content, true
	}
	return "", false
}
