package internal

import (
	"encoding/json"
	"time"
)

// Fixed keys the two persisted records live under
const (
	sessionsKey       = "chat_sessions"
	currentSessionKey = "current_session"
)

// SessionStore persists the ordered session collection and the current-session
// pointer as JSON blobs in the key/value store.
//
// Persistence is a best-effort mirror of the caller's in-memory state: every
// operation absorbs storage failures internally, degrading reads to empty
// values and writes to no-ops. Nothing here ever fails outward.
type SessionStore struct {
	kv *KV
}

// NewSessionStore creates a session store over an open key/value database
func NewSessionStore(kv *KV) *SessionStore {
	return &SessionStore{kv: kv}
}

// ListSessions returns all persisted sessions, newest-created first.
// An empty or unreadable store yields an empty slice.
func (s *SessionStore) ListSessions() []ChatSession {
	raw, ok, err := s.kv.Get(sessionsKey)
	if err != nil {
		LogWarn("Failed to load sessions: %v", err)
		return []ChatSession{}
	}
	if !ok {
		return []ChatSession{}
	}

	var sessions []ChatSession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		LogWarn("Failed to parse stored sessions, starting empty: %v", err)
		return []ChatSession{}
	}
	return sessions
}

// CreateSession builds a new empty session, inserts it at the front of the
// collection, sets it as current and persists both records. The returned
// session id is guaranteed not to collide with any existing session.
func (s *SessionStore) CreateSession() ChatSession {
	sessions := s.ListSessions()

	session := NewChatSession()
	for hasSessionID(sessions, session.ID) {
		session = NewChatSession()
	}

	sessions = append([]ChatSession{session}, sessions...)
	s.saveSessions(sessions)
	s.SetCurrentSessionID(session.ID)

	return session
}

// UpdateSession replaces the message list of the session identified by id,
// bumps its updatedAt and derives a title from the first user message if the
// title is still the default placeholder. A missing id is a silent no-op.
func (s *SessionStore) UpdateSession(id string, messages []Message) {
	sessions := s.ListSessions()

	for i := range sessions {
		if sessions[i].ID != id {
			continue
		}
		sessions[i].Messages = append([]Message(nil), messages...)
		sessions[i].UpdatedAt = time.Now().UnixMilli()

		if sessions[i].HasDefaultTitle() && len(messages) > 0 {
			if title, ok := DeriveTitle(messages); ok {
				sessions[i].Title = title
			}
		}

		s.saveSessions(sessions)
		return
	}
}

// DeleteSession removes the session identified by id from the collection.
// The current-session pointer is left untouched even if it referenced the
// deleted session; a dangling pointer reads as "no current session".
func (s *SessionStore) DeleteSession(id string) {
	sessions := s.ListSessions()

	filtered := make([]ChatSession, 0, len(sessions))
	for _, session := range sessions {
		if session.ID != id {
			filtered = append(filtered, session)
		}
	}
	s.saveSessions(filtered)
}

// GetSession returns the session identified by id, or false if absent
func (s *SessionStore) GetSession(id string) (ChatSession, bool) {
	for _, session := range s.ListSessions() {
		if session.ID == id {
			return session, true
		}
	}
	return ChatSession{}, false
}

// CurrentSessionID returns the persisted current-session pointer, or the
// empty string when none is set or the store is unreadable. The pointer may
// reference a session that no longer exists; callers treat that the same as
// no pointer at all.
func (s *SessionStore) CurrentSessionID() string {
	id, ok, err := s.kv.Get(currentSessionKey)
	if err != nil {
		LogWarn("Failed to load current session id: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return id
}

// SetCurrentSessionID persists the current-session pointer
func (s *SessionStore) SetCurrentSessionID(id string) {
	if err := s.kv.Put(currentSessionKey, id); err != nil {
		LogWarn("Failed to save current session id: %v", err)
	}
}

func (s *SessionStore) saveSessions(sessions []ChatSession) {
	data, err := json.Marshal(sessions)
	if err != nil {
		LogWarn("Failed to marshal sessions: %v", err)
		return
	}
	if err := s.kv.Put(sessionsKey, string(data)); err != nil {
		LogWarn("Failed to save sessions: %v", err)
	}
}

func hasSessionID(sessions []ChatSession, id string) bool {
	for _, session := range sessions {
		if session.ID == id {
			return true
		}
	}
	return false
}
