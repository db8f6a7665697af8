package internal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ImagePromptContent is the user-message text recorded when a problem is
// submitted as a photo without an accompanying question
const ImagePromptContent = "Please help me solve this homework problem."

// Fixed assistant replies shown when a gateway call fails
const (
	errorReplyContent      = "Sorry, I encountered an error while processing your question. Please try again."
	imageErrorReplyContent = "Sorry, I encountered an error while analyzing your image. Please try again."
)

// Turn is the outcome of one user action: the appended user message and the
// resulting assistant reply. Failed is true when the reply is the synthetic
// error message produced by a gateway failure.
type Turn struct {
	User   Message
	Reply  Message
	Failed bool
}

// Controller owns the in-memory message list for the active session and
// drives the turn lifecycle: append user message, persist, call the gateway,
// append the assistant reply (or the error fallback), persist again.
//
// Only one turn may be in flight at a time; a second invocation while busy
// is rejected with ErrBusy rather than racing the message list.
type Controller struct {
	store     *SessionStore
	assistant Assistant

	mu       sync.Mutex
	busy     bool
	session  ChatSession
	messages []Message
}

// NewController creates a controller over a session store and a gateway client
func NewController(store *SessionStore, assistant Assistant) *Controller {
	return &Controller{store: store, assistant: assistant}
}

// Initialize resolves the active session: the one the persisted pointer
// references, or a fresh session when no pointer is set or it dangles.
// This is the only place a dangling pointer is repaired.
func (c *Controller) Initialize() (ChatSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		return ChatSession{}, fmt.Errorf("no session store configured")
	}

	session, ok := ChatSession{}, false
	if id := c.store.CurrentSessionID(); id != "" {
		session, ok = c.store.GetSession(id)
	}
	if !ok {
		session = c.store.CreateSession()
	}

	c.session = session
	c.messages = append([]Message(nil), session.Messages...)
	return session, nil
}

// SendText runs a text turn. Empty or whitespace-only input is a no-op that
// returns a nil Turn and issues no request. Gateway failures surface as a
// fixed-text assistant message inside a non-nil Turn, never as an error.
func (c *Controller) SendText(ctx context.Context, text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if err := c.beginTurn(); err != nil {
		return nil, err
	}
	defer c.endTurn()

	user := NewUserMessage(text, time.Now().UnixMilli())
	c.appendMessage(user)

	reply, err := c.assistant.AskQuestion(ctx, text)
	return c.finishTurn(user, reply, err, errorReplyContent), nil
}

// SendImage runs an image turn. imageBase64 is the encoded payload handed
// over by the capture collaborator; an empty payload means the selection was
// cancelled and the turn is a no-op. question optionally replaces the fixed
// image prompt as the user message content.
func (c *Controller) SendImage(ctx context.Context, imageBase64, question string) (*Turn, error) {
	if imageBase64 == "" {
		return nil, nil
	}

	if err := c.beginTurn(); err != nil {
		return nil, err
	}
	defer c.endTurn()

	content := strings.TrimSpace(question)
	if content == "" {
		content = ImagePromptContent
	}

	user := NewUserImageMessage(content, imageBase64, time.Now().UnixMilli())
	c.appendMessage(user)

	reply, err := c.assistant.AnalyzeImage(ctx, imageBase64, strings.TrimSpace(question))
	return c.finishTurn(user, reply, err, imageErrorReplyContent), nil
}

// NewSession clears the in-memory message list and makes a fresh session the
// active one. Prior sessions are left untouched.
func (c *Controller) NewSession() (ChatSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ChatSession{}, ErrBusy
	}

	session := c.store.CreateSession()
	c.session = session
	c.messages = nil
	return session, nil
}

// SwitchSession makes the session identified by id the active one and loads
// its message history
func (c *Controller) SwitchSession(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}

	session, ok := c.store.GetSession(id)
	if !ok {
		return fmt.Errorf("session %s not found", id)
	}

	c.store.SetCurrentSessionID(id)
	c.session = session
	c.messages = append([]Message(nil), session.Messages...)
	return nil
}

// Session returns the active session
func (c *Controller) Session() ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Messages returns a copy of the in-memory message list
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Loading reports whether a turn is currently in flight
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) beginTurn() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) endTurn() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// finishTurn appends the assistant reply for a turn: the extracted-steps
// message on success, the fixed error message on gateway failure. Both paths
// persist through the same write-through.
func (c *Controller) finishTurn(user Message, reply string, err error, errorContent string) *Turn {
	at := time.Now().UnixMilli()
	if at <= user.Timestamp {
		at = user.Timestamp + 1
	}

	if err != nil {
		LogWarn("Gateway call failed: %v", err)
		msg := NewAssistantMessage(errorContent, nil, at)
		c.appendMessage(msg)
		return &Turn{User: user, Reply: msg, Failed: true}
	}

	msg := NewAssistantMessage(reply, ExtractSteps(reply), at)
	c.appendMessage(msg)
	return &Turn{User: user, Reply: msg, Failed: false}
}

// appendMessage appends to the in-memory list and mirrors it to the store
func (c *Controller) appendMessage(msg Message) {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	snapshot := append([]Message(nil), c.messages...)
	id := c.session.ID
	c.mu.Unlock()

	c.store.UpdateSession(id, snapshot)
}
