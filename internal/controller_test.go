package internal

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/iksnae/chathub/testutil"
)

// fakeAssistant is a scripted Assistant for controller tests
type fakeAssistant struct {
	mu      sync.Mutex
	reply   string
	err     error
	block   chan struct{} // when set, calls park here until closed
	calls   int
	lastArg string
}

func (f *fakeAssistant) AskQuestion(ctx context.Context, question string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastArg = question
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.reply, f.err
}

func (f *fakeAssistant) AnalyzeImage(ctx context.Context, imageBase64, question string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastArg = imageBase64
	f.mu.Unlock()
	return f.reply, f.err
}

func newTestController(t *testing.T, assistant Assistant) (*Controller, *SessionStore) {
	t.Helper()
	dir := testutil.CreateTempDir(t)
	kv, err := OpenKV(filepath.Join(dir, "chathub.db"))
	if err != nil {
		t.Fatalf("OpenKV() error = %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	store := NewSessionStore(kv)
	ctrl := NewController(store, assistant)
	if _, err := ctrl.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return ctrl, store
}

func TestController_InitializeCreatesSessionWhenNoneCurrent(t *testing.T) {
	ctrl, store := newTestController(t, &fakeAssistant{})

	session := ctrl.Session()
	if session.ID == "" {
		t.Fatal("Initialize() left no active session")
	}
	if store.CurrentSessionID() != session.ID {
		t.Errorf("CurrentSessionID() = %q, want %q", store.CurrentSessionID(), session.ID)
	}
}

func TestController_InitializeResumesCurrentSession(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	kv, err := OpenKV(filepath.Join(dir, "chathub.db"))
	if err != nil {
		t.Fatalf("OpenKV() error = %v", err)
	}
	defer kv.Close()
	store := NewSessionStore(kv)

	existing := store.CreateSession()
	store.UpdateSession(existing.ID, []Message{NewUserMessage("earlier question", 1000)})

	ctrl := NewController(store, &fakeAssistant{})
	session, err := ctrl.Initialize()
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if session.ID != existing.ID {
		t.Errorf("Initialize() session = %q, want existing %q", session.ID, existing.ID)
	}
	if msgs := ctrl.Messages(); len(msgs) != 1 || msgs[0].Content != "earlier question" {
		t.Errorf("Messages() = %#v, want the persisted history", msgs)
	}
}

func TestController_InitializeHealsDanglingPointer(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	kv, err := OpenKV(filepath.Join(dir, "chathub.db"))
	if err != nil {
		t.Fatalf("OpenKV() error = %v", err)
	}
	defer kv.Close()
	store := NewSessionStore(kv)
	store.SetCurrentSessionID("deleted-session-id")

	ctrl := NewController(store, &fakeAssistant{})
	session, err := ctrl.Initialize()
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if session.ID == "deleted-session-id" {
		t.Error("Initialize() resurrected a missing session")
	}
	if store.CurrentSessionID() != session.ID {
		t.Errorf("CurrentSessionID() = %q, want repaired %q", store.CurrentSessionID(), session.ID)
	}
}

func TestController_SendTextSuccessWithSteps(t *testing.T) {
	assistant := &fakeAssistant{reply: "Step 1: Add the numbers\nStep 2: The result is 4"}
	ctrl, store := newTestController(t, assistant)

	turn, err := ctrl.SendText(context.Background(), "What is 2+2?")
	if err != nil {
		t.Fatalf("SendText() error = %v", err)
	}
	if turn == nil {
		t.Fatal("SendText() turn = nil")
	}
	if turn.Failed {
		t.Error("SendText() Failed = true, want false")
	}

	wantSteps := []string{"Step 1: Add the numbers", "Step 2: The result is 4"}
	if len(turn.Reply.Steps) != 2 || turn.Reply.Steps[0] != wantSteps[0] || turn.Reply.Steps[1] != wantSteps[1] {
		t.Errorf("Reply.Steps = %#v, want %#v", turn.Reply.Steps, wantSteps)
	}

	// Exactly one user and one assistant message, in order
	msgs := ctrl.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Messages() len = %d, want 2", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[1].Role != RoleAssistant {
		t.Errorf("message roles = %q, %q, want user then assistant", msgs[0].Role, msgs[1].Role)
	}
	if msgs[1].Timestamp <= msgs[0].Timestamp {
		t.Error("assistant timestamp must be strictly after the user's")
	}
	if msgs[1].ID == msgs[0].ID {
		t.Error("message ids collided within a turn")
	}

	// Write-through reached the store
	persisted, _ := store.GetSession(ctrl.Session().ID)
	if len(persisted.Messages) != 2 {
		t.Errorf("persisted messages len = %d, want 2", len(persisted.Messages))
	}
	if persisted.Title != "What is 2+2?" {
		t.Errorf("persisted title = %q, want derived from first user message", persisted.Title)
	}
}

func TestController_SendTextPlainProse(t *testing.T) {
	reply := "Gravity is the mutual attraction between masses."
	ctrl, _ := newTestController(t, &fakeAssistant{reply: reply})

	turn, err := ctrl.SendText(context.Background(), "Explain gravity")
	if err != nil {
		t.Fatalf("SendText() error = %v", err)
	}
	if turn.Reply.Content != reply {
		t.Errorf("Reply.Content = %q, want verbatim reply", turn.Reply.Content)
	}
	if turn.Reply.HasSteps() {
		t.Errorf("Reply.Steps = %#v, want absent for single-step result", turn.Reply.Steps)
	}
}

func TestController_SendTextGatewayFailure(t *testing.T) {
	assistant := &fakeAssistant{err: &GatewayError{StatusCode: 500, Status: "API request failed: 500"}}
	ctrl, store := newTestController(t, assistant)

	turn, err := ctrl.SendText(context.Background(), "What is 2+2?")
	if err != nil {
		t.Fatalf("SendText() error = %v, gateway failure must not propagate", err)
	}
	if !turn.Failed {
		t.Error("Failed = false, want true")
	}
	if turn.Reply.Content != "Sorry, I encountered an error while processing your question. Please try again." {
		t.Errorf("Reply.Content = %q, want fixed error text", turn.Reply.Content)
	}
	if turn.Reply.HasSteps() {
		t.Error("error reply must not carry steps")
	}

	// The error message flows through the same persistence path
	persisted, _ := store.GetSession(ctrl.Session().ID)
	if len(persisted.Messages) != 2 {
		t.Errorf("persisted messages len = %d, want 2", len(persisted.Messages))
	}

	// Controller is back to Idle
	if ctrl.Loading() {
		t.Error("Loading() = true after a failed turn")
	}
}

func TestController_SendTextEmptyInputIsNoOp(t *testing.T) {
	assistant := &fakeAssistant{reply: "should never be sent"}
	ctrl, _ := newTestController(t, assistant)

	for _, input := range []string{"", "   ", "\n\t "} {
		turn, err := ctrl.SendText(context.Background(), input)
		if err != nil {
			t.Errorf("SendText(%q) error = %v", input, err)
		}
		if turn != nil {
			t.Errorf("SendText(%q) turn = %v, want nil no-op", input, turn)
		}
	}

	if assistant.calls != 0 {
		t.Errorf("assistant calls = %d, want 0 for empty input", assistant.calls)
	}
	if len(ctrl.Messages()) != 0 {
		t.Errorf("Messages() len = %d, want 0", len(ctrl.Messages()))
	}
}

func TestController_SendTextTrimsInput(t *testing.T) {
	ctrl, _ := newTestController(t, &fakeAssistant{reply: "ok"})

	turn, err := ctrl.SendText(context.Background(), "  padded question  ")
	if err != nil {
		t.Fatalf("SendText() error = %v", err)
	}
	if turn.User.Content != "padded question" {
		t.Errorf("User.Content = %q, want trimmed", turn.User.Content)
	}
}

func TestController_SendImage(t *testing.T) {
	assistant := &fakeAssistant{reply: "Step 1: Read it\nStep 2: Solve it"}
	ctrl, _ := newTestController(t, assistant)

	turn, err := ctrl.SendImage(context.Background(), "aGVsbG8=", "")
	if err != nil {
		t.Fatalf("SendImage() error = %v", err)
	}
	if turn.User.Content != ImagePromptContent {
		t.Errorf("User.Content = %q, want fixed image prompt", turn.User.Content)
	}
	if turn.User.Image != "aGVsbG8=" {
		t.Errorf("User.Image = %q, want payload attached", turn.User.Image)
	}
	if turn.Reply.Image != "" {
		t.Error("assistant reply must not carry an image")
	}
	if len(turn.Reply.Steps) != 2 {
		t.Errorf("Reply.Steps len = %d, want 2", len(turn.Reply.Steps))
	}
}

func TestController_SendImageCancelledIsNoOp(t *testing.T) {
	assistant := &fakeAssistant{reply: "should never be sent"}
	ctrl, _ := newTestController(t, assistant)

	turn, err := ctrl.SendImage(context.Background(), "", "")
	if err != nil {
		t.Fatalf("SendImage() error = %v", err)
	}
	if turn != nil {
		t.Errorf("SendImage() turn = %v, want nil for cancelled selection", turn)
	}
	if assistant.calls != 0 {
		t.Errorf("assistant calls = %d, want 0", assistant.calls)
	}
	if ctrl.Loading() {
		t.Error("Loading() = true after cancelled selection")
	}
}

func TestController_SendImageFailure(t *testing.T) {
	assistant := &fakeAssistant{err: &GatewayError{Status: "request failed"}}
	ctrl, _ := newTestController(t, assistant)

	turn, err := ctrl.SendImage(context.Background(), "aGVsbG8=", "")
	if err != nil {
		t.Fatalf("SendImage() error = %v", err)
	}
	if turn.Reply.Content != "Sorry, I encountered an error while analyzing your image. Please try again." {
		t.Errorf("Reply.Content = %q, want fixed image error text", turn.Reply.Content)
	}
}

func TestController_RejectsConcurrentTurn(t *testing.T) {
	block := make(chan struct{})
	assistant := &fakeAssistant{reply: "slow answer", block: block}
	ctrl, _ := newTestController(t, assistant)

	done := make(chan *Turn, 1)
	go func() {
		turn, _ := ctrl.SendText(context.Background(), "first question")
		done <- turn
	}()

	// Wait until the first turn is parked inside the gateway call
	for !ctrl.Loading() {
		time.Sleep(time.Millisecond)
	}

	if _, err := ctrl.SendText(context.Background(), "second question"); err != ErrBusy {
		t.Errorf("concurrent SendText() error = %v, want ErrBusy", err)
	}
	if _, err := ctrl.NewSession(); err != ErrBusy {
		t.Errorf("concurrent NewSession() error = %v, want ErrBusy", err)
	}

	close(block)
	turn := <-done
	if turn == nil || turn.Failed {
		t.Fatalf("first turn = %v, want success", turn)
	}

	if ctrl.Loading() {
		t.Error("Loading() = true after turn completed")
	}

	// Only the first turn's pair landed
	if got := len(ctrl.Messages()); got != 2 {
		t.Errorf("Messages() len = %d, want 2", got)
	}
}

func TestController_NewSession(t *testing.T) {
	ctrl, store := newTestController(t, &fakeAssistant{reply: "ok"})

	if _, err := ctrl.SendText(context.Background(), "question in old session"); err != nil {
		t.Fatalf("SendText() error = %v", err)
	}
	old := ctrl.Session()

	fresh, err := ctrl.NewSession()
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if fresh.ID == old.ID {
		t.Error("NewSession() did not change the active session")
	}
	if len(ctrl.Messages()) != 0 {
		t.Errorf("Messages() len = %d, want cleared list", len(ctrl.Messages()))
	}

	// The prior session is untouched
	persisted, ok := store.GetSession(old.ID)
	if !ok {
		t.Fatal("old session vanished after NewSession()")
	}
	if len(persisted.Messages) != 2 {
		t.Errorf("old session messages len = %d, want 2", len(persisted.Messages))
	}
}

func TestController_SwitchSession(t *testing.T) {
	ctrl, store := newTestController(t, &fakeAssistant{reply: "ok"})

	target := store.CreateSession()
	store.UpdateSession(target.ID, []Message{NewUserMessage("from the other thread", 1000)})

	if err := ctrl.SwitchSession(target.ID); err != nil {
		t.Fatalf("SwitchSession() error = %v", err)
	}
	if ctrl.Session().ID != target.ID {
		t.Errorf("Session().ID = %q, want %q", ctrl.Session().ID, target.ID)
	}
	if msgs := ctrl.Messages(); len(msgs) != 1 || msgs[0].Content != "from the other thread" {
		t.Errorf("Messages() = %#v, want target history", msgs)
	}
	if store.CurrentSessionID() != target.ID {
		t.Errorf("CurrentSessionID() = %q, want %q", store.CurrentSessionID(), target.ID)
	}
}

func TestController_SwitchSessionUnknown(t *testing.T) {
	ctrl, _ := newTestController(t, &fakeAssistant{})

	if err := ctrl.SwitchSession("no-such-id"); err == nil {
		t.Error("SwitchSession() on unknown id expected error")
	}
}

func TestController_TurnSequenceAcrossSends(t *testing.T) {
	ctrl, _ := newTestController(t, &fakeAssistant{reply: "answer"})

	for i := 0; i < 3; i++ {
		if _, err := ctrl.SendText(context.Background(), "question"); err != nil {
			t.Fatalf("SendText() #%d error = %v", i, err)
		}
	}

	msgs := ctrl.Messages()
	if len(msgs) != 6 {
		t.Fatalf("Messages() len = %d, want 6", len(msgs))
	}
	for i, msg := range msgs {
		wantRole := RoleUser
		if i%2 == 1 {
			wantRole = RoleAssistant
		}
		if msg.Role != wantRole {
			t.Errorf("Messages()[%d].Role = %q, want %q", i, msg.Role, wantRole)
		}
		if i > 0 && msg.Timestamp < msgs[i-1].Timestamp {
			t.Errorf("Messages()[%d] timestamp regressed", i)
		}
	}
}
