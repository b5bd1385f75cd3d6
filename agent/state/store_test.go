package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Load(ctx, "s1"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() error = %v, want ErrStateNotFound", err)
	}

	sess := NewSession("s1", "system prompt", time.Now())
	sess.Append(schema.UserMessage("hi"))
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// mutating the caller's copy must not leak into the store
	sess.Append(schema.AssistantMessage("hello", nil))

	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(got.Messages))
	}

	got.Append(schema.AssistantMessage("other", nil))
	again, _ := store.Load(ctx, "s1")
	if len(again.Messages) != 2 {
		t.Fatalf("loaded session shares state with store: len = %d", len(again.Messages))
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "s1"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() after delete error = %v, want ErrStateNotFound", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() of a missing session error = %v", err)
	}
}

func TestMemoryStoreInvalidInput(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Load(ctx, "  "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Load() error = %v, want ErrInvalidSession", err)
	}
	if err := store.Save(ctx, nil); !errors.Is(err, ErrNilSession) {
		t.Fatalf("Save(nil) error = %v, want ErrNilSession", err)
	}
	if err := store.Save(ctx, &Session{}); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Save(empty id) error = %v, want ErrInvalidSession", err)
	}
}

func TestSessionReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	sess := NewSession("s1", "be helpful", now)
	sess.Append(schema.UserMessage("a"), schema.AssistantMessage("b", nil))
	sess.Cart = []string{"P1"}

	later := now.Add(time.Minute)
	sess.Reset("be helpful", later)

	if len(sess.Messages) != 1 || sess.Messages[0].Role != schema.System {
		t.Fatalf("unexpected messages after reset: %#v", sess.Messages)
	}
	if sess.Cart != nil {
		t.Fatalf("cart not cleared: %v", sess.Cart)
	}
	if !sess.UpdatedAt.Equal(later) {
		t.Fatalf("UpdatedAt = %v, want %v", sess.UpdatedAt, later)
	}
}

func TestSessionValidate(t *testing.T) {
	t.Parallel()

	sess := NewSession("s1", "sys", time.Now())
	sess.Append(schema.UserMessage("hi"), schema.AssistantMessage("hello", nil))
	if err := sess.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	noSystem := &Session{SessionID: "s2", Messages: []*schema.Message{schema.UserMessage("hi")}}
	if err := noSystem.Validate(); !errors.Is(err, ErrMissingSystem) {
		t.Fatalf("Validate() error = %v, want ErrMissingSystem", err)
	}
}

func TestValidateToolPairing(t *testing.T) {
	t.Parallel()

	call := func(id string) schema.ToolCall {
		return schema.ToolCall{ID: id, Function: schema.FunctionCall{Name: "checkout"}}
	}

	ok := []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("buy"),
		schema.AssistantMessage("", []schema.ToolCall{call("a"), call("b")}),
		schema.ToolMessage("done b", "b"),
		schema.ToolMessage("done a", "a"),
		schema.AssistantMessage("bought", nil),
	}
	if err := ValidateToolPairing(ok); err != nil {
		t.Fatalf("ValidateToolPairing() error = %v", err)
	}

	unanswered := []*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{call("a"), call("b")}),
		schema.ToolMessage("done a", "a"),
		schema.AssistantMessage("bought", nil),
	}
	if err := ValidateToolPairing(unanswered); !errors.Is(err, ErrUnansweredCall) {
		t.Fatalf("ValidateToolPairing() error = %v, want ErrUnansweredCall", err)
	}

	stray := []*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{call("a")}),
		schema.ToolMessage("done a", "a"),
		schema.ToolMessage("done a again", "a"),
	}
	if err := ValidateToolPairing(stray); !errors.Is(err, ErrUnexpectedReply) {
		t.Fatalf("ValidateToolPairing() error = %v, want ErrUnexpectedReply", err)
	}

	trailing := []*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{call("a")}),
	}
	if err := ValidateToolPairing(trailing); !errors.Is(err, ErrUnansweredCall) {
		t.Fatalf("ValidateToolPairing() error = %v, want ErrUnansweredCall", err)
	}
}
