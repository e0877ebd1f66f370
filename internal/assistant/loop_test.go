package assistant

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"jarvis/internal/bus"
	"jarvis/internal/contact"
	"jarvis/internal/domain"
	"jarvis/internal/intent"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeHistory struct {
	mu   sync.Mutex
	recs []domain.Interpretation
}

func (f *fakeHistory) Record(_ context.Context, rec domain.Interpretation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
	return nil
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]domain.Interpretation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.recs) {
		limit = len(f.recs)
	}
	out := make([]domain.Interpretation, limit)
	for i := 0; i < limit; i++ {
		out[i] = f.recs[len(f.recs)-1-i]
	}
	return out, nil
}

func (f *fakeHistory) Close() error { return nil }

type fakeExecutor struct {
	mu      sync.Mutex
	actions []domain.Action
}

func (f *fakeExecutor) Execute(_ context.Context, actions []domain.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, actions...)
	return nil
}

func testLoop(t *testing.T, history domain.HistoryStore, executor domain.ActionExecutor) (*Loop, *bus.InMemoryBus) {
	t.Helper()
	b := bus.New(10, testLogger())
	t.Cleanup(b.Close)

	engine := intent.NewEngine(intent.EngineConfig{
		Resolver: contact.NewResolver(contact.StaticDirectory{"MOM_PHONE": "15550001111"}),
		Logger:   testLogger(),
	})
	return NewLoop(LoopConfig{
		Engine:   engine,
		History:  history,
		Executor: executor,
		Bus:      b,
		Logger:   testLogger(),
	}), b
}

func TestInterpretDirect(t *testing.T) {
	loop, _ := testLoop(t, nil, nil)

	res := loop.InterpretDirect(context.Background(), "call mom", "cli", "local")
	if res.ResponseText != "Calling 15550001111." {
		t.Errorf("response = %q", res.ResponseText)
	}
	if res.Intent != "call" {
		t.Errorf("intent = %q", res.Intent)
	}
}

func TestInterpretDirect_EmptyUtterance(t *testing.T) {
	loop, _ := testLoop(t, nil, nil)

	// Blank input from chat channels gets a short prompt back; the HTTP API
	// rejects it with 400 before it ever reaches the loop.
	for _, utterance := range []string{"", "   ", "\t\n"} {
		res := loop.InterpretDirect(context.Background(), utterance, "cli", "local")
		if res.Intent != "empty" {
			t.Errorf("utterance %q: intent = %q", utterance, res.Intent)
		}
		if res.ResponseText != "I didn't catch that. Try \"call mom\" or /help." {
			t.Errorf("utterance %q: response = %q", utterance, res.ResponseText)
		}
		if len(res.Actions) != 0 {
			t.Errorf("utterance %q: actions = %+v", utterance, res.Actions)
		}
	}
}

func TestInterpretDirect_RecordsHistory(t *testing.T) {
	hist := &fakeHistory{}
	loop, _ := testLoop(t, hist, nil)

	loop.InterpretDirect(context.Background(), "call mom", "cli", "local")

	hist.mu.Lock()
	defer hist.mu.Unlock()
	if len(hist.recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(hist.recs))
	}
	rec := hist.recs[0]
	if rec.Intent != "call" || rec.Utterance != "call mom" {
		t.Errorf("record = %+v", rec)
	}
	if !strings.Contains(rec.Actions, `"phone":"15550001111"`) {
		t.Errorf("actions JSON = %q", rec.Actions)
	}
}

func TestInterpretDirect_ExecutesActions(t *testing.T) {
	exec := &fakeExecutor{}
	loop, _ := testLoop(t, nil, exec)

	loop.InterpretDirect(context.Background(), "navigate to Central Park", "cli", "local")

	exec.mu.Lock()
	defer exec.mu.Unlock()
	if len(exec.actions) != 1 || exec.actions[0].Type != domain.ActionOpenURL {
		t.Errorf("executed actions = %+v", exec.actions)
	}
}

func TestRun_RoutesOutbound(t *testing.T) {
	loop, b := testLoop(t, nil, nil)

	got := make(chan domain.OutboundMessage, 1)
	b.OnOutbound("telegram", func(msg domain.OutboundMessage) {
		got <- msg
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	b.Publish(domain.InboundMessage{
		Channel:   "telegram",
		ChatID:    "42",
		SenderID:  "user",
		Utterance: "call mom",
		Timestamp: time.Now(),
	})

	select {
	case msg := <-got:
		if msg.ChatID != "42" || msg.Result.ResponseText != "Calling 15550001111." {
			t.Errorf("got %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound message")
	}
}

func TestRun_HandlesCommands(t *testing.T) {
	loop, b := testLoop(t, nil, nil)

	got := make(chan domain.OutboundMessage, 1)
	b.OnOutbound("cli", func(msg domain.OutboundMessage) {
		got <- msg
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	b.Publish(domain.InboundMessage{
		Channel:   "cli",
		ChatID:    "local",
		Utterance: "/help",
		Timestamp: time.Now(),
	})

	select {
	case msg := <-got:
		if msg.Result.Intent != "command" {
			t.Errorf("intent = %q", msg.Result.Intent)
		}
		if !strings.Contains(msg.Result.ResponseText, "/status") {
			t.Errorf("response = %q", msg.Result.ResponseText)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for command response")
	}
}
