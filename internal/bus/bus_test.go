package bus

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"jarvis/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestPublishSubscribe(t *testing.T) {
	b := New(10, testLogger())
	defer b.Close()

	msg := domain.InboundMessage{
		Channel:   "cli",
		ChatID:    "local",
		SenderID:  "user",
		Utterance: "call mom",
		Timestamp: time.Now(),
	}
	b.Publish(msg)

	select {
	case got := <-b.Subscribe():
		if got.Utterance != "call mom" || got.Channel != "cli" {
			t.Errorf("got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestOutboundRouting(t *testing.T) {
	b := New(10, testLogger())
	defer b.Close()

	got := make(chan domain.OutboundMessage, 1)
	b.OnOutbound("telegram", func(msg domain.OutboundMessage) {
		got <- msg
	})

	b.SendOutbound(domain.OutboundMessage{
		Channel: "telegram",
		ChatID:  "42",
		Result:  domain.Result{ResponseText: "Calling 123."},
	})

	select {
	case msg := <-got:
		if msg.Result.ResponseText != "Calling 123." {
			t.Errorf("got %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestOutboundUnknownChannel(t *testing.T) {
	b := New(10, testLogger())
	defer b.Close()

	// Must not panic or block.
	b.SendOutbound(domain.OutboundMessage{Channel: "nope"})
}

func TestPublishAfterClose(t *testing.T) {
	b := New(10, testLogger())
	b.Close()

	// Must not panic on a closed bus.
	b.Publish(domain.InboundMessage{Channel: "cli", Utterance: "hi"})
}

func TestCloseIdempotent(t *testing.T) {
	b := New(10, testLogger())
	b.Close()
	b.Close()
}

func TestFIFOOrder(t *testing.T) {
	b := New(10, testLogger())
	defer b.Close()

	for i := 0; i < 3; i++ {
		b.Publish(domain.InboundMessage{Utterance: string(rune('a' + i))})
	}

	sub := b.Subscribe()
	for i := 0; i < 3; i++ {
		select {
		case got := <-sub:
			if got.Utterance != string(rune('a'+i)) {
				t.Errorf("position %d: got %q", i, got.Utterance)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out")
		}
	}
}
