package intent

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"jarvis/internal/contact"
	"jarvis/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func testEngine(dir contact.StaticDirectory, now time.Time) *Engine {
	return NewEngine(EngineConfig{
		WakeWord: "jarvis",
		Resolver: contact.NewResolver(dir),
		Clock:    func() time.Time { return now },
		Logger:   testLogger(),
	})
}

func TestInterpret_CallContact(t *testing.T) {
	e := testEngine(contact.StaticDirectory{"DADDY_PHONE": "15551234567"}, testNow)

	res := e.Interpret("hey jarvis call daddy")
	if res.ResponseText != "Calling 15551234567." {
		t.Errorf("response = %q", res.ResponseText)
	}
	if len(res.Actions) != 1 || res.Actions[0].Type != domain.ActionCall || res.Actions[0].Phone != "15551234567" {
		t.Errorf("actions = %+v", res.Actions)
	}
	if res.Intent != "call" {
		t.Errorf("intent = %q", res.Intent)
	}
}

func TestInterpret_CallLiteralNumber(t *testing.T) {
	e := testEngine(nil, testNow)

	res := e.Interpret("dial 555 0123")
	if res.ResponseText != "Calling 555 0123." {
		t.Errorf("response = %q", res.ResponseText)
	}
	if len(res.Actions) != 1 || res.Actions[0].Phone != "555 0123" {
		t.Errorf("actions = %+v", res.Actions)
	}
}

func TestInterpret_CallLastTokenFallback(t *testing.T) {
	e := testEngine(contact.StaticDirectory{"MOM_PHONE": "15550001111"}, testNow)

	res := e.Interpret("call my dear mom")
	if res.ResponseText != "Calling 15550001111." {
		t.Errorf("response = %q", res.ResponseText)
	}
}

func TestInterpret_CallUnknownContact(t *testing.T) {
	e := testEngine(contact.StaticDirectory{}, testNow)

	res := e.Interpret("call daddy")
	if !strings.HasPrefix(res.ResponseText, "I couldn't find that contact") {
		t.Errorf("response = %q", res.ResponseText)
	}
	if len(res.Actions) != 1 || res.Actions[0].Type != domain.ActionMessage || res.Actions[0].Text != "Missing contact mapping" {
		t.Errorf("actions = %+v", res.Actions)
	}
}

func TestInterpret_Maps(t *testing.T) {
	e := testEngine(nil, testNow)

	res := e.Interpret("navigate to Sadar Bazaar Chatgali")
	if res.ResponseText != "Starting directions to Sadar Bazaar Chatgali." {
		t.Errorf("response = %q", res.ResponseText)
	}
	if len(res.Actions) != 1 || res.Actions[0].Type != domain.ActionOpenURL {
		t.Fatalf("actions = %+v", res.Actions)
	}
	if !strings.Contains(res.Actions[0].URL, "destination=Sadar%20Bazaar%20Chatgali") {
		t.Errorf("url = %q", res.Actions[0].URL)
	}
}

func TestInterpret_MapsTrailingPeriod(t *testing.T) {
	e := testEngine(nil, testNow)

	res := e.Interpret("show me directions to Central Park.")
	if res.ResponseText != "Starting directions to Central Park." {
		t.Errorf("response = %q", res.ResponseText)
	}
}

func TestInterpret_MapsNoDestination(t *testing.T) {
	e := testEngine(nil, testNow)

	res := e.Interpret("open maps")
	if !strings.HasPrefix(res.ResponseText, "Where should I navigate to?") {
		t.Errorf("response = %q", res.ResponseText)
	}
	if len(res.Actions) != 0 {
		t.Errorf("actions = %+v", res.Actions)
	}
}

func TestInterpret_Appointment(t *testing.T) {
	e := testEngine(nil, testNow)

	res := e.Interpret("book a hair salon appointment on 4th november at 2 pm")
	if !strings.Contains(res.ResponseText, "Hair Salon Appointment") {
		t.Errorf("response = %q", res.ResponseText)
	}
	if !strings.Contains(res.ResponseText, "2:00 PM on November 04") {
		t.Errorf("response = %q", res.ResponseText)
	}
	if len(res.Actions) != 1 || res.Actions[0].Type != domain.ActionCreateCalendar {
		t.Fatalf("actions = %+v", res.Actions)
	}
	wantDates := fmt.Sprintf("dates=%d1104T140000/%d1104T150000", testNow.Year(), testNow.Year())
	if !strings.Contains(res.Actions[0].URL, wantDates) {
		t.Errorf("url = %q, want dates %q", res.Actions[0].URL, wantDates)
	}
	if !strings.Contains(res.Actions[0].URL, "location=Hair%20Salon") {
		t.Errorf("url missing location: %q", res.Actions[0].URL)
	}
}

func TestInterpret_AppointmentNoDate(t *testing.T) {
	e := testEngine(nil, testNow)

	res := e.Interpret("schedule something")
	if !strings.HasPrefix(res.ResponseText, "What date and time?") {
		t.Errorf("response = %q", res.ResponseText)
	}
	if len(res.Actions) != 0 {
		t.Errorf("actions = %+v", res.Actions)
	}
}

func TestInterpret_Fallback(t *testing.T) {
	e := testEngine(nil, testNow)

	res := e.Interpret("what's the weather")
	if !strings.HasPrefix(res.ResponseText, "I heard you.") {
		t.Errorf("response = %q", res.ResponseText)
	}
	if len(res.Actions) != 0 {
		t.Errorf("actions = %+v", res.Actions)
	}
	if res.Intent != "fallback" {
		t.Errorf("intent = %q", res.Intent)
	}
}

func TestInterpret_CallWinsOverMaps(t *testing.T) {
	e := testEngine(contact.StaticDirectory{"MOM_PHONE": "15550001111"}, testNow)

	// Contains both a call trigger and a maps trigger; call has priority.
	res := e.Interpret("call mom about the maps")
	if res.Intent != "call" {
		t.Fatalf("intent = %q, want call", res.Intent)
	}
	for _, a := range res.Actions {
		if a.Type == domain.ActionOpenURL {
			t.Errorf("call intent must never emit open_url: %+v", res.Actions)
		}
	}
}

func TestInterpret_Deterministic(t *testing.T) {
	e := testEngine(contact.StaticDirectory{"DADDY_PHONE": "1"}, testNow)

	a := e.Interpret("call daddy")
	b := e.Interpret("call daddy")
	if a.ResponseText != b.ResponseText || len(a.Actions) != len(b.Actions) {
		t.Error("same input must yield same result")
	}
}
