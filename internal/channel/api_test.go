package channel

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"jarvis/internal/bus"
	"jarvis/internal/domain"
)

func testChannelLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestVerifyHMAC_Valid(t *testing.T) {
	secret := "test-secret"
	body := []byte(`{"text":"call mom"}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	sig := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	if !verifyHMAC(body, secret, sig) {
		t.Error("valid HMAC should verify")
	}
}

func TestVerifyHMAC_Invalid(t *testing.T) {
	if verifyHMAC([]byte("body"), "secret", "sha256=invalid") {
		t.Error("invalid HMAC should not verify")
	}
}

func TestVerifyHMAC_Empty(t *testing.T) {
	if verifyHMAC([]byte("body"), "secret", "") {
		t.Error("empty signature should not verify")
	}
}

func TestAPIHandler_MethodNotAllowed(t *testing.T) {
	a := NewAPI(APIConfig{Logger: testChannelLogger()})
	req := httptest.NewRequest("GET", "/api/interpret", nil)
	rr := httptest.NewRecorder()

	a.handleInterpret(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
}

func TestAPIHandler_EmptyText(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", `{"text":""}`},
		{"whitespace only", `{"text":"   "}`},
		{"tabs and newlines", `{"text":"\t\n "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAPI(APIConfig{Logger: testChannelLogger()})
			req := httptest.NewRequest("POST", "/api/interpret", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			a.handleInterpret(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestAPIHandler_InvalidJSON(t *testing.T) {
	a := NewAPI(APIConfig{Logger: testChannelLogger()})
	req := httptest.NewRequest("POST", "/api/interpret", bytes.NewBufferString("not json"))
	rr := httptest.NewRecorder()

	a.handleInterpret(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestAPIHandler_MissingSignature(t *testing.T) {
	a := NewAPI(APIConfig{Secret: "my-secret", Logger: testChannelLogger()})
	req := httptest.NewRequest("POST", "/api/interpret", bytes.NewBufferString(`{"text":"call mom"}`))
	rr := httptest.NewRecorder()

	a.handleInterpret(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestAPIHandler_InvalidSignature(t *testing.T) {
	a := NewAPI(APIConfig{Secret: "my-secret", Logger: testChannelLogger()})
	req := httptest.NewRequest("POST", "/api/interpret", bytes.NewBufferString(`{"text":"call mom"}`))
	req.Header.Set("X-Signature-256", "sha256=invalid")
	rr := httptest.NewRecorder()

	a.handleInterpret(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestAPIHandler_Interpret(t *testing.T) {
	a := NewAPI(APIConfig{Logger: testChannelLogger()})
	b := bus.New(10, testChannelLogger())
	defer b.Close()
	a.bus = b
	b.OnOutbound("api", a.routeResponse)

	// Fake assistant loop: echo a canned result back by request ID.
	done := make(chan struct{})
	go func() {
		defer close(done)
		msg := <-b.Subscribe()
		b.SendOutbound(domain.OutboundMessage{
			Channel: "api",
			ChatID:  msg.ChatID,
			Result: domain.Result{
				ResponseText: "Calling 123.",
				Actions:      []domain.Action{domain.CallAction("123")},
			},
		})
	}()

	req := httptest.NewRequest("POST", "/api/interpret", bytes.NewBufferString(`{"text":"call mom"}`))
	rr := httptest.NewRecorder()
	a.handleInterpret(rr, req)
	<-done

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var res domain.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.ResponseText != "Calling 123." {
		t.Errorf("response = %q", res.ResponseText)
	}
	if len(res.Actions) != 1 || res.Actions[0].Phone != "123" {
		t.Errorf("actions = %+v", res.Actions)
	}
}

func TestAPIHandler_Health(t *testing.T) {
	a := NewAPI(APIConfig{Logger: testChannelLogger()})
	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()

	a.handleHealth(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q", body["status"])
	}
}

func TestRenderResult(t *testing.T) {
	res := domain.Result{
		ResponseText: "Calling 123.",
		Actions:      []domain.Action{domain.CallAction("123")},
	}
	got := RenderResult(res)
	if got != "Calling 123.\n📞 tel:123" {
		t.Errorf("got %q", got)
	}
}

func TestRenderResult_NoActions(t *testing.T) {
	res := domain.Result{ResponseText: "I heard you.", Actions: []domain.Action{}}
	if got := RenderResult(res); got != "I heard you." {
		t.Errorf("got %q", got)
	}
}
