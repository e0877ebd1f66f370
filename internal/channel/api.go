package channel

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"jarvis/internal/domain"
)

const apiResponseTimeout = 15 * time.Second

// APIConfig configures the HTTP API channel.
type APIConfig struct {
	Host            string
	Port            int
	Secret          string // optional HMAC secret for request signing
	MetricsEndpoint string // optional: mount the metrics handler here
	MetricsHandler  http.HandlerFunc
	Logger          *slog.Logger
}

// API implements a channel that interprets utterances over HTTP.
type API struct {
	host            string
	port            int
	secret          string
	bus             domain.MessageBus
	logger          *slog.Logger
	server          *http.Server
	metrics         http.HandlerFunc
	metricsEndpoint string

	mu      sync.Mutex
	pending map[string]chan domain.Result
}

// InterpretRequest is the expected JSON body for POST /api/interpret.
type InterpretRequest struct {
	Text string `json:"text"`
}

// NewAPI creates a new HTTP API channel.
func NewAPI(cfg APIConfig) *API {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8086
	}
	return &API{
		host:            cfg.Host,
		port:            cfg.Port,
		secret:          cfg.Secret,
		logger:          cfg.Logger,
		metrics:         cfg.MetricsHandler,
		metricsEndpoint: cfg.MetricsEndpoint,
		pending:         make(map[string]chan domain.Result),
	}
}

func (a *API) Name() string { return "api" }

// Start begins the API HTTP server and blocks until the context is cancelled.
func (a *API) Start(ctx context.Context, bus domain.MessageBus) error {
	a.bus = bus

	mux := http.NewServeMux()
	mux.HandleFunc("/api/interpret", a.handleInterpret)
	mux.HandleFunc("/healthz", a.handleHealth)
	if a.metrics != nil && a.metricsEndpoint != "" {
		mux.HandleFunc(a.metricsEndpoint, a.metrics)
	}

	a.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.host, a.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Responses come back over the bus keyed by request ID.
	bus.OnOutbound("api", a.routeResponse)

	a.logger.Info("api server starting", "host", a.host, "port", a.port)

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("api server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	}
}

// routeResponse delivers an outbound result to the waiting HTTP request.
func (a *API) routeResponse(msg domain.OutboundMessage) {
	a.mu.Lock()
	ch, ok := a.pending[msg.ChatID]
	a.mu.Unlock()
	if !ok {
		a.logger.Debug("api response for unknown request", "request_id", msg.ChatID)
		return
	}
	select {
	case ch <- msg.Result:
	default:
	}
}

func (a *API) handleInterpret(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(rw, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB max
	if err != nil {
		http.Error(rw, "Bad Request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify HMAC signature if secret is configured.
	if a.secret != "" {
		sig := r.Header.Get("X-Signature-256")
		if sig == "" {
			http.Error(rw, "Missing signature", http.StatusUnauthorized)
			return
		}
		if !verifyHMAC(body, a.secret, sig) {
			http.Error(rw, "Invalid signature", http.StatusForbidden)
			return
		}
	}

	var req InterpretRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(rw, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(rw, "Text is required", http.StatusBadRequest)
		return
	}

	requestID := uuid.NewString()
	ch := make(chan domain.Result, 1)
	a.mu.Lock()
	a.pending[requestID] = ch
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		delete(a.pending, requestID)
		a.mu.Unlock()
	}()

	a.logger.Info("api interpret request", "request_id", requestID, "text_len", len(req.Text))

	a.bus.Publish(domain.InboundMessage{
		Channel:   "api",
		ChatID:    requestID,
		SenderID:  "api",
		Utterance: req.Text,
		Timestamp: time.Now(),
	})

	select {
	case res := <-ch:
		rw.Header().Set("Content-Type", "application/json")
		json.NewEncoder(rw).Encode(res)
	case <-time.After(apiResponseTimeout):
		http.Error(rw, "Interpretation timed out", http.StatusGatewayTimeout)
	case <-r.Context().Done():
	}
}

func (a *API) handleHealth(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "application/json")
	json.NewEncoder(rw).Encode(map[string]string{"status": "ok"})
}

// Stop is handled via context cancellation in Start.
func (a *API) Stop() error { return nil }

// verifyHMAC verifies the HMAC-SHA256 signature of the body.
func verifyHMAC(body []byte, secret, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
