package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"jarvis/internal/domain"
	"jarvis/internal/intent"
	"jarvis/internal/metrics"
)

const defaultConcurrency = 3

// Loop is the core assistant engine: receive utterance, interpret, execute
// actions, respond.
type Loop struct {
	engine      *intent.Engine
	history     domain.HistoryStore   // optional
	executor    domain.ActionExecutor // optional
	bus         domain.MessageBus
	logger      *slog.Logger
	concurrency int
}

// LoopConfig holds all dependencies and tuning parameters for the assistant loop.
type LoopConfig struct {
	Engine      *intent.Engine
	History     domain.HistoryStore   // optional: nil disables recording
	Executor    domain.ActionExecutor // optional: nil disables action execution
	Bus         domain.MessageBus
	Logger      *slog.Logger
	Concurrency int // max parallel messages (default 3)
}

// NewLoop creates a new assistant loop with the given configuration.
func NewLoop(cfg LoopConfig) *Loop {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Loop{
		engine:      cfg.Engine,
		history:     cfg.History,
		executor:    cfg.Executor,
		bus:         cfg.Bus,
		logger:      cfg.Logger,
		concurrency: cfg.Concurrency,
	}
}

// Run consumes inbound messages and processes them with bounded concurrency.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("assistant loop started", "concurrency", l.concurrency)

	sem := make(chan struct{}, l.concurrency)
	inbound := l.bus.Subscribe()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("assistant loop stopping")
			return
		case msg, ok := <-inbound:
			if !ok {
				l.logger.Info("inbound channel closed, assistant loop stopping")
				return
			}
			sem <- struct{}{}
			go func(m domain.InboundMessage) {
				defer func() { <-sem }()
				l.processMessage(ctx, m)
			}(msg)
		}
	}
}

// InterpretDirect interprets an utterance synchronously and returns the result.
// Used by the CLI one-shot command and the HTTP API.
func (l *Loop) InterpretDirect(ctx context.Context, utterance, channel, chatID string) domain.Result {
	msg := domain.InboundMessage{
		Channel:   channel,
		ChatID:    chatID,
		SenderID:  "user",
		Utterance: utterance,
		Timestamp: time.Now(),
	}
	return l.handleMessage(ctx, msg)
}

func (l *Loop) processMessage(ctx context.Context, msg domain.InboundMessage) {
	res := l.handleMessage(ctx, msg)
	l.bus.SendOutbound(domain.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Result:  res,
	})
}

func (l *Loop) handleMessage(ctx context.Context, msg domain.InboundMessage) domain.Result {
	text := strings.TrimSpace(msg.Utterance)
	if text == "" {
		return domain.Result{
			ResponseText: "I didn't catch that. Try \"call mom\" or /help.",
			Actions:      []domain.Action{},
			Intent:       "empty",
		}
	}

	if cmd := ParseCommand(text); cmd != nil {
		if cr := l.HandleCommand(ctx, cmd); cr.Handled {
			return domain.Result{
				ResponseText: cr.Response,
				Actions:      []domain.Action{},
				Intent:       "command",
			}
		}
	}

	start := time.Now()
	res := l.engine.Interpret(text)
	metrics.InterpretLatency.Observe(time.Since(start).Seconds())
	metrics.UtterancesTotal.Inc()
	metrics.ActionsTotal.Add(int64(len(res.Actions)))
	metrics.IntentMatches(res.Intent).Inc()

	l.record(ctx, msg, res)
	l.execute(ctx, res)

	return res
}

func (l *Loop) record(ctx context.Context, msg domain.InboundMessage, res domain.Result) {
	if l.history == nil {
		return
	}
	actions, err := json.Marshal(res.Actions)
	if err != nil {
		actions = []byte("[]")
	}
	rec := domain.Interpretation{
		Channel:   msg.Channel,
		ChatID:    msg.ChatID,
		Utterance: msg.Utterance,
		Intent:    res.Intent,
		Response:  res.ResponseText,
		Actions:   string(actions),
		CreatedAt: msg.Timestamp,
	}
	if err := l.history.Record(ctx, rec); err != nil {
		l.logger.Error("failed to record interpretation", "error", err)
	}
}

func (l *Loop) execute(ctx context.Context, res domain.Result) {
	if l.executor == nil || len(res.Actions) == 0 {
		return
	}
	if err := l.executor.Execute(ctx, res.Actions); err != nil {
		metrics.ExecutorErrors.Inc()
		l.logger.Error("action execution failed", "intent", res.Intent, "error", err)
	}
}
