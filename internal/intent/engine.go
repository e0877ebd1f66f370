package intent

import (
	"log/slog"
	"time"

	"jarvis/internal/contact"
	"jarvis/internal/domain"
)

// Matcher is one intent in the priority cascade. Matches decides whether
// the intent applies to the normalized text; Extract pulls the slots out
// and produces the final Result.
type Matcher interface {
	Name() string
	Matches(text Normalized) bool
	Extract(text Normalized) domain.Result
}

// Engine classifies a single utterance and extracts its slots. It is
// stateless and total: every call produces exactly one Result, and intents
// are tried in fixed priority order (call → maps → appointment → fallback),
// first match wins.
type Engine struct {
	normalizer *Normalizer
	matchers   []Matcher
	logger     *slog.Logger
}

// EngineConfig holds the engine's dependencies.
type EngineConfig struct {
	WakeWord  string
	Assistant string // name used in attribution strings (default "Jarvis")
	Resolver  *contact.Resolver
	Clock     func() time.Time // injectable for deterministic date rollover tests
	Logger    *slog.Logger
}

func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Assistant == "" {
		cfg.Assistant = "Jarvis"
	}
	if cfg.Resolver == nil {
		cfg.Resolver = contact.NewResolver(nil)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		normalizer: NewNormalizer(cfg.WakeWord),
		matchers: []Matcher{
			NewCallIntent(cfg.Resolver),
			NewMapsIntent(),
			NewAppointmentIntent(cfg.Clock, cfg.Assistant),
		},
		logger: cfg.Logger,
	}
}

// Interpret maps one utterance to a Result.
func (e *Engine) Interpret(text string) domain.Result {
	norm := e.normalizer.Normalize(text)
	for _, m := range e.matchers {
		if m.Matches(norm) {
			res := m.Extract(norm)
			res.Intent = m.Name()
			e.logger.Debug("intent matched", "intent", m.Name(), "actions", len(res.Actions))
			return res
		}
	}
	e.logger.Debug("no intent matched, using fallback")
	return fallbackResult()
}

func fallbackResult() domain.Result {
	return domain.Result{
		ResponseText: "I heard you. For now I can call, navigate with Google Maps, or schedule an appointment.",
		Actions:      []domain.Action{},
		Intent:       "fallback",
	}
}
