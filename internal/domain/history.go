package domain

import (
	"context"
	"time"
)

// Interpretation is one recorded utterance→result mapping.
type Interpretation struct {
	ID        string
	Channel   string
	ChatID    string
	Utterance string
	Intent    string
	Response  string
	Actions   string // JSON-encoded action list
	CreatedAt time.Time
}

// HistoryStore persists interpretations for the /history command and audits.
type HistoryStore interface {
	Record(ctx context.Context, rec Interpretation) error
	Recent(ctx context.Context, limit int) ([]Interpretation, error)
	Close() error
}

// ActionExecutor performs actions that have real-world effects (opening
// URLs in a browser). The interpreter itself never executes actions.
type ActionExecutor interface {
	Execute(ctx context.Context, actions []Action) error
}
