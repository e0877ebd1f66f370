package domain

import "time"

// InboundMessage is one utterance arriving from a channel.
type InboundMessage struct {
	Channel   string
	ChatID    string
	SenderID  string
	Utterance string
	Timestamp time.Time
}

// OutboundMessage carries the interpretation result back to the channel
// that published the utterance.
type OutboundMessage struct {
	Channel string
	ChatID  string
	Result  Result
}
