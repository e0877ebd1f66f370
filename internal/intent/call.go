package intent

import (
	"fmt"
	"regexp"
	"strings"

	"jarvis/internal/contact"
	"jarvis/internal/domain"
)

var (
	callTriggerRe = regexp.MustCompile(`\b(call|dial|phone)\b`)
	callPhraseRe  = regexp.MustCompile(`\b(?:call|dial|phone)\b\s+(.+)$`)
	digitRe       = regexp.MustCompile(`\d`)
)

// CallIntent places a phone call to a named contact or a literal number.
type CallIntent struct {
	resolver *contact.Resolver
}

func NewCallIntent(r *contact.Resolver) *CallIntent {
	return &CallIntent{resolver: r}
}

func (c *CallIntent) Name() string { return "call" }

func (c *CallIntent) Matches(text Normalized) bool {
	return callTriggerRe.MatchString(text.Lower)
}

func (c *CallIntent) Extract(text Normalized) domain.Result {
	var number string
	if m := callPhraseRe.FindStringSubmatch(text.Lower); m != nil {
		candidate := strings.TrimSpace(m[1])
		if digitRe.MatchString(candidate) {
			// Any digit in the phrase → treat the whole phrase as a
			// literal phone number.
			number = candidate
		} else if n, ok := c.resolver.Resolve(candidate); ok {
			number = n
		} else if fields := strings.Fields(candidate); len(fields) > 0 {
			// Retry with the last token alone ("my dear mom" → "mom").
			if n, ok := c.resolver.Resolve(fields[len(fields)-1]); ok {
				number = n
			}
		}
	}

	if number == "" {
		return domain.Result{
			ResponseText: "I couldn't find that contact. Set an environment variable like DADDY_PHONE.",
			Actions:      []domain.Action{domain.MessageAction("Missing contact mapping")},
		}
	}
	return domain.Result{
		ResponseText: fmt.Sprintf("Calling %s.", number),
		Actions:      []domain.Action{domain.CallAction(number)},
	}
}
