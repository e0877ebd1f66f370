package intent

import (
	"regexp"
	"strings"
)

// Normalized is an utterance with the wake word stripped. Lower is used for
// intent matching and slot extraction; Original preserves the speaker's
// casing for slots that should read back verbatim (maps destinations).
type Normalized struct {
	Lower    string
	Original string
}

// Normalizer strips the configured wake word from utterances.
type Normalizer struct {
	phrase *regexp.Regexp // "hey <wake>"
	bare   *regexp.Regexp // bare "<wake>"
}

func NewNormalizer(wakeWord string) *Normalizer {
	if wakeWord == "" {
		wakeWord = "jarvis"
	}
	w := regexp.QuoteMeta(strings.ToLower(wakeWord))
	return &Normalizer{
		phrase: regexp.MustCompile(`(?i)\bhey\s+` + w + `\b`),
		bare:   regexp.MustCompile(`(?i)\b` + w + `\b`),
	}
}

// Normalize removes the wake word — both the "hey <wake>" phrase and the
// bare word, word-boundary matched, case-insensitively — and trims.
func (n *Normalizer) Normalize(text string) Normalized {
	stripped := strings.TrimSpace(text)
	stripped = n.phrase.ReplaceAllString(stripped, "")
	stripped = n.bare.ReplaceAllString(stripped, "")
	stripped = strings.TrimSpace(stripped)
	return Normalized{
		Lower:    strings.ToLower(stripped),
		Original: stripped,
	}
}
