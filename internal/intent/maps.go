package intent

import (
	"fmt"
	"regexp"
	"strings"

	"jarvis/internal/domain"
)

var (
	mapsToRe   = regexp.MustCompile(`(?i)\bto\s+(.+)$`)
	mapsWordRe = regexp.MustCompile(`(?i)\bmaps?\s+(?:to\s+)?(.+)$`)
)

// MapsIntent opens driving directions to a spoken destination.
type MapsIntent struct{}

func NewMapsIntent() MapsIntent { return MapsIntent{} }

func (MapsIntent) Name() string { return "maps" }

func (MapsIntent) Matches(text Normalized) bool {
	return strings.Contains(text.Lower, "map") ||
		strings.Contains(text.Lower, "navigate") ||
		strings.Contains(text.Lower, "direction")
}

func (MapsIntent) Extract(text Normalized) domain.Result {
	// Destinations are extracted from the case-preserved text so place
	// names read back the way the speaker said them.
	dest := destinationAfter(mapsToRe, text.Original)
	if dest == "" {
		dest = destinationAfter(mapsWordRe, text.Original)
	}

	if dest == "" {
		return domain.Result{
			ResponseText: "Where should I navigate to? Say for example: navigate to Sadar Bazaar Chatgali.",
			Actions:      []domain.Action{},
		}
	}
	return domain.Result{
		ResponseText: fmt.Sprintf("Starting directions to %s.", dest),
		Actions:      []domain.Action{domain.OpenURLAction(BuildMapsURL(dest))},
	}
}

func destinationAfter(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimRight(strings.TrimSpace(m[1]), ".")
}
