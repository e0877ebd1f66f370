package domain

// Action types understood by downstream action executors.
const (
	ActionCall           = "call"
	ActionOpenURL        = "open_url"
	ActionCreateCalendar = "create_calendar"
	ActionMessage        = "message"
)

// Action is a single machine-actionable instruction produced by an intent
// handler. Exactly one payload field is set, selected by Type.
type Action struct {
	Type  string `json:"type"`
	Phone string `json:"phone,omitempty"`
	URL   string `json:"url,omitempty"`
	Text  string `json:"text,omitempty"`
}

func CallAction(phone string) Action   { return Action{Type: ActionCall, Phone: phone} }
func OpenURLAction(url string) Action  { return Action{Type: ActionOpenURL, URL: url} }
func CalendarAction(url string) Action { return Action{Type: ActionCreateCalendar, URL: url} }
func MessageAction(text string) Action { return Action{Type: ActionMessage, Text: text} }

// Result is the outcome of interpreting one utterance. Every utterance
// produces exactly one Result: unresolvable slots (unknown contact, no
// destination, no parsable date) come back as normal Results carrying
// guidance text, never as errors.
type Result struct {
	ResponseText string   `json:"response_text"`
	Actions      []Action `json:"actions"`

	// Intent is the name of the matched intent. Used for logging, metrics
	// and history; not part of the wire format.
	Intent string `json:"-"`
}
