package assistant

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"jarvis/internal/contact"
)

// ChatCommand represents a parsed chat command.
type ChatCommand struct {
	Name string   // command name without "/"
	Args []string // arguments after the command
	Raw  string   // original full text
}

// CommandResult holds the response for a handled command.
type CommandResult struct {
	Response string // text response to send back
	Handled  bool   // true if the command was handled (don't interpret as an utterance)
}

// startTime records when the process started for /uptime.
var startTime = time.Now()

// ParseCommand checks if a message starts with "/" and parses it into a ChatCommand.
// Returns nil if the message is not a command.
func ParseCommand(text string) *ChatCommand {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return nil
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return nil
	}

	name := strings.TrimPrefix(parts[0], "/")
	name = strings.ToLower(name)

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return &ChatCommand{
		Name: name,
		Args: args,
		Raw:  text,
	}
}

// HandleCommand processes a chat command and returns a result.
// If the command is not recognized, returns Handled=false so the message
// can be interpreted as a normal utterance.
func (l *Loop) HandleCommand(ctx context.Context, cmd *ChatCommand) CommandResult {
	switch cmd.Name {
	case "help":
		return CommandResult{Response: helpText(), Handled: true}

	case "status":
		return CommandResult{Response: l.statusText(), Handled: true}

	case "uptime":
		uptime := time.Since(startTime).Round(time.Second)
		return CommandResult{Response: fmt.Sprintf("Uptime: %s", uptime), Handled: true}

	case "version":
		return CommandResult{Response: fmt.Sprintf("Jarvis v%s (%s/%s, Go %s)", version, runtime.GOOS, runtime.GOARCH, runtime.Version()), Handled: true}

	case "contacts":
		return CommandResult{Response: contactsText(), Handled: true}

	case "history":
		return CommandResult{Response: l.historyText(ctx), Handled: true}

	default:
		// Unknown command, interpret as a normal utterance
		return CommandResult{Handled: false}
	}
}

// version is set by the build system. Default fallback.
var version = "0.1.0"

// SetVersion sets the version string used by commands.
func SetVersion(v string) {
	version = v
}

func helpText() string {
	return `**Jarvis Commands**

/help - Show this help message
/status - Show assistant status and info
/uptime - Show assistant uptime
/version - Show version info
/contacts - List known contact aliases
/history - Show recent interpretations

Anything else is treated as an utterance, e.g.
"call mom", "navigate to Central Park",
"book a dentist appointment on 4th november at 2 pm".`
}

func (l *Loop) statusText() string {
	uptime := time.Since(startTime).Round(time.Second)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Jarvis v%s**\n\n", version))
	if l.history != nil {
		sb.WriteString("History: enabled\n")
	} else {
		sb.WriteString("History: disabled\n")
	}
	if l.executor != nil {
		sb.WriteString("Executor: enabled\n")
	} else {
		sb.WriteString("Executor: disabled\n")
	}
	sb.WriteString(fmt.Sprintf("Uptime: %s\n", uptime))
	sb.WriteString(fmt.Sprintf("Runtime: %s/%s, Go %s\n", runtime.GOOS, runtime.GOARCH, runtime.Version()))
	return sb.String()
}

func contactsText() string {
	aliases := contact.Aliases()
	grouped := make(map[string][]string)
	for _, alias := range aliases {
		key := contact.DeriveKey(alias)
		grouped[key] = append(grouped[key], alias)
	}
	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("Known contact aliases:\n")
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", key, strings.Join(grouped[key], ", ")))
	}
	sb.WriteString("Any other name maps to <NAME>_PHONE.")
	return sb.String()
}

func (l *Loop) historyText(ctx context.Context) string {
	if l.history == nil {
		return "History is disabled."
	}
	recs, err := l.history.Recent(ctx, 10)
	if err != nil {
		l.logger.Error("failed to load history", "error", err)
		return "Could not load history."
	}
	if len(recs) == 0 {
		return "No interpretations recorded yet."
	}
	var sb strings.Builder
	sb.WriteString("Recent interpretations:\n")
	for _, r := range recs {
		sb.WriteString(fmt.Sprintf("  [%s] %s (%s) -> %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Utterance, r.Intent, r.Response))
	}
	return sb.String()
}
