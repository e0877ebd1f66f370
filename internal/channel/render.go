package channel

import (
	"fmt"
	"strings"

	"jarvis/internal/domain"
)

// RenderResult formats an interpretation result as chat text: the spoken
// response followed by one line per action.
func RenderResult(res domain.Result) string {
	var sb strings.Builder
	sb.WriteString(res.ResponseText)

	for _, a := range res.Actions {
		switch a.Type {
		case domain.ActionCall:
			fmt.Fprintf(&sb, "\n📞 tel:%s", a.Phone)
		case domain.ActionOpenURL, domain.ActionCreateCalendar:
			fmt.Fprintf(&sb, "\n🔗 %s", a.URL)
		case domain.ActionMessage:
			fmt.Fprintf(&sb, "\nℹ️ %s", a.Text)
		}
	}
	return sb.String()
}
