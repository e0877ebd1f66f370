package intent

import (
	"fmt"
	"strings"
	"time"

	"jarvis/internal/domain"
)

var appointmentTriggers = []string{"appointment", "schedule", "book", "reserve"}

const appointmentDuration = time.Hour

// AppointmentIntent creates a calendar event from a spoken date and time.
type AppointmentIntent struct {
	clock     func() time.Time
	assistant string
}

func NewAppointmentIntent(clock func() time.Time, assistant string) *AppointmentIntent {
	return &AppointmentIntent{clock: clock, assistant: assistant}
}

func (a *AppointmentIntent) Name() string { return "appointment" }

func (a *AppointmentIntent) Matches(text Normalized) bool {
	for _, kw := range appointmentTriggers {
		if strings.Contains(text.Lower, kw) {
			return true
		}
	}
	return false
}

func (a *AppointmentIntent) Extract(text Normalized) domain.Result {
	start, ok := ExtractDateTime(text.Lower, a.clock())
	if !ok {
		return domain.Result{
			ResponseText: "What date and time? For example: on 4th November at 2 pm.",
			Actions:      []domain.Action{},
		}
	}

	title := appointmentTitle(text.Lower)
	end := start.Add(appointmentDuration)
	location := strings.ReplaceAll(title, " Appointment", "")
	url := BuildCalendarURL(title, start, end, "Created by "+a.assistant, location)

	return domain.Result{
		ResponseText: fmt.Sprintf("Creating calendar event: %s at %s.",
			title, start.Format("3:04 PM on January 02")),
		Actions: []domain.Action{domain.CalendarAction(url)},
	}
}

// appointmentTitle infers the event title from domain words, most specific
// first.
func appointmentTitle(lower string) string {
	switch {
	case strings.Contains(lower, "hair") && strings.Contains(lower, "salon"):
		return "Hair Salon Appointment"
	case strings.Contains(lower, "doctor"):
		return "Doctor Appointment"
	case strings.Contains(lower, "dentist"):
		return "Dentist Appointment"
	default:
		return "Appointment"
	}
}
