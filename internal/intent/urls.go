package intent

import (
	"net/url"
	"strings"
	"time"
)

const (
	mapsBaseURL     = "https://www.google.com/maps/dir/?api=1"
	calendarBaseURL = "https://calendar.google.com/calendar/render"

	// Naive local time, no timezone suffix.
	calendarTimeFormat = "20060102T150405"
)

// quote percent-encodes a query value with %20 for spaces (not '+'), the
// form Google's URL templates expect.
func quote(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildMapsURL returns a Google Maps driving-navigation URL that starts
// turn-by-turn directions to the destination immediately.
func BuildMapsURL(destination string) string {
	return mapsBaseURL + "&destination=" + quote(destination) + "&travelmode=driving&dir_action=navigate"
}

// BuildCalendarURL returns a Google Calendar event-creation URL. Parameter
// order is fixed: action, text, dates, then details and location when
// present.
func BuildCalendarURL(title string, start, end time.Time, details, location string) string {
	parts := []string{
		"action=TEMPLATE",
		"text=" + quote(title),
		"dates=" + start.Format(calendarTimeFormat) + "/" + end.Format(calendarTimeFormat),
	}
	if details != "" {
		parts = append(parts, "details="+quote(details))
	}
	if location != "" {
		parts = append(parts, "location="+quote(location))
	}
	return calendarBaseURL + "?" + strings.Join(parts, "&")
}
