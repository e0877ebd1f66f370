package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthNames is scanned in declaration order; the first name contained
// anywhere in the text wins, regardless of its position.
var monthNames = []struct {
	name  string
	month time.Month
}{
	{"january", time.January},
	{"february", time.February},
	{"march", time.March},
	{"april", time.April},
	{"may", time.May},
	{"june", time.June},
	{"july", time.July},
	{"august", time.August},
	{"september", time.September},
	{"october", time.October},
	{"november", time.November},
	{"december", time.December},
}

var (
	ordinalRe = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)
	dayRe     = regexp.MustCompile(`\b(\d{1,2})\b`)

	// A bare number is indistinguishable from the day-of-month, so a time
	// match requires a qualifier: either :MM minutes or an am/pm suffix.
	timeRe = regexp.MustCompile(`\b(\d{1,2})(?:(?::(\d{2}))?\s*(am|pm)\b|:(\d{2})\b)`)
)

const (
	defaultHour   = 9
	defaultMinute = 0
)

// ExtractDateTime parses a day, month name, and optional time of day out of
// free text. Dates carry no year; a candidate more than one minute in the
// past resolves to the same month/day in the following year. Returns false
// when no date can be determined or the day/month combination is invalid.
//
// Known limitation: the first standalone 1-2 digit number anywhere in the
// text is taken as the day, even when it belongs to something else.
func ExtractDateTime(text string, now time.Time) (time.Time, bool) {
	t := ordinalRe.ReplaceAllString(text, "$1")

	dayMatch := dayRe.FindStringSubmatch(t)
	if dayMatch == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(dayMatch[1])

	month, ok := findMonth(t)
	if !ok {
		return time.Time{}, false
	}

	hour, minute := defaultHour, defaultMinute
	if tm := timeRe.FindStringSubmatch(t); tm != nil {
		hour, _ = strconv.Atoi(tm[1])
		if tm[2] != "" {
			minute, _ = strconv.Atoi(tm[2])
		} else if tm[4] != "" {
			minute, _ = strconv.Atoi(tm[4])
		}
		switch tm[3] {
		case "pm":
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
	}

	dt, ok := buildDate(now.Year(), month, day, hour, minute, now.Location())
	if !ok {
		return time.Time{}, false
	}

	// Year rollover: a date more than one minute in the past means the
	// speaker meant next year's occurrence.
	if dt.Before(now.Add(-time.Minute)) {
		dt, ok = buildDate(now.Year()+1, month, day, hour, minute, now.Location())
		if !ok {
			return time.Time{}, false
		}
	}
	return dt, true
}

func findMonth(text string) (time.Month, bool) {
	for _, m := range monthNames {
		if strings.Contains(text, m.name) {
			return m.month, true
		}
	}
	return 0, false
}

// buildDate constructs a local calendar time and rejects combinations that
// time.Date silently normalized away (e.g. February 30 → March 2).
func buildDate(year int, month time.Month, day, hour, minute int, loc *time.Location) (time.Time, bool) {
	dt := time.Date(year, month, day, hour, minute, 0, 0, loc)
	if dt.Year() != year || dt.Month() != month || dt.Day() != day {
		return time.Time{}, false
	}
	return dt, true
}
