package domain

import (
	"strconv"
	"time"
)

// dateLayouts are tried in order when parsing upstream-provided dates.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// FormatDate turns an upstream date string into the relative form the UI
// shows: "Hoy", "Ayer", "Hace N días" (2-6 days) or an absolute es-ES date
// for anything older. Unparsable or missing input degrades to "Reciente";
// this function never fails.
func FormatDate(raw string) string {
	return formatDateAt(raw, time.Now())
}

func formatDateAt(raw string, now time.Time) string {
	if raw == "" {
		return "Reciente"
	}

	var parsed time.Time
	ok := false
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			parsed = t
			ok = true
			break
		}
	}
	if !ok {
		return "Reciente"
	}

	days := int(now.Sub(parsed).Hours() / 24)
	if days < 0 {
		days = -days
	}

	switch {
	case days == 0:
		return "Hoy"
	case days == 1:
		return "Ayer"
	case days < 7:
		return "Hace " + strconv.Itoa(days) + " días"
	default:
		return parsed.Format("02/01/2006")
	}
}
