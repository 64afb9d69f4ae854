// Package datefmt converts between wall-clock representations in the
// service timezone and absolute UTC instants. Both directions are pure.
package datefmt

import (
	"fmt"
	"strings"
	"time"
)

// DisplayLayout is the fixed rendering used in notifications and API
// responses (dd/MM/yyyy HH:mm:ss).
const DisplayLayout = "02/01/2006 15:04:05"

// Accepted wall-clock layouts, tried in order. Inputs carrying an explicit
// offset are handled separately as absolute instants.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseLocalInZone interprets an ISO-style string as wall-clock time in loc
// and returns the equivalent UTC instant. Strings with an explicit offset
// (RFC 3339) are taken as-is.
func ParseLocalInZone(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

// FormatInZone renders an absolute instant as wall-clock time in loc using
// DisplayLayout.
func FormatInZone(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DisplayLayout)
}

// StartOfDay returns midnight of t's calendar day in loc, as a UTC instant.
// Used as the lower bound for upcoming-booking queries.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).UTC()
}
