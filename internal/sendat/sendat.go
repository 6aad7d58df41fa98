// Package sendat converts between local points in time and the backend's
// zone-less "YYYY-MM-DD HH:mm:ss" send_at format.
//
// The backend parses send_at as a naive timestamp, so Encode never converts
// between zones: it writes the calendar fields of the instant as they read
// in the instant's own location.
package sendat

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the wire format of send_at.
const Layout = time.DateTime

// ErrInvalidTime is returned by ParseLocal for unrecognized input.
var ErrInvalidTime = errors.New("invalid send_at time")

// pickerLayouts are the forms a date/time picker or a user may produce.
var pickerLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.DateTime,
}

// Encode formats t as "YYYY-MM-DD HH:mm:ss". Sub-second precision is dropped.
func Encode(t time.Time) string {
	return t.Format(Layout)
}

// ParseLocal parses picker-style input as a point in time in loc.
// A nil loc means time.Local.
func ParseLocal(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	s = strings.TrimSpace(s)
	for _, layout := range pickerLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}
