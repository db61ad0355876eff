package timehelper

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Layouts accepted for a match start time, most specific first.
var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func GetTodaysDateString() string {
	return DateString(time.Now())
}

// DateString formats the date to 'YYYY-MM-DD'
func DateString(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseSchedule reads a start time. Values without an offset are taken in loc.
func ParseSchedule(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", value)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DateString(a.In(loc)) == DateString(b.In(loc))
}
