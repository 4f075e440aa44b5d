package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
)

const (
	dateLayout = "2006-01-02"

	// Business day half-hour marks run from openingMark up to, not including, closingMark.
	openingMark = "10:00"
	closingMark = "17:00"
)

// IncrementThirty advances an "HH:MM" mark by thirty minutes. Unparseable
// input yields "".
func IncrementThirty(mark string) string {
	hour, minute, ok := splitClock(mark)
	if !ok {
		return ""
	}
	if minute == 30 {
		return fmt.Sprintf("%02d:00", hour+1)
	}
	return fmt.Sprintf("%02d:30", hour)
}

func splitClock(mark string) (hour, minute int, ok bool) {
	h, m, found := strings.Cut(mark, ":")
	if !found {
		return 0, 0, false
	}
	hour, okH := lexv2.ParseInt(h)
	minute, okM := lexv2.ParseInt(m)
	return hour, minute, okH && okM
}

// FormatTime renders "HH:MM" the way it is read back to the user, e.g. "4:30 p.m.".
func FormatTime(mark string) string {
	hourText, minute, found := strings.Cut(mark, ":")
	if !found {
		return mark
	}
	hour, ok := lexv2.ParseInt(hourText)
	if !ok {
		return mark
	}
	switch {
	case hour > 12:
		return fmt.Sprintf("%d:%s p.m.", hour-12, minute)
	case hour == 12:
		return fmt.Sprintf("12:%s p.m.", minute)
	case hour == 0:
		return fmt.Sprintf("12:%s a.m.", minute)
	}
	return fmt.Sprintf("%s:%s a.m.", hourText, minute)
}

// AvailableTimesSentence lists up to three windows. Callers pass at least two.
func AvailableTimesSentence(windows []string) string {
	if len(windows) == 0 {
		return ""
	}
	prefix := "We have availabilities at "
	if len(windows) > 3 {
		prefix = "We have plenty of availability, including "
	}
	prefix += FormatTime(windows[0])
	switch len(windows) {
	case 1:
		return prefix
	case 2:
		return fmt.Sprintf("%s and %s", prefix, FormatTime(windows[1]))
	}
	return fmt.Sprintf("%s, %s and %s", prefix, FormatTime(windows[1]), FormatTime(windows[2]))
}

func parseDate(value string, loc *time.Location) (time.Time, bool) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func isWeekend(d time.Time) bool {
	return d.Weekday() == time.Saturday || d.Weekday() == time.Sunday
}
