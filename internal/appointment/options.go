package appointment

import (
	"fmt"
	"time"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
)

const (
	dateOptionCount   = 5
	dateValueLayout   = "Monday, January 02, 2006"
	maxTimeOptionSize = 5
)

// BuildOptions returns the response card buttons for slot, or nil when there
// is not enough context to offer choices.
func BuildOptions(slot string, appointmentType, date *lexv2.Slot, bookings BookingMap, today time.Time) []lexv2.Button {
	switch slot {
	case SlotAppointmentType:
		return []lexv2.Button{
			{Text: "cleaning (30 min)", Value: "cleaning"},
			{Text: "root canal (60 min)", Value: "root canal"},
			{Text: "whitening (30 min)", Value: "whitening"},
		}
	case SlotDate:
		return nextWeekdays(today, dateOptionCount)
	case SlotTime:
		return timeOptions(appointmentType, date, bookings)
	}
	return nil
}

func nextWeekdays(today time.Time, count int) []lexv2.Button {
	options := make([]lexv2.Button, 0, count)
	day := startOfDay(today)
	for len(options) < count {
		day = day.AddDate(0, 0, 1)
		if isWeekend(day) {
			continue
		}
		options = append(options, lexv2.Button{
			Text:  fmt.Sprintf("%d-%d (%s)", int(day.Month()), day.Day(), day.Weekday().String()[:3]),
			Value: day.Format(dateValueLayout),
		})
	}
	return options
}

func timeOptions(appointmentType, date *lexv2.Slot, bookings BookingMap) []lexv2.Button {
	duration, ok := slotDuration(appointmentType)
	if !ok {
		return nil
	}
	dateValue, ok := lexv2.InterpretedValue(date)
	if !ok {
		return nil
	}
	windows := FilterByDuration(duration, bookings[dateValue])
	if len(windows) == 0 {
		return nil
	}
	if len(windows) > maxTimeOptionSize {
		windows = windows[:maxTimeOptionSize]
	}
	options := make([]lexv2.Button, 0, len(windows))
	for _, w := range windows {
		spoken := FormatTime(w)
		options = append(options, lexv2.Button{Text: spoken, Value: spoken})
	}
	return options
}
