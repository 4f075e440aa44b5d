// Package appointment implements the MakeAppointment code hook: slot
// validation, per-session availability, option cards and the elicitation flow.
package appointment

import (
	"strings"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
)

// IntentName is the intent this package fulfills.
const IntentName = "MakeAppointment"

// Slot names on the MakeAppointment intent.
const (
	SlotAppointmentType = "AppointmentType"
	SlotDate            = "Date"
	SlotTime            = "Time"
)

// Session attribute keys.
const (
	AttrBookingMap    = "bookingMap"
	AttrFormattedTime = "formattedTime"
)

// Appointment lengths in minutes.
const (
	HalfHour = 30
	FullHour = 60
)

var durations = map[string]int{
	"cleaning":   HalfHour,
	"root canal": FullHour,
	"whitening":  HalfHour,
}

// AppointmentTypes lists the bookable types in option-card order.
func AppointmentTypes() []string {
	return []string{"cleaning", "root canal", "whitening"}
}

// DurationFor returns the appointment length for a type name, case-insensitively.
func DurationFor(appointmentType string) (int, bool) {
	d, ok := durations[strings.ToLower(strings.TrimSpace(appointmentType))]
	return d, ok
}

func slotDuration(slot *lexv2.Slot) (int, bool) {
	value, ok := lexv2.InterpretedValue(slot)
	if !ok {
		return 0, false
	}
	return DurationFor(value)
}
