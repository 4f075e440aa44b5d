package appointment

import (
	"strings"
	"time"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
)

// Corrective prompts, one per rule.
const (
	msgUnknownType     = "I did not recognize that, can I book you a root canal, cleaning, or whitening?"
	msgAmbiguousTime   = "I did not understand that, what time would you like to book your appointment? Please specify AM or PM"
	msgUnreadableTime  = "I did not recognize that, what time would you like to book your appointment?"
	msgOutsideHours    = "Our business hours are ten a.m. to five p.m. What time works best for you?"
	msgNotHalfHour     = "We schedule appointments every half hour, what time works best for you?"
	msgUnreadableDate  = "I did not understand that, what date works best for you?"
	msgDateNotInFuture = "Appointments must be scheduled a day in advance. Can you try a different date?"
	msgWeekend         = "Our office is not open on the weekends, can you provide a work day?"
)

const (
	firstBookableHour = 10
	lastBookableHour  = 16
)

// ValidationResult reports the first slot that broke a rule, if any.
type ValidationResult struct {
	Valid        bool
	ViolatedSlot string
	Message      string
}

func valid() ValidationResult {
	return ValidationResult{Valid: true}
}

func violation(slot, message string) ValidationResult {
	return ValidationResult{ViolatedSlot: slot, Message: message}
}

// Validate checks the filled slots in elicitation order (type, time, date)
// and reports the first violation. today anchors the "in the future" rule and
// carries the business time zone.
func Validate(appointmentType, date, appointmentTime *lexv2.Slot, today time.Time) ValidationResult {
	if value, ok := lexv2.InterpretedValue(appointmentType); ok {
		if _, known := DurationFor(value); !known {
			return violation(SlotAppointmentType, msgUnknownType)
		}
	}

	if lexv2.Present(appointmentTime) {
		if result := validateTime(appointmentTime); !result.Valid {
			return result
		}
	}

	if value, ok := lexv2.InterpretedValue(date); ok {
		if result := validateDate(value, today); !result.Valid {
			return result
		}
	}

	return valid()
}

func validateTime(slot *lexv2.Slot) ValidationResult {
	if len(lexv2.ResolvedValues(slot)) != 1 {
		return violation(SlotTime, msgAmbiguousTime)
	}
	value, _ := lexv2.InterpretedValue(slot)
	// Only zero-padded "HH:MM" is accepted; "9:30" fails here rather than at the hour check.
	if len(value) != 5 {
		return violation(SlotTime, msgUnreadableTime)
	}
	hourText, minuteText, found := strings.Cut(value, ":")
	if !found {
		return violation(SlotTime, msgUnreadableTime)
	}
	hour, okHour := lexv2.ParseInt(hourText)
	minute, okMinute := lexv2.ParseInt(minuteText)
	if !okHour || !okMinute {
		return violation(SlotTime, msgUnreadableTime)
	}
	if hour < firstBookableHour || hour > lastBookableHour {
		return violation(SlotTime, msgOutsideHours)
	}
	if minute != 0 && minute != 30 {
		return violation(SlotTime, msgNotHalfHour)
	}
	return valid()
}

func validateDate(value string, today time.Time) ValidationResult {
	d, ok := parseDate(value, today.Location())
	if !ok {
		return violation(SlotDate, msgUnreadableDate)
	}
	if !d.After(startOfDay(today)) {
		return violation(SlotDate, msgDateNotInFuture)
	}
	if isWeekend(d) {
		return violation(SlotDate, msgWeekend)
	}
	return valid()
}
