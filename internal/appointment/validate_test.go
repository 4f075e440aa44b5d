package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
)

func TestValidate(t *testing.T) {
	slot := lexv2.NewSlot

	tests := []struct {
		name        string
		apptType    *lexv2.Slot
		date        *lexv2.Slot
		apptTime    *lexv2.Slot
		wantValid   bool
		wantSlot    string
		wantMessage string
	}{
		{name: "nothing filled", wantValid: true},
		{name: "known type any case", apptType: slot("Root Canal"), wantValid: true},
		{name: "unknown type", apptType: slot("braces"), wantSlot: SlotAppointmentType, wantMessage: msgUnknownType},
		{name: "opening mark", apptTime: slot("10:00"), wantValid: true},
		{name: "last half hour", apptTime: slot("16:30"), wantValid: true},
		{name: "before opening", apptTime: slot("09:30"), wantSlot: SlotTime, wantMessage: msgOutsideHours},
		{name: "before opening off mark", apptTime: slot("09:59"), wantSlot: SlotTime, wantMessage: msgOutsideHours},
		{name: "closing time", apptTime: slot("17:00"), wantSlot: SlotTime, wantMessage: msgOutsideHours},
		{name: "quarter hour", apptTime: slot("10:15"), wantSlot: SlotTime, wantMessage: msgNotHalfHour},
		{name: "unpadded hour", apptTime: slot("9:30"), wantSlot: SlotTime, wantMessage: msgUnreadableTime},
		{name: "letters", apptTime: slot("ab:cd"), wantSlot: SlotTime, wantMessage: msgUnreadableTime},
		{name: "no colon", apptTime: slot("10300"), wantSlot: SlotTime, wantMessage: msgUnreadableTime},
		{name: "ambiguous am pm", apptTime: ambiguousSlot("10:00", "10:00", "22:00"), wantSlot: SlotTime, wantMessage: msgAmbiguousTime},
		{name: "weekday in future", date: slot(nextMonday), wantValid: true},
		{name: "today", date: slot("2026-10-15"), wantSlot: SlotDate, wantMessage: msgDateNotInFuture},
		{name: "past", date: slot("2026-01-02"), wantSlot: SlotDate, wantMessage: msgDateNotInFuture},
		{name: "saturday", date: slot(nextSaturday), wantSlot: SlotDate, wantMessage: msgWeekend},
		{name: "sunday", date: slot("2026-10-25"), wantSlot: SlotDate, wantMessage: msgWeekend},
		{name: "not a date", date: slot("next week"), wantSlot: SlotDate, wantMessage: msgUnreadableDate},
		{
			name:     "time reported before date",
			date:     slot(nextSaturday),
			apptTime: slot("17:00"),
			wantSlot: SlotTime, wantMessage: msgOutsideHours,
		},
		{
			name:     "type reported before time",
			apptType: slot("braces"),
			apptTime: slot("17:00"),
			wantSlot: SlotAppointmentType, wantMessage: msgUnknownType,
		},
		{
			name:      "all valid",
			apptType:  slot("cleaning"),
			date:      slot(nextWednesday),
			apptTime:  slot("16:00"),
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.apptType, tt.date, tt.apptTime, testToday)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantSlot, got.ViolatedSlot)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestDurationFor(t *testing.T) {
	d, ok := DurationFor("cleaning")
	assert.True(t, ok)
	assert.Equal(t, HalfHour, d)

	d, ok = DurationFor(" ROOT CANAL ")
	assert.True(t, ok)
	assert.Equal(t, FullHour, d)

	_, ok = DurationFor("braces")
	assert.False(t, ok)
}
