package lexv2

import (
	"strconv"
	"strings"
)

// InterpretedValue returns the slot's interpreted value. Absent slots report ok=false.
func InterpretedValue(slot *Slot) (string, bool) {
	if slot == nil || slot.Value == nil {
		return "", false
	}
	return slot.Value.InterpretedValue, true
}

// ResolvedValues returns the candidate values the service resolved for the slot.
func ResolvedValues(slot *Slot) []string {
	if slot == nil || slot.Value == nil {
		return nil
	}
	return slot.Value.ResolvedValues
}

// Present reports whether the slot holds a value.
func Present(slot *Slot) bool {
	_, ok := InterpretedValue(slot)
	return ok
}

// ParseInt parses s as a base-10 integer. Invalid input reports ok=false so
// callers fail validation instead of erroring.
func ParseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// NewSlot builds a scalar slot whose interpreted and single resolved value is value.
func NewSlot(value string) *Slot {
	return &Slot{
		Shape: "Scalar",
		Value: &SlotValue{
			OriginalValue:    value,
			InterpretedValue: value,
			ResolvedValues:   []string{value},
		},
	}
}

// CopySlots returns a shallow copy so handlers can clear slots without
// mutating the request.
func CopySlots(slots map[string]*Slot) map[string]*Slot {
	out := make(map[string]*Slot, len(slots))
	for k, v := range slots {
		out[k] = v
	}
	return out
}

// CopyAttributes returns a copy of attrs, never nil.
func CopyAttributes(attrs SessionAttributes) SessionAttributes {
	out := make(SessionAttributes, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
