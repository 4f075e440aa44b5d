package appointment

import (
	"time"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
)

// Thursday. Monday is 2026-10-19, Wednesday 2026-10-21, Saturday 2026-10-24.
var testToday = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

const (
	nextMonday    = "2026-10-19"
	nextTuesday   = "2026-10-20"
	nextWednesday = "2026-10-21"
	nextFriday    = "2026-10-23"
	nextSaturday  = "2026-10-24"
)

// scriptedRand replays fixed draws so Monday availability is predictable.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedRand) IntN(int) int {
	if len(s.ints) == 0 {
		return 0
	}
	n := s.ints[0]
	s.ints = s.ints[1:]
	return n
}

// mondayTenAndTwoThirty yields {10:00, 14:30} for a Monday.
func mondayTenAndTwoThirty() *scriptedRand {
	return &scriptedRand{
		floats: []float64{0.1, 0.9, 0.9, 0.9, 0.1, 0.9, 0.9},
		ints:   []int{0, 1},
	}
}

func ambiguousSlot(interpreted string, resolved ...string) *lexv2.Slot {
	return &lexv2.Slot{Shape: "Scalar", Value: &lexv2.SlotValue{
		OriginalValue:    interpreted,
		InterpretedValue: interpreted,
		ResolvedValues:   resolved,
	}}
}
