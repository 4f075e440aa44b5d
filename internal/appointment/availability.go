package appointment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
)

// mondayOpenProbability is the chance that any given Monday hour has an opening.
const mondayOpenProbability = 0.3

// ErrInvalidDate is returned when availability is requested for an unparseable date.
var ErrInvalidDate = errors.New("appointment: invalid date")

// RandomSource drives Monday availability. *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// BookingMap holds the free half-hour marks per ISO date. It is stored as JSON
// in the bookingMap session attribute.
type BookingMap map[string][]string

// DecodeBookingMap parses the session attribute. An empty attribute is an empty map.
func DecodeBookingMap(raw string) (BookingMap, error) {
	m := BookingMap{}
	if strings.TrimSpace(raw) == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return BookingMap{}, fmt.Errorf("appointment: decode booking map: %w", err)
	}
	return m, nil
}

// Encode serializes the map for the session attribute.
func (m BookingMap) Encode() (string, error) {
	if m == nil {
		m = BookingMap{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("appointment: encode booking map: %w", err)
	}
	return string(data), nil
}

// Availability answers availability questions for one session. Once a date
// has an entry it is never regenerated, only shrunk by bookings.
type Availability struct {
	bookings BookingMap
	rng      RandomSource
	dirty    bool
}

// NewAvailability wraps a decoded booking map. A nil rng uses the process-global source.
func NewAvailability(bookings BookingMap, rng RandomSource) *Availability {
	if bookings == nil {
		bookings = BookingMap{}
	}
	if rng == nil {
		rng = globalRand{}
	}
	return &Availability{bookings: bookings, rng: rng}
}

// Bookings exposes the underlying map.
func (a *Availability) Bookings() BookingMap {
	return a.bookings
}

// Get returns the free marks for date, generating and caching them on first use.
func (a *Availability) Get(date string) ([]string, error) {
	// A null entry was never generated; an empty list is a cached "no availability".
	if windows, ok := a.bookings[date]; ok && windows != nil {
		return windows, nil
	}
	d, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	windows := generate(d.Weekday(), a.rng)
	a.bookings[date] = windows
	a.dirty = true
	return windows, nil
}

// Book removes time, and its successor for hour-long appointments, from the
// cached marks for date. It reports false when the date has nothing cached,
// in which case the booking is skipped.
func (a *Availability) Book(date, mark string, duration int) bool {
	windows, ok := a.bookings[date]
	if !ok || len(windows) == 0 {
		return false
	}
	windows = remove(windows, mark)
	if duration == FullHour {
		windows = remove(windows, IncrementThirty(mark))
	}
	a.bookings[date] = windows
	a.dirty = true
	return true
}

// Persist writes the map back into attrs if anything changed.
func (a *Availability) Persist(attrs lexv2.SessionAttributes) error {
	if !a.dirty {
		return nil
	}
	encoded, err := a.bookings.Encode()
	if err != nil {
		return err
	}
	attrs[AttrBookingMap] = encoded
	a.dirty = false
	return nil
}

func remove(windows []string, mark string) []string {
	if i := slices.Index(windows, mark); i >= 0 {
		return slices.Delete(windows, i, i+1)
	}
	return windows
}

// generate fabricates the free marks for a weekday. Monday is random,
// Wednesday and Friday are fixed, every other day is empty.
func generate(day time.Weekday, rng RandomSource) []string {
	windows := []string{}
	switch day {
	case time.Monday:
		for hour := firstBookableHour; hour <= lastBookableHour; hour++ {
			if rng.Float64() >= mondayOpenProbability {
				continue
			}
			switch rng.IntN(3) {
			case 0:
				windows = append(windows, fmt.Sprintf("%02d:00", hour))
			case 1:
				windows = append(windows, fmt.Sprintf("%02d:30", hour))
			default:
				windows = append(windows, fmt.Sprintf("%02d:00", hour), fmt.Sprintf("%02d:30", hour))
			}
		}
	case time.Wednesday, time.Friday:
		windows = append(windows, "10:00", "16:00", "16:30")
	}
	return windows
}

// FilterByDuration returns, in clock order, the marks at which an appointment
// of duration minutes fits.
func FilterByDuration(duration int, windows []string) []string {
	free := make(map[string]struct{}, len(windows))
	for _, w := range windows {
		free[w] = struct{}{}
	}
	var fitting []string
	for mark := openingMark; mark != closingMark && mark != ""; mark = IncrementThirty(mark) {
		if _, ok := free[mark]; !ok {
			continue
		}
		switch duration {
		case HalfHour:
			fitting = append(fitting, mark)
		case FullHour:
			if _, ok := free[IncrementThirty(mark)]; ok {
				fitting = append(fitting, mark)
			}
		}
	}
	return fitting
}

// IsAvailable reports whether an appointment of duration minutes can start at mark.
func IsAvailable(mark string, duration int, windows []string) bool {
	switch duration {
	case HalfHour:
		return slices.Contains(windows, mark)
	case FullHour:
		return slices.Contains(windows, mark) && slices.Contains(windows, IncrementThirty(mark))
	}
	return false
}
