package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

// Booking outcomes reported to the BookingRecorder.
const (
	BookingBooked  = "booked"
	BookingSkipped = "skipped"
)

// BookingRecorder observes fulfillment outcomes.
type BookingRecorder interface {
	ObserveBooking(appointmentType, outcome string)
}

// Handler runs the MakeAppointment dialog.
type Handler struct {
	logger  *logging.Logger
	now     func() time.Time
	loc     *time.Location
	rng     RandomSource
	metrics BookingRecorder
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLocation sets the business time zone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) {
		if loc != nil {
			h.loc = loc
		}
	}
}

// WithRandomSource makes Monday availability deterministic.
func WithRandomSource(rng RandomSource) Option {
	return func(h *Handler) {
		h.rng = rng
	}
}

// WithBookingRecorder reports booking outcomes.
func WithBookingRecorder(m BookingRecorder) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// NewHandler builds the MakeAppointment handler.
func NewHandler(logger *logging.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &Handler{
		logger: logger,
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) today() time.Time {
	return startOfDay(h.now().In(h.loc))
}

// turn bundles the per-request state the dialog steps share.
type turn struct {
	slots        map[string]*lexv2.Slot
	attrs        lexv2.SessionAttributes
	availability *Availability
	today        time.Time
	logger       *logging.Logger
}

// Handle decides the directive for one MakeAppointment turn.
func (h *Handler) Handle(ctx context.Context, evt *lexv2.Event) (lexv2.Turn, error) {
	logger := logging.FromContext(ctx, h.logger)
	t := &turn{
		slots:  lexv2.CopySlots(evt.SessionState.Intent.Slots),
		attrs:  lexv2.CopyAttributes(evt.SessionState.SessionAttributes),
		today:  h.today(),
		logger: logger,
	}

	bookings, err := DecodeBookingMap(t.attrs[AttrBookingMap])
	if err != nil {
		logger.Warn("discarding unreadable booking map", "error", err)
	}
	t.availability = NewAvailability(bookings, h.rng)

	if evt.InvocationSource == lexv2.DialogCodeHook {
		return h.converse(t)
	}
	return h.fulfill(t)
}

func (h *Handler) converse(t *turn) (lexv2.Turn, error) {
	appointmentType := t.slots[SlotAppointmentType]
	date := t.slots[SlotDate]
	appointmentTime := t.slots[SlotTime]
	bookings := t.availability.Bookings()

	result := Validate(appointmentType, date, appointmentTime, t.today)
	if !result.Valid {
		t.slots[result.ViolatedSlot] = nil
		card := lexv2.Card(
			fmt.Sprintf("Specify %s", result.ViolatedSlot),
			result.Message,
			BuildOptions(result.ViolatedSlot, appointmentType, date, bookings, t.today),
		)
		out := t.elicit(result.ViolatedSlot, result.Message, card)
		out.Violation = result.ViolatedSlot
		return out, nil
	}

	typeValue, ok := lexv2.InterpretedValue(appointmentType)
	if !ok {
		const prompt = "What type of appointment would you like to schedule?"
		return t.elicit(SlotAppointmentType, prompt, lexv2.Card(
			"Specify Appointment Type", prompt,
			BuildOptions(SlotAppointmentType, appointmentType, date, nil, t.today),
		)), nil
	}

	dateValue, ok := lexv2.InterpretedValue(date)
	if !ok {
		prompt := fmt.Sprintf("When would you like to schedule your %s?", typeValue)
		return t.elicit(SlotDate, prompt, lexv2.Card(
			"Specify Date", prompt,
			BuildOptions(SlotDate, appointmentType, date, nil, t.today),
		)), nil
	}

	windows, err := t.availability.Get(dateValue)
	if err != nil {
		return lexv2.Turn{}, err
	}
	if err := t.availability.Persist(t.attrs); err != nil {
		return lexv2.Turn{}, err
	}

	duration, _ := DurationFor(typeValue)
	fitting := FilterByDuration(duration, windows)
	if len(fitting) == 0 {
		t.slots[SlotDate] = nil
		t.slots[SlotTime] = nil
		return t.elicit(SlotDate,
			"We do not have any availability on that date, is there another day which works for you?",
			lexv2.Card("Specify Date", "What day works best for you?",
				BuildOptions(SlotDate, appointmentType, date, bookings, t.today)),
		), nil
	}

	message := fmt.Sprintf("What time on %s works for you? ", dateValue)
	if timeValue, ok := lexv2.InterpretedValue(appointmentTime); ok {
		t.attrs[AttrFormattedTime] = FormatTime(timeValue)
		if IsAvailable(timeValue, duration, windows) {
			return lexv2.Turn{Directive: lexv2.Delegate{}, Slots: t.slots, SessionAttributes: t.attrs}, nil
		}
		message = "The time you requested is not available. "
	}

	if len(fitting) == 1 {
		only := fitting[0]
		t.slots[SlotTime] = lexv2.NewSlot(only)
		return lexv2.Turn{
			Directive: lexv2.ConfirmIntent{
				Message: fmt.Sprintf("%s%s is our only availability, does that work for you?", message, FormatTime(only)),
				Card: lexv2.Card("Confirm Appointment",
					fmt.Sprintf("Is %s on %s okay?", FormatTime(only), dateValue),
					lexv2.YesNo()),
			},
			Slots:             t.slots,
			SessionAttributes: t.attrs,
		}, nil
	}

	return t.elicit(SlotTime, message+AvailableTimesSentence(fitting), lexv2.Card(
		"Specify Time", "What time works best for you?",
		BuildOptions(SlotTime, appointmentType, date, bookings, t.today),
	)), nil
}

func (h *Handler) fulfill(t *turn) (lexv2.Turn, error) {
	typeValue, _ := lexv2.InterpretedValue(t.slots[SlotAppointmentType])
	dateValue, _ := lexv2.InterpretedValue(t.slots[SlotDate])
	timeValue, _ := lexv2.InterpretedValue(t.slots[SlotTime])
	duration, _ := DurationFor(typeValue)

	if t.availability.Book(dateValue, timeValue, duration) {
		if err := t.availability.Persist(t.attrs); err != nil {
			return lexv2.Turn{}, err
		}
		h.observeBooking(typeValue, BookingBooked)
	} else {
		// Fulfillment can be wired without the dialog hook, so nothing was cached.
		t.logger.Debug("no cached availability at fulfillment, skipping booking", "date", dateValue)
		h.observeBooking(typeValue, BookingSkipped)
	}

	message := fmt.Sprintf("Okay, I have booked your appointment. We will see you on %s", dateValue)
	if timeValue != "" {
		message = fmt.Sprintf("Okay, I have booked your appointment. We will see you at %s on %s",
			FormatTime(timeValue), dateValue)
	}

	return lexv2.Turn{
		Directive: lexv2.Close{
			State:   lexv2.IntentFulfilled,
			Message: message,
		},
		Slots:             t.slots,
		SessionAttributes: t.attrs,
	}, nil
}

func (h *Handler) observeBooking(appointmentType, outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveBooking(appointmentType, outcome)
	}
}

func (t *turn) elicit(slot, message string, card *lexv2.ImageResponseCard) lexv2.Turn {
	return lexv2.Turn{
		Directive:         lexv2.ElicitSlot{Slot: slot, Message: message, Card: card},
		Slots:             t.slots,
		SessionAttributes: t.attrs,
	}
}
