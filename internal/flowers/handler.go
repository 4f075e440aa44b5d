// Package flowers implements the OrderFlowers code hook.
package flowers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

const IntentName = "OrderFlowers"

const (
	SlotFlowerType = "FlowerType"
	SlotPickupDate = "PickupDate"
	SlotPickupTime = "PickupTime"

	AttrPrice = "Price"
)

const pricePerLetter = 5

var flowerTypes = map[string]struct{}{
	"lilies": {},
	"roses":  {},
	"tulips": {},
}

// ValidationResult reports the first slot that broke a rule. An empty Message
// lets the bot fall back to the slot prompt defined on its model.
type ValidationResult struct {
	Valid        bool
	ViolatedSlot string
	Message      string
}

// Validate checks flower type, then pickup date, then pickup time.
func Validate(flowerType, pickupDate, pickupTime *lexv2.Slot, today time.Time) ValidationResult {
	if value, ok := lexv2.InterpretedValue(flowerType); ok {
		if _, known := flowerTypes[strings.ToLower(value)]; !known {
			return ValidationResult{
				ViolatedSlot: SlotFlowerType,
				Message:      fmt.Sprintf("We do not have %s, would you like a different type of flower? Our most popular flowers are roses", value),
			}
		}
	}

	if value, ok := lexv2.InterpretedValue(pickupDate); ok {
		d, err := time.ParseInLocation("2006-01-02", value, today.Location())
		if err != nil {
			return ValidationResult{ViolatedSlot: SlotPickupDate, Message: "I did not understand that, what date would you like to pick the flowers up?"}
		}
		y, m, day := today.Date()
		if !d.After(time.Date(y, m, day, 0, 0, 0, 0, today.Location())) {
			return ValidationResult{ViolatedSlot: SlotPickupDate, Message: "You can pick up the flowers from tomorrow onwards. What day would you like to pick them up?"}
		}
	}

	if value, ok := lexv2.InterpretedValue(pickupTime); ok {
		if len(lexv2.ResolvedValues(pickupTime)) != 1 {
			return ValidationResult{ViolatedSlot: SlotPickupTime, Message: "I did not understand that, what time would you like to pick the flowers up? Please specify AM or PM"}
		}
		if len(value) != 5 {
			return ValidationResult{ViolatedSlot: SlotPickupTime}
		}
		hourText, minuteText, _ := strings.Cut(value, ":")
		hour, okHour := lexv2.ParseInt(hourText)
		_, okMinute := lexv2.ParseInt(minuteText)
		if !okHour || !okMinute {
			return ValidationResult{ViolatedSlot: SlotPickupTime}
		}
		if hour < 10 || hour > 16 {
			return ValidationResult{ViolatedSlot: SlotPickupTime, Message: "Our business hours are from ten a m. to five p m. Can you specify a time during this range?"}
		}
	}

	return ValidationResult{Valid: true}
}

// Handler runs the OrderFlowers dialog.
type Handler struct {
	logger *logging.Logger
	now    func() time.Time
	loc    *time.Location
}

// NewHandler builds the OrderFlowers handler. A nil now uses the wall clock.
func NewHandler(logger *logging.Logger, now func() time.Time, loc *time.Location) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{logger: logger, now: now, loc: loc}
}

// Handle decides the directive for one OrderFlowers turn.
func (h *Handler) Handle(ctx context.Context, evt *lexv2.Event) (lexv2.Turn, error) {
	slots := lexv2.CopySlots(evt.SessionState.Intent.Slots)
	attrs := lexv2.CopyAttributes(evt.SessionState.SessionAttributes)
	flowerType := slots[SlotFlowerType]

	if evt.InvocationSource == lexv2.DialogCodeHook {
		result := Validate(flowerType, slots[SlotPickupDate], slots[SlotPickupTime], h.now().In(h.loc))
		if !result.Valid {
			slots[result.ViolatedSlot] = nil
			return lexv2.Turn{
				Directive:         lexv2.ElicitSlot{Slot: result.ViolatedSlot, Message: result.Message},
				Slots:             slots,
				SessionAttributes: attrs,
				Violation:         result.ViolatedSlot,
			}, nil
		}

		if value, ok := lexv2.InterpretedValue(flowerType); ok {
			attrs[AttrPrice] = strconv.Itoa(len(value) * pricePerLetter)
		}
		return lexv2.Turn{Directive: lexv2.Delegate{}, Slots: slots, SessionAttributes: attrs}, nil
	}

	kind, _ := lexv2.InterpretedValue(flowerType)
	pickupTime, _ := lexv2.InterpretedValue(slots[SlotPickupTime])
	pickupDate, _ := lexv2.InterpretedValue(slots[SlotPickupDate])
	logging.FromContext(ctx, h.logger).Info("flower order placed", "flower_type", kind, "pickup_date", pickupDate)

	return lexv2.Turn{
		Directive: lexv2.Close{
			State:   lexv2.IntentFulfilled,
			Message: fmt.Sprintf("Thanks, your order for %s has been placed and will be ready for pickup by %s on %s", kind, pickupTime, pickupDate),
		},
		Slots:             slots,
		SessionAttributes: attrs,
	}, nil
}
