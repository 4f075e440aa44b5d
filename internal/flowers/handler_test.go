package flowers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

var today = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func flowerEvent(source lexv2.InvocationSource, kind, date, pickup string) *lexv2.Event {
	slots := map[string]*lexv2.Slot{SlotFlowerType: nil, SlotPickupDate: nil, SlotPickupTime: nil}
	if kind != "" {
		slots[SlotFlowerType] = lexv2.NewSlot(kind)
	}
	if date != "" {
		slots[SlotPickupDate] = lexv2.NewSlot(date)
	}
	if pickup != "" {
		slots[SlotPickupTime] = lexv2.NewSlot(pickup)
	}
	return &lexv2.Event{
		InvocationSource: source,
		SessionState: lexv2.SessionState{
			Intent: lexv2.Intent{Name: IntentName, Slots: slots},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		kind       string
		date       string
		pickup     string
		wantSlot   string
		wantPrompt bool
	}{
		{name: "empty"},
		{name: "all valid", kind: "Roses", date: "2026-10-16", pickup: "10:30"},
		{name: "unknown flower", kind: "daisies", wantSlot: SlotFlowerType, wantPrompt: true},
		{name: "bad date", date: "tomorrow-ish", wantSlot: SlotPickupDate, wantPrompt: true},
		{name: "today", date: "2026-10-15", wantSlot: SlotPickupDate, wantPrompt: true},
		{name: "short time uses model prompt", pickup: "9:00", wantSlot: SlotPickupTime},
		{name: "garbled time uses model prompt", pickup: "xx:yy", wantSlot: SlotPickupTime},
		{name: "after hours", pickup: "17:00", wantSlot: SlotPickupTime, wantPrompt: true},
		{name: "date checked before time", date: "2026-10-01", pickup: "17:00", wantSlot: SlotPickupDate, wantPrompt: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := flowerEvent(lexv2.DialogCodeHook, tt.kind, tt.date, tt.pickup)
			slots := evt.SessionState.Intent.Slots
			got := Validate(slots[SlotFlowerType], slots[SlotPickupDate], slots[SlotPickupTime], today)
			assert.Equal(t, tt.wantSlot == "", got.Valid)
			assert.Equal(t, tt.wantSlot, got.ViolatedSlot)
			assert.Equal(t, tt.wantPrompt, got.Message != "")
		})
	}
}

func TestHandle_DelegatesWithPrice(t *testing.T) {
	h := NewHandler(logging.Default(), func() time.Time { return today }, nil)
	out, err := h.Handle(context.Background(), flowerEvent(lexv2.DialogCodeHook, "roses", "", ""))
	require.NoError(t, err)

	assert.IsType(t, lexv2.Delegate{}, out.Directive)
	assert.Equal(t, "25", out.SessionAttributes[AttrPrice])
}

func TestHandle_ViolationReelicits(t *testing.T) {
	h := NewHandler(logging.Default(), func() time.Time { return today }, nil)
	out, err := h.Handle(context.Background(), flowerEvent(lexv2.DialogCodeHook, "roses", "", "8:00"))
	require.NoError(t, err)

	elicit := out.Directive.(lexv2.ElicitSlot)
	assert.Equal(t, SlotPickupTime, elicit.Slot)
	assert.Empty(t, elicit.Message)
	assert.Nil(t, out.Slots[SlotPickupTime])
	assert.Equal(t, SlotPickupTime, out.Violation)
}

func TestHandle_FulfillmentCloses(t *testing.T) {
	h := NewHandler(nil, func() time.Time { return today }, nil)
	out, err := h.Handle(context.Background(), flowerEvent(lexv2.FulfillmentCodeHook, "tulips", "2026-10-16", "11:00"))
	require.NoError(t, err)

	closed := out.Directive.(lexv2.Close)
	assert.Equal(t, lexv2.IntentFulfilled, closed.State)
	assert.Equal(t, "Thanks, your order for tulips has been placed and will be ready for pickup by 11:00 on 2026-10-16", closed.Message)
}
