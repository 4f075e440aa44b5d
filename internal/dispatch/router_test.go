package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

type fakeObserver struct {
	turns       []string
	violations  []string
	unsupported []string
	latencies   int
}

func (f *fakeObserver) ObserveTurn(intent, source, action string) {
	f.turns = append(f.turns, intent+"/"+source+"/"+action)
}

func (f *fakeObserver) ObserveValidationFailure(intent, slot string) {
	f.violations = append(f.violations, intent+"/"+slot)
}

func (f *fakeObserver) ObserveUnsupportedIntent(intent string) {
	f.unsupported = append(f.unsupported, intent)
}

func (f *fakeObserver) ObserveTurnLatency(string, float64) {
	f.latencies++
}

func event(intent string) lexv2.Event {
	return lexv2.Event{
		InvocationSource: lexv2.DialogCodeHook,
		SessionID:        "s-1",
		Bot:              lexv2.Bot{Name: "TestBot"},
		SessionState: lexv2.SessionState{
			SessionAttributes: lexv2.SessionAttributes{"keep": "me"},
			Intent:            lexv2.Intent{Name: intent},
		},
	}
}

func TestRouter_DispatchesByIntent(t *testing.T) {
	obs := &fakeObserver{}
	r := NewRouter(logging.Default(), obs)
	r.Register("MakeAppointment", HandlerFunc(func(ctx context.Context, evt *lexv2.Event) (lexv2.Turn, error) {
		return lexv2.Turn{
			Directive:         lexv2.ElicitSlot{Slot: "Time", Message: "When?"},
			SessionAttributes: evt.SessionState.SessionAttributes,
			Violation:         "Time",
		}, nil
	}))

	resp, err := r.Handle(context.Background(), event("MakeAppointment"))
	require.NoError(t, err)

	assert.Equal(t, lexv2.ActionElicitSlot, resp.SessionState.DialogAction.Type)
	assert.Equal(t, "MakeAppointment", resp.SessionState.Intent.Name)
	assert.Equal(t, "me", resp.SessionState.SessionAttributes["keep"])
	assert.Equal(t, []string{"MakeAppointment/DialogCodeHook/ElicitSlot"}, obs.turns)
	assert.Equal(t, []string{"MakeAppointment/Time"}, obs.violations)
	assert.Equal(t, 1, obs.latencies)
}

func TestRouter_UnsupportedIntentIsFatal(t *testing.T) {
	obs := &fakeObserver{}
	var buf bytes.Buffer
	r := NewRouter(logging.NewWithWriter("info", &buf), obs)

	_, err := r.Handle(context.Background(), event("CancelAppointment"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedIntent))
	assert.Contains(t, err.Error(), "CancelAppointment")
	assert.Equal(t, []string{"CancelAppointment"}, obs.unsupported)
	assert.Empty(t, obs.turns)
	assert.Contains(t, buf.String(), "rejecting turn")
}

func TestRouter_MissingIntent(t *testing.T) {
	r := NewRouter(nil, nil)
	_, err := r.Handle(context.Background(), event("  "))
	assert.True(t, errors.Is(err, ErrMissingIntent))
}

func TestRouter_HandlerErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	r := NewRouter(logging.Default(), nil)
	r.Register("OrderFlowers", HandlerFunc(func(context.Context, *lexv2.Event) (lexv2.Turn, error) {
		return lexv2.Turn{}, boom
	}))

	_, err := r.Handle(context.Background(), event("OrderFlowers"))
	assert.True(t, errors.Is(err, boom))
}

func TestRouter_HandlerSeesTurnLogger(t *testing.T) {
	var buf bytes.Buffer
	r := NewRouter(logging.NewWithWriter("info", &buf), nil)
	r.Register("OrderFlowers", HandlerFunc(func(ctx context.Context, evt *lexv2.Event) (lexv2.Turn, error) {
		logging.FromContext(ctx, nil).Info("inside handler")
		return lexv2.Turn{Directive: lexv2.Delegate{}}, nil
	}))

	_, err := r.Handle(context.Background(), event("OrderFlowers"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"inside handler","session_id":"s-1"`)
	assert.ElementsMatch(t, []string{"OrderFlowers"}, r.Intents())
}

func TestRouter_RejectsTurnWithoutDirective(t *testing.T) {
	obs := &fakeObserver{}
	r := NewRouter(logging.NewWithWriter("error", io.Discard), obs)
	r.Register("OrderFlowers", HandlerFunc(func(context.Context, *lexv2.Event) (lexv2.Turn, error) {
		return lexv2.Turn{}, nil
	}))

	resp, err := r.Handle(context.Background(), event("OrderFlowers"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoDirective))
	assert.Contains(t, err.Error(), "OrderFlowers")
	assert.Nil(t, resp.SessionState.DialogAction)
	assert.Empty(t, obs.turns)
}
