package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/lex-code-hooks/internal/appointment"
	"github.com/wolfman30/lex-code-hooks/internal/dispatch"
	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
	"github.com/wolfman30/lex-code-hooks/internal/session"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

// Thursday; the following Wednesday is 2026-10-21.
var fixedNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func testLogger() *logging.Logger {
	return logging.NewWithWriter("error", io.Discard)
}

func appointmentRouter() *dispatch.Router {
	r := dispatch.NewRouter(testLogger(), nil)
	r.Register(appointment.IntentName, appointment.NewHandler(testLogger(),
		appointment.WithClock(func() time.Time { return fixedNow }),
		appointment.WithLocation(time.UTC),
	))
	return r
}

type failingProcessor struct{ err error }

func (f failingProcessor) Handle(context.Context, lexv2.Event) (lexv2.Response, error) {
	return lexv2.Response{}, f.err
}

type failingStore struct {
	session.Store
	loadErr, saveErr error
}

func (f failingStore) Load(ctx context.Context, id string) (map[string]string, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return map[string]string{}, nil
}

func (f failingStore) Save(context.Context, string, map[string]string) error {
	return f.saveErr
}

func decodeResponse(t *testing.T, body io.Reader) lexv2.Response {
	t.Helper()
	var resp lexv2.Response
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestHookHandlerElicitsAppointmentType(t *testing.T) {
	h := NewHookHandler(appointmentRouter(), testLogger())
	body := `{"invocationSource":"DialogCodeHook","sessionId":"s-1",
		"sessionState":{"intent":{"name":"MakeAppointment","slots":{"AppointmentType":null,"Date":null,"Time":null}}}}`

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decodeResponse(t, rec.Body)
	require.NotNil(t, resp.SessionState.DialogAction)
	assert.Equal(t, lexv2.ActionElicitSlot, resp.SessionState.DialogAction.Type)
	assert.Equal(t, appointment.SlotAppointmentType, resp.SessionState.DialogAction.SlotToElicit)
}

func TestHookHandlerStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		processor  TurnProcessor
		body       string
		wantStatus int
	}{
		{"bad json", appointmentRouter(), "{not json", http.StatusBadRequest},
		{"unsupported intent", appointmentRouter(), `{"sessionState":{"intent":{"name":"BookHotel"}}}`, http.StatusUnprocessableEntity},
		{"missing intent", appointmentRouter(), `{"sessionState":{"intent":{}}}`, http.StatusUnprocessableEntity},
		{"handler failure", failingProcessor{err: errors.New("boom")}, `{"sessionState":{"intent":{"name":"MakeAppointment"}}}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHookHandler(tt.processor, testLogger()).Handle(rec,
				httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHookHandler(appointmentRouter(), nil).HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func simulatorRoutes(h *SimulatorHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/simulator/sessions", h.NewSession)
	r.Post("/simulator/sessions/{sessionID}/turns", h.Turn)
	return r
}

func postTurn(t *testing.T, srv http.Handler, sessionID string, req SimulatedTurnRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(req)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/simulator/sessions/"+sessionID+"/turns", bytes.NewReader(payload)))
	return rec
}

func TestSimulatorNewSession(t *testing.T) {
	srv := simulatorRoutes(NewSimulatorHandler(appointmentRouter(), session.NewMemoryStore(), testLogger()))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/simulator/sessions", nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp NewSessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.SessionID, 36)
}

func TestSimulatorCarriesBookingMapAcrossTurns(t *testing.T) {
	store := session.NewMemoryStore()
	srv := simulatorRoutes(NewSimulatorHandler(appointmentRouter(), store, testLogger()))

	rec := postTurn(t, srv, "sim-1", SimulatedTurnRequest{
		Intent: appointment.IntentName,
		Slots: map[string]string{
			appointment.SlotAppointmentType: "cleaning",
			appointment.SlotDate:            "2026-10-21",
			appointment.SlotTime:            "",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec.Body)
	require.NotNil(t, resp.SessionState.DialogAction)
	assert.Equal(t, lexv2.ActionElicitSlot, resp.SessionState.DialogAction.Type)
	assert.Equal(t, appointment.SlotTime, resp.SessionState.DialogAction.SlotToElicit)

	attrs, err := store.Load(context.Background(), "sim-1")
	require.NoError(t, err)
	bookings, err := appointment.DecodeBookingMap(attrs[appointment.AttrBookingMap])
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "16:00", "16:30"}, bookings["2026-10-21"])

	rec = postTurn(t, srv, "sim-1", SimulatedTurnRequest{
		Intent:           appointment.IntentName,
		InvocationSource: string(lexv2.FulfillmentCodeHook),
		Slots: map[string]string{
			appointment.SlotAppointmentType: "cleaning",
			appointment.SlotDate:            "2026-10-21",
			appointment.SlotTime:            "16:00",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeResponse(t, rec.Body)
	require.NotNil(t, resp.SessionState.DialogAction)
	assert.Equal(t, lexv2.ActionClose, resp.SessionState.DialogAction.Type)
	assert.Equal(t, lexv2.IntentFulfilled, resp.SessionState.Intent.State)

	attrs, err = store.Load(context.Background(), "sim-1")
	require.NoError(t, err)
	bookings, err = appointment.DecodeBookingMap(attrs[appointment.AttrBookingMap])
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "16:30"}, bookings["2026-10-21"])
}

func TestSimulatorTurnErrors(t *testing.T) {
	tests := []struct {
		name       string
		processor  TurnProcessor
		store      session.Store
		body       string
		wantStatus int
	}{
		{"bad json", appointmentRouter(), session.NewMemoryStore(), "{", http.StatusBadRequest},
		{"missing intent", appointmentRouter(), session.NewMemoryStore(), `{"slots":{}}`, http.StatusBadRequest},
		{"unsupported intent", appointmentRouter(), session.NewMemoryStore(), `{"intent":"BookHotel"}`, http.StatusUnprocessableEntity},
		{"load failure", appointmentRouter(), failingStore{loadErr: errors.New("down")}, `{"intent":"MakeAppointment"}`, http.StatusInternalServerError},
		{"save failure", appointmentRouter(), failingStore{saveErr: errors.New("down")}, `{"intent":"MakeAppointment"}`, http.StatusInternalServerError},
		{"handler failure", failingProcessor{err: errors.New("boom")}, session.NewMemoryStore(), `{"intent":"MakeAppointment"}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := simulatorRoutes(NewSimulatorHandler(tt.processor, tt.store, testLogger()))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
				"/simulator/sessions/sim-err/turns", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestBuildEventDefaultsToDialogCodeHook(t *testing.T) {
	evt := buildEvent("sim-2", SimulatedTurnRequest{
		Intent: "OrderFlowers",
		Slots:  map[string]string{"FlowerType": "roses", "PickupDate": " "},
	}, map[string]string{"Price": "25"})

	assert.Equal(t, lexv2.DialogCodeHook, evt.InvocationSource)
	assert.Equal(t, "sim-2", evt.SessionID)
	assert.Equal(t, "25", evt.SessionState.SessionAttributes["Price"])
	value, ok := lexv2.InterpretedValue(evt.SessionState.Intent.Slots["FlowerType"])
	assert.True(t, ok)
	assert.Equal(t, "roses", value)
	assert.Nil(t, evt.SessionState.Intent.Slots["PickupDate"])
}
