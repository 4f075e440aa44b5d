package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
	"github.com/wolfman30/lex-code-hooks/internal/session"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

const simulatorBotName = "LocalSimulator"

// SimulatedTurnRequest is one user turn sent to the simulator.
type SimulatedTurnRequest struct {
	Intent           string            `json:"intent"`
	InvocationSource string            `json:"invocationSource"`
	Slots            map[string]string `json:"slots"`
	InputTranscript  string            `json:"inputTranscript,omitempty"`
}

// NewSessionResponse is returned when the simulator opens a session.
type NewSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// SimulatorHandler plays the dialog service locally: it keeps session
// attributes between turns and builds the code hook event.
type SimulatorHandler struct {
	processor TurnProcessor
	store     session.Store
	logger    *logging.Logger
}

func NewSimulatorHandler(processor TurnProcessor, store session.Store, logger *logging.Logger) *SimulatorHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SimulatorHandler{processor: processor, store: store, logger: logger}
}

// NewSession handles POST /simulator/sessions.
func (h *SimulatorHandler) NewSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, NewSessionResponse{SessionID: uuid.NewString()})
}

// Turn handles POST /simulator/sessions/{sessionID}/turns.
func (h *SimulatorHandler) Turn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	var req SimulatedTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode simulated turn", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Intent) == "" {
		http.Error(w, "intent is required", http.StatusBadRequest)
		return
	}

	attrs, err := h.store.Load(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to load session", "error", err, "session_id", sessionID)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	resp, err := h.processor.Handle(r.Context(), buildEvent(sessionID, req, attrs))
	if err != nil {
		writeTurnError(w, err)
		return
	}

	if err := h.store.Save(r.Context(), sessionID, resp.SessionState.SessionAttributes); err != nil {
		h.logger.Error("failed to save session", "error", err, "session_id", sessionID)
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func buildEvent(sessionID string, req SimulatedTurnRequest, attrs map[string]string) lexv2.Event {
	source := lexv2.InvocationSource(req.InvocationSource)
	if source == "" {
		source = lexv2.DialogCodeHook
	}
	slots := make(map[string]*lexv2.Slot, len(req.Slots))
	for name, value := range req.Slots {
		if strings.TrimSpace(value) == "" {
			slots[name] = nil
			continue
		}
		slots[name] = lexv2.NewSlot(value)
	}
	return lexv2.Event{
		MessageVersion:   "1.0",
		InvocationSource: source,
		InputMode:        "Text",
		SessionID:        sessionID,
		InputTranscript:  req.InputTranscript,
		Bot:              lexv2.Bot{Name: simulatorBotName, LocaleID: "en_US"},
		SessionState: lexv2.SessionState{
			SessionAttributes: attrs,
			Intent: lexv2.Intent{
				Name:  req.Intent,
				Slots: slots,
				State: lexv2.IntentInProgress,
			},
		},
	}
}
