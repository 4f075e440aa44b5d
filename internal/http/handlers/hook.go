package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/lex-code-hooks/internal/dispatch"
	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

// TurnProcessor runs one code hook turn. *dispatch.Router satisfies it.
type TurnProcessor interface {
	Handle(ctx context.Context, evt lexv2.Event) (lexv2.Response, error)
}

// HookHandler exposes the code hook over HTTP.
type HookHandler struct {
	processor TurnProcessor
	logger    *logging.Logger
}

func NewHookHandler(processor TurnProcessor, logger *logging.Logger) *HookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &HookHandler{processor: processor, logger: logger}
}

// Handle serves POST /hook with a raw code hook event.
func (h *HookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var evt lexv2.Event
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		h.logger.Error("failed to decode hook event", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.processor.Handle(r.Context(), evt)
	if err != nil {
		writeTurnError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck serves GET /health.
func (h *HookHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeTurnError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dispatch.ErrUnsupportedIntent), errors.Is(err, dispatch.ErrMissingIntent):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "failed to process turn", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
