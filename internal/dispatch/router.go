// Package dispatch routes code hook events to intent handlers.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/lex-code-hooks/internal/lexv2"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

var tracer = otel.Tracer("lexhooks.internal.dispatch")

// IntentHandler decides one dialog turn for a single intent.
type IntentHandler interface {
	Handle(ctx context.Context, evt *lexv2.Event) (lexv2.Turn, error)
}

// HandlerFunc adapts a function to IntentHandler.
type HandlerFunc func(ctx context.Context, evt *lexv2.Event) (lexv2.Turn, error)

func (f HandlerFunc) Handle(ctx context.Context, evt *lexv2.Event) (lexv2.Turn, error) {
	return f(ctx, evt)
}

// Observer receives per-turn measurements. *metrics.DialogMetrics satisfies it.
type Observer interface {
	ObserveTurn(intent, source, action string)
	ObserveValidationFailure(intent, slot string)
	ObserveUnsupportedIntent(intent string)
	ObserveTurnLatency(intent string, seconds float64)
}

// Router dispatches events by intent name.
type Router struct {
	handlers map[string]IntentHandler
	logger   *logging.Logger
	metrics  Observer
}

// NewRouter creates an empty router. metrics may be nil.
func NewRouter(logger *logging.Logger, metrics Observer) *Router {
	if logger == nil {
		logger = logging.Default()
	}
	return &Router{
		handlers: make(map[string]IntentHandler),
		logger:   logger,
		metrics:  metrics,
	}
}

// Register binds a handler to an intent name, replacing any previous one.
func (r *Router) Register(intentName string, h IntentHandler) {
	r.handlers[intentName] = h
}

// Intents lists the registered intent names.
func (r *Router) Intents() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Handle processes one turn. It has the signature the Lambda runtime expects.
func (r *Router) Handle(ctx context.Context, evt lexv2.Event) (lexv2.Response, error) {
	start := time.Now()
	intentName := strings.TrimSpace(evt.SessionState.Intent.Name)
	source := string(evt.InvocationSource)

	ctx, span := tracer.Start(ctx, "dialog.turn", trace.WithAttributes(
		attribute.String("lex.session_id", evt.SessionID),
		attribute.String("lex.intent", intentName),
		attribute.String("lex.invocation_source", source),
		attribute.String("lex.bot", evt.Bot.Name),
	))
	defer span.End()

	logger := logging.FromContext(ctx, r.logger).WithTurn(evt.SessionID, intentName, source)
	logger.Debug("dispatch", "bot", evt.Bot.Name)

	if intentName == "" {
		span.RecordError(ErrMissingIntent)
		span.SetStatus(codes.Error, "missing intent")
		logger.Error("rejecting turn", "error", ErrMissingIntent)
		return lexv2.Response{}, ErrMissingIntent
	}

	handler, ok := r.handlers[intentName]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnsupportedIntent, intentName)
		r.observeUnsupported(intentName)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unsupported intent")
		logger.Error("rejecting turn", "error", err)
		return lexv2.Response{}, err
	}

	turn, err := handler.Handle(logging.WithContext(ctx, logger), &evt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
		logger.Error("intent handler failed", "error", err)
		return lexv2.Response{}, fmt.Errorf("dispatch: %s: %w", intentName, err)
	}

	if turn.Directive == nil {
		err := fmt.Errorf("%w: %s", ErrNoDirective, intentName)
		span.RecordError(err)
		span.SetStatus(codes.Error, "no directive")
		logger.Error("intent handler returned no directive", "error", err)
		return lexv2.Response{}, err
	}

	resp := lexv2.Render(intentName, turn)
	action := string(resp.SessionState.DialogAction.Type)
	span.SetAttributes(attribute.String("lex.dialog_action", action))
	if turn.Violation != "" {
		span.SetAttributes(attribute.String("lex.violated_slot", turn.Violation))
	}
	r.observe(intentName, source, action, turn.Violation, time.Since(start))

	logger.Info("turn handled",
		"dialog_action", action,
		"violated_slot", turn.Violation,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

func (r *Router) observe(intent, source, action, violation string, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}
	r.metrics.ObserveTurn(intent, source, action)
	if violation != "" {
		r.metrics.ObserveValidationFailure(intent, violation)
	}
	r.metrics.ObserveTurnLatency(intent, elapsed.Seconds())
}

func (r *Router) observeUnsupported(intent string) {
	if r.metrics != nil {
		r.metrics.ObserveUnsupportedIntent(intent)
	}
}
