package dispatch

import "errors"

var (
	// ErrUnsupportedIntent is returned when no handler serves the event's intent.
	ErrUnsupportedIntent = errors.New("dispatch: intent not supported")

	// ErrMissingIntent is returned when the event carries no intent name.
	ErrMissingIntent = errors.New("dispatch: event has no intent name")

	// ErrNoDirective is returned when a handler answers a turn without a directive.
	ErrNoDirective = errors.New("dispatch: handler returned no directive")
)
