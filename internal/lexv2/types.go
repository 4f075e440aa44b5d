// Package lexv2 models the Lex V2 code hook request and response payloads.
package lexv2

// InvocationSource tells the hook which phase of the dialog invoked it.
type InvocationSource string

const (
	DialogCodeHook      InvocationSource = "DialogCodeHook"
	FulfillmentCodeHook InvocationSource = "FulfillmentCodeHook"
)

// DialogActionType is the directive the service executes after the hook returns.
type DialogActionType string

const (
	ActionElicitSlot    DialogActionType = "ElicitSlot"
	ActionConfirmIntent DialogActionType = "ConfirmIntent"
	ActionDelegate      DialogActionType = "Delegate"
	ActionClose         DialogActionType = "Close"
)

// IntentState is the intent lifecycle state reported on Close.
type IntentState string

const (
	IntentInProgress IntentState = "InProgress"
	IntentFulfilled  IntentState = "Fulfilled"
	IntentFailed     IntentState = "Failed"
)

const (
	ContentTypePlainText         = "PlainText"
	ContentTypeImageResponseCard = "ImageResponseCard"
)

// SessionAttributes is round-tripped verbatim by the service on every turn.
type SessionAttributes map[string]string

// Event is the request delivered to the code hook.
type Event struct {
	MessageVersion      string            `json:"messageVersion,omitempty"`
	InvocationSource    InvocationSource  `json:"invocationSource"`
	InputMode           string            `json:"inputMode,omitempty"`
	ResponseContentType string            `json:"responseContentType,omitempty"`
	SessionID           string            `json:"sessionId"`
	InputTranscript     string            `json:"inputTranscript,omitempty"`
	Bot                 Bot               `json:"bot"`
	Interpretations     []Interpretation  `json:"interpretations,omitempty"`
	Transcriptions      []Transcription   `json:"transcriptions,omitempty"`
	RequestAttributes   map[string]string `json:"requestAttributes,omitempty"`
	SessionState        SessionState      `json:"sessionState"`
}

type Bot struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	AliasID   string `json:"aliasId,omitempty"`
	AliasName string `json:"aliasName,omitempty"`
	LocaleID  string `json:"localeId,omitempty"`
	Version   string `json:"version,omitempty"`
}

type Interpretation struct {
	Intent        Intent         `json:"intent"`
	NLUConfidence *NLUConfidence `json:"nluConfidence,omitempty"`
}

type NLUConfidence struct {
	Score float64 `json:"score"`
}

// Transcription is one ASR hypothesis with its confidence.
type Transcription struct {
	Transcription           string  `json:"transcription"`
	TranscriptionConfidence float64 `json:"transcriptionConfidence"`
}

type SessionState struct {
	SessionAttributes    SessionAttributes `json:"sessionAttributes,omitempty"`
	DialogAction         *DialogAction     `json:"dialogAction,omitempty"`
	Intent               Intent            `json:"intent"`
	OriginatingRequestID string            `json:"originatingRequestId,omitempty"`
}

// Intent carries the slots filled so far. A nil slot means "not filled yet".
type Intent struct {
	Name              string           `json:"name"`
	Slots             map[string]*Slot `json:"slots,omitempty"`
	State             IntentState      `json:"state,omitempty"`
	ConfirmationState string           `json:"confirmationState,omitempty"`
}

type Slot struct {
	Shape string     `json:"shape,omitempty"`
	Value *SlotValue `json:"value,omitempty"`
}

type SlotValue struct {
	OriginalValue    string   `json:"originalValue"`
	InterpretedValue string   `json:"interpretedValue"`
	ResolvedValues   []string `json:"resolvedValues"`
}

type DialogAction struct {
	Type         DialogActionType `json:"type"`
	SlotToElicit string           `json:"slotToElicit,omitempty"`
}

type Message struct {
	ContentType       string             `json:"contentType"`
	Content           string             `json:"content,omitempty"`
	ImageResponseCard *ImageResponseCard `json:"imageResponseCard,omitempty"`
}

type ImageResponseCard struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// Button is one labeled option on a response card.
type Button struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Response is what the hook hands back to the service.
type Response struct {
	SessionState      SessionState      `json:"sessionState"`
	Messages          []Message         `json:"messages,omitempty"`
	RequestAttributes map[string]string `json:"requestAttributes,omitempty"`
}
