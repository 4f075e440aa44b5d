package lexv2

// maxButtons is the most options a response card can carry.
const maxButtons = 5

// Directive is the single dialog decision a handler makes per turn.
type Directive interface {
	Action() DialogActionType
	directive()
}

// ElicitSlot asks the user for Slot.
type ElicitSlot struct {
	Slot    string
	Message string
	Card    *ImageResponseCard
}

// ConfirmIntent asks the user to confirm the fully specified intent.
type ConfirmIntent struct {
	Message string
	Card    *ImageResponseCard
}

// Delegate hands slot filling back to the service.
type Delegate struct{}

// Close ends the conversation.
type Close struct {
	State   IntentState
	Message string
}

func (ElicitSlot) Action() DialogActionType    { return ActionElicitSlot }
func (ConfirmIntent) Action() DialogActionType { return ActionConfirmIntent }
func (Delegate) Action() DialogActionType      { return ActionDelegate }
func (Close) Action() DialogActionType         { return ActionClose }

func (ElicitSlot) directive()    {}
func (ConfirmIntent) directive() {}
func (Delegate) directive()      {}
func (Close) directive()         {}

// Turn is an intent handler's answer for one dialog turn.
type Turn struct {
	Directive         Directive
	Slots             map[string]*Slot
	SessionAttributes SessionAttributes
	// Violation names the slot that failed validation this turn, if any.
	Violation string
}

// Card builds an image response card. Options beyond the fifth are dropped and
// a card without options is nil.
func Card(title, subtitle string, options []Button) *ImageResponseCard {
	if len(options) == 0 {
		return nil
	}
	if len(options) > maxButtons {
		options = options[:maxButtons]
	}
	buttons := make([]Button, len(options))
	copy(buttons, options)
	return &ImageResponseCard{Title: title, Subtitle: subtitle, Buttons: buttons}
}

// YesNo is the option set offered with ConfirmIntent.
func YesNo() []Button {
	return []Button{{Text: "yes", Value: "yes"}, {Text: "no", Value: "no"}}
}

// Render converts a Turn into the wire response for intentName. A Turn
// without a Directive renders with no dialog action; callers reject it first.
func Render(intentName string, turn Turn) Response {
	attrs := turn.SessionAttributes
	if attrs == nil {
		attrs = SessionAttributes{}
	}
	resp := Response{
		SessionState: SessionState{
			SessionAttributes: attrs,
			Intent: Intent{
				Name:  intentName,
				Slots: turn.Slots,
			},
		},
	}

	switch d := turn.Directive.(type) {
	case ElicitSlot:
		resp.SessionState.DialogAction = &DialogAction{Type: ActionElicitSlot, SlotToElicit: d.Slot}
		resp.Messages = messages(d.Message, d.Card)
	case ConfirmIntent:
		resp.SessionState.DialogAction = &DialogAction{Type: ActionConfirmIntent}
		resp.Messages = messages(d.Message, d.Card)
	case Close:
		state := d.State
		if state == "" {
			state = IntentFulfilled
		}
		resp.SessionState.DialogAction = &DialogAction{Type: ActionClose}
		resp.SessionState.Intent = Intent{Name: intentName, State: state}
		resp.Messages = messages(d.Message, nil)
	case Delegate:
		resp.SessionState.DialogAction = &DialogAction{Type: ActionDelegate}
	}
	return resp
}

func messages(content string, card *ImageResponseCard) []Message {
	var out []Message
	if content != "" {
		out = append(out, Message{ContentType: ContentTypePlainText, Content: content})
	}
	if card != nil {
		out = append(out, Message{ContentType: ContentTypeImageResponseCard, ImageResponseCard: card})
	}
	return out
}
