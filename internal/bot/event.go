// Package bot routes inbound chat events to the plan/approve pipeline and
// the LLM adapter, independent of the concrete chat transport.
package bot

import "context"

// EventKind distinguishes text messages from button presses.
type EventKind int

const (
	EventMessage EventKind = iota
	EventCallback
)

// Callback payloads carried by the proposal buttons.
const (
	CallbackApprove = "approve"
	CallbackCancel  = "cancel"
)

// Event is one inbound update, already stripped of transport details.
type Event struct {
	Kind   EventKind
	ChatID int64
	// UserID is nil when the transport could not identify the sender.
	UserID *int64
	Text   string

	// Set for EventCallback only.
	CallbackID string
	Data       string
	// MessageID is the message carrying the pressed button, 0 if unknown.
	MessageID int
}

// Replier delivers outbound messages.
type Replier interface {
	Send(ctx context.Context, chatID int64, text string) error
	// SendProposal sends text with Approve and Cancel buttons.
	SendProposal(ctx context.Context, chatID int64, text string) error
	AnswerCallback(ctx context.Context, callbackID string) error
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
}

// Asker answers free-text questions.
type Asker interface {
	Ask(ctx context.Context, question string) string
}
