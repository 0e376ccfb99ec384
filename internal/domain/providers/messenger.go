package providers

import "context"

// Choice is one labeled option presented to the user; Token is the opaque
// payload returned when the option is picked.
type Choice struct {
	Label string
	Token string
}

// Messenger defines the outbound side of the chat transport. The dialogue
// orchestrator renders through this interface only; keyboards, stickers and
// message editing stay inside the transport adapter.
type Messenger interface {
	// SendText sends a plain text message to a conversation
	SendText(ctx context.Context, chatID int64, text string) error

	// SendPhoto sends an image by URL to a conversation
	SendPhoto(ctx context.Context, chatID int64, url string) error

	// PresentChoices presents labeled options; the chosen token comes back
	// through the inbound choice path.
	PresentChoices(ctx context.Context, chatID int64, prompt string, choices []Choice) error
}
