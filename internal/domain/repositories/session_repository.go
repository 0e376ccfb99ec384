package repositories

import (
	"context"

	"github.com/vtravel/hotelbot/internal/domain/entities"
)

// SessionRepository stores per-conversation dialogue state. Implementations
// must evict states idle past a bounded TTL so abandoned dialogues do not
// accumulate.
type SessionRepository interface {
	// Get returns the dialogue state for a conversation, or nil when no
	// active dialogue exists.
	Get(ctx context.Context, chatID int64) (*entities.DialogueState, error)

	// Put stores the state and refreshes its idle deadline
	Put(ctx context.Context, state *entities.DialogueState) error

	// Delete discards the state for a conversation
	Delete(ctx context.Context, chatID int64) error
}
