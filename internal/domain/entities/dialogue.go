package entities

import (
	"time"

	"github.com/google/uuid"
)

// DialogueStep identifies where a conversation is in the search wizard
type DialogueStep string

const (
	StepAwaitingCity              DialogueStep = "awaiting_city"
	StepAwaitingMinPrice          DialogueStep = "awaiting_min_price"
	StepAwaitingMaxPrice          DialogueStep = "awaiting_max_price"
	StepAwaitingDestinationChoice DialogueStep = "awaiting_destination"
	StepAwaitingHotelCount        DialogueStep = "awaiting_hotel_count"
	StepAwaitingPhotoChoice       DialogueStep = "awaiting_photo_choice"
	StepAwaitingPhotoCount        DialogueStep = "awaiting_photo_count"
)

// DialogueState is the accumulated per-conversation context threaded through
// the wizard steps. One conversation owns exactly one state; it is discarded
// after rendering completes or evicted once idle past the store TTL.
type DialogueState struct {
	ID            string         `json:"id"`
	ChatID        int64          `json:"chat_id"`
	Step          DialogueStep   `json:"step"`
	Mode          SearchMode     `json:"mode"`
	City          string         `json:"city,omitempty"`
	PriceMin      int            `json:"price_min,omitempty"`
	PriceMax      int            `json:"price_max,omitempty"`
	PriceRangeSet bool           `json:"price_range_set,omitempty"`
	Destinations  []Destination  `json:"destinations,omitempty"`
	DestinationID string         `json:"destination_id,omitempty"`
	Listings      []HotelListing `json:"listings,omitempty"`
	HotelCount    int            `json:"hotel_count,omitempty"`
	PhotoCount    int            `json:"photo_count,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewDialogueState starts a fresh dialogue for a conversation. Any previous
// state for the same conversation is superseded.
func NewDialogueState(chatID int64, mode SearchMode) *DialogueState {
	return &DialogueState{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Mode:      mode,
		Step:      StepAwaitingCity,
		UpdatedAt: time.Now().UTC(),
	}
}

// Touch refreshes the idle timestamp
func (s *DialogueState) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
