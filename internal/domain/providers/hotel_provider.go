package providers

import (
	"context"

	"github.com/vtravel/hotelbot/internal/domain/entities"
)

// HotelSearchRequest carries the accumulated parameters of a listing search
type HotelSearchRequest struct {
	DestinationID string
	SortMode      entities.SearchMode
	PriceMin      *int
	PriceMax      *int
	DistanceLabel string
}

// HotelProvider defines the interface for the external hotel search API
type HotelProvider interface {
	// SearchCity resolves free-text city input to the provider's raw
	// suggestion payload. Digit-only input is rejected before any request.
	SearchCity(ctx context.Context, city string) (*entities.CitySearchResult, error)

	// ListHotels fetches the raw listing payload for a destination,
	// sorted and filtered per the request.
	ListHotels(ctx context.Context, req HotelSearchRequest) (*entities.HotelSearchResult, error)

	// HotelPhotos fetches up to count photo references for one hotel,
	// in provider order.
	HotelPhotos(ctx context.Context, hotelID string, count int) ([]entities.PhotoReference, error)

	// Summarize reduces raw listings to at most min(count, 20) display
	// records, preserving provider order. Pure, no I/O.
	Summarize(count int, listings []entities.HotelListing) []entities.HotelSummary
}

// Translator defines the interface for the external translation API
type Translator interface {
	// Translate converts text between the configured language pair
	Translate(ctx context.Context, text string) (string, error)

	// SupportedLanguages returns the provider's raw language list payload
	SupportedLanguages(ctx context.Context) ([]entities.Language, error)
}
