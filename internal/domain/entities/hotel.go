package entities

import "strings"

// SearchMode is the sort/filter strategy selected at dialogue start
type SearchMode string

const (
	// SearchModePrice sorts hotels by ascending price
	SearchModePrice SearchMode = "PRICE"

	// SearchModePriceHighestFirst sorts hotels by descending price
	SearchModePriceHighestFirst SearchMode = "PRICE_HIGHEST_FIRST"

	// SearchModeDistanceFromLandmark sorts hotels by proximity to a fixed landmark
	SearchModeDistanceFromLandmark SearchMode = "DISTANCE_FROM_LANDMARK"
)

// IsValid reports whether the mode is one of the supported sort modes
func (m SearchMode) IsValid() bool {
	switch m {
	case SearchModePrice, SearchModePriceHighestFirst, SearchModeDistanceFromLandmark:
		return true
	}
	return false
}

// CityCenterLandmark is the fixed landmark label used by distance-based searches
const CityCenterLandmark = "City center"

// Destination is a named location returned by the provider's suggestion search
type Destination struct {
	Caption       string `json:"caption"`
	DestinationID string `json:"destinationId"`
}

// CitySearchResult is the raw payload of the provider's city suggestion lookup
type CitySearchResult struct {
	Suggestions []SuggestionGroup `json:"suggestions"`
}

// SuggestionGroup is one group of suggestion entities
type SuggestionGroup struct {
	Group    string              `json:"group"`
	Entities []DestinationEntity `json:"entities"`
}

// DestinationEntity is one suggestion entry
type DestinationEntity struct {
	Caption       string `json:"caption"`
	DestinationID string `json:"destinationId"`
	Name          string `json:"name"`
}

// Destinations extracts the destination candidates from the first suggestion
// group. It returns nil when the expected shape is absent; the caller decides
// how to surface that.
func (r *CitySearchResult) Destinations() []Destination {
	if r == nil || len(r.Suggestions) == 0 {
		return nil
	}
	entities := r.Suggestions[0].Entities
	if len(entities) == 0 {
		return nil
	}
	destinations := make([]Destination, 0, len(entities))
	for _, entity := range entities {
		destinations = append(destinations, Destination{
			Caption:       entity.Caption,
			DestinationID: entity.DestinationID,
		})
	}
	return destinations
}

// HotelSearchResult is the raw payload of the provider's listing search
type HotelSearchResult struct {
	Data *SearchData `json:"data"`
}

// SearchData is the top-level data envelope of a listing search
type SearchData struct {
	Body *SearchBody `json:"body"`
}

// SearchBody holds the search results block
type SearchBody struct {
	SearchResults *SearchResults `json:"searchResults"`
}

// SearchResults holds the hotel listings
type SearchResults struct {
	Results []HotelListing `json:"results"`
}

// Listings extracts the hotel listings, or nil when the expected shape is absent
func (r *HotelSearchResult) Listings() []HotelListing {
	if r == nil || r.Data == nil || r.Data.Body == nil || r.Data.Body.SearchResults == nil {
		return nil
	}
	return r.Data.Body.SearchResults.Results
}

// HotelListing is a raw hotel record from the provider. Every nested field may
// be absent; HotelSummary degrades each one to a placeholder.
type HotelListing struct {
	ID        *int64          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Address   *ListingAddress `json:"address,omitempty"`
	Landmarks []Landmark      `json:"landmarks,omitempty"`
	RatePlan  *RatePlan       `json:"ratePlan,omitempty"`
}

// ListingAddress is the nested address block of a listing
type ListingAddress struct {
	StreetAddress string `json:"streetAddress,omitempty"`
	Locality      string `json:"locality,omitempty"`
	CountryName   string `json:"countryName,omitempty"`
}

// Landmark is a provider-supplied distance to a reference point
type Landmark struct {
	Label    string `json:"label,omitempty"`
	Distance string `json:"distance,omitempty"`
}

// RatePlan is the nested rate plan block of a listing
type RatePlan struct {
	Price ListingPrice `json:"price"`
}

// ListingPrice is the current price of a listing
type ListingPrice struct {
	Current string `json:"current,omitempty"`
}

// HotelSummary is the compact display projection of a HotelListing
type HotelSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Landmarks string `json:"landmarks"`
	Price     string `json:"price"`
}

// PhotoReference is a templated photo URL returned by the photo lookup
type PhotoReference struct {
	BaseURL string `json:"baseUrl"`
}

// URL substitutes the size token into the templated photo URL
func (p PhotoReference) URL(size string) string {
	return strings.ReplaceAll(p.BaseURL, "{size}", size)
}

// HotelPhotosResult is the raw payload of the provider's photo lookup
type HotelPhotosResult struct {
	HotelImages []PhotoReference `json:"hotelImages"`
}
