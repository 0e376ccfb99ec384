package hotels

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"unicode"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vtravel/hotelbot/internal/domain/entities"
	"github.com/vtravel/hotelbot/internal/domain/providers"
	"github.com/vtravel/hotelbot/internal/infrastructure/observability"
	"github.com/vtravel/hotelbot/pkg/config"
	apperrors "github.com/vtravel/hotelbot/pkg/errors"
)

// Fixed stay window and pagination baked into every listing search. These are
// provider defaults, not user-configurable.
const (
	pageNumber = "1"
	pageSize   = "25"
	checkIn    = "2020-01-08"
	checkOut   = "2020-01-15"
	adults     = "1"
)

// maxSummaries caps how many listings a summary batch may contain
const maxSummaries = 20

var supportedCurrencies = map[string]bool{"USD": true, "RUB": true}
var supportedLocales = map[string]bool{"en_US": true, "ru_RU": true}

// Client wraps the hotel provider API
type Client struct {
	baseURL    string
	apiKey     string
	apiHost    string
	currency   string
	locale     string
	httpClient *http.Client
}

var _ providers.HotelProvider = (*Client)(nil)

// NewClient creates a hotel provider client
func NewClient(cfg *config.HotelsConfig) *Client {
	return &Client{
		baseURL:  "https://" + cfg.Host,
		apiKey:   cfg.APIKey,
		apiHost:  cfg.Host,
		currency: "RUB",
		locale:   "ru_RU",
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Currency returns the configured currency
func (c *Client) Currency() string {
	return c.currency
}

// SetCurrency configures the currency used on every request. Unsupported
// values are rejected and the previous value is kept.
func (c *Client) SetCurrency(value string) error {
	if !supportedCurrencies[value] {
		return apperrors.NewInvalidInput("unsupported currency, available: USD, RUB")
	}
	c.currency = value
	return nil
}

// Locale returns the configured locale
func (c *Client) Locale() string {
	return c.locale
}

// SetLocale configures the locale used on every request. Unsupported values
// are rejected and the previous value is kept.
func (c *Client) SetLocale(value string) error {
	if !supportedLocales[value] {
		return apperrors.NewInvalidInput("unsupported locale, available: en_US, ru_RU")
	}
	c.locale = value
	return nil
}

// SearchCity resolves free-text city input to the provider's raw suggestion
// payload. Digit-only input is rejected before any request is made.
func (c *Client) SearchCity(ctx context.Context, city string) (*entities.CitySearchResult, error) {
	if isDigitsOnly(city) {
		return nil, apperrors.NewInvalidInput("city input consists of digits only")
	}

	ctx, span := observability.StartSpan(ctx, "hotels.SearchCity")
	defer span.End()
	span.SetAttributes(attribute.String("hotels.city", city))

	query := url.Values{}
	query.Set("query", city)
	query.Set("locale", c.locale)
	query.Set("currency", c.currency)

	out := &entities.CitySearchResult{}
	if err := c.doJSON(ctx, "/locations/v2/search", query, out); err != nil {
		span.RecordError(err)
		return nil, apperrors.NewUnavailable("city search failed for "+city, err)
	}
	return out, nil
}

// ListHotels fetches the raw listing payload for a destination. The sort mode
// is validated before any request; price bounds and the landmark label are
// added only when present.
func (c *Client) ListHotels(ctx context.Context, req providers.HotelSearchRequest) (*entities.HotelSearchResult, error) {
	if !req.SortMode.IsValid() {
		return nil, apperrors.NewInvalidInput("unsupported sort mode " + string(req.SortMode))
	}

	ctx, span := observability.StartSpan(ctx, "hotels.ListHotels")
	defer span.End()
	span.SetAttributes(
		attribute.String("hotels.destination_id", req.DestinationID),
		attribute.String("hotels.sort_mode", string(req.SortMode)),
	)

	query := url.Values{}
	query.Set("destinationId", req.DestinationID)
	query.Set("pageNumber", pageNumber)
	query.Set("pageSize", pageSize)
	query.Set("checkIn", checkIn)
	query.Set("checkOut", checkOut)
	query.Set("adults1", adults)
	query.Set("sortOrder", string(req.SortMode))
	query.Set("locale", c.locale)
	query.Set("currency", c.currency)
	if req.PriceMin != nil {
		query.Set("priceMin", strconv.Itoa(*req.PriceMin))
	}
	if req.PriceMax != nil {
		query.Set("priceMax", strconv.Itoa(*req.PriceMax))
	}
	if req.DistanceLabel != "" {
		query.Set("landmarkIds", req.DistanceLabel)
	}

	out := &entities.HotelSearchResult{}
	if err := c.doJSON(ctx, "/properties/list", query, out); err != nil {
		span.RecordError(err)
		return nil, apperrors.NewUnavailable("hotel search failed for destination "+req.DestinationID, err)
	}
	return out, nil
}

// HotelPhotos fetches up to count photo references for one hotel, in provider
// order. A payload without the photo list is a malformed response, distinct
// from a transport failure.
func (c *Client) HotelPhotos(ctx context.Context, hotelID string, count int) ([]entities.PhotoReference, error) {
	ctx, span := observability.StartSpan(ctx, "hotels.HotelPhotos")
	defer span.End()
	span.SetAttributes(attribute.String("hotels.hotel_id", hotelID))

	query := url.Values{}
	query.Set("id", hotelID)

	out := &entities.HotelPhotosResult{}
	if err := c.doJSON(ctx, "/properties/get-hotel-photos", query, out); err != nil {
		span.RecordError(err)
		return nil, apperrors.NewUnavailable("photo lookup failed for hotel "+hotelID, err)
	}
	if out.HotelImages == nil {
		return nil, apperrors.NewMalformedResponse("photo payload missing hotelImages for hotel "+hotelID, nil)
	}
	if count < len(out.HotelImages) {
		return out.HotelImages[:count], nil
	}
	return out.HotelImages, nil
}

// Summarize reduces raw listings to at most min(count, 20) display records in
// provider order. Missing nested fields degrade to fixed placeholders so a
// partially filled listing never fails the whole batch.
func (c *Client) Summarize(count int, listings []entities.HotelListing) []entities.HotelSummary {
	if count > maxSummaries {
		count = maxSummaries
	}
	if count > len(listings) {
		count = len(listings)
	}
	if count < 0 {
		count = 0
	}

	summaries := make([]entities.HotelSummary, 0, count)
	for _, listing := range listings[:count] {
		summaries = append(summaries, summarizeListing(listing))
	}
	return summaries
}

func summarizeListing(listing entities.HotelListing) entities.HotelSummary {
	summary := entities.HotelSummary{
		ID:        "no id",
		Name:      "no name",
		Address:   "no address",
		Landmarks: "no distance",
		Price:     "no price",
	}
	if listing.ID != nil {
		summary.ID = strconv.FormatInt(*listing.ID, 10)
	}
	if listing.Name != "" {
		summary.Name = listing.Name
	}
	if listing.Address != nil && listing.Address.StreetAddress != "" {
		summary.Address = listing.Address.StreetAddress
	}
	if len(listing.Landmarks) > 0 && listing.Landmarks[0].Distance != "" {
		summary.Landmarks = listing.Landmarks[0].Distance
	}
	if listing.RatePlan != nil && listing.RatePlan.Price.Current != "" {
		summary.Price = listing.RatePlan.Price.Current
	}
	return summary
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}
	return nil
}

func isDigitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
