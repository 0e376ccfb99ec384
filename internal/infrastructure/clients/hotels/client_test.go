package hotels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtravel/hotelbot/internal/domain/entities"
	"github.com/vtravel/hotelbot/internal/domain/providers"
	"github.com/vtravel/hotelbot/pkg/config"
	apperrors "github.com/vtravel/hotelbot/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int) {
	t.Helper()
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewClient(&config.HotelsConfig{
		APIKey:  "test-key",
		Host:    "hotels.test",
		Timeout: 2 * time.Second,
	})
	client.baseURL = server.URL
	return client, &requests
}

func TestSearchCity_RejectsDigitsOnlyWithoutRequest(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.SearchCity(context.Background(), "12345")

	assert.True(t, apperrors.IsInvalidInput(err))
	assert.Equal(t, 0, *requests)
}

func TestSearchCity_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/locations/v2/search", r.URL.Path)
		assert.Equal(t, "sochi", r.URL.Query().Get("query"))
		assert.Equal(t, "ru_RU", r.URL.Query().Get("locale"))
		assert.Equal(t, "RUB", r.URL.Query().Get("currency"))
		assert.Equal(t, "test-key", r.Header.Get("X-RapidAPI-Key"))
		w.Write([]byte(`{"suggestions":[{"group":"CITY_GROUP","entities":[
			{"caption":"Sochi, Russia","destinationId":"10873622","name":"Sochi"}
		]}]}`))
	})

	result, err := client.SearchCity(context.Background(), "sochi")
	require.NoError(t, err)

	destinations := result.Destinations()
	require.Len(t, destinations, 1)
	assert.Equal(t, "Sochi, Russia", destinations[0].Caption)
	assert.Equal(t, "10873622", destinations[0].DestinationID)
}

func TestSearchCity_NonJSONBodyIsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>rate limited</html>"))
	})

	_, err := client.SearchCity(context.Background(), "sochi")
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestSearchCity_TransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(&config.HotelsConfig{APIKey: "k", Host: "hotels.test", Timeout: time.Second})
	client.baseURL = server.URL
	server.Close()

	_, err := client.SearchCity(context.Background(), "sochi")
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestListHotels_RejectsUnknownSortModeWithoutRequest(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.ListHotels(context.Background(), providers.HotelSearchRequest{
		DestinationID: "1",
		SortMode:      entities.SearchMode("CHEAPEST"),
	})

	assert.True(t, apperrors.IsInvalidInput(err))
	assert.Equal(t, 0, *requests)
}

func TestListHotels_SendsFixedAndOptionalParameters(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "/properties/list", r.URL.Path)
		assert.Equal(t, "10873622", query.Get("destinationId"))
		assert.Equal(t, "1", query.Get("pageNumber"))
		assert.Equal(t, "25", query.Get("pageSize"))
		assert.Equal(t, "2020-01-08", query.Get("checkIn"))
		assert.Equal(t, "2020-01-15", query.Get("checkOut"))
		assert.Equal(t, "1", query.Get("adults1"))
		assert.Equal(t, "DISTANCE_FROM_LANDMARK", query.Get("sortOrder"))
		assert.Equal(t, "100", query.Get("priceMin"))
		assert.Equal(t, "500", query.Get("priceMax"))
		assert.Equal(t, "City center", query.Get("landmarkIds"))
		w.Write([]byte(`{"data":{"body":{"searchResults":{"results":[{"id":1,"name":"Grand"}]}}}}`))
	})

	priceMin, priceMax := 100, 500
	result, err := client.ListHotels(context.Background(), providers.HotelSearchRequest{
		DestinationID: "10873622",
		SortMode:      entities.SearchModeDistanceFromLandmark,
		PriceMin:      &priceMin,
		PriceMax:      &priceMax,
		DistanceLabel: entities.CityCenterLandmark,
	})
	require.NoError(t, err)

	listings := result.Listings()
	require.Len(t, listings, 1)
	assert.Equal(t, "Grand", listings[0].Name)
}

func TestListHotels_OmitsAbsentFilters(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.False(t, query.Has("priceMin"))
		assert.False(t, query.Has("priceMax"))
		assert.False(t, query.Has("landmarkIds"))
		w.Write([]byte(`{"data":{"body":{"searchResults":{"results":[]}}}}`))
	})

	_, err := client.ListHotels(context.Background(), providers.HotelSearchRequest{
		DestinationID: "1",
		SortMode:      entities.SearchModePrice,
	})
	require.NoError(t, err)
}

func TestHotelPhotos_TruncatesToCountInProviderOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/properties/get-hotel-photos", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("id"))
		w.Write([]byte(`{"hotelImages":[
			{"baseUrl":"https://img.test/1_{size}.jpg"},
			{"baseUrl":"https://img.test/2_{size}.jpg"},
			{"baseUrl":"https://img.test/3_{size}.jpg"}
		]}`))
	})

	photos, err := client.HotelPhotos(context.Background(), "42", 2)
	require.NoError(t, err)

	require.Len(t, photos, 2)
	assert.Equal(t, "https://img.test/1_y.jpg", photos[0].URL("y"))
	assert.Equal(t, "https://img.test/2_y.jpg", photos[1].URL("y"))
}

func TestHotelPhotos_CountAboveAvailableReturnsAll(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hotelImages":[{"baseUrl":"u"}]}`))
	})

	photos, err := client.HotelPhotos(context.Background(), "42", 5)
	require.NoError(t, err)
	assert.Len(t, photos, 1)
}

func TestHotelPhotos_MissingKeyIsMalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"not found"}`))
	})

	_, err := client.HotelPhotos(context.Background(), "42", 3)
	assert.True(t, apperrors.IsMalformedResponse(err))
	assert.False(t, apperrors.IsUnavailable(err))
}

func TestSummarize_ClampsAndPreservesOrder(t *testing.T) {
	client := NewClient(&config.HotelsConfig{Host: "hotels.test", Timeout: time.Second})

	listings := make([]entities.HotelListing, 30)
	for i := range listings {
		id := int64(i + 1)
		listings[i] = entities.HotelListing{ID: &id, Name: "Hotel"}
	}

	summaries := client.Summarize(25, listings)
	require.Len(t, summaries, 20)
	assert.Equal(t, "1", summaries[0].ID)
	assert.Equal(t, "20", summaries[19].ID)

	assert.Len(t, client.Summarize(5, listings), 5)
	assert.Len(t, client.Summarize(10, listings[:3]), 3)
	assert.Empty(t, client.Summarize(0, listings))
}

func TestSummarize_PlaceholdersForMissingFields(t *testing.T) {
	client := NewClient(&config.HotelsConfig{Host: "hotels.test", Timeout: time.Second})

	summaries := client.Summarize(1, []entities.HotelListing{{}})
	require.Len(t, summaries, 1)

	assert.Equal(t, "no id", summaries[0].ID)
	assert.Equal(t, "no name", summaries[0].Name)
	assert.Equal(t, "no address", summaries[0].Address)
	assert.Equal(t, "no distance", summaries[0].Landmarks)
	assert.Equal(t, "no price", summaries[0].Price)
}

func TestSummarize_ExtractsPresentFields(t *testing.T) {
	client := NewClient(&config.HotelsConfig{Host: "hotels.test", Timeout: time.Second})

	id := int64(1505932768)
	listing := entities.HotelListing{
		ID:        &id,
		Name:      "Grand Hotel",
		Address:   &entities.ListingAddress{StreetAddress: "1 Seaside Ave"},
		Landmarks: []entities.Landmark{{Label: "City center", Distance: "0.3 km"}},
		RatePlan:  &entities.RatePlan{Price: entities.ListingPrice{Current: "$120"}},
	}

	summaries := client.Summarize(1, []entities.HotelListing{listing})
	require.Len(t, summaries, 1)

	assert.Equal(t, entities.HotelSummary{
		ID:        "1505932768",
		Name:      "Grand Hotel",
		Address:   "1 Seaside Ave",
		Landmarks: "0.3 km",
		Price:     "$120",
	}, summaries[0])
}

func TestSummarize_PartiallyMissingNestedFields(t *testing.T) {
	client := NewClient(&config.HotelsConfig{Host: "hotels.test", Timeout: time.Second})

	listing := entities.HotelListing{
		Name:      "Grand Hotel",
		Address:   &entities.ListingAddress{},
		Landmarks: []entities.Landmark{{Label: "City center"}},
		RatePlan:  &entities.RatePlan{},
	}

	summaries := client.Summarize(1, []entities.HotelListing{listing})
	require.Len(t, summaries, 1)

	assert.Equal(t, "Grand Hotel", summaries[0].Name)
	assert.Equal(t, "no address", summaries[0].Address)
	assert.Equal(t, "no distance", summaries[0].Landmarks)
	assert.Equal(t, "no price", summaries[0].Price)
}

func TestSetCurrency(t *testing.T) {
	client := NewClient(&config.HotelsConfig{Host: "hotels.test", Timeout: time.Second})
	require.Equal(t, "RUB", client.Currency())

	require.NoError(t, client.SetCurrency("USD"))
	assert.Equal(t, "USD", client.Currency())

	err := client.SetCurrency("EUR")
	assert.True(t, apperrors.IsInvalidInput(err))
	assert.Equal(t, "USD", client.Currency())
}

func TestSetLocale(t *testing.T) {
	client := NewClient(&config.HotelsConfig{Host: "hotels.test", Timeout: time.Second})
	require.Equal(t, "ru_RU", client.Locale())

	require.NoError(t, client.SetLocale("en_US"))
	assert.Equal(t, "en_US", client.Locale())

	err := client.SetLocale("de_DE")
	assert.True(t, apperrors.IsInvalidInput(err))
	assert.Equal(t, "en_US", client.Locale())
}
