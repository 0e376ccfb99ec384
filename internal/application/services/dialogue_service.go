package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vtravel/hotelbot/internal/domain/entities"
	"github.com/vtravel/hotelbot/internal/domain/providers"
	"github.com/vtravel/hotelbot/internal/domain/repositories"
	"github.com/vtravel/hotelbot/internal/infrastructure/observability"
	apperrors "github.com/vtravel/hotelbot/pkg/errors"
)

// Prompts and notices sent to the user during the search wizard
const (
	MsgEnterCity         = "Enter a city to search:"
	MsgEnterMinPrice     = "Enter the minimum hotel price in digits:"
	MsgReenterMinPrice   = "Enter the minimum price in digits:"
	MsgEnterMaxPrice     = "Enter the maximum hotel price in digits:"
	MsgReenterMaxPrice   = "Enter the maximum price in digits:"
	MsgLoading           = "Please wait..."
	MsgSearchFailed      = "Search failed, please try again"
	MsgEnterCityLetters  = "Enter the city in letters"
	MsgChooseDestination = "Choose a location to search hotels in"
	MsgEnterHotelCount   = "Enter the number of hotels to display\nFrom 1 to 20 (inclusive)"
	MsgEnterDigits       = "Please enter digits."
	MsgHotelCountRange   = "Enter a count from 1 to 20 (inclusive)"
	MsgPhotoChoice       = "Should hotel photos be loaded (yes/no)?"
	MsgEnterPhotoCount   = "Enter the number of photos from 1 to 5 (inclusive) in digits"
	MsgHotelSelection    = "Hotel selection:"
	MsgHotelPhotos       = "Hotel photos:"
	MsgPhotosFailed      = "Could not load hotel photos"
	MsgHelpHint          = "Type \"/\" or /help to see all commands."
)

// photo URL size token and the silent fallback photo count
const (
	photoSize         = "y"
	defaultPhotoCount = 5
)

// destination choice tokens carried through the transport
const destinationTokenPrefix = "dest:"

// DestinationToken builds the opaque choice token for a destination
func DestinationToken(destinationID string) string {
	return destinationTokenPrefix + destinationID
}

// ParseDestinationToken extracts the destination id from a choice token
func ParseDestinationToken(token string) (string, bool) {
	return strings.CutPrefix(token, destinationTokenPrefix)
}

// DialogueService drives the hotel search wizard. Each conversation advances
// through a linear sequence of steps; every handler loads the state for the
// conversation, applies one input and stores the result. Invalid input
// re-prompts the same step, provider failures re-prompt per the policy of
// each step, and nothing here is fatal to the process.
type DialogueService struct {
	hotels     providers.HotelProvider
	translator providers.Translator
	messenger  providers.Messenger
	sessions   repositories.SessionRepository
	logger     zerolog.Logger
}

// NewDialogueService creates the dialogue orchestrator
func NewDialogueService(
	hotels providers.HotelProvider,
	translator providers.Translator,
	messenger providers.Messenger,
	sessions repositories.SessionRepository,
	logger zerolog.Logger,
) *DialogueService {
	return &DialogueService{
		hotels:     hotels,
		translator: translator,
		messenger:  messenger,
		sessions:   sessions,
		logger:     logger.With().Str("component", "dialogue").Logger(),
	}
}

// log returns the service logger enriched with the trace ids of the span in
// ctx, when one is active.
func (s *DialogueService) log(ctx context.Context) *zerolog.Logger {
	logger := observability.LoggerFromContext(ctx, s.logger)
	return &logger
}

// StartSearch begins a fresh dialogue for the conversation, discarding any
// dialogue already in progress.
func (s *DialogueService) StartSearch(ctx context.Context, chatID int64, mode entities.SearchMode) error {
	if !mode.IsValid() {
		return apperrors.NewInvalidInput("unsupported search mode " + string(mode))
	}

	state := entities.NewDialogueState(chatID, mode)
	s.log(ctx).Debug().
		Str("dialogue_id", state.ID).
		Int64("chat_id", chatID).
		Str("mode", string(mode)).
		Msg("dialogue started")

	if err := s.sessions.Put(ctx, state); err != nil {
		return err
	}
	return s.messenger.SendText(ctx, chatID, MsgEnterCity)
}

// HandleText advances the dialogue with one free-text input. Text arriving
// outside an active dialogue step is answered with a help hint.
func (s *DialogueService) HandleText(ctx context.Context, chatID int64, text string) error {
	state, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if state == nil {
		return s.SendHelpHint(ctx, chatID)
	}

	ctx, span := observability.StartSpan(ctx, "dialogue.HandleText")
	defer span.End()

	switch state.Step {
	case entities.StepAwaitingCity:
		return s.handleCity(ctx, state, text)
	case entities.StepAwaitingMinPrice:
		return s.handleMinPrice(ctx, state, text)
	case entities.StepAwaitingMaxPrice:
		return s.handleMaxPrice(ctx, state, text)
	case entities.StepAwaitingHotelCount:
		return s.handleHotelCount(ctx, state, text)
	case entities.StepAwaitingPhotoChoice:
		return s.handlePhotoChoice(ctx, state, text)
	case entities.StepAwaitingPhotoCount:
		return s.handlePhotoCount(ctx, state, text)
	default:
		// choice steps resume through SelectDestination, not free text
		return s.SendHelpHint(ctx, chatID)
	}
}

// SelectDestination resumes a dialogue waiting on a destination choice and
// runs the hotel listing search with the accumulated parameters.
func (s *DialogueService) SelectDestination(ctx context.Context, chatID int64, destinationID string) error {
	state, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if state == nil || state.Step != entities.StepAwaitingDestinationChoice {
		return s.SendHelpHint(ctx, chatID)
	}

	ctx, span := observability.StartSpan(ctx, "dialogue.SelectDestination")
	defer span.End()

	if err := s.messenger.SendText(ctx, chatID, MsgLoading); err != nil {
		return err
	}

	state.DestinationID = destinationID
	req := providers.HotelSearchRequest{
		DestinationID: destinationID,
		SortMode:      state.Mode,
	}
	if state.Mode == entities.SearchModeDistanceFromLandmark {
		priceMin, priceMax := state.PriceMin, state.PriceMax
		req.PriceMin = &priceMin
		req.PriceMax = &priceMax
		req.DistanceLabel = entities.CityCenterLandmark
	}

	result, err := s.hotels.ListHotels(ctx, req)
	if err != nil {
		s.log(ctx).Error().
			Str("dialogue_id", state.ID).
			Str("destination_id", destinationID).
			Err(err).
			Msg("hotel search failed")
		return s.messenger.SendText(ctx, chatID, MsgSearchFailed)
	}

	listings := result.Listings()
	if len(listings) == 0 {
		err := apperrors.NewMalformedResponse("listing payload missing data.body.searchResults.results", nil)
		s.log(ctx).Error().
			Str("dialogue_id", state.ID).
			Str("destination_id", destinationID).
			Err(err).
			Msg("hotel search returned no usable listings")
		return s.messenger.SendText(ctx, chatID, MsgSearchFailed)
	}

	state.Listings = listings
	state.Step = entities.StepAwaitingHotelCount
	if err := s.sessions.Put(ctx, state); err != nil {
		return err
	}
	return s.messenger.SendText(ctx, chatID, MsgEnterHotelCount)
}

// SendHelpHint answers input that does not belong to an active dialogue step
func (s *DialogueService) SendHelpHint(ctx context.Context, chatID int64) error {
	return s.messenger.SendText(ctx, chatID, MsgHelpHint)
}

func (s *DialogueService) handleCity(ctx context.Context, state *entities.DialogueState, text string) error {
	// bestdeal binds the price range before the city is resolved; an already
	// collected range is kept when the city step is re-entered after a failure
	if state.Mode == entities.SearchModeDistanceFromLandmark && !state.PriceRangeSet {
		state.City = text
		state.Step = entities.StepAwaitingMinPrice
		if err := s.sessions.Put(ctx, state); err != nil {
			return err
		}
		return s.messenger.SendText(ctx, state.ChatID, MsgEnterMinPrice)
	}
	return s.searchCity(ctx, state, text)
}

func (s *DialogueService) handleMinPrice(ctx context.Context, state *entities.DialogueState, text string) error {
	value, err := strconv.Atoi(text)
	if err != nil || value < 1 {
		s.log(ctx).Warn().
			Str("dialogue_id", state.ID).
			Str("input", text).
			Msg("minimum price is not a positive number")
		return s.messenger.SendText(ctx, state.ChatID, MsgReenterMinPrice)
	}

	state.PriceMin = value
	state.Step = entities.StepAwaitingMaxPrice
	if err := s.sessions.Put(ctx, state); err != nil {
		return err
	}
	return s.messenger.SendText(ctx, state.ChatID, MsgEnterMaxPrice)
}

func (s *DialogueService) handleMaxPrice(ctx context.Context, state *entities.DialogueState, text string) error {
	value, err := strconv.Atoi(text)
	if err != nil || value < 1 {
		s.log(ctx).Warn().
			Str("dialogue_id", state.ID).
			Str("input", text).
			Msg("maximum price is not a positive number")
		return s.messenger.SendText(ctx, state.ChatID, MsgReenterMaxPrice)
	}

	state.PriceMax = value
	state.PriceRangeSet = true
	if err := s.sessions.Put(ctx, state); err != nil {
		return err
	}
	return s.searchCity(ctx, state, state.City)
}

// searchCity translates the city when needed, resolves destination candidates
// and presents them as a choice set.
func (s *DialogueService) searchCity(ctx context.Context, state *entities.DialogueState, city string) error {
	if err := s.messenger.SendText(ctx, state.ChatID, MsgLoading); err != nil {
		return err
	}

	city = s.translateCity(ctx, state, city)
	state.City = city

	result, err := s.hotels.SearchCity(ctx, city)
	if err != nil {
		state.Step = entities.StepAwaitingCity
		if putErr := s.sessions.Put(ctx, state); putErr != nil {
			return putErr
		}
		if apperrors.IsInvalidInput(err) {
			s.log(ctx).Warn().
				Str("dialogue_id", state.ID).
				Str("city", city).
				Err(err).
				Msg("city input rejected")
			return s.messenger.SendText(ctx, state.ChatID, MsgEnterCityLetters)
		}
		s.log(ctx).Error().
			Str("dialogue_id", state.ID).
			Str("city", city).
			Err(err).
			Msg("city search failed")
		return s.messenger.SendText(ctx, state.ChatID, MsgSearchFailed)
	}

	destinations := result.Destinations()
	if len(destinations) == 0 {
		malformed := apperrors.NewMalformedResponse("city payload missing suggestions[0].entities", nil)
		s.log(ctx).Error().
			Str("dialogue_id", state.ID).
			Str("city", city).
			Err(malformed).
			Msg("city search returned no destinations")
		state.Step = entities.StepAwaitingCity
		if putErr := s.sessions.Put(ctx, state); putErr != nil {
			return putErr
		}
		return s.messenger.SendText(ctx, state.ChatID, MsgSearchFailed)
	}

	state.Destinations = destinations
	state.Step = entities.StepAwaitingDestinationChoice
	if err := s.sessions.Put(ctx, state); err != nil {
		return err
	}

	choices := make([]providers.Choice, 0, len(destinations))
	for _, destination := range destinations {
		choices = append(choices, providers.Choice{
			Label: destination.Caption,
			Token: DestinationToken(destination.DestinationID),
		})
	}
	return s.messenger.PresentChoices(ctx, state.ChatID, MsgChooseDestination, choices)
}

// translateCity converts a city containing anything but ASCII letters to an
// English name. Translation is best effort: on failure the original text is
// kept and the failure is logged.
func (s *DialogueService) translateCity(ctx context.Context, state *entities.DialogueState, city string) string {
	if !needsTranslation(city) {
		return city
	}

	s.log(ctx).Info().
		Str("dialogue_id", state.ID).
		Str("city", city).
		Msg("translating city name")
	translated, err := s.translator.Translate(ctx, city)
	if err != nil {
		s.log(ctx).Error().
			Str("dialogue_id", state.ID).
			Str("city", city).
			Err(err).
			Msg("translation failed, using original city text")
		return city
	}
	return translated
}

func (s *DialogueService) handleHotelCount(ctx context.Context, state *entities.DialogueState, text string) error {
	count, err := strconv.Atoi(text)
	if err != nil {
		s.log(ctx).Warn().
			Str("dialogue_id", state.ID).
			Str("input", text).
			Msg("hotel count is not a number")
		return s.messenger.SendText(ctx, state.ChatID, MsgEnterDigits)
	}
	if count < 1 {
		s.log(ctx).Warn().
			Str("dialogue_id", state.ID).
			Int("count", count).
			Msg("hotel count below range")
		return s.messenger.SendText(ctx, state.ChatID, MsgHotelCountRange)
	}

	// values above 20 are accepted here and clamped during summarization
	state.HotelCount = count
	state.Step = entities.StepAwaitingPhotoChoice
	if err := s.sessions.Put(ctx, state); err != nil {
		return err
	}
	return s.messenger.SendText(ctx, state.ChatID, MsgPhotoChoice)
}

func (s *DialogueService) handlePhotoChoice(ctx context.Context, state *entities.DialogueState, text string) error {
	if strings.EqualFold(strings.TrimSpace(text), "yes") {
		state.Step = entities.StepAwaitingPhotoCount
		if err := s.sessions.Put(ctx, state); err != nil {
			return err
		}
		return s.messenger.SendText(ctx, state.ChatID, MsgEnterPhotoCount)
	}

	state.PhotoCount = 0
	return s.render(ctx, state)
}

func (s *DialogueService) handlePhotoCount(ctx context.Context, state *entities.DialogueState, text string) error {
	count, err := strconv.Atoi(text)
	if err != nil || count < 1 || count > defaultPhotoCount {
		// silently coerced, unlike the hotel count step
		s.log(ctx).Warn().
			Str("dialogue_id", state.ID).
			Str("input", text).
			Int("coerced", defaultPhotoCount).
			Msg("photo count coerced to default")
		count = defaultPhotoCount
	}

	state.PhotoCount = count
	return s.render(ctx, state)
}

// render emits the hotel selection and ends the dialogue. A photo failure for
// one hotel reports an inline error for that hotel only and rendering
// continues.
func (s *DialogueService) render(ctx context.Context, state *entities.DialogueState) error {
	ctx, span := observability.StartSpan(ctx, "dialogue.render")
	defer span.End()

	summaries := s.hotels.Summarize(state.HotelCount, state.Listings)
	s.log(ctx).Info().
		Str("dialogue_id", state.ID).
		Int("requested", state.HotelCount).
		Int("rendered", len(summaries)).
		Int("photos", state.PhotoCount).
		Msg("rendering hotel selection")

	if err := s.messenger.SendText(ctx, state.ChatID, MsgHotelSelection); err != nil {
		return err
	}

	for _, summary := range summaries {
		if err := s.messenger.SendText(ctx, state.ChatID, formatSummary(summary)); err != nil {
			return err
		}
		if state.PhotoCount > 0 {
			s.sendPhotos(ctx, state, summary)
		}
	}

	return s.sessions.Delete(ctx, state.ChatID)
}

func (s *DialogueService) sendPhotos(ctx context.Context, state *entities.DialogueState, summary entities.HotelSummary) {
	photos, err := s.hotels.HotelPhotos(ctx, summary.ID, state.PhotoCount)
	if err != nil {
		s.log(ctx).Warn().
			Str("dialogue_id", state.ID).
			Str("hotel_id", summary.ID).
			Err(err).
			Msg("photo fetch failed for hotel")
		if sendErr := s.messenger.SendText(ctx, state.ChatID, MsgPhotosFailed); sendErr != nil {
			s.log(ctx).Error().Err(sendErr).Msg("failed to report photo failure")
		}
		return
	}

	if err := s.messenger.SendText(ctx, state.ChatID, MsgHotelPhotos); err != nil {
		s.log(ctx).Error().Err(err).Msg("failed to announce photos")
		return
	}
	for _, photo := range photos {
		if err := s.messenger.SendPhoto(ctx, state.ChatID, photo.URL(photoSize)); err != nil {
			s.log(ctx).Warn().
				Str("dialogue_id", state.ID).
				Str("hotel_id", summary.ID).
				Err(err).
				Msg("photo send failed")
		}
	}
}

func formatSummary(summary entities.HotelSummary) string {
	return fmt.Sprintf(
		"🏨\nHotel name: %s\nHotel address: %s\nDistance from center: %s\nPrice: %s",
		summary.Name, summary.Address, summary.Landmarks, summary.Price,
	)
}

func needsTranslation(city string) bool {
	for _, r := range city {
		if !isASCIILetter(r) {
			return true
		}
	}
	return false
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
