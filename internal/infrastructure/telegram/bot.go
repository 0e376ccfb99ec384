package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/vtravel/hotelbot/internal/application/services"
	"github.com/vtravel/hotelbot/internal/domain/entities"
	"github.com/vtravel/hotelbot/pkg/config"
)

const (
	greeting = "Hi! \U0001F44B\nI am a travel agency bot.\nI will help you find the best hotels!"

	chooseCommand = "Pick the option you prefer"

	commandHelp = "/lowprice - Top cheapest hotels in a city\n" +
		"/highprice - Top most expensive hotels in a city\n" +
		"/bestdeal - Top hotels best matching price and distance from the center\n"
)

// inline keyboard tokens for the command buttons
const (
	tokenModePrefix = "mode:"
	tokenHelp       = "help"
)

var commandModes = map[string]entities.SearchMode{
	"lowprice":  entities.SearchModePrice,
	"highprice": entities.SearchModePriceHighestFirst,
	"bestdeal":  entities.SearchModeDistanceFromLandmark,
}

// Bot consumes Telegram updates and routes them into the dialogue service.
// It owns only transport concerns: commands, buttons and the long-poll loop.
type Bot struct {
	api      *tgbotapi.BotAPI
	dialogue *services.DialogueService
	logger   zerolog.Logger
}

// NewAPI connects to the Telegram Bot API
func NewAPI(cfg *config.TelegramConfig) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(cfg.Token)
}

// NewBot creates the update router
func NewBot(api *tgbotapi.BotAPI, dialogue *services.DialogueService, logger zerolog.Logger) *Bot {
	return &Bot{
		api:      api,
		dialogue: dialogue,
		logger:   logger.With().Str("component", "telegram").Logger(),
	}
}

// Run processes updates until the context is cancelled
func (b *Bot) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info().Str("username", b.api.Self.UserName).Msg("bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if message.IsCommand() {
		b.handleCommand(ctx, chatID, message.Command())
		return
	}
	if message.Text == "" {
		return
	}
	if err := b.dialogue.HandleText(ctx, chatID, message.Text); err != nil {
		b.logger.Error().Int64("chat_id", chatID).Err(err).Msg("text handling failed")
	}
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command string) {
	if mode, ok := commandModes[command]; ok {
		b.logger.Debug().Int64("chat_id", chatID).Str("command", command).Msg("search command received")
		if err := b.dialogue.StartSearch(ctx, chatID, mode); err != nil {
			b.logger.Error().Int64("chat_id", chatID).Err(err).Msg("failed to start search")
		}
		return
	}

	switch command {
	case "start":
		b.sendGreeting(chatID)
	case "help":
		b.send(chatID, commandHelp)
	default:
		if err := b.dialogue.SendHelpHint(ctx, chatID); err != nil {
			b.logger.Error().Int64("chat_id", chatID).Err(err).Msg("failed to send help hint")
		}
	}
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	// acknowledge the button press so the client stops its spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn().Err(err).Msg("callback acknowledgement failed")
	}

	data := callback.Data
	switch {
	case data == tokenHelp:
		b.send(chatID, commandHelp)
	case strings.HasPrefix(data, tokenModePrefix):
		mode := entities.SearchMode(strings.TrimPrefix(data, tokenModePrefix))
		b.logger.Debug().Int64("chat_id", chatID).Str("mode", string(mode)).Msg("search button pressed")
		if err := b.dialogue.StartSearch(ctx, chatID, mode); err != nil {
			b.logger.Error().Int64("chat_id", chatID).Err(err).Msg("failed to start search")
		}
	default:
		if destinationID, ok := services.ParseDestinationToken(data); ok {
			if err := b.dialogue.SelectDestination(ctx, chatID, destinationID); err != nil {
				b.logger.Error().Int64("chat_id", chatID).Err(err).Msg("destination selection failed")
			}
			return
		}
		b.logger.Warn().Int64("chat_id", chatID).Str("data", data).Msg("unknown callback token")
	}
}

func (b *Bot) sendGreeting(chatID int64) {
	b.send(chatID, greeting)

	msg := tgbotapi.NewMessage(chatID, chooseCommand)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Top cheapest hotels", tokenModePrefix+string(entities.SearchModePrice)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Top most expensive hotels", tokenModePrefix+string(entities.SearchModePriceHighestFirst)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Top hotels by price and distance", tokenModePrefix+string(entities.SearchModeDistanceFromLandmark)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Command help", tokenHelp),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error().Int64("chat_id", chatID).Err(err).Msg("failed to send command keyboard")
	}
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error().Int64("chat_id", chatID).Err(err).Msg("failed to send message")
	}
}
