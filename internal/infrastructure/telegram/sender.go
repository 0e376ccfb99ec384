package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vtravel/hotelbot/internal/domain/providers"
)

// Sender implements the outbound messenger over the Telegram Bot API
type Sender struct {
	api *tgbotapi.BotAPI
}

var _ providers.Messenger = (*Sender)(nil)

// NewSender wraps a Telegram API handle as a messenger
func NewSender(api *tgbotapi.BotAPI) *Sender {
	return &Sender{api: api}
}

// SendText sends a plain text message to a chat
func (s *Sender) SendText(_ context.Context, chatID int64, text string) error {
	_, err := s.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendPhoto sends an image by URL to a chat
func (s *Sender) SendPhoto(_ context.Context, chatID int64, url string) error {
	_, err := s.api.Send(tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url)))
	return err
}

// PresentChoices sends a prompt with one inline keyboard button per choice;
// the choice token travels as the button's callback data.
func (s *Sender) PresentChoices(_ context.Context, chatID int64, prompt string, choices []providers.Choice) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, choice := range choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(choice.Label, choice.Token),
		))
	}

	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := s.api.Send(msg)
	return err
}
