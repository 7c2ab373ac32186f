package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// BotAPI интерфейс для Telegram Bot API
// Абстракция над tgbotapi.BotAPI для упрощения тестирования
type BotAPI interface {
	// GetUpdates выполняет один запрос getUpdates (long polling)
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)

	// Send отправляет сообщение через Telegram Bot API
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)

	// Request выполняет кастомный запрос к Telegram API
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
