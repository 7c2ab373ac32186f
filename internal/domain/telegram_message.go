package domain

// ParseMode константы для режимов парсинга текста в Telegram
const (
	ParseModeHTML     = "HTML"     // HTML форматирование
	ParseModeMarkdown = "Markdown" // Markdown форматирование (legacy)
	ParseModePlain    = ""         // Без форматирования (ответы webhook пересылаются как есть)
)

// TelegramMessage представляет сообщение для отправки через Telegram Bot API
type TelegramMessage struct {
	ChatID      int64  // ID чата получателя
	MessageText string // Текст сообщения (может быть пустым, если webhook ничего не вернул)
	ParseMode   string // Режим парсинга (HTML, Markdown, Plain)
}

// NewReplyMessage создает ответ в тот же чат, из которого пришло обновление
// Ответ webhook - пользовательский контент, поэтому форматирование не используется
func NewReplyMessage(update Update, text string) *TelegramMessage {
	return &TelegramMessage{
		ChatID:      update.ChatID,
		MessageText: text,
		ParseMode:   ParseModePlain,
	}
}

