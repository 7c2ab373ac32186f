package relay_message

import (
	"context"

	"github.com/m04kA/SMC-WebhookRelay/internal/domain"
)

// TelegramService интерфейс для отправки ответа в чат
type TelegramService interface {
	SendMessage(msg *domain.TelegramMessage) error
}

// WebhookClient интерфейс для пересылки текста во внешний webhook
// Даже при ошибке возвращает пустой, но пригодный для форматирования ответ
type WebhookClient interface {
	Forward(ctx context.Context, text string) (domain.WebhookReply, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
