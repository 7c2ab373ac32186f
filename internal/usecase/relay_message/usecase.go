package relay_message

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-WebhookRelay/internal/domain"
	"github.com/m04kA/SMC-WebhookRelay/internal/service/telegram"
	"github.com/m04kA/SMC-WebhookRelay/internal/service/telegram/templates"
)

// ErrNotRelayable возвращается для обновлений без текста или чата
var ErrNotRelayable = errors.New("usecase.relay_message: update has no text message")

// Result итог обработки одного обновления
type Result struct {
	Reply      domain.WebhookReply // Ответ webhook (пустой при ошибке)
	WebhookErr error               // Ошибка webhook; ответ в чат всё равно отправляется
	Text       string              // Текст, отправленный в чат
	Rejected   bool                // Telegram отказал в доставке ответа
}

// UseCase пересылает сообщение в webhook и возвращает ответ в исходный чат
type UseCase struct {
	telegramService TelegramService
	webhookClient   WebhookClient
	logger          Logger
}

// New создаёт новый use case пересылки сообщения
func New(telegramService TelegramService, webhookClient WebhookClient, logger Logger) *UseCase {
	return &UseCase{
		telegramService: telegramService,
		webhookClient:   webhookClient,
		logger:          logger,
	}
}

// Execute пересылает текст обновления в webhook, форматирует ответ и отправляет его в чат
// Ошибка возвращается только если ответ не доставлен по временной причине (сеть, 429, 5xx):
// в этом случае обновление не считается обработанным и должно быть запрошено повторно
func (uc *UseCase) Execute(ctx context.Context, update domain.Update) (*Result, error) {
	if !update.IsRelayable() {
		return nil, fmt.Errorf("%w: update %d", ErrNotRelayable, update.ID)
	}

	result := &Result{}

	reply, err := uc.webhookClient.Forward(ctx, update.Text)
	if err != nil {
		// Ошибка webhook не прерывает обработку: в чат уходит пустой ответ
		uc.logger.Warn("Webhook failed for update %d (chat %d): %v", update.ID, update.ChatID, err)
		result.WebhookErr = err
	}
	result.Reply = reply
	result.Text = templates.FormatReply(reply)

	msg := domain.NewReplyMessage(update, result.Text)
	if err := uc.telegramService.SendMessage(msg); err != nil {
		if errors.Is(err, telegram.ErrSendRejected) {
			// Telegram получил запрос и отказал, повтор не поможет
			uc.logger.Warn("Reply for update %d was rejected: %v", update.ID, err)
			result.Rejected = true
			return result, nil
		}
		return result, fmt.Errorf("usecase.RelayMessage: send reply to chat %d: %w", update.ChatID, err)
	}

	return result, nil
}
