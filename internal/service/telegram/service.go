package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-WebhookRelay/internal/domain"
)

// DefaultPollTimeout long polling timeout по умолчанию
const DefaultPollTimeout = 300 * time.Second

// Service сервис для получения обновлений и отправки сообщений через Telegram Bot API
type Service struct {
	bot    BotAPI
	logger Logger
}

// NewService создает новый экземпляр Telegram сервиса
func NewService(bot BotAPI, logger Logger) *Service {
	return &Service{
		bot:    bot,
		logger: logger,
	}
}

// FetchUpdates выполняет один long polling запрос getUpdates
// Запрашиваются обновления начиная с lastID+1, поэтому уже подтверждённые обновления
// повторно не приходят. При любой ошибке возвращается пустой список и типизированная ошибка
func (s *Service) FetchUpdates(ctx context.Context, lastID int, timeout time.Duration) ([]domain.Update, error) {
	if err := ctx.Err(); err != nil {
		return []domain.Update{}, err
	}

	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}

	updateConfig := tgbotapi.NewUpdate(lastID + 1)
	updateConfig.Timeout = int(timeout / time.Second)

	s.logger.Debug("Polling getUpdates (offset=%d, timeout=%ds)", updateConfig.Offset, updateConfig.Timeout)

	raw, err := s.bot.GetUpdates(updateConfig)
	if err != nil {
		return []domain.Update{}, s.classifyFetchError(err)
	}

	updates := make([]domain.Update, 0, len(raw))
	for _, u := range raw {
		updates = append(updates, toDomainUpdate(u))
	}

	return updates, nil
}

// SendMessage отправляет текстовое сообщение в чат
// Пустой текст не блокируется: решение о нём принимает Telegram
func (s *Service) SendMessage(msg *domain.TelegramMessage) error {
	if msg.ChatID == 0 {
		return ErrInvalidChatID
	}

	tgMsg := tgbotapi.NewMessage(msg.ChatID, msg.MessageText)
	tgMsg.ParseMode = msg.ParseMode

	if _, err := s.bot.Send(tgMsg); err != nil {
		return s.classifySendError(msg.ChatID, err)
	}

	return nil
}

// classifySendError отделяет окончательный отказ Telegram от временной ошибки
// Отказом считается только ответ с кодом 4xx, кроме 429 (flood control)
func (s *Service) classifySendError(chatID int64, err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && isPermanentRejection(apiErr.Code) {
		s.logger.Warn("sendMessage rejected by Telegram (chat %d, code %d): %s", chatID, apiErr.Code, apiErr.Message)
		return fmt.Errorf("%w: chat %d: code %d: %s", ErrSendRejected, chatID, apiErr.Code, apiErr.Message)
	}

	// Нет ответа, 429, 5xx или неразборчивый ответ: сообщение нужно отправить повторно
	return fmt.Errorf("%w: chat %d: %v", ErrSendMessage, chatID, err)
}

func isPermanentRejection(code int) bool {
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests
}

// DeleteWebhook удаляет webhook бота, иначе Telegram отклоняет getUpdates
func (s *Service) DeleteWebhook() error {
	deleteWebhook := tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: false, // Сохраняем необработанные сообщения
	}

	if _, err := s.bot.Request(deleteWebhook); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteWebhook, err)
	}

	return nil
}

// classifyFetchError раскладывает ошибку библиотеки по типам
func (s *Service) classifyFetchError(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		s.logger.Warn("getUpdates rejected by Telegram (code %d): %s", apiErr.Code, apiErr.Message)
		return fmt.Errorf("%w: code %d: %s", ErrFetchRejected, apiErr.Code, apiErr.Message)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", ErrFetchUnavailable, err)
	}

	return fmt.Errorf("%w: %v", ErrFetchDecode, err)
}

// toDomainUpdate преобразует обновление библиотеки в доменную модель
// Для обновлений без сообщения (edited_message, callback_query и т.п.) текст и чат остаются пустыми
func toDomainUpdate(u tgbotapi.Update) domain.Update {
	update := domain.Update{ID: u.UpdateID}

	if u.Message != nil {
		update.Text = u.Message.Text
		if u.Message.Chat != nil {
			update.ChatID = u.Message.Chat.ID
		}
	}

	return update
}
