package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultConnectDelay = time.Second

// Connect создает клиент Bot API, повторяя getMe пока Telegram недоступен
// Окончательный отказ (неверный токен и т.п.) возвращается сразу как ErrConnect
func Connect(ctx context.Context, token, apiEndpoint string, client tgbotapi.HTTPClient, retryDelay time.Duration, logger Logger) (*tgbotapi.BotAPI, error) {
	if retryDelay <= 0 {
		retryDelay = defaultConnectDelay
	}

	for attempt := 1; ; attempt++ {
		bot, err := tgbotapi.NewBotAPIWithClient(token, apiEndpoint, client)
		if err == nil {
			return bot, nil
		}

		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && isPermanentRejection(apiErr.Code) {
			return nil, fmt.Errorf("%w: code %d: %s", ErrConnect, apiErr.Code, apiErr.Message)
		}

		logger.Warn("getMe failed (attempt %d), retrying in %s: %v", attempt, retryDelay, err)

		timer := time.NewTimer(retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %v", ErrConnect, ctx.Err())
		case <-timer.C:
		}
	}
}
