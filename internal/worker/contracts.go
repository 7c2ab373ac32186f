package worker

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WebhookRelay/internal/domain"
	"github.com/m04kA/SMC-WebhookRelay/internal/usecase/relay_message"
)

// TelegramService интерфейс для получения обновлений через Telegram Bot API
type TelegramService interface {
	// FetchUpdates выполняет один long polling запрос начиная с lastID+1
	FetchUpdates(ctx context.Context, lastID int, timeout time.Duration) ([]domain.Update, error)
}

// RelayMessageUseCase интерфейс для пересылки одного обновления
type RelayMessageUseCase interface {
	Execute(ctx context.Context, update domain.Update) (*relay_message.Result, error)
}

// Metrics интерфейс для сбора метрик цикла опроса
type Metrics interface {
	AddUpdatesFetched(n int)
	IncUpdatesRelayed()
	IncUpdatesSkipped()
	IncFetchErrors(reason string)
	IncWebhookFailures(reason string)
	IncSendFailures()
	SetOffset(offset int)
	ObserveRelayDuration(d time.Duration)
}

// StatsSource источник счётчиков для периодического отчёта и status endpoint
type StatsSource interface {
	Stats() Stats
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
