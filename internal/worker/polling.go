package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/m04kA/SMC-WebhookRelay/internal/domain"
	"github.com/m04kA/SMC-WebhookRelay/internal/integrations/webhook"
	"github.com/m04kA/SMC-WebhookRelay/internal/service/telegram"
	"github.com/m04kA/SMC-WebhookRelay/pkg/metrics"
)

// ErrNotAcknowledged возвращается, когда обработка пачки прервана на обновлении,
// которое не удалось полностью обработать. Offset при этом не сдвигается
var ErrNotAcknowledged = errors.New("worker: update not acknowledged")

// Stats счётчики цикла опроса
type Stats struct {
	Offset          int    `json:"offset"`
	Fetched         uint64 `json:"fetched"`
	Relayed         uint64 `json:"relayed"`
	Skipped         uint64 `json:"skipped"`
	FetchErrors     uint64 `json:"fetch_errors"`
	WebhookFailures uint64 `json:"webhook_failures"`
	SendFailures    uint64 `json:"send_failures"`
}

// PollingHandler цикл long polling: получает обновления, пересылает их и сдвигает offset
// Offset принадлежит только этому циклу и сдвигается на ID обновления лишь после того,
// как обновление полностью обработано (переслано в webhook и ответ отправлен в чат)
type PollingHandler struct {
	telegramService TelegramService
	relayUseCase    RelayMessageUseCase
	logger          Logger
	metrics         Metrics
	pollTimeout     time.Duration
	errorDelay      time.Duration

	offset          atomic.Int64
	fetched         atomic.Uint64
	relayed         atomic.Uint64
	skipped         atomic.Uint64
	fetchErrors     atomic.Uint64
	webhookFailures atomic.Uint64
	sendFailures    atomic.Uint64
}

// NewPollingHandler создаёт новый обработчик для long polling
// errorDelay - фиксированная пауза после неудачного опроса (0 - без паузы)
func NewPollingHandler(
	telegramService TelegramService,
	relayUseCase RelayMessageUseCase,
	logger Logger,
	m Metrics,
	pollTimeout time.Duration,
	errorDelay time.Duration,
) *PollingHandler {
	if m == nil {
		m = (*metrics.Metrics)(nil)
	}

	return &PollingHandler{
		telegramService: telegramService,
		relayUseCase:    relayUseCase,
		logger:          logger,
		metrics:         m,
		pollTimeout:     pollTimeout,
		errorDelay:      errorDelay,
	}
}

// Start запускает цикл опроса
// Блокирующий метод, завершается только при отмене контекста
func (h *PollingHandler) Start(ctx context.Context) {
	h.logger.Info("Listening to updates (poll timeout %s)...", h.pollTimeout)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Stopping Telegram long polling handler (offset %d)", h.Offset())
			return
		default:
		}

		if err := h.PollOnce(ctx); err != nil && ctx.Err() == nil {
			h.wait(ctx, h.errorDelay)
		}
	}
}

// PollOnce выполняет одну итерацию: getUpdates и последовательная обработка пачки
// Обновления обрабатываются строго в порядке получения. Если обновление не удалось
// обработать, остаток пачки отбрасывается и будет запрошен заново со следующим опросом
func (h *PollingHandler) PollOnce(ctx context.Context) error {
	updates, err := h.telegramService.FetchUpdates(ctx, h.Offset(), h.pollTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Ошибка опроса трактуется как "нет обновлений в этом раунде"
		h.fetchErrors.Add(1)
		h.metrics.IncFetchErrors(fetchErrorReason(err))
		h.logger.Warn("Failed to fetch updates (offset %d): %v", h.Offset(), err)
		return err
	}

	if len(updates) == 0 {
		return nil
	}

	h.fetched.Add(uint64(len(updates)))
	h.metrics.AddUpdatesFetched(len(updates))
	h.logger.Debug("Received %d updates", len(updates))

	for _, update := range updates {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := h.handleUpdate(ctx, update); err != nil {
			h.logger.Error("Update %d will be re-fetched on next poll: %v", update.ID, err)
			return fmt.Errorf("%w: update %d: %w", ErrNotAcknowledged, update.ID, err)
		}
	}

	return nil
}

// Offset возвращает ID последнего подтверждённого обновления
func (h *PollingHandler) Offset() int {
	return int(h.offset.Load())
}

// Stats возвращает текущие значения счётчиков
func (h *PollingHandler) Stats() Stats {
	return Stats{
		Offset:          h.Offset(),
		Fetched:         h.fetched.Load(),
		Relayed:         h.relayed.Load(),
		Skipped:         h.skipped.Load(),
		FetchErrors:     h.fetchErrors.Load(),
		WebhookFailures: h.webhookFailures.Load(),
		SendFailures:    h.sendFailures.Load(),
	}
}

// handleUpdate обрабатывает одно обновление и подтверждает его
func (h *PollingHandler) handleUpdate(ctx context.Context, update domain.Update) error {
	// Уже подтверждённые обновления повторно не пересылаются
	if update.ID <= h.Offset() {
		h.logger.Warn("Skipping update %d: already acknowledged (offset %d)", update.ID, h.Offset())
		return nil
	}

	// Обрабатываем только текстовые сообщения, остальное подтверждаем без пересылки
	if !update.IsRelayable() {
		h.logger.Debug("Skipping update %d: no text message", update.ID)
		h.skipped.Add(1)
		h.metrics.IncUpdatesSkipped()
		h.acknowledge(update.ID)
		return nil
	}

	h.logger.Info("Relaying update %d from chat %d", update.ID, update.ChatID)

	// Начатое обновление доводится до конца даже при остановке сервиса,
	// отмена контекста проверяется только между обновлениями
	started := time.Now()
	result, err := h.relayUseCase.Execute(context.WithoutCancel(ctx), update)
	h.metrics.ObserveRelayDuration(time.Since(started))

	if result != nil && result.WebhookErr != nil {
		h.webhookFailures.Add(1)
		h.metrics.IncWebhookFailures(webhookErrorReason(result.WebhookErr))
	}

	if err != nil {
		h.sendFailures.Add(1)
		h.metrics.IncSendFailures()
		return err
	}

	if result != nil && result.Rejected {
		h.sendFailures.Add(1)
		h.metrics.IncSendFailures()
	}

	h.relayed.Add(1)
	h.metrics.IncUpdatesRelayed()
	h.acknowledge(update.ID)

	h.logger.Info("Successfully relayed update %d (chat %d)", update.ID, update.ChatID)
	return nil
}

func (h *PollingHandler) acknowledge(updateID int) {
	h.offset.Store(int64(updateID))
	h.metrics.SetOffset(updateID)
}

func (h *PollingHandler) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func fetchErrorReason(err error) string {
	switch {
	case errors.Is(err, telegram.ErrFetchUnavailable):
		return metrics.ReasonUnavailable
	case errors.Is(err, telegram.ErrFetchRejected):
		return metrics.ReasonStatus
	case errors.Is(err, telegram.ErrFetchDecode):
		return metrics.ReasonDecode
	default:
		return metrics.ReasonOther
	}
}

func webhookErrorReason(err error) string {
	switch {
	case errors.Is(err, webhook.ErrUnavailable):
		return metrics.ReasonUnavailable
	case errors.Is(err, webhook.ErrUnexpectedStatus):
		return metrics.ReasonStatus
	case errors.Is(err, webhook.ErrDecode):
		return metrics.ReasonDecode
	default:
		return metrics.ReasonOther
	}
}
