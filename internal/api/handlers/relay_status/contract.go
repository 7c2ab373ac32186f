package relay_status

import "github.com/m04kA/SMC-WebhookRelay/internal/worker"

// StatsSource интерфейс источника счётчиков цикла опроса
type StatsSource interface {
	Stats() worker.Stats
}
