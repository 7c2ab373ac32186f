package relay_status

import (
	"net/http"

	"github.com/m04kA/SMC-WebhookRelay/internal/api/handlers"
)

type Handler struct {
	source StatsSource
}

func NewHandler(source StatsSource) *Handler {
	return &Handler{source: source}
}

// Handle возвращает текущий offset и счётчики ретранслятора
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.source.Stats())
}
