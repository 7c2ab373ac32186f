package health

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-WebhookRelay/internal/api/handlers"
)

type Handler struct {
	startedAt time.Time
}

func NewHandler() *Handler {
	return &Handler{startedAt: time.Now()}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "healthy",
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	}

	handlers.RespondJSON(w, http.StatusOK, response)
}
