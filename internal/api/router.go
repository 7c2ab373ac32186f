package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-WebhookRelay/internal/api/handlers"
	"github.com/m04kA/SMC-WebhookRelay/internal/api/handlers/health"
	"github.com/m04kA/SMC-WebhookRelay/internal/api/handlers/relay_status"
)

const msgNotFound = "not found"

// NewRouter собирает роутер служебного HTTP сервера
// metricsPath пустой - endpoint метрик не регистрируется
func NewRouter(stats relay_status.StatsSource, metricsPath string) *mux.Router {
	healthHandler := health.NewHandler()
	statusHandler := relay_status.NewHandler(stats)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondError(w, http.StatusNotFound, msgNotFound)
	})

	r.HandleFunc("/health", healthHandler.Handle).Methods(http.MethodGet)
	r.HandleFunc("/status", statusHandler.Handle).Methods(http.MethodGet)

	if metricsPath != "" {
		r.Handle(metricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	return r
}
