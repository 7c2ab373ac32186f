package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Причины ошибок, используемые в label "reason"
const (
	ReasonUnavailable = "unavailable"
	ReasonStatus      = "status"
	ReasonDecode      = "decode"
	ReasonOther       = "other"
)

// Metrics коллектор Prometheus метрик ретранслятора
// Все методы безопасны для nil-получателя, что позволяет отключать метрики
type Metrics struct {
	updatesFetched  prometheus.Counter
	updatesRelayed  prometheus.Counter
	updatesSkipped  prometheus.Counter
	fetchErrors     *prometheus.CounterVec
	webhookFailures *prometheus.CounterVec
	sendFailures    prometheus.Counter
	offset          prometheus.Gauge
	relayDuration   prometheus.Histogram
}

// New создает и регистрирует метрики в указанном registerer
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		updatesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "relay_updates_fetched_total",
			Help:        "Number of updates received from getUpdates.",
			ConstLabels: constLabels,
		}),
		updatesRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "relay_updates_relayed_total",
			Help:        "Number of updates fully relayed (forwarded and replied).",
			ConstLabels: constLabels,
		}),
		updatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "relay_updates_skipped_total",
			Help:        "Number of updates acknowledged without relaying.",
			ConstLabels: constLabels,
		}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "relay_fetch_errors_total",
			Help:        "Number of failed getUpdates calls by reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		webhookFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "relay_webhook_failures_total",
			Help:        "Number of failed webhook calls by reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		sendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "relay_send_failures_total",
			Help:        "Number of replies that could not be delivered to Telegram.",
			ConstLabels: constLabels,
		}),
		offset: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "relay_offset",
			Help:        "Identifier of the last acknowledged update.",
			ConstLabels: constLabels,
		}),
		relayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "relay_update_duration_seconds",
			Help:        "Time spent relaying a single update.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.updatesFetched,
		m.updatesRelayed,
		m.updatesSkipped,
		m.fetchErrors,
		m.webhookFailures,
		m.sendFailures,
		m.offset,
		m.relayDuration,
	)

	return m
}

func (m *Metrics) AddUpdatesFetched(n int) {
	if m == nil {
		return
	}
	m.updatesFetched.Add(float64(n))
}

func (m *Metrics) IncUpdatesRelayed() {
	if m == nil {
		return
	}
	m.updatesRelayed.Inc()
}

func (m *Metrics) IncUpdatesSkipped() {
	if m == nil {
		return
	}
	m.updatesSkipped.Inc()
}

func (m *Metrics) IncFetchErrors(reason string) {
	if m == nil {
		return
	}
	m.fetchErrors.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncWebhookFailures(reason string) {
	if m == nil {
		return
	}
	m.webhookFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncSendFailures() {
	if m == nil {
		return
	}
	m.sendFailures.Inc()
}

func (m *Metrics) SetOffset(offset int) {
	if m == nil {
		return
	}
	m.offset.Set(float64(offset))
}

func (m *Metrics) ObserveRelayDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.relayDuration.Observe(d.Seconds())
}
