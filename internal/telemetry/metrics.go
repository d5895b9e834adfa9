package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — счётчики producer'а и consumer'а.
//
// Nil *Metrics допустим: все методы в этом случае ничего не делают.
type Metrics struct {
	published     prometheus.Counter
	publishErrors prometheus.Counter
	received      *prometheus.CounterVec
	faults        prometheus.Counter
	defunct       prometheus.Gauge
}

// NewMetrics регистрирует метрики в reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		published: factory.NewCounter(prometheus.CounterOpts{
			Name: "sigseg_messages_published_total",
			Help: "Messages published and confirmed by the broker",
		}),
		publishErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "sigseg_publish_errors_total",
			Help: "Publish attempts that failed",
		}),
		received: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sigseg_messages_received_total",
			Help: "Messages delivered to the consumer handler",
		}, []string{"redelivered"}),
		faults: factory.NewCounter(prometheus.CounterOpts{
			Name: "sigseg_faults_total",
			Help: "Unrecoverable faults triggered by a delivered message",
		}),
		defunct: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sigseg_consumer_defunct",
			Help: "1 once the consumer has become defunct",
		}),
	}
}

// Published отмечает успешную публикацию.
func (m *Metrics) Published() {
	if m == nil {
		return
	}
	m.published.Inc()
}

// PublishFailed отмечает неудачную публикацию.
func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.publishErrors.Inc()
}

// Received отмечает доставку сообщения обработчику.
func (m *Metrics) Received(redelivered bool) {
	if m == nil {
		return
	}
	m.received.WithLabelValues(strconv.FormatBool(redelivered)).Inc()
}

// Faulted отмечает фатальный сбой consumer'а.
func (m *Metrics) Faulted() {
	if m == nil {
		return
	}
	m.faults.Inc()
	m.defunct.Set(1)
}
