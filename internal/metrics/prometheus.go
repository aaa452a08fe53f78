package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shaiso/conveyor/internal/domain"
)

// promCollectors — Prometheus-зеркало таблицы метрик.
type promCollectors struct {
	stepsTotal   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
}

// NewTableWithPrometheus создаёт таблицу, зеркалирующую наблюдения
// в Prometheus-коллекторы, зарегистрированные в reg.
func NewTableWithPrometheus(reg prometheus.Registerer) (*Table, error) {
	prom := &promCollectors{
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "conveyor",
			Name:      "steps_completed_total",
			Help:      "Completed workflow steps by type and final status.",
		}, []string{"step_type", "status"}),

		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "conveyor",
			Name:      "step_duration_seconds",
			Help:      "Wall-clock duration of workflow steps by type.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step_type"}),
	}

	if err := reg.Register(prom.stepsTotal); err != nil {
		return nil, err
	}
	if err := reg.Register(prom.stepDuration); err != nil {
		return nil, err
	}

	table := NewTable()
	table.prom = prom
	return table, nil
}

func (p *promCollectors) observe(stepType string, status domain.StepStatus, d time.Duration) {
	p.stepsTotal.WithLabelValues(stepType, string(status)).Inc()
	p.stepDuration.WithLabelValues(stepType).Observe(d.Seconds())
}
