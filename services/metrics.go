package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics метрики движка подписок и задач. Нулевой указатель допустим.
type Metrics struct {
	ledgerInserts      *prometheus.CounterVec
	ledgerSkips        *prometheus.CounterVec
	refunds            prometheus.Counter
	tasksCreated       *prometheus.CounterVec
	tasksSkipped       *prometheus.CounterVec
	sideEffectFailures *prometheus.CounterVec
	regenerateDuration prometheus.Histogram
}

// NewMetrics регистрирует метрики в указанном реестре
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		ledgerInserts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_income_records_total",
				Help: "The total number of income records written to the ledger",
			},
			[]string{"source"},
		),
		ledgerSkips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_idempotent_skips_total",
				Help: "The total number of income writes skipped because the event token was already recorded",
			},
			[]string{"source"},
		),
		refunds: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_refunds_total",
				Help: "The total number of refund records written on cancellation",
			},
		),
		tasksCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automatic_tasks_created_total",
				Help: "The total number of automatic tasks created by the generator",
			},
			[]string{"category"},
		),
		tasksSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automatic_tasks_skipped_total",
				Help: "The total number of automatic task candidates skipped",
			},
			[]string{"category", "reason"},
		),
		sideEffectFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_side_effect_failures_total",
				Help: "The total number of failed best-effort side effects of lifecycle operations",
			},
			[]string{"side_effect"},
		),
		regenerateDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "task_regeneration_duration_seconds",
				Help:    "Duration of automatic task regeneration scans",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// IncLedgerInsert увеличивает счетчик записей дохода
func (m *Metrics) IncLedgerInsert(source string) {
	if m == nil {
		return
	}
	m.ledgerInserts.WithLabelValues(source).Inc()
}

// IncLedgerSkip увеличивает счетчик пропусков по идемпотентности
func (m *Metrics) IncLedgerSkip(source string) {
	if m == nil {
		return
	}
	m.ledgerSkips.WithLabelValues(source).Inc()
}

// IncRefund увеличивает счетчик возвратов
func (m *Metrics) IncRefund() {
	if m == nil {
		return
	}
	m.refunds.Inc()
}

// IncTaskCreated увеличивает счетчик созданных задач
func (m *Metrics) IncTaskCreated(category string) {
	if m == nil {
		return
	}
	m.tasksCreated.WithLabelValues(category).Inc()
}

// IncTaskSkipped увеличивает счетчик пропущенных кандидатов
func (m *Metrics) IncTaskSkipped(category, reason string) {
	if m == nil {
		return
	}
	m.tasksSkipped.WithLabelValues(category, reason).Inc()
}

// IncSideEffectFailure увеличивает счетчик неудачных побочных эффектов
func (m *Metrics) IncSideEffectFailure(sideEffect string) {
	if m == nil {
		return
	}
	m.sideEffectFailures.WithLabelValues(sideEffect).Inc()
}

// ObserveRegenerate записывает длительность прохода генератора
func (m *Metrics) ObserveRegenerate(seconds float64) {
	if m == nil {
		return
	}
	m.regenerateDuration.Observe(seconds)
}
