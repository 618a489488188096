// Package metrics содержит счётчики и метрики, используемые в приложении.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics хранит метрики работы бота опроса
type Metrics struct {
	ActiveSessions  int64
	SessionsStarted int64
	StepsAdvanced   int64
	StepsRejected   int64
	Submissions     int64
	Deliveries      int64
	DeliveryErrors  int64
	AverageLatency  time.Duration
	AverageSurvey   time.Duration
	mu              sync.RWMutex
}

// NewMetrics создает новый экземпляр метрик
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncActiveSessions увеличивает счетчик открытых анкет
func (m *Metrics) IncActiveSessions() { atomic.AddInt64(&m.ActiveSessions, 1) }

// DecActiveSessions уменьшает счетчик открытых анкет
func (m *Metrics) DecActiveSessions() { atomic.AddInt64(&m.ActiveSessions, -1) }

// IncSessionsStarted увеличивает счетчик начатых анкет
func (m *Metrics) IncSessionsStarted() { atomic.AddInt64(&m.SessionsStarted, 1) }

// IncStepsAdvanced увеличивает счетчик успешных переходов
func (m *Metrics) IncStepsAdvanced() { atomic.AddInt64(&m.StepsAdvanced, 1) }

// IncStepsRejected увеличивает счетчик переходов, отклонённых проверкой
func (m *Metrics) IncStepsRejected() { atomic.AddInt64(&m.StepsRejected, 1) }

// IncSubmissions увеличивает счетчик отправленных анкет
func (m *Metrics) IncSubmissions() { atomic.AddInt64(&m.Submissions, 1) }

// IncDeliveries увеличивает счетчик успешных доставок
func (m *Metrics) IncDeliveries() { atomic.AddInt64(&m.Deliveries, 1) }

// IncDeliveryErrors увеличивает счетчик ошибок доставки
func (m *Metrics) IncDeliveryErrors() { atomic.AddInt64(&m.DeliveryErrors, 1) }

// UpdateLatency обновляет среднее время доставки
func (m *Metrics) UpdateLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Простое скользящее среднее
	if m.AverageLatency == 0 {
		m.AverageLatency = d
	} else {
		m.AverageLatency = (m.AverageLatency + d) / 2
	}
}

// UpdateSurveyDuration обновляет среднее время заполнения анкеты
func (m *Metrics) UpdateSurveyDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AverageSurvey == 0 {
		m.AverageSurvey = d
	} else {
		m.AverageSurvey = (m.AverageSurvey + d) / 2
	}
}

// GetStats возвращает текущие метрики
func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"active_sessions":  atomic.LoadInt64(&m.ActiveSessions),
		"sessions_started": atomic.LoadInt64(&m.SessionsStarted),
		"steps_advanced":   atomic.LoadInt64(&m.StepsAdvanced),
		"steps_rejected":   atomic.LoadInt64(&m.StepsRejected),
		"submissions":      atomic.LoadInt64(&m.Submissions),
		"deliveries":       atomic.LoadInt64(&m.Deliveries),
		"delivery_errors":  atomic.LoadInt64(&m.DeliveryErrors),
		"average_latency":  m.AverageLatency.String(),
		"average_survey":   m.AverageSurvey.String(),
	}
}
