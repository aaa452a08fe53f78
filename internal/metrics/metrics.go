package metrics

import (
	"sync"
	"time"

	"github.com/shaiso/conveyor/internal/domain"
)

// TypeStats — накопленные метрики для одного типа шага.
type TypeStats struct {
	// Invocations — всего завершений шагов этого типа.
	Invocations uint64

	// Successes — завершений со статусом SUCCEEDED.
	Successes uint64

	// Failures — завершений со статусом FAILED.
	Failures uint64

	// TotalDuration — суммарная продолжительность выполнений.
	TotalDuration time.Duration

	// MaxDuration — максимальная продолжительность одного выполнения.
	MaxDuration time.Duration
}

// Table — таблица метрик по типам шагов.
//
// Записи создаются лениво при первом наблюдении и живут до конца процесса.
// Observe вызывается только циклом планировщика engine'а; Snapshot —
// из любой горутины.
type Table struct {
	mu    sync.RWMutex
	types map[string]*TypeStats

	prom *promCollectors // nil, если Prometheus не подключён
}

// NewTable создаёт пустую таблицу метрик.
func NewTable() *Table {
	return &Table{
		types: make(map[string]*TypeStats),
	}
}

// Observe фиксирует завершение шага: инкремент счётчиков
// и обновление длительностей. Вызывается ровно один раз на завершение.
func (t *Table) Observe(stepType string, status domain.StepStatus, d time.Duration) {
	t.mu.Lock()

	stats, ok := t.types[stepType]
	if !ok {
		stats = &TypeStats{}
		t.types[stepType] = stats
	}

	stats.Invocations++
	switch status {
	case domain.StepStatusSucceeded:
		stats.Successes++
	case domain.StepStatusFailed:
		stats.Failures++
	}

	stats.TotalDuration += d
	if d > stats.MaxDuration {
		stats.MaxDuration = d
	}

	t.mu.Unlock()

	if t.prom != nil {
		t.prom.observe(stepType, status, d)
	}
}

// Snapshot возвращает копию таблицы (stepType → TypeStats).
func (t *Table) Snapshot() map[string]TypeStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := make(map[string]TypeStats, len(t.types))
	for stepType, stats := range t.types {
		snap[stepType] = *stats
	}
	return snap
}
