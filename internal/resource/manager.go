package resource

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Manager — менеджер абстрактных единиц ресурсов.
//
// Оборачивает взвешенный FIFO-семафор и добавляет:
//   - отказ для заведомо невыполнимых запросов (units > capacity)
//   - токены с гарантией ровно одного Release
//   - снимок текущего состояния для планировщика и наблюдаемости
//
// Все методы потокобезопасны. Один Manager может разделяться
// несколькими параллельными выполнениями workflow.
type Manager struct {
	capacity int64
	sem      *semaphore.Weighted

	mu        sync.Mutex
	allocated int64
	waiting   int
}

// NewManager создаёт Manager с указанной ёмкостью.
func NewManager(capacity int64) (*Manager, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Manager{
		capacity: capacity,
		sem:      semaphore.NewWeighted(capacity),
	}, nil
}

// Token — подтверждение выделения единиц ресурсов.
//
// Token возвращается в Manager ровно один раз через Release;
// повторные Release игнорируются.
type Token struct {
	units int64
	once  sync.Once
}

// Units возвращает количество единиц, закреплённых за токеном.
func (t *Token) Units() int64 {
	return t.units
}

// Acquire блокирует вызывающего до появления units свободных единиц
// и возвращает токен. Запросы обслуживаются в порядке поступления.
//
// Возвращает ErrUnsatisfiable, если units превышает общую ёмкость,
// ErrInvalidUnits для units <= 0 и ошибку контекста при отмене ожидания.
func (m *Manager) Acquire(ctx context.Context, units int64) (*Token, error) {
	if units <= 0 {
		return nil, ErrInvalidUnits
	}
	if units > m.capacity {
		return nil, ErrUnsatisfiable
	}

	m.mu.Lock()
	m.waiting++
	m.mu.Unlock()

	err := m.sem.Acquire(ctx, units)

	m.mu.Lock()
	m.waiting--
	if err == nil {
		m.allocated += units
	}
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &Token{units: units}, nil
}

// Release возвращает единицы токена в Manager.
// Повторный Release того же токена — no-op.
func (m *Manager) Release(t *Token) {
	if t == nil {
		return
	}
	t.once.Do(func() {
		m.mu.Lock()
		m.allocated -= t.units
		m.mu.Unlock()
		m.sem.Release(t.units)
	})
}

// Capacity возвращает общую ёмкость.
func (m *Manager) Capacity() int64 {
	return m.capacity
}

// Snapshot — снимок состояния Manager на момент вызова.
type Snapshot struct {
	// Capacity — общая ёмкость.
	Capacity int64

	// Allocated — выделено на данный момент.
	Allocated int64

	// Available — свободно на данный момент.
	Available int64

	// Waiting — количество заблокированных Acquire.
	Waiting int
}

// Snapshot возвращает снимок текущего состояния.
//
// Снимок консистентен на момент взятия, но может устареть сразу после —
// планировщик использует его как подсказку, жёсткий инвариант ёмкости
// обеспечивает сам семафор.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		Capacity:  m.capacity,
		Allocated: m.allocated,
		Available: m.capacity - m.allocated,
		Waiting:   m.waiting,
	}
}
