package handler

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry — реестр handler'ов по типу шага.
//
// На один тип шага регистрируется не более одной фабрики.
// Повторная регистрация отклоняется с ErrDuplicateHandler;
// при AllowOverride=true вторая регистрация заменяет первую,
// и замена фиксируется в логе.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory

	allowOverride bool
	logger        *slog.Logger
}

// RegistryConfig — конфигурация Registry.
type RegistryConfig struct {
	// AllowOverride — разрешить замену уже зарегистрированных handler'ов.
	AllowOverride bool

	// Logger (опционально; если nil — slog.Default()).
	Logger *slog.Logger
}

// NewRegistry создаёт пустой Registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		factories:     make(map[string]Factory),
		allowOverride: cfg.AllowOverride,
		logger:        logger,
	}
}

// Register регистрирует фабрику handler'а для типа шага.
//
// Возвращает ErrDuplicateHandler, если тип уже занят и override выключен.
func (r *Registry) Register(stepType string, factory Factory) error {
	if stepType == "" {
		return ErrEmptyStepType
	}
	if factory == nil {
		return ErrNilFactory
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[stepType]; exists {
		if !r.allowOverride {
			return fmt.Errorf("%w: %s", ErrDuplicateHandler, stepType)
		}
		r.logger.Info("handler overridden", "step_type", stepType)
	} else {
		r.logger.Debug("handler registered", "step_type", stepType)
	}

	r.factories[stepType] = factory
	return nil
}

// Resolve возвращает handler для типа шага.
//
// Возвращает ErrUnknownHandler, если тип не зарегистрирован.
func (r *Registry) Resolve(stepType string) (Handler, error) {
	r.mu.RLock()
	factory, ok := r.factories[stepType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandler, stepType)
	}
	return factory(), nil
}

// Types возвращает список зарегистрированных типов шагов.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	return types
}
