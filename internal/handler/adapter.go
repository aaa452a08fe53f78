package handler

import (
	"context"
	"fmt"

	"github.com/shaiso/conveyor/internal/domain"
)

// LegacyHandler — контракт исполнителей до перехода на Handler.
//
// Старый контракт не знал про ExecView и категории ошибок:
// исполнитель получал только payload и возвращал outputs либо error.
type LegacyHandler interface {
	Execute(ctx context.Context, payload map[string]any) (map[string]any, error)
}

// Adapt оборачивает LegacyHandler в стандартный контракт Handler.
//
// Адаптер — единственное место, где ошибки legacy-контракта переводятся
// в стандартную таксономию: error и паника исполнителя становятся
// логическим Result с Kind=ADAPTED_ERROR, а не инфраструктурной ошибкой.
func Adapt(legacy LegacyHandler) Handler {
	return &legacyAdapter{legacy: legacy}
}

type legacyAdapter struct {
	legacy LegacyHandler
}

func (a *legacyAdapter) Run(ctx context.Context, _ *domain.ExecView, input map[string]any) (res *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res = &Result{
				Error: fmt.Sprintf("legacy handler panic: %v", rec),
				Kind:  domain.ErrorKindAdapted,
			}
			err = nil
		}
	}()

	outputs, legacyErr := a.legacy.Execute(ctx, input)
	if legacyErr != nil {
		return &Result{
			Error: legacyErr.Error(),
			Kind:  domain.ErrorKindAdapted,
		}, nil
	}

	return &Result{Outputs: outputs}, nil
}

// LegacyFunc — адаптер функции под LegacyHandler.
type LegacyFunc func(ctx context.Context, payload map[string]any) (map[string]any, error)

// Execute вызывает f.
func (f LegacyFunc) Execute(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return f(ctx, payload)
}
