package handler

import (
	"context"

	"github.com/shaiso/conveyor/internal/domain"
)

// NoopHandler — handler для шага типа "noop".
//
// Ничего не делает и сразу возвращает пустые outputs.
// Используется как барьер синхронизации в DAG.
type NoopHandler struct{}

// NewNoopHandler создаёт NoopHandler.
func NewNoopHandler() *NoopHandler {
	return &NoopHandler{}
}

// Run возвращает пустой результат.
func (h *NoopHandler) Run(_ context.Context, _ *domain.ExecView, _ map[string]any) (*Result, error) {
	return &Result{Outputs: map[string]any{}}, nil
}
