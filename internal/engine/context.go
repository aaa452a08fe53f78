package engine

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/shaiso/conveyor/internal/domain"
)

// ExecContext — контекст одного выполнения workflow.
//
// Создаётся на каждый вызов Execute и принадлежит engine'у на время
// выполнения. Несёт входные данные workflow, correlation ID и флаг
// кооперативной отмены. Handler'ы получают только read-only проекцию
// (View) и context.Context для отмены.
//
// Отмена монотонна: однажды взведённый флаг не снимается.
type ExecContext struct {
	correlationID uuid.UUID
	workflowID    string
	view          *domain.ExecView

	ctx    context.Context
	cancel context.CancelFunc

	cancelled atomic.Bool
}

// newExecContext создаёт контекст выполнения как потомка parent.
func newExecContext(parent context.Context, wf *domain.Workflow, inputs map[string]any) *ExecContext {
	correlationID := uuid.New()
	ctx, cancel := context.WithCancel(parent)

	return &ExecContext{
		correlationID: correlationID,
		workflowID:    wf.ID,
		view: &domain.ExecView{
			CorrelationID: correlationID,
			WorkflowID:    wf.ID,
			Inputs:        inputs,
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// CorrelationID возвращает идентификатор выполнения.
func (c *ExecContext) CorrelationID() uuid.UUID {
	return c.correlationID
}

// View возвращает read-only проекцию контекста для handler'ов.
func (c *ExecContext) View() *domain.ExecView {
	return c.view
}

// Context возвращает context.Context выполнения.
// Отменяется при Cancel или отмене родительского контекста.
func (c *ExecContext) Context() context.Context {
	return c.ctx
}

// Done возвращает канал, закрываемый при отмене выполнения.
func (c *ExecContext) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Cancel взводит флаг отмены и отменяет контекст выполнения.
// Повторные вызовы — no-op.
func (c *ExecContext) Cancel() {
	if c.cancelled.CompareAndSwap(false, true) {
		c.cancel()
	}
}

// Cancelled возвращает true, если выполнение отменено —
// явным Cancel или отменой родительского контекста.
func (c *ExecContext) Cancelled() bool {
	return c.cancelled.Load() || c.ctx.Err() != nil
}
