package handler

import (
	"context"
	"time"

	"github.com/shaiso/conveyor/internal/domain"
)

// DelayHandler — handler для шага типа "delay".
//
// Ожидает указанное время. Поддерживает кооперативную отмену через context.
//
// Input:
//   - duration_ms (number): длительность задержки в миллисекундах (default: 1000)
type DelayHandler struct{}

// NewDelayHandler создаёт DelayHandler.
func NewDelayHandler() *DelayHandler {
	return &DelayHandler{}
}

// Run выполняет задержку.
func (h *DelayHandler) Run(ctx context.Context, _ *domain.ExecView, input map[string]any) (*Result, error) {
	durationMs := 1000.0
	if val, ok := input["duration_ms"]; ok {
		switch v := val.(type) {
		case float64:
			durationMs = v
		case int:
			durationMs = float64(v)
		case int64:
			durationMs = float64(v)
		}
	}

	if durationMs <= 0 {
		durationMs = 1000
	}

	duration := time.Duration(durationMs * float64(time.Millisecond))

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return &Result{
			Outputs: map[string]any{"delayed_ms": durationMs},
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
