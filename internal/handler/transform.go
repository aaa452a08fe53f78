package handler

import (
	"context"
	"fmt"

	"github.com/shaiso/conveyor/internal/domain"
)

// TransformHandler — handler для шага типа "transform".
//
// Проецирует входные данные workflow в outputs шага по маппингу —
// способ пробросить данные между шагами без собственной логики.
//
// Input:
//   - mapping (map[string]string): имя output → ключ во входных данных workflow
//
// Ключ, отсутствующий во входных данных, — логическая ошибка шага.
type TransformHandler struct{}

// NewTransformHandler создаёт TransformHandler.
func NewTransformHandler() *TransformHandler {
	return &TransformHandler{}
}

// Run выполняет проекцию.
func (h *TransformHandler) Run(_ context.Context, view *domain.ExecView, input map[string]any) (*Result, error) {
	rawMapping, ok := input["mapping"]
	if !ok {
		// Без маппинга — pass-through собственного input.
		outputs := input
		if outputs == nil {
			outputs = make(map[string]any)
		}
		return &Result{Outputs: outputs}, nil
	}

	mapping, ok := rawMapping.(map[string]any)
	if !ok {
		return &Result{Error: "mapping must be an object"}, nil
	}

	outputs := make(map[string]any, len(mapping))
	for outKey, rawSrc := range mapping {
		srcKey, ok := rawSrc.(string)
		if !ok {
			return &Result{Error: fmt.Sprintf("mapping value for %q must be a string", outKey)}, nil
		}

		val, ok := view.Inputs[srcKey]
		if !ok {
			return &Result{Error: fmt.Sprintf("workflow input %q not found", srcKey)}, nil
		}
		outputs[outKey] = val
	}

	return &Result{Outputs: outputs}, nil
}
