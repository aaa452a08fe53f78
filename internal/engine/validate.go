package engine

import (
	"fmt"

	"github.com/shaiso/conveyor/internal/domain"
)

// Validate выполняет полную валидацию Workflow.
//
// Проверяет:
//   - наличие шагов
//   - непустые и уникальные ID шагов
//   - непустые типы шагов
//   - валидность зависимостей (depends_on)
//
// Отсутствие циклов проверяется при построении DAG (делегируется BuildDAG).
// Существование handler'а для типа шага проверяется при диспетчеризации —
// набор зарегистрированных типов динамический.
func Validate(wf *domain.Workflow) error {
	if wf == nil || len(wf.Steps) == 0 {
		return ErrEmptySteps
	}

	stepIDs := make(map[string]bool, len(wf.Steps))

	for i := range wf.Steps {
		step := &wf.Steps[i]

		if step.ID == "" {
			return NewValidationError("", "id", "step has empty ID", ErrEmptyStepID)
		}

		if stepIDs[step.ID] {
			return NewValidationError(step.ID, "id",
				fmt.Sprintf("duplicate step ID: %s", step.ID), ErrDuplicateStepID)
		}
		stepIDs[step.ID] = true

		if step.Type == "" {
			return NewValidationError(step.ID, "type", "step has empty type", ErrEmptyStepType)
		}

		for _, dep := range step.DependsOn {
			if dep == step.ID {
				return NewValidationError(step.ID, "depends_on",
					"step depends on itself", ErrSelfDependency)
			}
		}
	}

	// Все depends_on должны ссылаться на существующие шаги.
	for i := range wf.Steps {
		step := &wf.Steps[i]

		for _, dep := range step.DependsOn {
			if !stepIDs[dep] {
				return NewValidationError(step.ID, "depends_on",
					fmt.Sprintf("depends on unknown step: %s", dep), ErrMissingDependency)
			}
		}
	}

	return nil
}
