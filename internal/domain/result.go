package domain

import (
	"time"

	"github.com/google/uuid"
)

// ErrorKind — категория ошибки выполнения шага.
type ErrorKind string

const (
	// ErrorKindHandler — handler вернул ошибку штатно.
	ErrorKindHandler ErrorKind = "HANDLER_ERROR"

	// ErrorKindAdapted — ошибка legacy handler'а, переведённая адаптером.
	ErrorKindAdapted ErrorKind = "ADAPTED_ERROR"

	// ErrorKindPanic — вызов handler'а завершился паникой.
	ErrorKindPanic ErrorKind = "HANDLER_PANIC"

	// ErrorKindCancelled — шаг не выполнялся или был прерван:
	// workflow отменён либо упала зависимость.
	ErrorKindCancelled ErrorKind = "CANCELLED"

	// ErrorKindResourceUnsatisfiable — стоимость шага превышает
	// общую ёмкость resource.Manager, шаг невыполним в принципе.
	ErrorKindResourceUnsatisfiable ErrorKind = "RESOURCE_UNSATISFIABLE"

	// ErrorKindUnknownHandler — для типа шага не зарегистрирован handler.
	ErrorKindUnknownHandler ErrorKind = "UNKNOWN_HANDLER"
)

// ErrorDetail — детали ошибки в результате шага.
type ErrorDetail struct {
	// Kind — категория ошибки.
	Kind ErrorKind `json:"kind"`

	// Message — текст ошибки.
	Message string `json:"message"`
}

// StepResult — неизменяемый результат выполнения одного шага.
//
// Создаётся engine'ом при завершении шага и после этого не мутируется.
// Handler'ы не имеют доступа к результатам чужих шагов.
type StepResult struct {
	// StepID — ID шага из Workflow.
	StepID string `json:"step_id"`

	// StepType — тип handler'а (для метрик и событий).
	StepType string `json:"step_type"`

	// Status — финальный статус: SUCCEEDED, FAILED или CANCELLED.
	Status StepStatus `json:"status"`

	// Outputs — выходные данные handler'а (только при SUCCEEDED).
	Outputs map[string]any `json:"outputs,omitempty"`

	// Error — детали ошибки (только при FAILED и CANCELLED).
	Error *ErrorDetail `json:"error,omitempty"`

	// StartedAt — время начала выполнения.
	// Nil, если шаг не запускался (отменён до старта).
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Duration возвращает продолжительность выполнения шага.
// Возвращает 0, если шаг не запускался.
func (r *StepResult) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// WorkflowResult — агрегированный результат выполнения workflow.
//
// Собирается engine'ом из результатов шагов:
// FAILED, если хотя бы один шаг упал; CANCELLED, если выполнение
// отменено; иначе SUCCEEDED.
type WorkflowResult struct {
	// CorrelationID — идентификатор этого выполнения.
	// Группирует результаты, метрики и события; используется в Cancel.
	CorrelationID uuid.UUID `json:"correlation_id"`

	// WorkflowID — ID выполненного workflow.
	WorkflowID string `json:"workflow_id"`

	// Status — агрегированный статус.
	Status WorkflowStatus `json:"status"`

	// Steps — результаты всех шагов (stepID → StepResult).
	Steps map[string]*StepResult `json:"steps"`

	// StartedAt — время начала выполнения workflow.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt — время завершения.
	FinishedAt time.Time `json:"finished_at"`
}

// Duration возвращает продолжительность выполнения workflow.
func (r *WorkflowResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// FailedSteps возвращает ID шагов со статусом FAILED.
func (r *WorkflowResult) FailedSteps() []string {
	return r.stepsWithStatus(StepStatusFailed)
}

// CancelledSteps возвращает ID шагов со статусом CANCELLED.
func (r *WorkflowResult) CancelledSteps() []string {
	return r.stepsWithStatus(StepStatusCancelled)
}

func (r *WorkflowResult) stepsWithStatus(status StepStatus) []string {
	var ids []string
	for id, sr := range r.Steps {
		if sr.Status == status {
			ids = append(ids, id)
		}
	}
	return ids
}
