package domain

// StepStatus — статус выполнения шага.
//
// Жизненный цикл:
//
//	PENDING → READY → RUNNING → SUCCEEDED
//	                          ↘ FAILED
//	        (или) → CANCELLED (отмена или падение зависимости; шаг не выполнялся)
type StepStatus string

const (
	// StepStatusPending — шаг ожидает выполнения зависимостей.
	StepStatusPending StepStatus = "PENDING"

	// StepStatusReady — все зависимости успешно завершены, шаг готов к запуску.
	StepStatusReady StepStatus = "READY"

	// StepStatusRunning — шаг отправлен на выполнение.
	StepStatusRunning StepStatus = "RUNNING"

	// StepStatusSucceeded — шаг успешно завершён.
	StepStatusSucceeded StepStatus = "SUCCEEDED"

	// StepStatusFailed — шаг завершился с ошибкой.
	StepStatusFailed StepStatus = "FAILED"

	// StepStatusCancelled — шаг отменён: workflow отменён
	// или упала одна из зависимостей.
	StepStatusCancelled StepStatus = "CANCELLED"
)

// IsTerminal возвращает true, если статус финальный.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StepStatusSucceeded, StepStatusFailed, StepStatusCancelled:
		return true
	default:
		return false
	}
}

// WorkflowStatus — агрегированный статус выполнения workflow.
//
// Жизненный цикл:
//
//	RUNNING → SUCCEEDED
//	        ↘ FAILED (хотя бы один шаг упал)
//	        ↘ CANCELLED (выполнение отменено)
type WorkflowStatus string

const (
	// WorkflowStatusRunning — выполнение в процессе.
	WorkflowStatusRunning WorkflowStatus = "RUNNING"

	// WorkflowStatusSucceeded — все шаги успешно завершены.
	WorkflowStatusSucceeded WorkflowStatus = "SUCCEEDED"

	// WorkflowStatusFailed — хотя бы один шаг завершился с ошибкой.
	WorkflowStatusFailed WorkflowStatus = "FAILED"

	// WorkflowStatusCancelled — выполнение отменено.
	WorkflowStatusCancelled WorkflowStatus = "CANCELLED"
)

// IsTerminal возвращает true, если статус финальный.
func (s WorkflowStatus) IsTerminal() bool {
	switch s {
	case WorkflowStatusSucceeded, WorkflowStatusFailed, WorkflowStatusCancelled:
		return true
	default:
		return false
	}
}
