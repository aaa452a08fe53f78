package domain

import "github.com/google/uuid"

// ExecView — read-only представление контекста выполнения для handler'ов.
//
// Engine владеет полным контекстом выполнения (cancellation, статусы шагов);
// handler получает только эту проекцию. Handler не должен мутировать Inputs —
// map разделяется всеми шагами workflow.
type ExecView struct {
	// CorrelationID — идентификатор выполнения.
	CorrelationID uuid.UUID

	// WorkflowID — ID выполняемого workflow.
	WorkflowID string

	// Inputs — входные данные workflow, общие для всех шагов.
	Inputs map[string]any
}
