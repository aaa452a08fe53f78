package handler

import (
	"context"

	"github.com/shaiso/conveyor/internal/domain"
)

// Handler — исполнитель шага одного типа.
//
// Run должен быть безопасен для конкурентного вызова с другими
// вызовами Run (engine выполняет независимые шаги параллельно).
//
// Два уровня ошибок (как у worker executor'ов в ранних версиях):
//   - логическая: Result.Error непустой — шаг завершился с FAILED,
//     но сам вызов прошёл штатно;
//   - инфраструктурная: возвращённый error — вызов не удался.
//
// Оба случая engine переводит в StepResult со статусом FAILED;
// паника внутри Run перехватывается engine'ом отдельно.
type Handler interface {
	Run(ctx context.Context, view *domain.ExecView, input map[string]any) (*Result, error)
}

// Result — результат вызова handler'а.
type Result struct {
	// Outputs — выходные данные шага.
	Outputs map[string]any

	// Error — сообщение о логической ошибке выполнения.
	Error string

	// Kind — категория ошибки. Пустое значение трактуется engine'ом
	// как domain.ErrorKindHandler. Заполняется адаптером legacy handler'ов.
	Kind domain.ErrorKind
}

// Func — адаптер, позволяющий использовать функцию как Handler.
type Func func(ctx context.Context, view *domain.ExecView, input map[string]any) (*Result, error)

// Run вызывает f.
func (f Func) Run(ctx context.Context, view *domain.ExecView, input map[string]any) (*Result, error) {
	return f(ctx, view, input)
}

// Factory — фабрика handler'ов. Resolve вызывает фабрику
// на каждое обращение, поэтому каждый шаг получает свежий экземпляр.
type Factory func() Handler

// Static возвращает фабрику, всегда отдающую один и тот же handler.
// Подходит для stateless handler'ов.
func Static(h Handler) Factory {
	return func() Handler { return h }
}
