package domain

// Workflow — направленный ациклический граф шагов.
//
// Workflow поставляется внешним оркестрирующим компонентом (API, scheduler,
// очередь). Engine валидирует граф перед выполнением: уникальность ID,
// существование зависимостей, отсутствие циклов.
type Workflow struct {
	// ID — идентификатор workflow (например, "sync-orders").
	ID string `json:"id"`

	// Name — человекочитаемое имя.
	Name string `json:"name,omitempty"`

	// Steps — шаги для выполнения.
	Steps []Step `json:"steps"`
}

// Step — единица работы внутри workflow.
//
// Шаг привязан к типу handler'а (Type) и начинает выполнение только
// после успешного завершения всех шагов из DependsOn.
type Step struct {
	// ID — уникальный идентификатор шага в рамках workflow.
	// Используется в depends_on и в результатах.
	ID string `json:"id"`

	// Name — человекочитаемое имя шага.
	Name string `json:"name,omitempty"`

	// Type — тип handler'а: "delay", "transform" или зарегистрированный
	// внешним модулем тип.
	Type string `json:"type"`

	// Input — входные данные шага. Engine передаёт их handler'у как есть,
	// формат определяется handler'ом.
	Input map[string]any `json:"input,omitempty"`

	// DependsOn — список ID шагов, от которых зависит этот шаг.
	DependsOn []string `json:"depends_on,omitempty"`

	// Cost — стоимость шага в абстрактных единицах ресурсов.
	// Ограничивает параллелизм через resource.Manager.
	// Значение <= 0 трактуется как 1 (см. ResourceCost).
	Cost int64 `json:"cost,omitempty"`
}

// ResourceCost возвращает стоимость шага в единицах ресурсов.
// Для неуказанной или некорректной стоимости возвращает 1.
func (s *Step) ResourceCost() int64 {
	if s.Cost <= 0 {
		return 1
	}
	return s.Cost
}
