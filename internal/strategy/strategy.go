package strategy

import (
	"sort"

	"github.com/shaiso/conveyor/internal/resource"
)

// Candidate — готовый к выполнению шаг с точки зрения планировщика.
type Candidate struct {
	// StepID — ID шага.
	StepID string

	// Cost — стоимость шага в единицах ресурсов (>= 1).
	Cost int64

	// Downstream — количество транзитивных зависимых шагов.
	// Шаги с большим Downstream запускаются первыми: их завершение
	// разблокирует наибольшую часть графа.
	Downstream int
}

// Plan — результат одного раунда планирования.
type Plan struct {
	// Dispatch — шаги для отправки на выполнение в этом раунде.
	// Суммарная стоимость не превышает доступную ёмкость из снимка.
	Dispatch []string

	// Unsatisfiable — шаги, чья стоимость превышает общую ёмкость.
	// Такие шаги невыполнимы в принципе и должны упасть сразу,
	// не блокируя выполнение.
	Unsatisfiable []string
}

// Compute выбирает максимальный по жадному критерию набор готовых шагов,
// умещающийся в доступную ёмкость.
//
// Порядок рассмотрения: сначала шаги с наибольшим Downstream,
// при равенстве — по StepID (для детерминированности планов).
// Шаг, не уместившийся в остаток, пропускается — следующие по приоритету
// ещё могут уместиться.
func Compute(ready []Candidate, snap resource.Snapshot) Plan {
	if len(ready) == 0 {
		return Plan{}
	}

	ordered := make([]Candidate, len(ready))
	copy(ordered, ready)

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Downstream != ordered[j].Downstream {
			return ordered[i].Downstream > ordered[j].Downstream
		}
		return ordered[i].StepID < ordered[j].StepID
	})

	var plan Plan
	available := snap.Available

	for _, c := range ordered {
		if c.Cost > snap.Capacity {
			plan.Unsatisfiable = append(plan.Unsatisfiable, c.StepID)
			continue
		}

		if c.Cost <= available {
			plan.Dispatch = append(plan.Dispatch, c.StepID)
			available -= c.Cost
		}
	}

	return plan
}
