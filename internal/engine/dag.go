package engine

import (
	"github.com/shaiso/conveyor/internal/domain"
)

// Node — узел в DAG.
type Node struct {
	// Step — определение шага из Workflow.
	Step *domain.Step

	// ID — идентификатор узла (совпадает со Step.ID).
	ID string

	// InDegree — количество входящих рёбер (зависимостей).
	InDegree int

	// DependsOn — узлы, от которых зависит этот узел.
	DependsOn []*Node

	// Dependents — узлы, которые зависят от этого узла.
	Dependents []*Node

	// Downstream — количество транзитивных зависимых узлов.
	// Используется стратегией планирования: завершение узла
	// с большим Downstream разблокирует больше шагов.
	Downstream int
}

// DAG — направленный ациклический граф шагов workflow.
type DAG struct {
	// Nodes — все узлы графа (stepID → Node).
	Nodes map[string]*Node

	// Roots — узлы без зависимостей (точки входа).
	Roots []*Node

	// Order — топологически отсортированный список узлов.
	Order []*Node
}

// BuildDAG валидирует Workflow и строит DAG.
//
// Возвращает ошибку валидации или ErrCyclicDependency, если
// зависимости содержат цикл.
func BuildDAG(wf *domain.Workflow) (*DAG, error) {
	if err := Validate(wf); err != nil {
		return nil, err
	}

	dag := &DAG{
		Nodes: make(map[string]*Node, len(wf.Steps)),
	}

	// Первый проход: создаём все узлы.
	for i := range wf.Steps {
		step := &wf.Steps[i]
		dag.Nodes[step.ID] = &Node{
			Step: step,
			ID:   step.ID,
		}
	}

	// Второй проход: связываем узлы по зависимостям.
	for i := range wf.Steps {
		step := &wf.Steps[i]
		node := dag.Nodes[step.ID]

		for _, depID := range step.DependsOn {
			dag.addEdge(dag.Nodes[depID], node)
		}
	}

	dag.findRoots()

	// Проверяем на циклы и строим топологический порядок.
	order, err := dag.topologicalSort()
	if err != nil {
		return nil, err
	}
	dag.Order = order

	dag.countDownstream()

	return dag, nil
}

// addEdge добавляет ребро между узлами.
// Дубликаты рёбер игнорируются, чтобы не задваивать InDegree.
func (d *DAG) addEdge(from, to *Node) {
	for _, dep := range to.DependsOn {
		if dep.ID == from.ID {
			return // уже связаны
		}
	}
	from.Dependents = append(from.Dependents, to)
	to.DependsOn = append(to.DependsOn, from)
	to.InDegree++
}

// findRoots находит узлы без входящих рёбер.
func (d *DAG) findRoots() {
	d.Roots = make([]*Node, 0)
	for _, node := range d.Nodes {
		if node.InDegree == 0 {
			d.Roots = append(d.Roots, node)
		}
	}
}

// topologicalSort выполняет топологическую сортировку (алгоритм Кана).
// Возвращает ошибку, если обнаружен цикл.
func (d *DAG) topologicalSort() ([]*Node, error) {
	inDegree := make(map[string]int, len(d.Nodes))
	for id, node := range d.Nodes {
		inDegree[id] = node.InDegree
	}

	queue := make([]*Node, len(d.Roots))
	copy(queue, d.Roots)

	order := make([]*Node, 0, len(d.Nodes))

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, dependent := range node.Dependents {
			inDegree[dependent.ID]--
			if inDegree[dependent.ID] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	// Если не все узлы обработаны — есть цикл.
	if len(order) != len(d.Nodes) {
		return nil, ErrCyclicDependency
	}

	return order, nil
}

// countDownstream вычисляет количество транзитивных зависимых
// для каждого узла. Обход в обратном топологическом порядке:
// множество потомков узла — объединение потомков его зависимых.
func (d *DAG) countDownstream() {
	descendants := make(map[string]map[string]struct{}, len(d.Order))

	for i := len(d.Order) - 1; i >= 0; i-- {
		node := d.Order[i]

		set := make(map[string]struct{})
		for _, dep := range node.Dependents {
			set[dep.ID] = struct{}{}
			for id := range descendants[dep.ID] {
				set[id] = struct{}{}
			}
		}

		descendants[node.ID] = set
		node.Downstream = len(set)
	}
}

// GetNode возвращает узел по ID.
func (d *DAG) GetNode(id string) *Node {
	return d.Nodes[id]
}

// Size возвращает количество узлов в DAG.
func (d *DAG) Size() int {
	return len(d.Nodes)
}
