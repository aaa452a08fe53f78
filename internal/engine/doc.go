// Package engine содержит движок параллельного выполнения workflow.
//
// Включает:
//   - dag.go      — построение и обход DAG (directed acyclic graph)
//   - validate.go — валидация Workflow перед выполнением
//   - context.go  — контекст выполнения и кооперативная отмена
//   - engine.go   — Engine: цикл планирования и выполнение шагов
//
// Модель конкурентности: на каждый отправленный шаг запускается
// worker-горутина, но статусы шагов, состояние зависимостей и метрики
// мутирует только цикл планировщика — единственный логический поток
// управления. Worker'ы общаются с ним через канал завершений.
package engine
