// Package domain содержит основные типы данных Conveyor.
//
// Включает:
//   - workflow.go — Workflow и Step (DAG единиц работы)
//   - status.go   — статусы шагов и выполнений
//   - result.go   — неизменяемые результаты выполнения
//   - view.go     — read-only представление контекста для handler'ов
//
// Типы domain не содержат бизнес-логики выполнения — только данные
// и простые методы над ними. Логика живёт в engine, resource и strategy.
package domain
