// Package handler определяет контракт исполнителя шага и реестр handler'ов.
//
// Включает:
//   - handler.go   — интерфейс Handler, Func и Result
//   - registry.go  — Registry: stepType → фабрика handler'а
//   - adapter.go   — Adapt для legacy-контракта исполнителей
//   - delay.go, transform.go, noop.go — встроенные handler'ы
//
// Handler'ы регистрируются внешними модулями при старте процесса
// и вызываются engine'ом конкурентно: реализация не должна разделять
// мутируемое состояние между вызовами без собственной синхронизации.
package handler
