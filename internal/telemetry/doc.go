// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает structured logging через slog с единым форматом
// для всех компонентов. Prometheus-метрики выполнения шагов
// живут в пакете metrics и экспортируются на /metrics endpoint.
package telemetry
