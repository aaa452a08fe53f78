// Package metrics агрегирует метрики выполнения по типам шагов.
//
// Table — внутренняя таблица счётчиков, мутируемая только циклом
// планировщика engine'а (одна точка сериализации). Snapshot отдаёт
// копию таблицы и не блокирует engine дольше, чем на время копирования.
//
// Опционально таблица зеркалирует наблюдения в Prometheus-коллекторы
// для внешнего scraping через /metrics.
package metrics
