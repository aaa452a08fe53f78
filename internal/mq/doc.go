// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений в очереди
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - workflow.submit    — запрос на выполнение workflow
//   - workflow.cancel    — запрос на отмену выполнения
//   - step.completed     — шаг завершён
//   - workflow.completed — выполнение workflow завершено
//
// Exchanges:
//   - conveyor.workflows — входящие запросы (submit, cancel)
//   - conveyor.events    — исходящие события выполнения
//   - conveyor.dlq       — dead letter queue
package mq
