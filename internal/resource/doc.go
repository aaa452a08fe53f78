// Package resource ограничивает потребление абстрактных единиц ресурсов
// параллельно выполняющимися шагами.
//
// Manager — учёт ёмкости и выдача токенов. Блокирующий Acquire обслуживает
// запросы строго в порядке поступления (FIFO), чтобы крупные запросы
// не голодали под постоянным потоком мелких. Сумма выданных единиц
// никогда не превышает общую ёмкость.
//
// Каждый Acquire обязан быть парным ровно одному Release — на стороне
// вызова это обеспечивается defer'ом сразу после успешного Acquire.
package resource
