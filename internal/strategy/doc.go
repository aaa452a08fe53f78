// Package strategy решает, какие готовые шаги отправить на выполнение
// в текущем раунде планирования и с какой степенью параллелизма.
//
// Стратегия — чистая функция без состояния: engine вызывает её заново
// после каждого завершения шага, передавая актуальный набор готовых
// шагов и снимок ресурсов.
package strategy
