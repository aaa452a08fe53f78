// Package scheduler реализует периодический запуск workflow по расписанию.
//
// Scheduler держит набор записей (cron-выражение + workflow + inputs)
// и по срабатыванию расписания отдаёт workflow на выполнение Runner'у.
//
// Структура:
//   - scheduler.go — основная логика Scheduler (Add, Start, Stop)
//   - cron.go      — парсинг и валидация cron-выражений
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    Runner: eng,
//	    Logger: logger,
//	})
//
//	if _, err := sched.Add("*/5 * * * *", wf, nil); err != nil {
//	    logger.Error("failed to add schedule", "error", err)
//	}
//
//	sched.Start()
//	defer sched.Stop(ctx)
package scheduler
