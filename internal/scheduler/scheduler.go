package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/shaiso/conveyor/internal/domain"
)

// Runner запускает выполнение workflow.
// Реализуется engine.Engine.
type Runner interface {
	Execute(ctx context.Context, wf *domain.Workflow, inputs map[string]any) (*domain.WorkflowResult, error)
}

// Scheduler запускает workflow по cron-расписанию.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	logger *slog.Logger
}

// Config — конфигурация Scheduler.
type Config struct {
	Runner Runner
	Logger *slog.Logger
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:   cron.New(cron.WithParser(cronParser)),
		runner: cfg.Runner,
		logger: logger,
	}
}

// Add регистрирует workflow для периодического запуска.
// Возвращает ID записи для последующего Remove.
func (s *Scheduler) Add(cronExpr string, wf domain.Workflow, inputs map[string]any) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(cronExpr, func() {
		s.trigger(wf, inputs)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("schedule added",
		"entry_id", id,
		"workflow_id", wf.ID,
		"cron", cronExpr,
	)

	return id, nil
}

// Remove удаляет запись расписания.
func (s *Scheduler) Remove(id cron.EntryID) {
	s.cron.Remove(id)
}

// Start запускает расписания. Каждое срабатывание выполняется
// в собственной горутине (стандартное поведение cron).
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "entries", len(s.cron.Entries()))
}

// Stop останавливает расписания и дожидается завершения
// уже запущенных выполнений (либо истечения ctx).
func (s *Scheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

// trigger — одно срабатывание расписания.
func (s *Scheduler) trigger(wf domain.Workflow, inputs map[string]any) {
	s.logger.Info("scheduled workflow triggered", "workflow_id", wf.ID)

	res, err := s.runner.Execute(context.Background(), &wf, inputs)
	if err != nil {
		s.logger.Error("scheduled workflow rejected",
			"workflow_id", wf.ID,
			"error", err,
		)
		return
	}

	s.logger.Info("scheduled workflow finished",
		"workflow_id", wf.ID,
		"correlation_id", res.CorrelationID,
		"status", res.Status,
	)
}
