package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/shaiso/conveyor/internal/domain"
	"github.com/shaiso/conveyor/internal/engine"
	"github.com/shaiso/conveyor/internal/scheduler"
)

// scheduleEntry — одна запись в файле расписаний.
type scheduleEntry struct {
	Cron     string          `json:"cron"`
	Workflow domain.Workflow `json:"workflow"`
	Inputs   map[string]any  `json:"inputs,omitempty"`
}

// setupScheduler читает файл расписаний (переменная SCHEDULES_FILE)
// и запускает Scheduler. Возвращает nil, если файл не задан.
func setupScheduler(eng *engine.Engine, logger *slog.Logger) (*scheduler.Scheduler, error) {
	path := os.Getenv("SCHEDULES_FILE")
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedules file: %w", err)
	}

	var entries []scheduleEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse schedules file: %w", err)
	}

	sched := scheduler.New(scheduler.Config{
		Runner: eng,
		Logger: logger,
	})

	for i, e := range entries {
		if err := scheduler.ValidateCronExpr(e.Cron); err != nil {
			return nil, fmt.Errorf("schedule %d: %w", i, err)
		}
		if _, err := sched.Add(e.Cron, e.Workflow, e.Inputs); err != nil {
			return nil, fmt.Errorf("schedule %d (%s): %w", i, e.Workflow.ID, err)
		}
	}

	sched.Start()
	return sched, nil
}
