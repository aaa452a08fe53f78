package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/conveyor/internal/domain"
)

func TestValidateCronExpr(t *testing.T) {
	valid := []string{
		"* * * * *",
		"*/5 * * * *",
		"0 12 * * 1-5",
	}
	for _, expr := range valid {
		if err := ValidateCronExpr(expr); err != nil {
			t.Errorf("%q should be valid: %v", expr, err)
		}
	}

	invalid := []string{
		"",
		"not a cron",
		"* * * *",
		"61 * * * *",
	}
	for _, expr := range invalid {
		if err := ValidateCronExpr(expr); err == nil {
			t.Errorf("%q should be invalid", expr)
		}
	}
}

func TestNextAfter(t *testing.T) {
	from := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	next, err := NextAfter("0 12 * * *", from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if !next.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, next)
	}
}

func TestNextAfter_InvalidExpr(t *testing.T) {
	if _, err := NextAfter("bogus", time.Now()); err == nil {
		t.Error("expected error for invalid expression")
	}
}

type fakeRunner struct {
	mu    sync.Mutex
	calls []string
}

func (r *fakeRunner) Execute(_ context.Context, wf *domain.Workflow, _ map[string]any) (*domain.WorkflowResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, wf.ID)
	r.mu.Unlock()
	return &domain.WorkflowResult{WorkflowID: wf.ID, Status: domain.WorkflowStatusSucceeded}, nil
}

func TestScheduler_AddValidation(t *testing.T) {
	sched := New(Config{Runner: &fakeRunner{}})

	wf := domain.Workflow{ID: "wf", Steps: []domain.Step{{ID: "a", Type: "noop"}}}

	if _, err := sched.Add("* * * * *", wf, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := sched.Add("bogus", wf, nil); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestScheduler_RemoveAndStop(t *testing.T) {
	sched := New(Config{Runner: &fakeRunner{}})

	wf := domain.Workflow{ID: "wf", Steps: []domain.Step{{ID: "a", Type: "noop"}}}
	id, err := sched.Add("* * * * *", wf, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sched.Remove(id)
	sched.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sched.Stop(ctx)
}
