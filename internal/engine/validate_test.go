package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/conveyor/internal/domain"
)

func TestValidate_EmptyWorkflow(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrEmptySteps) {
		t.Errorf("expected ErrEmptySteps for nil workflow, got %v", err)
	}

	wf := &domain.Workflow{ID: "wf", Steps: []domain.Step{}}
	if err := Validate(wf); !errors.Is(err, ErrEmptySteps) {
		t.Errorf("expected ErrEmptySteps, got %v", err)
	}
}

func TestValidate_EmptyStepID(t *testing.T) {
	wf := &domain.Workflow{
		ID:    "wf",
		Steps: []domain.Step{{ID: "", Type: "noop"}},
	}

	if err := Validate(wf); !errors.Is(err, ErrEmptyStepID) {
		t.Errorf("expected ErrEmptyStepID, got %v", err)
	}
}

func TestValidate_DuplicateStepID(t *testing.T) {
	wf := &domain.Workflow{
		ID: "wf",
		Steps: []domain.Step{
			{ID: "a", Type: "noop"},
			{ID: "a", Type: "noop"},
		},
	}

	if err := Validate(wf); !errors.Is(err, ErrDuplicateStepID) {
		t.Errorf("expected ErrDuplicateStepID, got %v", err)
	}
}

func TestValidate_EmptyStepType(t *testing.T) {
	wf := &domain.Workflow{
		ID:    "wf",
		Steps: []domain.Step{{ID: "a", Type: ""}},
	}

	if err := Validate(wf); !errors.Is(err, ErrEmptyStepType) {
		t.Errorf("expected ErrEmptyStepType, got %v", err)
	}
}

func TestValidate_SelfDependency(t *testing.T) {
	wf := &domain.Workflow{
		ID:    "wf",
		Steps: []domain.Step{{ID: "a", Type: "noop", DependsOn: []string{"a"}}},
	}

	if err := Validate(wf); !errors.Is(err, ErrSelfDependency) {
		t.Errorf("expected ErrSelfDependency, got %v", err)
	}
}

func TestValidate_MissingDependency(t *testing.T) {
	wf := &domain.Workflow{
		ID:    "wf",
		Steps: []domain.Step{{ID: "a", Type: "noop", DependsOn: []string{"ghost"}}},
	}

	err := Validate(wf)
	if !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("expected ErrMissingDependency, got %v", err)
	}

	// The validation error must point to the offending step.
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatal("expected *ValidationError")
	}
	if verr.StepID != "a" {
		t.Errorf("expected step a, got %s", verr.StepID)
	}
}

func TestValidate_Valid(t *testing.T) {
	wf := &domain.Workflow{
		ID: "wf",
		Steps: []domain.Step{
			{ID: "a", Type: "noop"},
			{ID: "b", Type: "noop", DependsOn: []string{"a"}},
		},
	}

	if err := Validate(wf); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
