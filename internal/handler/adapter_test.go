package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/shaiso/conveyor/internal/domain"
)

func TestAdapt_Success(t *testing.T) {
	legacy := LegacyFunc(func(_ context.Context, payload map[string]any) (map[string]any, error) {
		return map[string]any{"echo": payload["msg"]}, nil
	})

	h := Adapt(legacy)
	res, err := h.Run(context.Background(), nil, map[string]any{"msg": "hi"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Error != "" {
		t.Errorf("unexpected logical error: %s", res.Error)
	}
	if res.Outputs["echo"] != "hi" {
		t.Errorf("unexpected outputs: %v", res.Outputs)
	}
}

func TestAdapt_ErrorBecomesAdapted(t *testing.T) {
	legacy := LegacyFunc(func(_ context.Context, _ map[string]any) (map[string]any, error) {
		return nil, errors.New("connection refused")
	})

	h := Adapt(legacy)
	res, err := h.Run(context.Background(), nil, nil)

	// The legacy error must become a logical result, not a call error.
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != domain.ErrorKindAdapted {
		t.Errorf("expected ADAPTED_ERROR, got %s", res.Kind)
	}
	if res.Error != "connection refused" {
		t.Errorf("unexpected error message: %s", res.Error)
	}
}

func TestAdapt_PanicBecomesAdapted(t *testing.T) {
	legacy := LegacyFunc(func(_ context.Context, _ map[string]any) (map[string]any, error) {
		panic("nil map write")
	})

	h := Adapt(legacy)
	res, err := h.Run(context.Background(), nil, nil)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != domain.ErrorKindAdapted {
		t.Errorf("expected ADAPTED_ERROR, got %s", res.Kind)
	}
	if res.Error == "" {
		t.Error("panic message should be captured")
	}
}
