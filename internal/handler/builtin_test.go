package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shaiso/conveyor/internal/domain"
)

// --- DelayHandler ---

func TestDelayHandler_Run(t *testing.T) {
	h := NewDelayHandler()

	start := time.Now()
	res, err := h.Run(context.Background(), nil, map[string]any{"duration_ms": 30.0})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed < 30*time.Millisecond {
		t.Errorf("delay too short: %v", elapsed)
	}
	if res.Outputs["delayed_ms"] != 30.0 {
		t.Errorf("unexpected outputs: %v", res.Outputs)
	}
}

func TestDelayHandler_Cancelled(t *testing.T) {
	h := NewDelayHandler()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		_, err := h.Run(ctx, nil, map[string]any{"duration_ms": 60000})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled delay should return promptly")
	}
}

// --- TransformHandler ---

func TestTransformHandler_Mapping(t *testing.T) {
	h := NewTransformHandler()

	view := &domain.ExecView{
		Inputs: map[string]any{"user": "alice", "region": "eu"},
	}
	input := map[string]any{
		"mapping": map[string]any{
			"login": "user",
		},
	}

	res, err := h.Run(context.Background(), view, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Error != "" {
		t.Fatalf("unexpected logical error: %s", res.Error)
	}
	if res.Outputs["login"] != "alice" {
		t.Errorf("unexpected outputs: %v", res.Outputs)
	}
}

func TestTransformHandler_PassThroughWithoutMapping(t *testing.T) {
	h := NewTransformHandler()

	input := map[string]any{"k": "v"}
	res, err := h.Run(context.Background(), &domain.ExecView{}, input)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outputs["k"] != "v" {
		t.Errorf("expected pass-through of input, got %v", res.Outputs)
	}
}

func TestTransformHandler_MissingInputKey(t *testing.T) {
	h := NewTransformHandler()

	view := &domain.ExecView{Inputs: map[string]any{}}
	input := map[string]any{
		"mapping": map[string]any{"out": "absent"},
	}

	res, err := h.Run(context.Background(), view, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Error == "" {
		t.Error("missing input key should be a logical error")
	}
}

func TestTransformHandler_InvalidMapping(t *testing.T) {
	h := NewTransformHandler()

	res, err := h.Run(context.Background(), &domain.ExecView{}, map[string]any{"mapping": "nope"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Error == "" {
		t.Error("non-object mapping should be a logical error")
	}
}

// --- NoopHandler ---

func TestNoopHandler_Run(t *testing.T) {
	h := NewNoopHandler()

	res, err := h.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outputs == nil {
		t.Error("noop should return empty outputs, not nil")
	}
}
