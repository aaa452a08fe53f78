package handler

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/shaiso/conveyor/internal/domain"
)

func okHandler(outputs map[string]any) Handler {
	return Func(func(_ context.Context, _ *domain.ExecView, _ map[string]any) (*Result, error) {
		return &Result{Outputs: outputs}, nil
	})
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := NewRegistry(RegistryConfig{})

	if err := r.Register("noop", Static(okHandler(nil))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := r.Resolve("noop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h == nil {
		t.Fatal("resolved handler should not be nil")
	}
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	r := NewRegistry(RegistryConfig{})

	_ = r.Register("noop", Static(okHandler(nil)))
	err := r.Register("noop", Static(okHandler(nil)))

	if !errors.Is(err, ErrDuplicateHandler) {
		t.Errorf("expected ErrDuplicateHandler, got %v", err)
	}
}

func TestRegistry_OverrideReplacesHandler(t *testing.T) {
	r := NewRegistry(RegistryConfig{AllowOverride: true})

	_ = r.Register("greet", Static(okHandler(map[string]any{"v": "old"})))
	if err := r.Register("greet", Static(okHandler(map[string]any{"v": "new"}))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// After override the last registration must win.
	h, _ := r.Resolve("greet")
	res, err := h.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outputs["v"] != "new" {
		t.Errorf("expected overridden handler, got outputs %v", res.Outputs)
	}
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := NewRegistry(RegistryConfig{})

	_, err := r.Resolve("missing")
	if !errors.Is(err, ErrUnknownHandler) {
		t.Errorf("expected ErrUnknownHandler, got %v", err)
	}
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	r := NewRegistry(RegistryConfig{})

	if err := r.Register("", Static(okHandler(nil))); !errors.Is(err, ErrEmptyStepType) {
		t.Errorf("expected ErrEmptyStepType, got %v", err)
	}
	if err := r.Register("noop", nil); !errors.Is(err, ErrNilFactory) {
		t.Errorf("expected ErrNilFactory, got %v", err)
	}
}

func TestRegistry_FactoryCalledPerResolve(t *testing.T) {
	r := NewRegistry(RegistryConfig{})

	calls := 0
	_ = r.Register("counted", func() Handler {
		calls++
		return okHandler(nil)
	})

	_, _ = r.Resolve("counted")
	_, _ = r.Resolve("counted")

	if calls != 2 {
		t.Errorf("expected factory called per resolve, got %d calls", calls)
	}
}

func TestRegistry_Types(t *testing.T) {
	r := NewRegistry(RegistryConfig{})

	_ = r.Register("delay", Static(okHandler(nil)))
	_ = r.Register("noop", Static(okHandler(nil)))

	types := r.Types()
	sort.Strings(types)

	if len(types) != 2 || types[0] != "delay" || types[1] != "noop" {
		t.Errorf("unexpected types: %v", types)
	}
}
