package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/conveyor/internal/domain"
)

// diamond: a -> b, a -> c, b -> d, c -> d
func diamondWorkflow() *domain.Workflow {
	return &domain.Workflow{
		ID: "diamond",
		Steps: []domain.Step{
			{ID: "a", Type: "noop"},
			{ID: "b", Type: "noop", DependsOn: []string{"a"}},
			{ID: "c", Type: "noop", DependsOn: []string{"a"}},
			{ID: "d", Type: "noop", DependsOn: []string{"b", "c"}},
		},
	}
}

func TestBuildDAG_Diamond(t *testing.T) {
	dag, err := BuildDAG(diamondWorkflow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dag.Size() != 4 {
		t.Errorf("expected 4 nodes, got %d", dag.Size())
	}

	if len(dag.Roots) != 1 || dag.Roots[0].ID != "a" {
		t.Errorf("expected single root a, got %v", dag.Roots)
	}

	d := dag.GetNode("d")
	if d.InDegree != 2 {
		t.Errorf("expected d in-degree 2, got %d", d.InDegree)
	}
	if len(dag.GetNode("a").Dependents) != 2 {
		t.Errorf("expected a to have 2 dependents")
	}
}

func TestBuildDAG_TopologicalOrder(t *testing.T) {
	dag, err := BuildDAG(diamondWorkflow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	position := make(map[string]int, len(dag.Order))
	for i, node := range dag.Order {
		position[node.ID] = i
	}

	// Every dependency must come before its dependent.
	for _, node := range dag.Order {
		for _, dep := range node.DependsOn {
			if position[dep.ID] >= position[node.ID] {
				t.Errorf("%s must come after %s in topological order", node.ID, dep.ID)
			}
		}
	}
}

func TestBuildDAG_Downstream(t *testing.T) {
	dag, err := BuildDAG(diamondWorkflow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a unblocks b, c, d; b and c each unblock d; d unblocks nothing.
	expected := map[string]int{"a": 3, "b": 1, "c": 1, "d": 0}
	for id, want := range expected {
		if got := dag.GetNode(id).Downstream; got != want {
			t.Errorf("node %s: expected downstream %d, got %d", id, want, got)
		}
	}
}

func TestBuildDAG_DuplicateEdge(t *testing.T) {
	wf := &domain.Workflow{
		ID: "wf",
		Steps: []domain.Step{
			{ID: "a", Type: "noop"},
			{ID: "b", Type: "noop", DependsOn: []string{"a", "a"}},
		},
	}

	dag, err := BuildDAG(wf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A repeated depends_on entry must not double the in-degree.
	if dag.GetNode("b").InDegree != 1 {
		t.Errorf("expected in-degree 1, got %d", dag.GetNode("b").InDegree)
	}
}

func TestBuildDAG_Cycle(t *testing.T) {
	wf := &domain.Workflow{
		ID: "wf",
		Steps: []domain.Step{
			{ID: "a", Type: "noop", DependsOn: []string{"c"}},
			{ID: "b", Type: "noop", DependsOn: []string{"a"}},
			{ID: "c", Type: "noop", DependsOn: []string{"b"}},
		},
	}

	_, err := BuildDAG(wf)
	if !errors.Is(err, ErrCyclicDependency) {
		t.Errorf("expected ErrCyclicDependency, got %v", err)
	}
}

func TestBuildDAG_InvalidWorkflow(t *testing.T) {
	wf := &domain.Workflow{
		ID:    "wf",
		Steps: []domain.Step{{ID: "a", Type: ""}},
	}

	if _, err := BuildDAG(wf); err == nil {
		t.Error("expected validation error")
	}
}
