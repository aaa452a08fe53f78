package mq

import (
	"testing"

	"github.com/google/uuid"
)

func TestParsePayload(t *testing.T) {
	correlationID := uuid.New()

	// Payload arrives as map[string]any after unmarshalling the envelope.
	msg := &Message{
		Type: MessageTypeWorkflowCancel,
		Payload: map[string]any{
			"correlation_id": correlationID.String(),
		},
	}

	payload, err := ParsePayload[CancelPayload](msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.CorrelationID != correlationID {
		t.Errorf("expected %s, got %s", correlationID, payload.CorrelationID)
	}
}

func TestParsePayload_Submit(t *testing.T) {
	msg := &Message{
		Type: MessageTypeWorkflowSubmit,
		Payload: map[string]any{
			"workflow": map[string]any{
				"id": "wf-1",
				"steps": []any{
					map[string]any{"id": "a", "type": "noop"},
					map[string]any{"id": "b", "type": "noop", "depends_on": []any{"a"}},
				},
			},
			"inputs": map[string]any{"user": "alice"},
		},
	}

	payload, err := ParsePayload[SubmitPayload](msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Workflow.ID != "wf-1" {
		t.Errorf("unexpected workflow ID: %s", payload.Workflow.ID)
	}
	if len(payload.Workflow.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(payload.Workflow.Steps))
	}
	if payload.Workflow.Steps[1].DependsOn[0] != "a" {
		t.Error("depends_on should survive the round trip")
	}
	if payload.Inputs["user"] != "alice" {
		t.Errorf("unexpected inputs: %v", payload.Inputs)
	}
}

func TestParsePayload_TypeMismatch(t *testing.T) {
	msg := &Message{
		Type:    MessageTypeWorkflowCancel,
		Payload: map[string]any{"correlation_id": "not-a-uuid"},
	}

	if _, err := ParsePayload[CancelPayload](msg); err == nil {
		t.Error("expected error for malformed payload")
	}
}
