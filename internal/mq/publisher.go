package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/conveyor/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeWorkflowSubmit    MessageType = "workflow.submit"
	MessageTypeWorkflowCancel    MessageType = "workflow.cancel"
	MessageTypeStepCompleted     MessageType = "step.completed"
	MessageTypeWorkflowCompleted MessageType = "workflow.completed"
)

// Publisher публикует сообщения в RabbitMQ.
//
// Методы StepCompleted и WorkflowCompleted реализуют engine.Notifier:
// engine публикует события выполнения напрямую через Publisher.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// SubmitPayload — payload запроса на выполнение workflow.
type SubmitPayload struct {
	Workflow domain.Workflow `json:"workflow"`
	Inputs   map[string]any  `json:"inputs,omitempty"`
}

// CancelPayload — payload запроса на отмену выполнения.
type CancelPayload struct {
	CorrelationID uuid.UUID `json:"correlation_id"`
}

// StepCompletedPayload — payload события о завершённом шаге.
type StepCompletedPayload struct {
	CorrelationID uuid.UUID           `json:"correlation_id"`
	StepID        string              `json:"step_id"`
	StepType      string              `json:"step_type"`
	Status        domain.StepStatus   `json:"status"`
	Error         *domain.ErrorDetail `json:"error,omitempty"`
	DurationMS    int64               `json:"duration_ms"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishSubmit публикует запрос на выполнение workflow.
// Потребитель: Runner.
func (p *Publisher) PublishSubmit(ctx context.Context, wf domain.Workflow, inputs map[string]any) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeWorkflowSubmit,
		Payload:   SubmitPayload{Workflow: wf, Inputs: inputs},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeWorkflows, RoutingKeySubmit, msg)
}

// PublishCancel публикует запрос на отмену выполнения.
// Потребитель: Runner.
func (p *Publisher) PublishCancel(ctx context.Context, correlationID uuid.UUID) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeWorkflowCancel,
		Payload:   CancelPayload{CorrelationID: correlationID},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeWorkflows, RoutingKeyCancel, msg)
}

// StepCompleted публикует событие о завершённом шаге.
func (p *Publisher) StepCompleted(ctx context.Context, correlationID uuid.UUID, res *domain.StepResult) error {
	msg := &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeStepCompleted,
		Payload: StepCompletedPayload{
			CorrelationID: correlationID,
			StepID:        res.StepID,
			StepType:      res.StepType,
			Status:        res.Status,
			Error:         res.Error,
			DurationMS:    res.Duration().Milliseconds(),
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeEvents, RoutingKeyStepCompleted, msg)
}

// WorkflowCompleted публикует событие о завершении выполнения workflow.
func (p *Publisher) WorkflowCompleted(ctx context.Context, res *domain.WorkflowResult) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeWorkflowCompleted,
		Payload:   res,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeEvents, RoutingKeyWorkflowCompleted, msg)
}
