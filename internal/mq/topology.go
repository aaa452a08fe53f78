package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeWorkflows Exchange = "conveyor.workflows"
	ExchangeEvents    Exchange = "conveyor.events"
	ExchangeDLQ       Exchange = "conveyor.dlq"
)

// Queues — имена очередей.
const (
	QueueWorkflowsSubmit Queue = "workflows.submit"
	QueueWorkflowsCancel Queue = "workflows.cancel"
	QueueEventsSteps     Queue = "events.steps"
	QueueEventsWorkflows Queue = "events.workflows"
	QueueDLQWorkflows    Queue = "dlq.workflows"
)

// Routing keys.
const (
	RoutingKeySubmit            RoutingKey = "submit"
	RoutingKeyCancel            RoutingKey = "cancel"
	RoutingKeyStepCompleted     RoutingKey = "step.completed"
	RoutingKeyWorkflowCompleted RoutingKey = "workflow.completed"
	RoutingKeyDLQWorkflows      RoutingKey = "workflows"
)

func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		// 1. Создаём exchanges
		if err := declareExchanges(ch); err != nil {
			return err
		}

		// 2. Создаём queues
		if err := declareQueues(ch); err != nil {
			return err
		}

		// 3. Привязываем queues к exchanges
		if err := bindQueues(ch); err != nil {
			return err
		}

		return nil
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	exchanges := []struct {
		name Exchange
		kind string
	}{
		{ExchangeWorkflows, "direct"},
		{ExchangeEvents, "direct"},
		{ExchangeDLQ, "direct"},
	}

	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex.name), // name
			ex.kind,         // type
			true,            // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	return nil
}

// declareQueues создаёт очереди.
func declareQueues(ch *amqp.Channel) error {
	// Аргументы для очередей с DLQ
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQWorkflows),
	}

	queues := []struct {
		name Queue
		args amqp.Table
	}{
		// workflows.submit — с DLQ (некорректный workflow уходит в DLQ)
		{QueueWorkflowsSubmit, dlqArgs},

		// workflows.cancel — без DLQ (отмена несуществующего выполнения — no-op)
		{QueueWorkflowsCancel, nil},

		// события завершения — без DLQ
		{QueueEventsSteps, nil},
		{QueueEventsWorkflows, nil},

		// dlq.workflows — сама DLQ очередь
		{QueueDLQWorkflows, nil},
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q.name), // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			q.args,         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
	}

	return nil
}

// bindQueues привязывает очереди к обменникам.
func bindQueues(ch *amqp.Channel) error {
	bindings := []struct {
		queue      Queue
		routingKey RoutingKey
		exchange   Exchange
	}{
		{QueueWorkflowsSubmit, RoutingKeySubmit, ExchangeWorkflows},
		{QueueWorkflowsCancel, RoutingKeyCancel, ExchangeWorkflows},
		{QueueEventsSteps, RoutingKeyStepCompleted, ExchangeEvents},
		{QueueEventsWorkflows, RoutingKeyWorkflowCompleted, ExchangeEvents},
		{QueueDLQWorkflows, RoutingKeyDLQWorkflows, ExchangeDLQ},
	}

	for _, b := range bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}
