package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/conveyor/internal/engine"
	"github.com/shaiso/conveyor/internal/mq"
)

// startConsumers запускает потребителей workflows.submit и workflows.cancel.
func startConsumers(ctx context.Context, conn *mq.Connection, eng *engine.Engine, logger *slog.Logger) {
	submitConsumer := mq.NewConsumer(conn, logger, mq.ConsumerConfig{
		Queue:    string(mq.QueueWorkflowsSubmit),
		Handler:  handleSubmit(eng, logger),
		Prefetch: 4,
	})

	cancelConsumer := mq.NewConsumer(conn, logger, mq.ConsumerConfig{
		Queue:   string(mq.QueueWorkflowsCancel),
		Handler: handleCancel(eng, logger),
	})

	go func() {
		if err := submitConsumer.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error("submit consumer stopped", "error", err)
		}
	}()

	go func() {
		if err := cancelConsumer.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error("cancel consumer stopped", "error", err)
		}
	}()
}

// handleSubmit обрабатывает workflow.submit: запускает выполнение
// в отдельной горутине, чтобы не блокировать очередь на время workflow.
func handleSubmit(eng *engine.Engine, logger *slog.Logger) mq.Handler {
	return func(ctx context.Context, d *mq.Delivery) error {
		payload, err := mq.ParsePayload[mq.SubmitPayload](&d.Message)
		if err != nil {
			return fmt.Errorf("parse submit payload: %w", err)
		}

		go func() {
			res, err := eng.Execute(context.Background(), &payload.Workflow, payload.Inputs)
			if err != nil {
				logger.Error("submitted workflow rejected",
					"workflow_id", payload.Workflow.ID,
					"error", err,
				)
				return
			}

			logger.Info("submitted workflow finished",
				"workflow_id", payload.Workflow.ID,
				"correlation_id", res.CorrelationID,
				"status", res.Status,
			)
		}()

		return nil
	}
}

// handleCancel обрабатывает workflow.cancel.
// Отмена неизвестного выполнения — no-op, а не ошибка.
func handleCancel(eng *engine.Engine, logger *slog.Logger) mq.Handler {
	return func(ctx context.Context, d *mq.Delivery) error {
		payload, err := mq.ParsePayload[mq.CancelPayload](&d.Message)
		if err != nil {
			return fmt.Errorf("parse cancel payload: %w", err)
		}

		if !eng.Cancel(payload.CorrelationID) {
			logger.Debug("cancel for unknown execution ignored",
				"correlation_id", payload.CorrelationID,
			)
		}

		return nil
	}
}
