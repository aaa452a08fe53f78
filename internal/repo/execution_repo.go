package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/conveyor/internal/domain"
)

// ExecutionRepo — репозиторий результатов выполнения workflow.
//
// Хранит запись о каждом завершённом выполнении: агрегированный
// статус плюс результаты шагов одним JSONB-документом. Запись
// append-only: результат выполнения после завершения не мутируется.
type ExecutionRepo struct {
	pool *pgxpool.Pool
}

// NewExecutionRepo создаёт новый ExecutionRepo.
func NewExecutionRepo(pool *pgxpool.Pool) *ExecutionRepo {
	return &ExecutionRepo{pool: pool}
}

// RecordExecution сохраняет финальный результат выполнения.
func (r *ExecutionRepo) RecordExecution(ctx context.Context, res *domain.WorkflowResult) error {
	stepsJSON, err := json.Marshal(res.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}

	query := `
		INSERT INTO executions (correlation_id, workflow_id, status, steps, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.pool.Exec(ctx, query,
		res.CorrelationID,
		res.WorkflowID,
		res.Status,
		stepsJSON,
		res.StartedAt,
		res.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}
	return nil
}

// GetByCorrelationID возвращает результат выполнения по correlation ID.
func (r *ExecutionRepo) GetByCorrelationID(ctx context.Context, correlationID uuid.UUID) (*domain.WorkflowResult, error) {
	query := `
		SELECT correlation_id, workflow_id, status, steps, started_at, finished_at
		FROM executions
		WHERE correlation_id = $1
	`
	return r.scanExecution(r.pool.QueryRow(ctx, query, correlationID))
}

// List возвращает список выполнений с фильтрацией.
func (r *ExecutionRepo) List(ctx context.Context, filter ExecutionFilter) ([]domain.WorkflowResult, error) {
	query := `
		SELECT correlation_id, workflow_id, status, steps, started_at, finished_at
		FROM executions
		WHERE ($1::text IS NULL OR workflow_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY started_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(filter.WorkflowID),
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var results []domain.WorkflowResult
	for rows.Next() {
		res, err := r.scanExecution(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, rows.Err()
}

// --- Helpers ---

// ExecutionFilter — параметры фильтрации выполнений.
type ExecutionFilter struct {
	WorkflowID string
	Status     domain.WorkflowStatus
	Limit      int
	Offset     int
}

// scanExecution сканирует одну строку в WorkflowResult.
func (r *ExecutionRepo) scanExecution(row pgx.Row) (*domain.WorkflowResult, error) {
	var res domain.WorkflowResult
	var stepsJSON []byte

	err := row.Scan(
		&res.CorrelationID,
		&res.WorkflowID,
		&res.Status,
		&stepsJSON,
		&res.StartedAt,
		&res.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan execution: %w", err)
	}

	if stepsJSON != nil {
		if err := json.Unmarshal(stepsJSON, &res.Steps); err != nil {
			return nil, fmt.Errorf("unmarshal steps: %w", err)
		}
	}

	return &res, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
