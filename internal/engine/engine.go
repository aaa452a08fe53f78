package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/conveyor/internal/domain"
	"github.com/shaiso/conveyor/internal/handler"
	"github.com/shaiso/conveyor/internal/metrics"
	"github.com/shaiso/conveyor/internal/resource"
	"github.com/shaiso/conveyor/internal/strategy"
)

// Recorder сохраняет финальный результат выполнения во внешнее хранилище.
type Recorder interface {
	RecordExecution(ctx context.Context, res *domain.WorkflowResult) error
}

// Notifier публикует события выполнения для внешних потребителей.
type Notifier interface {
	StepCompleted(ctx context.Context, correlationID uuid.UUID, res *domain.StepResult) error
	WorkflowCompleted(ctx context.Context, res *domain.WorkflowResult) error
}

// Engine — движок параллельного выполнения workflow.
//
// Engine конструируется явно и владеет своими Registry, Manager и
// таблицей метрик — никакого process-wide состояния. Один Engine
// обслуживает произвольное количество параллельных вызовов Execute;
// все они делят один resource.Manager.
type Engine struct {
	registry  *handler.Registry
	resources *resource.Manager
	metrics   *metrics.Table
	recorder  Recorder
	notifier  Notifier
	logger    *slog.Logger

	// Активные выполнения (correlationID → контекст) для Cancel.
	mu     sync.Mutex
	active map[uuid.UUID]*ExecContext
}

// Config — конфигурация Engine.
type Config struct {
	// Registry — реестр handler'ов (обязательно).
	Registry *handler.Registry

	// Resources — менеджер ресурсов (обязательно).
	Resources *resource.Manager

	// Metrics — таблица метрик (опционально; если nil — NewTable()).
	Metrics *metrics.Table

	// Recorder — хранилище результатов (опционально).
	Recorder Recorder

	// Notifier — публикация событий (опционально).
	Notifier Notifier

	// Logger (опционально; если nil — slog.Default()).
	Logger *slog.Logger
}

// New создаёт новый Engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	table := cfg.Metrics
	if table == nil {
		table = metrics.NewTable()
	}

	return &Engine{
		registry:  cfg.Registry,
		resources: cfg.Resources,
		metrics:   table,
		recorder:  cfg.Recorder,
		notifier:  cfg.Notifier,
		logger:    logger,
		active:    make(map[uuid.UUID]*ExecContext),
	}
}

// Metrics возвращает таблицу метрик engine'а.
func (e *Engine) Metrics() *metrics.Table {
	return e.metrics
}

// Execute выполняет workflow до завершения и возвращает агрегированный
// результат.
//
// Ошибка возвращается только для некорректного workflow (ошибки
// валидации, цикл в зависимостях) — это ошибка программиста, а не
// выполнения. Падения и отмены шагов отражаются в статусах и деталях
// ошибок внутри WorkflowResult.
func (e *Engine) Execute(ctx context.Context, wf *domain.Workflow, inputs map[string]any) (*domain.WorkflowResult, error) {
	dag, err := BuildDAG(wf)
	if err != nil {
		return nil, fmt.Errorf("build DAG: %w", err)
	}

	ec := newExecContext(ctx, wf, inputs)
	defer ec.cancel()

	e.addActive(ec)
	defer e.removeActive(ec.correlationID)

	e.logger.Info("workflow started",
		"correlation_id", ec.correlationID,
		"workflow_id", wf.ID,
		"steps", dag.Size(),
	)

	x := &execution{
		engine:      e,
		dag:         dag,
		ec:          ec,
		statuses:    make(map[string]domain.StepStatus, dag.Size()),
		results:     make(map[string]*domain.StepResult, dag.Size()),
		handlers:    make(map[string]handler.Handler, dag.Size()),
		completions: make(chan stepCompletion, dag.Size()),
		logger:      e.logger,
	}

	res := x.run()

	e.finalize(res)

	return res, nil
}

// Cancel запрашивает кооперативную отмену выполнения по correlation ID.
// Возвращает false, если такое выполнение не активно.
func (e *Engine) Cancel(correlationID uuid.UUID) bool {
	e.mu.Lock()
	ec := e.active[correlationID]
	e.mu.Unlock()

	if ec == nil {
		return false
	}

	e.logger.Info("workflow cancellation requested", "correlation_id", correlationID)
	ec.Cancel()
	return true
}

func (e *Engine) addActive(ec *ExecContext) {
	e.mu.Lock()
	e.active[ec.correlationID] = ec
	e.mu.Unlock()
}

func (e *Engine) removeActive(correlationID uuid.UUID) {
	e.mu.Lock()
	delete(e.active, correlationID)
	e.mu.Unlock()
}

// finalize сохраняет и публикует финальный результат (best-effort).
func (e *Engine) finalize(res *domain.WorkflowResult) {
	switch res.Status {
	case domain.WorkflowStatusSucceeded:
		e.logger.Info("workflow succeeded",
			"correlation_id", res.CorrelationID,
			"workflow_id", res.WorkflowID,
			"duration", res.Duration(),
		)
	case domain.WorkflowStatusFailed:
		e.logger.Warn("workflow failed",
			"correlation_id", res.CorrelationID,
			"workflow_id", res.WorkflowID,
			"failed_steps", res.FailedSteps(),
			"cancelled_steps", res.CancelledSteps(),
			"duration", res.Duration(),
		)
	case domain.WorkflowStatusCancelled:
		e.logger.Info("workflow cancelled",
			"correlation_id", res.CorrelationID,
			"workflow_id", res.WorkflowID,
			"duration", res.Duration(),
		)
	}

	if e.recorder != nil {
		if err := e.recorder.RecordExecution(context.Background(), res); err != nil {
			e.logger.Error("failed to record execution",
				"correlation_id", res.CorrelationID,
				"error", err,
			)
		}
	}

	if e.notifier != nil {
		if err := e.notifier.WorkflowCompleted(context.Background(), res); err != nil {
			e.logger.Warn("failed to publish workflow.completed",
				"correlation_id", res.CorrelationID,
				"error", err,
			)
		}
	}
}

// --- Цикл выполнения одного workflow ---

// execution — состояние одного вызова Execute.
//
// Все поля, кроме completions, принадлежат циклу планировщика:
// worker-горутины их не читают и не пишут.
type execution struct {
	engine *Engine
	dag    *DAG
	ec     *ExecContext

	statuses map[string]domain.StepStatus
	results  map[string]*domain.StepResult
	handlers map[string]handler.Handler

	completions chan stepCompletion
	running     int

	startedAt time.Time
	logger    *slog.Logger
}

// stepCompletion — сообщение worker-горутины о завершении шага.
type stepCompletion struct {
	node *Node

	outputs map[string]any
	failed  bool
	errKind domain.ErrorKind
	errMsg  string

	startedAt  time.Time // zero, если handler не запускался
	finishedAt time.Time
}

// run — цикл планировщика: единственный писатель статусов шагов,
// состояния зависимостей и таблицы метрик.
func (x *execution) run() *domain.WorkflowResult {
	x.startedAt = time.Now()

	for id := range x.dag.Nodes {
		x.statuses[id] = domain.StepStatusPending
	}

	done := x.ec.Done()

	for {
		if x.ec.Cancelled() {
			x.cancelPendingSteps()
		} else {
			// До неподвижной точки: падение шага без отправки
			// (unknown handler, невыполнимая стоимость) меняет
			// статусы и требует нового раунда.
			x.propagateStatuses()
			for x.dispatchRound() {
				x.propagateStatuses()
			}
		}

		if x.running == 0 && !x.hasSchedulableSteps() {
			break
		}

		select {
		case c := <-x.completions:
			x.handleCompletion(c)
		case <-done:
			// Отмена: обрабатывается в начале следующей итерации.
			// Канал обнуляем, чтобы select не срабатывал на каждом
			// витке во время drain'а выполняющихся шагов.
			done = nil
		}
	}

	return x.aggregate()
}

// hasSchedulableSteps возвращает true, если остались шаги,
// которые ещё предстоит отправить на выполнение.
func (x *execution) hasSchedulableSteps() bool {
	for _, status := range x.statuses {
		if status == domain.StepStatusPending || status == domain.StepStatusReady {
			return true
		}
	}
	return false
}

// propagateStatuses продвигает статусы по графу до неподвижной точки:
// PENDING → READY, когда все зависимости SUCCEEDED;
// PENDING/READY → CANCELLED, когда любая зависимость FAILED или CANCELLED.
func (x *execution) propagateStatuses() {
	for changed := true; changed; {
		changed = false

		for id, status := range x.statuses {
			if status != domain.StepStatusPending && status != domain.StepStatusReady {
				continue
			}

			node := x.dag.Nodes[id]

			blocked := false
			allSucceeded := true
			var failedDep string

			for _, dep := range node.DependsOn {
				switch x.statuses[dep.ID] {
				case domain.StepStatusSucceeded:
				case domain.StepStatusFailed, domain.StepStatusCancelled:
					blocked = true
					failedDep = dep.ID
				default:
					allSucceeded = false
				}
			}

			if blocked {
				x.markCancelled(node, fmt.Sprintf("dependency %s did not succeed", failedDep))
				changed = true
				continue
			}

			if status == domain.StepStatusPending && allSucceeded {
				x.statuses[id] = domain.StepStatusReady
				changed = true
			}
		}
	}
}

// dispatchRound выполняет один раунд планирования: собирает READY шаги,
// просит стратегию выбрать уместившиеся в доступную ёмкость и отправляет их.
//
// Возвращает true, если раунд пометил шаги FAILED без отправки
// (unknown handler, невыполнимая стоимость) — у таких шагов не будет
// завершения, и вызывающий обязан пересчитать статусы и повторить раунд.
func (x *execution) dispatchRound() bool {
	ready, failedAny := x.readyCandidates()

	plan := strategy.Compute(ready, x.engine.resources.Snapshot())

	// Невыполнимые шаги падают сразу, не блокируя выполнение.
	for _, id := range plan.Unsatisfiable {
		node := x.dag.Nodes[id]
		x.markFailed(node, domain.ErrorKindResourceUnsatisfiable,
			fmt.Sprintf("step cost %d exceeds total capacity %d",
				node.Step.ResourceCost(), x.engine.resources.Capacity()))
		failedAny = true
	}

	for _, id := range plan.Dispatch {
		x.dispatch(x.dag.Nodes[id])
	}

	// Ёмкость может быть целиком занята другими выполнениями,
	// делящими тот же Manager. Если у нас ничего не выполняется,
	// некому разбудить планировщик — отправляем самый приоритетный
	// готовый шаг, он встанет в FIFO-очередь на Acquire.
	if x.running == 0 && len(plan.Dispatch) == 0 && !failedAny {
		if node := x.topReady(); node != nil {
			x.dispatch(node)
		}
	}

	return failedAny
}

// readyCandidates собирает READY шаги для стратегии.
// Шаги с незарегистрированным типом handler'а падают здесь же,
// не расходуя ресурсы; второе возвращаемое значение — были ли такие.
func (x *execution) readyCandidates() ([]strategy.Candidate, bool) {
	var ready []strategy.Candidate
	failedAny := false

	for id, status := range x.statuses {
		if status != domain.StepStatusReady {
			continue
		}

		node := x.dag.Nodes[id]

		if _, ok := x.handlers[id]; !ok {
			h, err := x.engine.registry.Resolve(node.Step.Type)
			if err != nil {
				x.markFailed(node, domain.ErrorKindUnknownHandler, err.Error())
				failedAny = true
				continue
			}
			x.handlers[id] = h
		}

		ready = append(ready, strategy.Candidate{
			StepID:     id,
			Cost:       node.Step.ResourceCost(),
			Downstream: node.Downstream,
		})
	}

	return ready, failedAny
}

// topReady возвращает READY шаг с наибольшим Downstream
// (при равенстве — с меньшим ID), либо nil.
func (x *execution) topReady() *Node {
	var top *Node
	for id, status := range x.statuses {
		if status != domain.StepStatusReady {
			continue
		}
		node := x.dag.Nodes[id]
		if top == nil || node.Downstream > top.Downstream ||
			(node.Downstream == top.Downstream && node.ID < top.ID) {
			top = node
		}
	}
	return top
}

// dispatch переводит шаг в RUNNING и запускает worker-горутину.
func (x *execution) dispatch(node *Node) {
	x.statuses[node.ID] = domain.StepStatusRunning
	x.running++

	x.logger.Debug("step dispatched",
		"correlation_id", x.ec.correlationID,
		"step_id", node.ID,
		"step_type", node.Step.Type,
		"cost", node.Step.ResourceCost(),
	)

	go x.invoke(node, x.handlers[node.ID])
}

// invoke — worker-горутина одного шага: захват ресурсов, вызов handler'а,
// отправка завершения планировщику. Release гарантирован defer'ом
// на всех путях выхода, включая панику handler'а.
func (x *execution) invoke(node *Node, h handler.Handler) {
	cost := node.Step.ResourceCost()

	token, err := x.engine.resources.Acquire(x.ec.Context(), cost)
	if err != nil {
		c := stepCompletion{node: node, failed: true, finishedAt: time.Now()}
		if errors.Is(err, resource.ErrUnsatisfiable) {
			c.errKind = domain.ErrorKindResourceUnsatisfiable
			c.errMsg = err.Error()
		} else {
			c.errKind = domain.ErrorKindCancelled
			c.errMsg = "cancelled while waiting for resources"
		}
		x.completions <- c
		return
	}
	defer x.engine.resources.Release(token)

	started := time.Now()
	res, err := x.safeRun(node, h)
	finished := time.Now()

	c := stepCompletion{node: node, startedAt: started, finishedAt: finished}

	switch {
	case err != nil:
		c.failed = true
		c.errKind = domain.ErrorKindHandler
		c.errMsg = err.Error()
		var perr *panicError
		if errors.As(err, &perr) {
			c.errKind = domain.ErrorKindPanic
		}
	case res != nil && res.Error != "":
		c.failed = true
		c.errKind = res.Kind
		if c.errKind == "" {
			c.errKind = domain.ErrorKindHandler
		}
		c.errMsg = res.Error
	default:
		if res != nil {
			c.outputs = res.Outputs
		}
	}

	x.completions <- c
}

// panicError — перехваченная паника handler'а.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("handler panic: %v", e.value)
}

// safeRun вызывает handler с перехватом паники.
func (x *execution) safeRun(node *Node, h handler.Handler) (res *handler.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res = nil
			err = &panicError{value: rec}
		}
	}()

	return h.Run(x.ec.Context(), x.ec.View(), node.Step.Input)
}

// handleCompletion обрабатывает завершение шага в цикле планировщика:
// фиксирует результат, обновляет метрики, публикует событие.
func (x *execution) handleCompletion(c stepCompletion) {
	x.running--

	node := c.node
	status := domain.StepStatusSucceeded

	switch {
	case x.ec.Cancelled():
		// Выполнение отменено: фактический исход шага игнорируется
		// в агрегате, шаг считается отменённым.
		status = domain.StepStatusCancelled
	case c.failed:
		status = domain.StepStatusFailed
	}

	x.statuses[node.ID] = status

	res := &domain.StepResult{
		StepID:   node.ID,
		StepType: node.Step.Type,
		Status:   status,
	}
	if !c.startedAt.IsZero() {
		started := c.startedAt
		res.StartedAt = &started
	}
	if !c.finishedAt.IsZero() {
		finished := c.finishedAt
		res.FinishedAt = &finished
	}

	switch status {
	case domain.StepStatusSucceeded:
		res.Outputs = c.outputs
		x.logger.Debug("step succeeded",
			"correlation_id", x.ec.correlationID,
			"step_id", node.ID,
			"duration", res.Duration(),
		)
	case domain.StepStatusFailed:
		res.Error = &domain.ErrorDetail{Kind: c.errKind, Message: c.errMsg}
		x.logger.Warn("step failed",
			"correlation_id", x.ec.correlationID,
			"step_id", node.ID,
			"kind", c.errKind,
			"error", c.errMsg,
		)
	case domain.StepStatusCancelled:
		res.Error = &domain.ErrorDetail{
			Kind:    domain.ErrorKindCancelled,
			Message: "workflow cancelled",
		}
	}

	x.results[node.ID] = res
	x.engine.metrics.Observe(node.Step.Type, status, res.Duration())
	x.notifyStep(res)
}

// markFailed фиксирует падение шага без запуска handler'а
// (unknown handler, невыполнимая стоимость).
func (x *execution) markFailed(node *Node, kind domain.ErrorKind, msg string) {
	x.statuses[node.ID] = domain.StepStatusFailed

	res := &domain.StepResult{
		StepID:   node.ID,
		StepType: node.Step.Type,
		Status:   domain.StepStatusFailed,
		Error:    &domain.ErrorDetail{Kind: kind, Message: msg},
	}
	x.results[node.ID] = res

	x.logger.Warn("step failed without dispatch",
		"correlation_id", x.ec.correlationID,
		"step_id", node.ID,
		"kind", kind,
		"error", msg,
	)

	x.notifyStep(res)
}

// markCancelled фиксирует отмену шага, который не запускался.
func (x *execution) markCancelled(node *Node, msg string) {
	x.statuses[node.ID] = domain.StepStatusCancelled

	res := &domain.StepResult{
		StepID:   node.ID,
		StepType: node.Step.Type,
		Status:   domain.StepStatusCancelled,
		Error:    &domain.ErrorDetail{Kind: domain.ErrorKindCancelled, Message: msg},
	}
	x.results[node.ID] = res

	x.notifyStep(res)
}

// cancelPendingSteps отменяет все ещё не отправленные шаги.
// Выполняющиеся шаги продолжают до собственного завершения
// (кооперативная отмена): их ресурсы вернутся только тогда.
func (x *execution) cancelPendingSteps() {
	for id, status := range x.statuses {
		if status == domain.StepStatusPending || status == domain.StepStatusReady {
			x.markCancelled(x.dag.Nodes[id], "workflow cancelled")
		}
	}
}

// notifyStep публикует событие завершения шага (best-effort).
func (x *execution) notifyStep(res *domain.StepResult) {
	if x.engine.notifier == nil {
		return
	}

	if err := x.engine.notifier.StepCompleted(context.Background(), x.ec.correlationID, res); err != nil {
		x.logger.Warn("failed to publish step.completed",
			"correlation_id", x.ec.correlationID,
			"step_id", res.StepID,
			"error", err,
		)
	}
}

// aggregate собирает агрегированный результат workflow.
// FAILED имеет приоритет над CANCELLED: отмена зависимых — следствие
// падения, а не самостоятельный исход.
func (x *execution) aggregate() *domain.WorkflowResult {
	status := domain.WorkflowStatusSucceeded

	hasFailed := false
	hasCancelled := false
	for _, res := range x.results {
		switch res.Status {
		case domain.StepStatusFailed:
			hasFailed = true
		case domain.StepStatusCancelled:
			hasCancelled = true
		}
	}

	switch {
	case hasFailed:
		status = domain.WorkflowStatusFailed
	case hasCancelled:
		status = domain.WorkflowStatusCancelled
	}

	return &domain.WorkflowResult{
		CorrelationID: x.ec.correlationID,
		WorkflowID:    x.ec.workflowID,
		Status:        status,
		Steps:         x.results,
		StartedAt:     x.startedAt,
		FinishedAt:    time.Now(),
	}
}
