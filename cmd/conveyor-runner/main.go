// Conveyor Runner — сервис параллельного выполнения workflow.
//
// Runner:
//   - Получает запросы workflow.submit и workflow.cancel из RabbitMQ
//   - Выполняет шаги workflow параллельно в пределах ёмкости ресурсов
//   - Публикует события step.completed и workflow.completed
//   - Сохраняет результаты выполнения в PostgreSQL
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/conveyor/internal/engine"
	"github.com/shaiso/conveyor/internal/handler"
	"github.com/shaiso/conveyor/internal/metrics"
	"github.com/shaiso/conveyor/internal/mq"
	"github.com/shaiso/conveyor/internal/repo"
	"github.com/shaiso/conveyor/internal/resource"
	"github.com/shaiso/conveyor/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting conveyor-runner")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Ёмкость ресурсов
	capacity := int64(8)
	if v := os.Getenv("RESOURCE_CAPACITY"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			logger.Error("invalid RESOURCE_CAPACITY", "value", v)
			os.Exit(1)
		}
		capacity = parsed
	}

	resources, err := resource.NewManager(capacity)
	if err != nil {
		logger.Error("failed to create resource manager", "error", err)
		os.Exit(1)
	}

	// Метрики с зеркалом в Prometheus
	table, err := metrics.NewTableWithPrometheus(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	// Реестр handler'ов со встроенными типами
	registry := handler.NewRegistry(handler.RegistryConfig{Logger: logger})
	registerBuiltins(registry, logger)

	// DB pool (опционально: без БД результаты не сохраняются)
	var recorder engine.Recorder
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Warn("database not available, executions will not be recorded", "error", err)
	} else {
		defer pool.Close()
		logger.Info("database connected")
		recorder = repo.NewExecutionRepo(pool)
	}

	// RabbitMQ (опционально: без MQ работают только расписания и API)
	var notifier engine.Notifier
	var mqConn *mq.Connection
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err = mq.NewConnection(mqURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, running without messaging", "error", err)
		mqConn = nil
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		// Создаём топологию
		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		notifier = mq.NewPublisher(mqConn, logger)
	}

	// Создаём engine
	eng := engine.New(engine.Config{
		Registry:  registry,
		Resources: resources,
		Metrics:   table,
		Recorder:  recorder,
		Notifier:  notifier,
		Logger:    logger,
	})

	// Consumers для submit/cancel
	if mqConn != nil {
		startConsumers(ctx, mqConn, eng, logger)
	}

	// Расписания из файла (опционально)
	sched, err := setupScheduler(eng, logger)
	if err != nil {
		logger.Error("failed to setup scheduler", "error", err)
		os.Exit(1)
	}
	if sched != nil {
		defer sched.Stop(context.Background())
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8090"
	if v := os.Getenv("RUNNER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	logger.Info("conveyor-runner stopped")
}

// registerBuiltins регистрирует встроенные типы handler'ов.
func registerBuiltins(registry *handler.Registry, logger *slog.Logger) {
	builtins := map[string]handler.Factory{
		"delay":     handler.Static(handler.NewDelayHandler()),
		"transform": handler.Static(handler.NewTransformHandler()),
		"noop":      handler.Static(handler.NewNoopHandler()),
	}

	for stepType, factory := range builtins {
		if err := registry.Register(stepType, factory); err != nil {
			logger.Error("failed to register builtin handler", "step_type", stepType, "error", err)
			os.Exit(1)
		}
	}
}
