// Sigseg Consumer — читает sigseg.q и падает на отравленном сообщении.
//
// Consumer:
//   - Объявляет топологию sigseg.x → sigseg.q
//   - Логирует каждое полученное сообщение
//   - На сообщении с sigseg=true завершает процесс (exit 139) без ack
//
// Перезапуска нет: процесс остаётся мёртвым, пока его не поднимут извне.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shaiso/sigseg/internal/journal"
	"github.com/shaiso/sigseg/internal/mq"
	"github.com/shaiso/sigseg/internal/sigseg"
	"github.com/shaiso/sigseg/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting sigseg-consumer")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	// Журнал опционален: без БД просто не пишем
	var j journal.Journal = journal.Nop{}
	pool, err := journal.NewPool(ctx)
	if err != nil {
		logger.Warn("database not available, journal disabled", "error", err)
	} else {
		defer pool.Close()
		pg := journal.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Warn("failed to prepare journal, journal disabled", "error", err)
		} else {
			j = pg
			logger.Info("journal enabled")
		}
	}

	// RabbitMQ
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL
	}

	mqConn, err := mq.NewConnection(mq.ConnectionConfig{URL: mqURL}, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer mqConn.Close()

	topology := mq.DefaultTopology()
	if err := topology.Declare(ctx, mqConn); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}

	consumer := sigseg.NewConsumer(sigseg.ConsumerConfig{
		Topology: topology,
		Fault:    sigseg.Crash,
		Journal:  j,
		Metrics:  metrics,
		Logger:   logger,
	})

	// HTTP mux: /healthz + /metrics
	port := ":8092"
	if v := os.Getenv("CONSUMER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, telemetry.NewMux(consumer.Health)); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	err = consumer.Run(ctx, mqConn)
	switch {
	case errors.Is(err, sigseg.ErrDefunct):
		// Crash завершает процесс раньше; сюда попадаем только с другим FaultFunc
		os.Exit(sigseg.ExitCodeFault)
	case err != nil && !errors.Is(err, context.Canceled):
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}

	logger.Info("sigseg-consumer stopped")
}
