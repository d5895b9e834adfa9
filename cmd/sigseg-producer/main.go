// Sigseg Producer — публикует сценарий демонстрации.
//
// Producer:
//   - Объявляет топологию sigseg.x → sigseg.q
//   - Публикует {1,false} {2,true} {3,false} с паузой между отправками
//   - Ждёт publisher confirm на каждое сообщение
//   - После публикации продолжает отдавать /healthz и /metrics до сигнала
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shaiso/sigseg/internal/journal"
	"github.com/shaiso/sigseg/internal/mq"
	"github.com/shaiso/sigseg/internal/sigseg"
	"github.com/shaiso/sigseg/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting sigseg-producer")

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

	mqConn, err := mq.NewConnection(mq.ConnectionConfig{URL: mqURL, Confirm: true}, logger)
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
	logger.Debug("topology declared", "topology", topology.Describe())

	delay := sigseg.DefaultDelay
	if v := os.Getenv("SIGSEG_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			logger.Error("invalid SIGSEG_DELAY", "value", v, "error", err)
			os.Exit(1)
		}
		delay = d
	}

	// HTTP mux: /healthz + /metrics
	port := ":8091"
	if v := os.Getenv("PRODUCER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, telemetry.NewMux(nil)); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	producer := sigseg.NewProducer(sigseg.ProducerConfig{
		Publisher: mq.NewPublisher(mqConn, logger),
		Topology:  topology,
		Delay:     delay,
		Journal:   j,
		Metrics:   metrics,
		Logger:    logger,
	})

	if err := producer.Run(ctx, sigseg.DefaultBatch()); err != nil {
		logger.Error("failed to publish batch", "error", err)
		os.Exit(1)
	}

	// Ожидаем сигнал завершения
	<-ctx.Done()
	logger.Info("sigseg-producer stopped")
}
