package sigseg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/sigseg/internal/journal"
	"github.com/shaiso/sigseg/internal/mq"
	"github.com/shaiso/sigseg/internal/telemetry"
)

// State — состояние consumer'а.
type State string

const (
	// StateRunning — consumer обрабатывает сообщения.
	StateRunning State = "running"

	// StateDefunct — consumer пережил сбой и больше ничего не обрабатывает.
	StateDefunct State = "defunct"
)

// ConsumerConfig — конфигурация Consumer.
type ConsumerConfig struct {
	Topology mq.Topology

	// Fault вызывается при переходе в Defunct (default: Crash).
	Fault FaultFunc

	// Journal (опционально; если nil — journal.Nop)
	Journal journal.Journal

	// Metrics (опционально)
	Metrics *telemetry.Metrics

	// RunID (опционально; если пусто — генерируется)
	RunID uuid.UUID

	Logger *slog.Logger
}

// Consumer обрабатывает доставленные сообщения.
type Consumer struct {
	topology mq.Topology
	fault    FaultFunc
	journal  journal.Journal
	metrics  *telemetry.Metrics
	runID    uuid.UUID
	logger   *slog.Logger

	// mu сериализует обработку и защищает state
	mu        sync.Mutex
	state     State
	defunctCh chan struct{}
}

// NewConsumer создаёт новый Consumer в состоянии Running.
func NewConsumer(cfg ConsumerConfig) *Consumer {
	fault := cfg.Fault
	if fault == nil {
		fault = Crash
	}

	j := cfg.Journal
	if j == nil {
		j = journal.Nop{}
	}

	runID := cfg.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Consumer{
		topology:  cfg.Topology,
		fault:     fault,
		journal:   j,
		metrics:   cfg.Metrics,
		runID:     runID,
		logger:    telemetry.WithQueue(logger, string(cfg.Topology.Queue)).With("run_id", runID.String()),
		state:     StateRunning,
		defunctCh: make(chan struct{}),
	}
}

// State возвращает текущее состояние.
func (c *Consumer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Defunct закрывается, когда consumer переходит в Defunct.
func (c *Consumer) Defunct() <-chan struct{} {
	return c.defunctCh
}

// Health возвращает ErrDefunct, если consumer вышел из строя.
func (c *Consumer) Health() error {
	if c.State() == StateDefunct {
		return ErrDefunct
	}
	return nil
}

// Handle — mq.Handler для очереди sigseg.q.
func (c *Consumer) Handle(ctx context.Context, d *mq.Delivery) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDefunct {
		return fmt.Errorf("%w: %w", ErrDefunct, mq.ErrHalt)
	}

	msg, err := mq.Decode[Message](d)
	if err != nil {
		return err
	}

	logger := telemetry.WithMessageID(c.logger, msg.ID)
	logger.Info("received message", "sigseg", msg.Sigseg, "redelivered", d.Redelivered())

	c.metrics.Received(d.Redelivered())

	entry := journal.Entry{
		RunID:       c.runID,
		MessageID:   msg.ID,
		Sigseg:      msg.Sigseg,
		Direction:   journal.DirectionReceived,
		Redelivered: d.Redelivered(),
		At:          time.Now(),
	}
	if err := c.journal.Record(ctx, entry); err != nil {
		logger.Warn("failed to record received message", "error", err)
	}

	if !msg.Sigseg {
		return nil
	}

	c.state = StateDefunct
	close(c.defunctCh)
	c.metrics.Faulted()

	c.fault(Fault{
		MessageID:   msg.ID,
		DeliveryTag: d.Raw.DeliveryTag,
		Redelivered: d.Redelivered(),
	})

	return fmt.Errorf("message %d: %w", msg.ID, mq.ErrHalt)
}

// Run подписывается на очередь и блокируется до отмены ctx или сбоя.
// После сбоя возвращает ErrDefunct.
func (c *Consumer) Run(ctx context.Context, conn *mq.Connection) error {
	sub := mq.NewConsumer(conn, c.logger, mq.ConsumerConfig{
		Queue:   c.topology.Queue,
		Handler: c.Handle,
	})

	err := sub.Start(ctx)
	if errors.Is(err, mq.ErrHalt) {
		return ErrDefunct
	}
	return err
}
