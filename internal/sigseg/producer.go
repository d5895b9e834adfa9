package sigseg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/sigseg/internal/journal"
	"github.com/shaiso/sigseg/internal/mq"
	"github.com/shaiso/sigseg/internal/telemetry"
)

// DefaultDelay — пауза между отправками.
const DefaultDelay = 500 * time.Millisecond

// Publisher публикует тело сообщения в exchange. Реализуется *mq.Publisher.
type Publisher interface {
	Publish(ctx context.Context, exchange mq.Exchange, routingKey mq.RoutingKey, body any) error
}

// ProducerConfig — конфигурация Producer.
type ProducerConfig struct {
	Publisher Publisher
	Topology  mq.Topology

	// Delay — пауза между отправками (default: 500ms).
	// Отрицательное значение отключает паузу.
	Delay time.Duration

	// Journal (опционально; если nil — journal.Nop)
	Journal journal.Journal

	// Metrics (опционально)
	Metrics *telemetry.Metrics

	// RunID (опционально; если пусто — генерируется)
	RunID uuid.UUID

	Logger *slog.Logger
}

// Producer публикует пакет сообщений последовательно.
type Producer struct {
	publisher Publisher
	topology  mq.Topology
	delay     time.Duration
	journal   journal.Journal
	metrics   *telemetry.Metrics
	runID     uuid.UUID
	logger    *slog.Logger
}

// NewProducer создаёт новый Producer.
func NewProducer(cfg ProducerConfig) *Producer {
	delay := cfg.Delay
	if delay == 0 {
		delay = DefaultDelay
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

	return &Producer{
		publisher: cfg.Publisher,
		topology:  cfg.Topology,
		delay:     delay,
		journal:   j,
		metrics:   cfg.Metrics,
		runID:     runID,
		logger:    logger.With("run_id", runID.String()),
	}
}

// Run публикует batch по порядку и ждёт подтверждения каждой публикации.
//
// Первая же ошибка публикации прерывает прогон: оставшиеся сообщения
// не отправляются, повторов нет.
func (p *Producer) Run(ctx context.Context, batch []Message) error {
	if p.publisher == nil {
		return ErrNoPublisher
	}
	if err := ValidateBatch(batch); err != nil {
		return err
	}

	p.logger.Info("publishing batch",
		"exchange", p.topology.Exchange,
		"routing_key", p.topology.RoutingKey,
		"size", len(batch),
		"delay", p.delay,
	)

	for i, msg := range batch {
		if i > 0 {
			if err := p.pause(ctx); err != nil {
				return err
			}
		}

		if err := p.send(ctx, msg); err != nil {
			return err
		}
	}

	p.logger.Info("batch published", "size", len(batch))
	return nil
}

// send публикует одно сообщение.
func (p *Producer) send(ctx context.Context, msg Message) error {
	logger := telemetry.WithMessageID(p.logger, msg.ID)
	logger.Info("sending message", "sigseg", msg.Sigseg)

	if err := p.publisher.Publish(ctx, p.topology.Exchange, p.topology.RoutingKey, msg); err != nil {
		p.metrics.PublishFailed()
		return fmt.Errorf("publish message %d: %w", msg.ID, err)
	}
	p.metrics.Published()

	entry := journal.Entry{
		RunID:     p.runID,
		MessageID: msg.ID,
		Sigseg:    msg.Sigseg,
		Direction: journal.DirectionSent,
		At:        time.Now(),
	}
	if err := p.journal.Record(ctx, entry); err != nil {
		logger.Warn("failed to record sent message", "error", err)
	}

	return nil
}

// pause ждёт delay или отмены ctx.
func (p *Producer) pause(ctx context.Context) error {
	if p.delay < 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
