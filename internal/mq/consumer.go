package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler — функция обработки сообщения.
// Результат определяет судьбу доставки (см. описание пакета).
type Handler func(ctx context.Context, d *Delivery) error

// Delivery — доставленное сообщение.
type Delivery struct {
	// Body — тело сообщения.
	Body []byte

	// Raw — сырое AMQP сообщение.
	Raw amqp.Delivery
}

// Redelivered сообщает, что брокер уже доставлял это сообщение.
func (d *Delivery) Redelivered() bool {
	return d.Raw.Redelivered
}

// Decode разбирает JSON-тело доставки в указанный тип.
// Ошибка разбора оборачивает ErrMalformed.
func Decode[T any](d *Delivery) (T, error) {
	var result T
	if err := json.Unmarshal(d.Body, &result); err != nil {
		return result, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return result, nil
}

// Consumer потребляет сообщения из очереди RabbitMQ.
type Consumer struct {
	conn     *Connection
	logger   *slog.Logger
	queue    Queue
	handler  Handler
	prefetch int

	cancelFunc context.CancelFunc
}

// ConsumerConfig — конфигурация consumer.
type ConsumerConfig struct {
	// Queue — имя очереди.
	Queue Queue

	// Handler — обработчик сообщений.
	Handler Handler

	// Prefetch — количество неподтверждённых сообщений на consumer.
	// По умолчанию 1: сообщения обрабатываются строго по одному.
	Prefetch int
}

// NewConsumer создаёт новый Consumer.
func NewConsumer(conn *Connection, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}

	return &Consumer{
		conn:     conn,
		logger:   logger,
		queue:    cfg.Queue,
		handler:  cfg.Handler,
		prefetch: prefetch,
	}
}

// Start запускает потребление и блокируется до отмены ctx
// или до того, как обработчик вернёт ErrHalt.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel
	defer cancel()

	return c.consume(ctx)
}

// consume — основной цикл потребления.
func (c *Consumer) consume(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		deliveries, err := c.setupConsume()
		if err != nil {
			c.logger.Error("failed to setup consume", "queue", c.queue, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.conn.ReconnectNotify():
				c.logger.Info("reconnected, restarting consumer", "queue", c.queue)
				continue
			}
		}

		c.logger.Info("consumer started", "queue", c.queue, "prefetch", c.prefetch)

		err = c.processDeliveries(ctx, deliveries)
		if errors.Is(err, ErrHalt) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Warn("deliveries channel closed, reconnecting", "queue", c.queue)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.conn.ReconnectNotify():
			continue
		}
	}
}

// setupConsume настраивает канал и начинает потребление.
func (c *Consumer) setupConsume() (<-chan amqp.Delivery, error) {
	ch := c.conn.Channel()
	if ch == nil {
		return nil, ErrNoChannel
	}

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(
		string(c.queue), // queue
		"",              // consumer tag (auto-generated)
		false,           // auto-ack (мы ack вручную)
		false,           // exclusive
		false,           // no-local
		false,           // no-wait
		nil,             // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	return deliveries, nil
}

// processDeliveries обрабатывает сообщения из канала.
func (c *Consumer) processDeliveries(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("deliveries channel closed")
			}

			if err := c.handleDelivery(ctx, raw); err != nil {
				return err
			}
		}
	}
}

// handleDelivery обрабатывает одно сообщение.
// Возвращает ErrHalt, если потребление нужно прекратить.
func (c *Consumer) handleDelivery(ctx context.Context, raw amqp.Delivery) error {
	delivery := &Delivery{
		Body: raw.Body,
		Raw:  raw,
	}

	err := c.handler(ctx, delivery)
	switch {
	case err == nil:
		if err := raw.Ack(false); err != nil {
			c.logger.Warn("ack failed", "queue", c.queue, "delivery_tag", raw.DeliveryTag, "error", err)
		}

	case errors.Is(err, ErrHalt):
		// Ни ack, ни nack: доставка вернётся в очередь, когда соединение закроется
		return err

	case errors.Is(err, ErrMalformed):
		c.logger.Error("malformed message",
			"queue", c.queue,
			"error", err,
			"body", string(raw.Body),
		)
		if err := raw.Nack(false, false); err != nil {
			c.logger.Warn("nack failed", "queue", c.queue, "delivery_tag", raw.DeliveryTag, "error", err)
		}

	default:
		c.logger.Error("handler failed",
			"queue", c.queue,
			"delivery_tag", raw.DeliveryTag,
			"error", err,
		)
		if err := raw.Nack(false, true); err != nil {
			c.logger.Warn("nack failed", "queue", c.queue, "delivery_tag", raw.DeliveryTag, "error", err)
		}
	}

	return nil
}

// Stop останавливает consumer.
func (c *Consumer) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
}
