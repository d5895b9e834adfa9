package mq

import (
	"context"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Значения топологии по умолчанию.
const (
	DefaultExchange   Exchange   = "sigseg.x"
	DefaultQueue      Queue      = "sigseg.q"
	DefaultRoutingKey RoutingKey = "sigseg"
	DefaultKind                  = amqp.ExchangeDirect
)

// Topology описывает exchange, очередь и привязку между ними.
//
// Topology — обычное значение: его передают в конструкторы Producer
// и Consumer явно, глобальных хэндлов нет.
type Topology struct {
	Exchange   Exchange   `json:"exchange"`
	Kind       string     `json:"kind"`
	Queue      Queue      `json:"queue"`
	RoutingKey RoutingKey `json:"routing_key"`

	// Durable — exchange и очередь переживают рестарт брокера.
	Durable bool `json:"durable"`
}

// DefaultTopology возвращает топологию sigseg.x → sigseg.q.
func DefaultTopology() Topology {
	return Topology{
		Exchange:   DefaultExchange,
		Kind:       DefaultKind,
		Queue:      DefaultQueue,
		RoutingKey: DefaultRoutingKey,
		Durable:    true,
	}
}

// Validate проверяет, что топологию можно объявить.
func (t Topology) Validate() error {
	if t.Exchange == "" {
		return fmt.Errorf("%w: empty exchange name", ErrInvalidTopology)
	}
	if t.Queue == "" {
		return fmt.Errorf("%w: empty queue name", ErrInvalidTopology)
	}

	switch t.Kind {
	case amqp.ExchangeDirect, amqp.ExchangeFanout, amqp.ExchangeTopic, amqp.ExchangeHeaders:
	default:
		return fmt.Errorf("%w: unknown exchange kind %q", ErrInvalidTopology, t.Kind)
	}

	return nil
}

// Declare создаёт exchange, очередь и привязку. Операция идемпотентна.
func (t Topology) Declare(ctx context.Context, conn *Connection) error {
	if err := t.Validate(); err != nil {
		return err
	}

	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		return t.declare(ch)
	})
}

// declarer — часть *amqp.Channel, нужная для объявления топологии.
type declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

func (t Topology) declare(ch declarer) error {
	err := ch.ExchangeDeclare(
		string(t.Exchange), // name
		t.Kind,             // type
		t.Durable,          // durable
		false,              // auto-deleted
		false,              // internal
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", t.Exchange, err)
	}

	_, err = ch.QueueDeclare(
		string(t.Queue), // name
		t.Durable,       // durable
		false,           // delete when unused
		false,           // exclusive
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", t.Queue, err)
	}

	err = ch.QueueBind(
		string(t.Queue),      // queue name
		string(t.RoutingKey), // routing key
		string(t.Exchange),   // exchange
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		return fmt.Errorf("bind queue %s to %s: %w", t.Queue, t.Exchange, err)
	}

	return nil
}

// Describe возвращает описание топологии для логирования и CLI.
func (t Topology) Describe() string {
	durable := ""
	if t.Durable {
		durable = ", durable"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s%s)\n", t.Exchange, t.Kind, durable)
	fmt.Fprintf(&b, "└── %s [routing: %s]\n", t.Queue, t.RoutingKey)
	b.WriteString("        Consumer: sigseg-consumer\n")
	return b.String()
}
