package mq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

// fakeAcknowledger запоминает ack/nack по delivery tag.
type fakeAcknowledger struct {
	mu      sync.Mutex
	acked   []uint64
	nacked  map[uint64]bool // tag → requeue
	rejects int
}

func newFakeAcknowledger() *fakeAcknowledger {
	return &fakeAcknowledger{nacked: make(map[uint64]bool)}
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked[tag] = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(_ uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rejects++
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConsumer(h Handler) *Consumer {
	return NewConsumer(nil, discardLogger(), ConsumerConfig{Queue: DefaultQueue, Handler: h})
}

func delivery(ack amqp.Acknowledger, tag uint64, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Body: []byte(body)}
}

func TestNewConsumer_DefaultPrefetch(t *testing.T) {
	c := newTestConsumer(nil)
	if c.prefetch != 1 {
		t.Errorf("expected prefetch 1, got %d", c.prefetch)
	}

	c = NewConsumer(nil, discardLogger(), ConsumerConfig{Prefetch: 5})
	if c.prefetch != 5 {
		t.Errorf("expected prefetch 5, got %d", c.prefetch)
	}
}

func TestHandleDelivery_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		handlerErr  error
		wantAck     bool
		wantNack    bool
		wantRequeue bool
		wantHalt    bool
	}{
		{name: "success acks", handlerErr: nil, wantAck: true},
		{name: "plain error requeues", handlerErr: errors.New("boom"), wantNack: true, wantRequeue: true},
		{name: "malformed is dropped", handlerErr: fmt.Errorf("decode: %w", ErrMalformed), wantNack: true},
		{name: "halt leaves unacked", handlerErr: fmt.Errorf("fault: %w", ErrHalt), wantHalt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := newFakeAcknowledger()
			c := newTestConsumer(func(context.Context, *Delivery) error { return tt.handlerErr })

			err := c.handleDelivery(context.Background(), delivery(ack, 7, `{}`))

			if tt.wantHalt != errors.Is(err, ErrHalt) {
				t.Fatalf("halt: want %v, got err=%v", tt.wantHalt, err)
			}
			if got := len(ack.acked) == 1; got != tt.wantAck {
				t.Errorf("ack: want %v, got %v", tt.wantAck, ack.acked)
			}
			requeue, nacked := ack.nacked[7]
			if nacked != tt.wantNack {
				t.Errorf("nack: want %v, got %v", tt.wantNack, nacked)
			}
			if nacked && requeue != tt.wantRequeue {
				t.Errorf("requeue: want %v, got %v", tt.wantRequeue, requeue)
			}
		})
	}
}

func TestProcessDeliveries_StopsOnHalt(t *testing.T) {
	ack := newFakeAcknowledger()
	var handled []string

	c := newTestConsumer(func(_ context.Context, d *Delivery) error {
		handled = append(handled, string(d.Body))
		if string(d.Body) == "poison" {
			return ErrHalt
		}
		return nil
	})

	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- delivery(ack, 1, "ok")
	deliveries <- delivery(ack, 2, "poison")
	deliveries <- delivery(ack, 3, "after")

	err := c.processDeliveries(context.Background(), deliveries)
	if !errors.Is(err, ErrHalt) {
		t.Fatalf("expected ErrHalt, got %v", err)
	}

	if len(handled) != 2 || handled[0] != "ok" || handled[1] != "poison" {
		t.Errorf("unexpected handled sequence: %v", handled)
	}
	if len(ack.acked) != 1 || ack.acked[0] != 1 {
		t.Errorf("only first delivery should be acked, got %v", ack.acked)
	}
	if len(ack.nacked) != 0 {
		t.Errorf("nothing should be nacked, got %v", ack.nacked)
	}
	if len(deliveries) != 1 {
		t.Errorf("delivery after halt should stay in channel, %d left", len(deliveries))
	}
}

func TestProcessDeliveries_ClosedChannel(t *testing.T) {
	c := newTestConsumer(func(context.Context, *Delivery) error { return nil })

	deliveries := make(chan amqp.Delivery)
	close(deliveries)

	err := c.processDeliveries(context.Background(), deliveries)
	if err == nil || errors.Is(err, ErrHalt) {
		t.Fatalf("expected channel-closed error, got %v", err)
	}
}

func TestProcessDeliveries_ContextCancelled(t *testing.T) {
	c := newTestConsumer(func(context.Context, *Delivery) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.processDeliveries(ctx, make(chan amqp.Delivery))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		ID int `json:"id"`
	}

	got, err := Decode[payload](&Delivery{Body: []byte(`{"id":42}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 42 {
		t.Errorf("expected id 42, got %d", got.ID)
	}

	_, err = Decode[payload](&Delivery{Body: []byte(`not json`)})
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestDelivery_Redelivered(t *testing.T) {
	d := &Delivery{Raw: amqp.Delivery{Redelivered: true}}
	if !d.Redelivered() {
		t.Error("expected redelivered")
	}
}
