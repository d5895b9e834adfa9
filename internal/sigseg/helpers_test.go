package sigseg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/sigseg/internal/mq"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// syncBuffer — bytes.Buffer, безопасный для логгера.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

type published struct {
	exchange   mq.Exchange
	routingKey mq.RoutingKey
	msg        Message
}

// fakePublisher запоминает публикации и может падать на заданном id.
type fakePublisher struct {
	mu     sync.Mutex
	calls  []published
	failOn map[int]error

	// deliver, если задан, получает каждое опубликованное тело
	deliver func(body []byte)
}

func (f *fakePublisher) Publish(_ context.Context, exchange mq.Exchange, routingKey mq.RoutingKey, body any) error {
	msg, ok := body.(Message)
	if !ok {
		return errors.New("unexpected body type")
	}
	if err := f.failOn[msg.ID]; err != nil {
		return err
	}

	f.mu.Lock()
	f.calls = append(f.calls, published{exchange, routingKey, msg})
	f.mu.Unlock()

	if f.deliver != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		f.deliver(raw)
	}
	return nil
}

func (f *fakePublisher) ids() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]int, len(f.calls))
	for i, c := range f.calls {
		ids[i] = c.msg.ID
	}
	return ids
}

// faultRecorder — FaultFunc для тестов: вместо падения процесса запоминает сбой.
type faultRecorder struct {
	mu     sync.Mutex
	faults []Fault
}

func (r *faultRecorder) record(f Fault) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults = append(r.faults, f)
}

func (r *faultRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.faults)
}

func newDelivery(tag uint64, body string, redelivered bool) *mq.Delivery {
	return &mq.Delivery{
		Body: []byte(body),
		Raw:  amqp.Delivery{DeliveryTag: tag, Redelivered: redelivered, Body: []byte(body)},
	}
}
