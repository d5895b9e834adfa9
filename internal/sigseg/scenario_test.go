package sigseg

import (
	"context"
	"errors"
	"testing"

	"github.com/shaiso/sigseg/internal/journal"
	"github.com/shaiso/sigseg/internal/mq"
)

// Producer → «брокер» → Consumer в одном процессе. Брокер прекращает
// доставку, как только consumer вернул ErrHalt, как это делает mq.Consumer.
func TestScenario_ProducerToConsumer(t *testing.T) {
	ctx := context.Background()
	j := journal.NewMemory()
	rec := &faultRecorder{}
	c := newTestConsumer(rec, j, nil)

	var tag uint64
	halted := false
	pub := &fakePublisher{}
	pub.deliver = func(raw []byte) {
		if halted {
			return
		}
		tag++
		err := c.Handle(ctx, newDelivery(tag, string(raw), false))
		if errors.Is(err, mq.ErrHalt) {
			halted = true
		} else if err != nil {
			t.Errorf("unexpected handler error: %v", err)
		}
	}

	p := newTestProducer(pub, j, -1)
	if err := p.Run(ctx, DefaultBatch()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, _ := j.List(ctx)
	outcomes := journal.Summarize(entries)

	want := map[int]journal.Status{
		1: journal.StatusProcessed,
		2: journal.StatusFaulted,
		3: journal.StatusNeverProcessed,
	}
	if len(outcomes) != len(want) {
		t.Fatalf("expected %d outcomes, got %+v", len(want), outcomes)
	}
	for _, o := range outcomes {
		if o.Status != want[o.MessageID] {
			t.Errorf("message %d: expected %s, got %s", o.MessageID, want[o.MessageID], o.Status)
		}
		if o.Sent != 1 {
			t.Errorf("message %d: expected sent once, got %d", o.MessageID, o.Sent)
		}
	}

	if c.State() != StateDefunct {
		t.Errorf("expected defunct, got %s", c.State())
	}
}
