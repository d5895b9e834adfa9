package journal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Direction — направление записи журнала.
type Direction string

const (
	// DirectionSent — сообщение опубликовано producer'ом.
	DirectionSent Direction = "sent"

	// DirectionReceived — сообщение доставлено обработчику consumer'а.
	DirectionReceived Direction = "received"
)

// Valid проверяет, что направление известно.
func (d Direction) Valid() bool {
	return d == DirectionSent || d == DirectionReceived
}

// Entry — одна запись журнала.
type Entry struct {
	// RunID — идентификатор процесса, сделавшего запись.
	RunID uuid.UUID `json:"run_id"`

	MessageID   int       `json:"message_id"`
	Sigseg      bool      `json:"sigseg"`
	Direction   Direction `json:"direction"`
	Redelivered bool      `json:"redelivered"`
	At          time.Time `json:"at"`
}

// Journal — хранилище записей.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
}

// Memory — журнал в памяти.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory создаёт пустой журнал в памяти.
func NewMemory() *Memory {
	return &Memory{}
}

// Record добавляет запись.
func (m *Memory) Record(_ context.Context, e Entry) error {
	if !e.Direction.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, e.Direction)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// List возвращает копию записей в порядке добавления.
func (m *Memory) List(_ context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// Nop — журнал, который ничего не хранит.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

func (Nop) List(context.Context) ([]Entry, error) { return nil, nil }
