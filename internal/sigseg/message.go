package sigseg

import "fmt"

// Message — сообщение демонстрации.
// На проводе: {"id": <int>, "sigseg": <bool>}.
type Message struct {
	ID     int  `json:"id"`
	Sigseg bool `json:"sigseg"`
}

// DefaultBatch возвращает сценарий: обычное, отравленное, обычное.
func DefaultBatch() []Message {
	return []Message{
		{ID: 1, Sigseg: false},
		{ID: 2, Sigseg: true}, // уронит consumer
		{ID: 3, Sigseg: false},
	}
}

// ValidateBatch проверяет, что пакет не пуст и id в нём уникальны.
func ValidateBatch(batch []Message) error {
	if len(batch) == 0 {
		return ErrEmptyBatch
	}

	seen := make(map[int]struct{}, len(batch))
	for _, m := range batch {
		if _, ok := seen[m.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, m.ID)
		}
		seen[m.ID] = struct{}{}
	}

	return nil
}
