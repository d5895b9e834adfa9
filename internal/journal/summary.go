package journal

import "sort"

// Status — итог по одному сообщению.
type Status string

const (
	// StatusProcessed — сообщение получено и обработано.
	StatusProcessed Status = "processed"

	// StatusFaulted — получение сообщения уронило consumer.
	StatusFaulted Status = "faulted"

	// StatusNeverProcessed — сообщение отправлено, но ни разу не получено.
	StatusNeverProcessed Status = "never-processed"
)

// Outcome — сводка по одному message id.
type Outcome struct {
	MessageID int    `json:"message_id"`
	Sigseg    bool   `json:"sigseg"`
	Sent      int    `json:"sent"`
	Received  int    `json:"received"`
	Status    Status `json:"status"`
}

// Summarize сворачивает записи журнала в итог по каждому message id,
// отсортированный по id.
//
// Получение сообщения с флагом sigseg считается сбоем: consumer
// после него становится defunct. Повторные получения (redelivery)
// увеличивают Received, но статус не меняют.
func Summarize(entries []Entry) []Outcome {
	byID := make(map[int]*Outcome)

	for _, e := range entries {
		o, ok := byID[e.MessageID]
		if !ok {
			o = &Outcome{MessageID: e.MessageID}
			byID[e.MessageID] = o
		}
		o.Sigseg = o.Sigseg || e.Sigseg

		switch e.Direction {
		case DirectionSent:
			o.Sent++
		case DirectionReceived:
			o.Received++
		}
	}

	out := make([]Outcome, 0, len(byID))
	for _, o := range byID {
		switch {
		case o.Received == 0:
			o.Status = StatusNeverProcessed
		case o.Sigseg:
			o.Status = StatusFaulted
		default:
			o.Status = StatusProcessed
		}
		out = append(out, *o)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].MessageID < out[j].MessageID })
	return out
}
