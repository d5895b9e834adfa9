package journal

import "errors"

// Ошибки журнала.
var (
	// ErrInvalidDirection — неизвестное направление записи.
	ErrInvalidDirection = errors.New("invalid journal direction")
)
