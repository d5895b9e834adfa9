package sigseg

import "errors"

// Ошибки пакета sigseg.
var (
	// ErrEmptyBatch — нечего публиковать.
	ErrEmptyBatch = errors.New("empty message batch")

	// ErrDuplicateID — id сообщения повторяется внутри одного прогона.
	ErrDuplicateID = errors.New("duplicate message id")

	// ErrDefunct — consumer в состоянии Defunct и больше ничего не обрабатывает.
	ErrDefunct = errors.New("consumer is defunct")

	// ErrNoPublisher — producer создан без publisher'а.
	ErrNoPublisher = errors.New("no publisher configured")
)
