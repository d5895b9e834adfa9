package mq

import "errors"

// Ошибки и сигналы пакета mq.
var (
	// ErrHalt — обработчик просит прекратить потребление.
	// Доставка не подтверждается: после закрытия соединения брокер вернёт её в очередь.
	ErrHalt = errors.New("consumer halted")

	// ErrMalformed — тело сообщения не удалось разобрать.
	ErrMalformed = errors.New("malformed message")

	// ErrNacked — брокер отклонил публикацию (publisher confirm = nack).
	ErrNacked = errors.New("publish not acknowledged by broker")

	// ErrNoChannel — AMQP канал недоступен (соединение закрыто или переподключается).
	ErrNoChannel = errors.New("no channel available")

	// ErrInvalidTopology — топология описана некорректно.
	ErrInvalidTopology = errors.New("invalid topology")
)
