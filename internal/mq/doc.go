// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, publisher confirms, graceful shutdown)
//   - topology.go   — описание и объявление exchange, queue, binding
//   - publisher.go  — синхронная публикация JSON-сообщений
//   - consumer.go   — потребление сообщений из очереди с ручным ack
//   - errors.go     — сигналы обработчика (ErrHalt, ErrMalformed)
//
// Топология по умолчанию:
//   - sigseg.x (direct, durable)
//   - sigseg.q (durable) [routing: sigseg]
//
// Обработчик сообщения сообщает consumer'у, что делать с доставкой:
//
//	nil              → Ack
//	ErrMalformed     → Nack без requeue (сообщение не разобрать)
//	ErrHalt          → доставка остаётся неподтверждённой, consumer останавливается
//	любая другая     → Nack с requeue
package mq
