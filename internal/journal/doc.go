// Package journal хранит журнал отправленных и полученных сообщений.
//
// Producer и consumer — разные процессы без общего состояния.
// Журнал позволяет после прогона ответить на вопрос, какие сообщения
// были доставлены, какое из них уронило consumer и какие так и не
// были обработаны.
//
// Реализации:
//   - Postgres — таблица sigseg_journal (pgxpool)
//   - Memory   — в памяти, для тестов
//   - Nop      — журнал отключён (БД недоступна)
package journal
