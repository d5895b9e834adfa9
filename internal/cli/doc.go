// Package cli реализует утилиту командной строки sigseg.
//
// # Ключевые компоненты
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
//
// ## Commands
//
//   - topology: описание exchange/queue/binding
//   - publish:  публикация одного сообщения (например, повторно отравить consumer)
//   - report:   сводка журнала — что отправлено, что получено, что так и не обработано
//
// Каждая команда создаётся фабричной функцией и получает замыкания
// для ленивого создания зависимостей после парсинга PersistentFlags.
package cli
