// Package sigseg — producer и consumer демонстрации «отравленного» сообщения.
//
// # Обзор
//
// Producer публикует фиксированную последовательность сообщений в exchange
// sigseg.x с паузой между отправками. Consumer читает очередь sigseg.q и
// логирует каждое сообщение. Сообщение с флагом sigseg=true переводит
// consumer в состояние Defunct и вызывает фатальный сбой процесса.
//
// Цель — показать, что одно плохое сообщение выводит consumer из строя
// целиком: изоляции на уровне сообщения нет, перезапуска нет.
//
// # Состояния consumer'а
//
//	Running ──(sigseg=true)──▶ Defunct
//
// Переход необратим. В Defunct consumer ничего не обрабатывает и ничего
// не пишет в лог.
//
// # Fault
//
// Сбой — отдельный сигнал, а не error. Consumer вызывает FaultFunc:
//   - Crash (production) — немедленный os.Exit(139), без defer, recover и логов
//   - в тестах — функция, которая только запоминает Fault
//
// Доставка, вызвавшая сбой, не подтверждается. Когда соединение процесса
// закрывается, брокер возвращает её в очередь, и следующий экземпляр
// consumer'а получит её снова (Redelivered=true).
package sigseg
