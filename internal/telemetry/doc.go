// Package telemetry обеспечивает наблюдаемость producer'а и consumer'а.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//   - health.go  — /healthz и /metrics HTTP mux
//
// Оба процесса используют единый формат логирования
// и экспортируют метрики на /metrics endpoint.
package telemetry
