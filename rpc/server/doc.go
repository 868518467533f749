// Package server implements the dictionary server: the connection acceptor, the
// per-connection sessions and the adapter that maps requests to dictionary operations.
//
// Every accepted connection becomes a Session that is queued in a fixed-size worker pool
// (lib/pool). A worker serves one session until the client disconnects, so at most
// PoolSize clients are served at the same time and all others wait in FIFO order.
//
// Admission:
//
// Right after accept the server writes one byte with the number of free workers. A zero
// byte tells the client that it is queued. As soon as a worker picks up the session (or
// a worker becomes idle while the session is the oldest waiting one) the client receives
// a second, non-zero byte. Each session receives exactly one non-zero byte.
//
// Session loop:
//
//	read frame -> decode request -> run command -> write response -> persist
//
// Unknown commands are answered with "ERROR: Unknown command" and do not touch the
// dictionary. A malformed frame or request ends only the affected session.
//
// Persistence:
//
// In the default "mutation" mode the dictionary file is rewritten after every command
// that changed the dictionary. The "always" mode rewrites it after every command.
//
// Observability:
//
//   - events (connects, admissions, disconnects, save failures) go to an EventSink and
//     to an in-memory EventLog
//   - Prometheus metrics (VictoriaMetrics) and rates (go-metrics), optionally logged
//     periodically
//   - an optional admin HTTP api (gin) with /health, /status, /events and /metrics
package server
