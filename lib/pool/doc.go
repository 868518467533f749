// Package pool implements the fixed-size worker pool of the wordkv server.
//
// A Pool owns N long-lived workers and an unbounded FIFO queue of tasks. Each worker
// loops Idle -> Busy -> Idle: it waits while the queue is empty, takes the oldest task
// and runs it to completion. In the server a task is a whole client session, so a
// worker stays busy for the entire lifetime of a connection and the idle count is the
// number of free connection slots, not the request processing capacity.
//
// Guarantees:
//
//   - Submit never blocks and never rejects a task while the pool is open
//   - The queue and the idle counter change under one mutex; Available, Idle and
//     Queued always report a consistent state
//   - Every transition of a worker is reported to the Observer
//   - A panic inside a task is recovered and logged; the worker keeps running
//
// Limitation: there is no timeout for a running task. A task that never returns
// occupies its worker forever.
package pool
