package pool

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("pool")

// --------------------------------------------------------------------------
// Interface Definitions
// --------------------------------------------------------------------------

// Task is a unit of work executed by exactly one worker.
// Run may block for a long time (e.g. for the whole lifetime of a connection).
type Task interface {
	// ID returns an identifier used for logging
	ID() uint64
	// Run executes the task to completion
	Run()
}

// Observer is notified when a worker changes state. Notifications are delivered
// outside the pool lock from the worker goroutine and must not block for long.
type Observer interface {
	// TaskStarted is called after a worker dequeued task. available is the number
	// of idle workers right before the worker took the task (always >= 1).
	TaskStarted(task Task, available int)
	// TaskFinished is called after task returned and the worker became idle again.
	// idle is the new idle count, next is the oldest queued task (nil if the queue is empty).
	TaskFinished(task Task, idle int, next Task)
}

// --------------------------------------------------------------------------
// Pool
// --------------------------------------------------------------------------

// Pool is a fixed set of long-lived workers draining an unbounded FIFO queue.
// A worker is occupied by one task until the task returns.
type Pool struct {
	size     int
	observer Observer

	// mu guards the queue and the idle counter together, so both are always observed
	// in a consistent state
	mu      sync.Mutex
	cond    *sync.Cond
	queue   *queue[Task]
	idle    int
	started bool
	closed  bool

	wg sync.WaitGroup
}

// New creates a pool with size workers. The workers are started by Start.
// observer may be nil.
func New(size int, observer Observer) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("pool size must be at least 1, got %d", size)
	}
	if size > 255 {
		// the idle count is reported to clients as a single byte
		return nil, fmt.Errorf("pool size must be at most 255, got %d", size)
	}

	p := &Pool{
		size:     size,
		observer: observer,
		queue:    newQueue[Task](),
		idle:     size,
	}
	p.cond = sync.NewCond(&p.mu)
	return p, nil
}

// Start launches the workers. Calling Start more than once has no effect.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.closed {
		return
	}
	p.started = true

	p.wg.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.work(i + 1)
	}
	Logger.Infof("started %d workers", p.size)
}

// Submit appends task to the tail of the queue and wakes one idle worker.
// It never blocks and never rejects a task while the pool is open.
// It returns false if the pool has been stopped.
//
// Thread-safety: This method is thread-safe.
func (p *Pool) Submit(task Task) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}
	p.queue.push(task)
	p.cond.Signal()
	return true
}

// Available returns the number of idle workers not yet claimed by a queued task,
// i.e. whether a task submitted now would start right away.
//
// With a single submitter the value can only grow until that submitter's next Submit:
// a worker taking a queued task decrements idle and queued together, and a finishing
// worker increments idle.
//
// Thread-safety: This method is thread-safe.
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return max(0, p.idle-p.queue.len())
}

// Idle returns the number of workers that are not running a task.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idle
}

// Queued returns the number of tasks waiting for a worker.
func (p *Pool) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.len()
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Close closes the queue: queued tasks are discarded and returned, idle workers exit
// and no further task is started. Running tasks keep their workers, see Wait.
//
// Thread-safety: This method is thread-safe.
func (p *Pool) Close() []Task {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var dropped []Task
	for {
		task, ok := p.queue.pop()
		if !ok {
			break
		}
		dropped = append(dropped, task)
	}
	p.cond.Broadcast()
	Logger.Infof("closed worker pool (%d queued tasks dropped)", len(dropped))
	return dropped
}

// Wait blocks until every worker has exited. It only returns after Close and once
// every running task has returned. The caller is responsible for making running
// tasks return (e.g. by closing their connections).
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Stop is Close followed by Wait.
func (p *Pool) Stop() []Task {
	dropped := p.Close()
	p.Wait()
	return dropped
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// work is the loop of one worker: Idle -> (dequeue) -> Busy -> Idle
func (p *Pool) work(id int) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for p.queue.len() == 0 && !p.closed {
			p.cond.Wait()
		}
		if p.closed {
			p.mu.Unlock()
			return
		}
		task, _ := p.queue.pop()
		available := p.idle
		p.idle--
		p.mu.Unlock()

		Logger.Debugf("worker %d picked up task %d (%d idle before)", id, task.ID(), available)
		if p.observer != nil {
			p.observer.TaskStarted(task, available)
		}

		p.run(id, task)

		p.mu.Lock()
		p.idle++
		idle := p.idle
		next, _ := p.queue.peek()
		p.mu.Unlock()

		Logger.Debugf("worker %d finished task %d (%d idle)", id, task.ID(), idle)
		if p.observer != nil {
			p.observer.TaskFinished(task, idle, next)
		}
	}
}

// run executes task and recovers from panics so the worker survives a misbehaving task
func (p *Pool) run(worker int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Errorf("worker %d: task %d panicked: %v\n%s", worker, task.ID(), r, debug.Stack())
		}
	}()
	task.Run()
}
