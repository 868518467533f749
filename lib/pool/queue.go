package pool

// node represents a single element in the queue
type node[T interface{}] struct {
	value T
	next  *node[T]
}

// queue is an unbounded FIFO queue backed by a singly linked list with a sentinel head.
//
// Thread-safety: queue is NOT safe for concurrent use. The pool guards it with the
// same mutex that guards the idle counter, so both change together.
type queue[T interface{}] struct {
	head *node[T] // sentinel, head.next is the oldest element
	tail *node[T]
	size int
}

// newQueue creates an empty queue
func newQueue[T interface{}]() *queue[T] {
	sentinel := &node[T]{}
	return &queue[T]{
		head: sentinel,
		tail: sentinel,
	}
}

// push appends a value at the tail
func (q *queue[T]) push(value T) {
	n := &node[T]{value: value}
	q.tail.next = n
	q.tail = n
	q.size++
}

// pop removes and returns the oldest value. ok is false if the queue is empty.
func (q *queue[T]) pop() (value T, ok bool) {
	next := q.head.next
	if next == nil {
		return value, false
	}

	value = next.value

	// next becomes the new sentinel; clear its value to help go gc
	var zero T
	next.value = zero
	q.head = next
	q.size--
	return value, true
}

// peek returns the oldest value without removing it
func (q *queue[T]) peek() (value T, ok bool) {
	if q.head.next == nil {
		return value, false
	}
	return q.head.next.value, true
}

// len returns the number of queued values
func (q *queue[T]) len() int {
	return q.size
}
