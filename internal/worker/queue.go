package worker

import "sync"

// taskQueue is a thread-safe FIFO queue for write tasks.
//
// The queue is unbounded so Submit never blocks producers. Memory grows
// with the backlog if the store is slower than the producers.
//
// The queue uses a channel for signaling so the worker can wait without
// polling.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool
	signal chan struct{} // Signals task availability (buffered, size 1)
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		tasks:  make([]Task, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a task to the back of the queue.
// Returns false if the queue is closed.
func (q *taskQueue) Enqueue(t Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.tasks = append(q.tasks, t)

	// Non-blocking: the buffer of 1 coalesces multiple signals
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// Dequeue removes and returns the front task.
// Blocks until a task is available or the queue is closed.
// Returns (Task{}, false) if the queue is closed and empty.
func (q *taskQueue) Dequeue() (Task, bool) {
	for {
		if t, ok := q.TryDequeue(); ok {
			return t, true
		}

		q.mu.Lock()
		if q.closed && len(q.tasks) == 0 {
			q.mu.Unlock()
			return Task{}, false
		}
		q.mu.Unlock()

		<-q.signal
	}
}

// TryDequeue attempts to dequeue without blocking.
// Returns (Task{}, false) if queue is empty.
func (q *taskQueue) TryDequeue() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return Task{}, false
	}

	t := q.tasks[0]

	// Release the slot so the handler closure can be collected
	q.tasks[0] = Task{}

	if len(q.tasks) == 1 {
		q.tasks = q.tasks[:0]
	} else {
		q.tasks = q.tasks[1:]
	}

	return t, true
}

// Drain removes every queued task and returns how many there were.
func (q *taskQueue) Drain() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.tasks)
	clear(q.tasks)
	q.tasks = q.tasks[:0]
	return n
}

// Len returns the current queue length.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Close signals that no more tasks will be enqueued.
// Wakes a blocked Dequeue by closing the signal channel.
func (q *taskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
