// Package worker serializes log writes through one background goroutine.
//
// Producers call Submit from any goroutine; the worker dequeues tasks in
// FIFO order and runs the store's insert+evict transaction for each,
// then reports the outcome to the task's handler. Because there is only
// one worker, persisted writes are totally ordered and the store needs
// no extra locking.
//
// Every submitted task ends in exactly one of two ways:
//   - executed: the handler is called once with the Result
//   - dropped: shutdown discarded it before it started; the handler is
//     never called
//
// Shutdown waits for the backlog up to a deadline; Stop does not wait.
package worker
