package service

import "sync"

// Listener receives state transition notifications from a service. Each
// field is optional; nil callbacks are simply skipped. Callbacks run on the
// Executor the listener was registered with, never while the controller lock
// is held, so a callback may safely call back into the service.
type Listener struct {
	// Starting is called when the service transitions from New to Starting.
	Starting func()
	// Running is called when the service transitions from Starting to
	// Running.
	Running func()
	// Stopping is called when the service transitions to Stopping. The
	// argument is the occupied state when the stop was requested, Starting
	// or Running.
	Stopping func(from State)
	// Terminated is called when the service transitions to Terminated. The
	// argument is the state the service was in prior to terminating.
	Terminated func(from State)
	// Failed is called when the service transitions to Failed, with the
	// prior state and the error that caused the failure.
	Failed func(from State, cause error)
}

// Executor runs listener callbacks. DirectExecutor runs them inline on the
// dispatching goroutine; GoroutineExecutor runs each on its own goroutine.
// Callbacks handed to the same executor are submitted in transition order,
// but no ordering holds across different executors.
type Executor = func(task func())

// DirectExecutor runs the task inline.
func DirectExecutor(task func()) {
	task()
}

// GoroutineExecutor runs the task on a new goroutine.
func GoroutineExecutor(task func()) {
	go task()
}

type listenerEntry struct {
	listener Listener
	executor Executor
}

type dispatchTask struct {
	run      func()
	executor Executor
}

// dispatchQueue is a FIFO queue of listener callbacks. It is populated while
// the controller lock is held, so enqueue order across transitions is total,
// and drained strictly after the lock is released, so callbacks never run
// under the lock.
type dispatchQueue struct {
	mu       sync.Mutex
	draining bool
	tasks    []dispatchTask
}

func (q *dispatchQueue) add(run func(), executor Executor) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, dispatchTask{run: run, executor: executor})
}

// drain submits queued tasks to their executors in FIFO order. At most one
// drain is in flight at a time: a call that finds another drain in progress
// returns immediately and leaves its tasks to the active drainer, which
// keeps going until the queue is empty. Task submission is therefore
// serialized, so callbacks handed to the same executor neither reorder nor
// overlap.
func (q *dispatchQueue) drain() {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		task.executor(task.run)
		q.mu.Lock()
	}
	q.draining = false
	q.mu.Unlock()
}
