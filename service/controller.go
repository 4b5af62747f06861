package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Hooks contain the callbacks invoked by a Controller to control the
// underlying service.
type Hooks struct {
	// A friendly name for the service (optional).
	Name string
	// Start begins service startup. It is invoked exactly once, when the
	// first start is requested, and is expected to return promptly: real
	// work belongs on a goroutine owned by the hook, which eventually calls
	// NotifyStarted or NotifyFailed. Returning an error fails the service
	// with that error as cause.
	Start Hook
	// Stop begins service shutdown. It is invoked exactly once, when the
	// machine must actually shut a starting or running service down, and is
	// expected to return promptly, eventually followed by NotifyStopped or
	// NotifyFailed. Returning an error fails the service with that error as
	// cause.
	Stop Hook
}

func (h Hooks) copy() *Hooks {
	return &h
}

// Options contains options for a Controller.
type Options struct {
	// Sets the Logger used to log state transitions and failures. If nil,
	// the logging messages are discarded.
	Logger Logger
}

func (o Options) copy() *Options {
	return &o
}

// Controller is a Service driving the lifecycle state machine for a single
// underlying service, based on a set of provided hooks. All transitions are
// serialized under one lock; state queries read the latest published
// snapshot without it.
type Controller struct {
	// Service hooks
	hooks *Hooks
	// Service options
	opts *Options
	// Enforces atomic state change
	mu sync.Mutex
	// Latest state snapshot; written under mu, read lock-free
	snap atomic.Pointer[snapshot]
	// Closed and replaced under mu on every transition, waking waiters
	changed chan struct{}
	// Registered listeners; guarded by mu, cleared on a terminal transition
	listeners []listenerEntry
	// Callbacks queued under mu and drained after mu is released
	queue dispatchQueue
}

var _ Service = (*Controller)(nil)

// NewController creates a Controller with the provided hooks. It returns nil
// if the hook structure, the start hook or the stop hook is nil.
func NewController(hooks *Hooks) *Controller {
	return NewControllerWithOptions(hooks, nil)
}

// NewControllerWithOptions creates a Controller with the provided hooks and
// options. It returns nil if the hook structure, the start hook or the stop
// hook is nil.
func NewControllerWithOptions(hooks *Hooks, opts *Options) *Controller {
	if hooks == nil || hooks.Start == nil || hooks.Stop == nil {
		return nil
	}
	if opts == nil {
		opts = &Options{}
	}
	c := &Controller{
		hooks:   hooks.copy(),
		opts:    opts.copy(),
		changed: make(chan struct{}),
	}
	c.snap.Store(&snapshot{state: New})
	return c
}

// StartAsync requests the service to start and returns without waiting for
// startup to complete. It returns an invalid-state error if the service was
// already started. An error returned by the start hook fails the service and
// is returned to the caller.
func (c *Controller) StartAsync() error {
	c.mu.Lock()
	if state := c.snap.Load().state; state != New {
		c.mu.Unlock()
		return fmt.Errorf("service %s has already been started (%s): %w",
			c.Name(), state, errInvalidState)
	}
	c.setSnapshot(&snapshot{state: Starting})
	c.enqueueStarting()
	c.mu.Unlock()
	c.queue.drain()

	if err := c.hooks.Start(); err != nil {
		c.NotifyFailed(err)
		return err
	}
	return nil
}

// StopAsync requests the service to stop and returns without waiting for
// shutdown to complete. Stopping a service that is already stopping or has
// reached a terminal state is a no-op. Stopping a service that never started
// terminates it immediately; stopping a service that is still starting defers
// the stop hook until the pending start completes. An error returned by the
// stop hook fails the service and is returned to the caller.
func (c *Controller) StopAsync() error {
	c.mu.Lock()
	snap := c.snap.Load()
	// The external state is examined so that a stop already deferred while
	// starting (externally Stopping) stays a no-op.
	switch snap.externalState() {
	case New:
		c.setSnapshot(&snapshot{state: Terminated})
		c.enqueueTerminated(New)
	case Starting:
		c.setSnapshot(&snapshot{state: Starting, stopRequested: true})
		c.enqueueStopping(Starting)
	case Running:
		c.setSnapshot(&snapshot{state: Stopping})
		c.enqueueStopping(Running)
		c.mu.Unlock()
		c.queue.drain()
		if err := c.hooks.Stop(); err != nil {
			c.NotifyFailed(err)
			return err
		}
		return nil
	default:
		// Stopping, Terminated, Failed
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	c.queue.drain()
	return nil
}

// NotifyStarted signals that the underlying service has started. It is
// called by the start hook (or the goroutine it spawned) once startup is
// complete, and transitions the service from Starting to Running, or to
// Stopping if a stop was requested in the meantime, in which case the stop
// hook is invoked before returning. Calling NotifyStarted while the service
// is not starting returns an invalid-state error and fails the service.
func (c *Controller) NotifyStarted() error {
	c.mu.Lock()
	snap := c.snap.Load()
	if snap.state != Starting {
		c.mu.Unlock()
		err := fmt.Errorf("cannot notify service %s started while %s: %w",
			c.Name(), snap.state, errInvalidState)
		c.NotifyFailed(err)
		return err
	}
	if snap.stopRequested {
		c.setSnapshot(&snapshot{state: Stopping})
		// Listeners already observed Stopping when the stop was requested.
		c.mu.Unlock()
		c.queue.drain()
		if err := c.hooks.Stop(); err != nil {
			c.NotifyFailed(err)
			return err
		}
		return nil
	}
	c.setSnapshot(&snapshot{state: Running})
	c.enqueueRunning()
	c.mu.Unlock()
	c.queue.drain()
	return nil
}

// NotifyStopped signals that the underlying service has stopped. It is
// called by the stop hook (or the goroutine it spawned) once shutdown is
// complete, and transitions the service to Terminated. Calling NotifyStopped
// while the service is neither stopping nor running returns an invalid-state
// error and fails the service.
func (c *Controller) NotifyStopped() error {
	c.mu.Lock()
	snap := c.snap.Load()
	// The internal state is examined so that a stop requested while starting
	// does not allow NotifyStopped before the pending start completed.
	if snap.state != Stopping && snap.state != Running {
		c.mu.Unlock()
		err := fmt.Errorf("cannot notify service %s stopped while %s: %w",
			c.Name(), snap.state, errInvalidState)
		c.NotifyFailed(err)
		return err
	}
	c.setSnapshot(&snapshot{state: Terminated})
	c.enqueueTerminated(snap.state)
	c.mu.Unlock()
	c.queue.drain()
	return nil
}

// NotifyFailed transitions the service to Failed, recording cause. The
// service is not stopped first. Only the first failure is recorded: calling
// NotifyFailed on a service that already failed is a no-op. Failing a
// service that is New or Terminated indicates a bug in the calling code and
// returns an invalid-state error without transitioning.
func (c *Controller) NotifyFailed(cause error) error {
	if cause == nil {
		return fmt.Errorf("cannot fail service %s without a cause: %w",
			c.Name(), errInvalidState)
	}
	c.mu.Lock()
	snap := c.snap.Load()
	switch snap.state {
	case New, Terminated:
		c.mu.Unlock()
		return fmt.Errorf("service %s cannot fail while %s (cause: %v): %w",
			c.Name(), snap.state, cause, errInvalidState)
	case Failed:
		c.mu.Unlock()
		return nil
	default:
		// Starting, Running, Stopping
		from := snap.externalState()
		c.setSnapshot(&snapshot{state: Failed, failure: cause})
		c.error(cause, "service failed", "from", from.String())
		c.enqueueFailed(from, cause)
		c.mu.Unlock()
		c.queue.drain()
		return nil
	}
}

// AwaitRunning blocks until the service reaches Running. It returns a
// non-nil invalid-state error if the service settles into a state from which
// Running is unreachable.
func (c *Controller) AwaitRunning() error {
	return c.AwaitRunningCtx(context.Background())
}

// AwaitRunningCtx blocks until the service reaches Running, the context
// deadline elapses (timeout error) or the context is cancelled (interrupted
// error). It returns an invalid-state error, carrying the failure cause when
// the service failed, if the service settles into a state from which Running
// is unreachable. The machine state is never altered by waiting.
func (c *Controller) AwaitRunningCtx(ctx context.Context) error {
	return c.await(ctx, Running)
}

// AwaitTerminated blocks until the service reaches a terminal state. It
// returns a non-nil invalid-state error carrying the failure cause if the
// service failed rather than terminating cleanly.
func (c *Controller) AwaitTerminated() error {
	return c.AwaitTerminatedCtx(context.Background())
}

// AwaitTerminatedCtx blocks until the service reaches a terminal state, the
// context deadline elapses (timeout error) or the context is cancelled
// (interrupted error). It returns an invalid-state error carrying the
// failure cause if the service failed rather than terminating cleanly.
func (c *Controller) AwaitTerminatedCtx(ctx context.Context) error {
	return c.await(ctx, Terminated)
}

// await blocks until the external state reaches target or beyond, then
// reports whether the service landed exactly on target.
func (c *Controller) await(ctx context.Context, target State) error {
	for {
		c.mu.Lock()
		snap := c.snap.Load()
		changed := c.changed
		c.mu.Unlock()

		if state := snap.externalState(); state >= target {
			if state == target {
				return nil
			}
			if state == Failed {
				return fmt.Errorf(
					"expected service %s to reach %s, but it has failed: %w: %w",
					c.Name(), target, snap.failure, errInvalidState)
			}
			return fmt.Errorf("expected service %s to reach %s, but it is %s: %w",
				c.Name(), target, state, errInvalidState)
		}

		select {
		case <-changed:
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf(
					"timed out waiting for service %s to reach %s, currently %s: %w",
					c.Name(), target, c.State(), errTimeout)
			}
			return fmt.Errorf("wait for service %s to reach %s interrupted: %w",
				c.Name(), target, errInterrupted)
		}
	}
}

// AddListener registers a listener to be notified of every future state
// transition, with callbacks running on the provided executor. Past
// transitions are not replayed. If the service already reached a terminal
// state the listener is discarded, since it could never fire. A nil executor
// defaults to DirectExecutor.
func (c *Controller) AddListener(listener Listener, executor Executor) {
	if executor == nil {
		executor = DirectExecutor
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap.Load().externalState().Terminal() {
		return
	}
	c.listeners = append(c.listeners, listenerEntry{
		listener: listener,
		executor: executor,
	})
}

// Name provides a user-friendly name for the service, that is used in the
// logs.
func (c *Controller) Name() string {
	return c.hooks.Name
}

// State returns the current externally visible state of the service. It
// never blocks.
func (c *Controller) State() State {
	return c.snap.Load().externalState()
}

// Running returns true if the service is currently Running.
func (c *Controller) Running() bool {
	return c.State() == Running
}

// FailureCause returns the error that caused the service to fail. If the
// service has not failed, it returns an invalid-state error instead; the two
// cases are distinguished with IsInvalidState.
func (c *Controller) FailureCause() error {
	snap := c.snap.Load()
	if snap.state != Failed {
		return fmt.Errorf("service %s has no failure cause while %s: %w",
			c.Name(), snap.state, errInvalidState)
	}
	return snap.failure
}

// setSnapshot publishes the next snapshot and wakes blocked waiters. It must
// be called with mu held.
func (c *Controller) setSnapshot(next *snapshot) {
	prev := c.snap.Load()
	c.snap.Store(next)
	if from, to := prev.externalState(), next.externalState(); from != to {
		c.info("transitioned", "from", from.String(), "to", to.String())
	}
	close(c.changed)
	c.changed = make(chan struct{})
}

// The enqueue helpers below append one callback per registered listener to
// the dispatch queue. They must be called with mu held; the queue is drained
// after mu is released.

func (c *Controller) enqueueStarting() {
	for _, e := range c.listeners {
		if cb := e.listener.Starting; cb != nil {
			c.queue.add(cb, e.executor)
		}
	}
}

func (c *Controller) enqueueRunning() {
	for _, e := range c.listeners {
		if cb := e.listener.Running; cb != nil {
			c.queue.add(cb, e.executor)
		}
	}
}

func (c *Controller) enqueueStopping(from State) {
	for _, e := range c.listeners {
		if cb := e.listener.Stopping; cb != nil {
			c.queue.add(func() { cb(from) }, e.executor)
		}
	}
}

func (c *Controller) enqueueTerminated(from State) {
	for _, e := range c.listeners {
		if cb := e.listener.Terminated; cb != nil {
			c.queue.add(func() { cb(from) }, e.executor)
		}
	}
	// No further transitions are possible, release the listeners.
	c.listeners = nil
}

func (c *Controller) enqueueFailed(from State, cause error) {
	for _, e := range c.listeners {
		if cb := e.listener.Failed; cb != nil {
			c.queue.add(func() { cb(from, cause) }, e.executor)
		}
	}
	// No further transitions are possible, release the listeners.
	c.listeners = nil
}

// info logs an information message.
func (c *Controller) info(msg string, keysAndValues ...interface{}) {
	if c.opts.Logger != nil {
		c.opts.Logger.Info(msg, append(keysAndValues, "name", c.hooks.Name)...)
	}
}

// error logs an error.
func (c *Controller) error(err error, msg string, keysAndValues ...interface{}) {
	if c.opts.Logger != nil {
		c.opts.Logger.Error(err, msg, append(keysAndValues, "name",
			c.hooks.Name)...)
	}
}
