package service

import "context"

// Service represents a process with a managed lifecycle. It exposes a set of
// methods to request and observe state transitions. The normal lifecycle is
// New, Starting, Running, Stopping, Terminated; a service that encounters a
// problem while starting, running or stopping transitions to Failed instead.
type Service interface {
	// Name provides a user-friendly name for the service, that is used in
	// the logs.
	Name() string
	// StartAsync requests the service to start and returns without waiting
	// for startup to complete. It returns an invalid-state error if the
	// service was already started.
	StartAsync() error
	// StopAsync requests the service to stop and returns without waiting for
	// shutdown to complete. It is a no-op on a service that is already
	// stopping or has reached a terminal state.
	StopAsync() error
	// AwaitRunning blocks until the service reaches Running, or returns an
	// invalid-state error if the service settles into a state from which
	// Running is unreachable.
	AwaitRunning() error
	// AwaitRunningCtx is AwaitRunning bounded by a context: the deadline
	// elapsing yields a timeout error, cancellation an interrupted error.
	AwaitRunningCtx(ctx context.Context) error
	// AwaitTerminated blocks until the service reaches a terminal state, and
	// returns an invalid-state error carrying the failure cause if that
	// state is Failed.
	AwaitTerminated() error
	// AwaitTerminatedCtx is AwaitTerminated bounded by a context: the
	// deadline elapsing yields a timeout error, cancellation an interrupted
	// error.
	AwaitTerminatedCtx(ctx context.Context) error
	// Running returns true if the service is currently Running.
	Running() bool
	// State returns the current state of the service.
	State() State
	// FailureCause returns the error that caused the service to fail, or an
	// invalid-state error if the service has not failed.
	FailureCause() error
	// AddListener registers a listener notified of future state transitions
	// on the provided executor. Listeners registered after the service
	// reached a terminal state are discarded.
	AddListener(listener Listener, executor Executor)
}
