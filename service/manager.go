package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Manager drives a fixed set of services as a single unit: all services are
// started and stopped together, and the manager can wait for the whole set
// to become healthy or to come to rest. Errors are reported per service and
// aggregated, so one misbehaving service does not hide the others.
type Manager struct {
	services []Service
	logger   Logger
}

// NewManager creates a Manager over the provided services.
func NewManager(services ...Service) *Manager {
	return NewManagerWithOptions(nil, services...)
}

// NewManagerWithOptions creates a Manager over the provided services. With a
// logger set, the manager additionally logs every service failure and
// termination as it happens.
func NewManagerWithOptions(opts *Options, services ...Service) *Manager {
	m := &Manager{services: services}
	if opts != nil {
		m.logger = opts.Logger
	}
	if m.logger != nil {
		for _, svc := range m.services {
			svc := svc
			svc.AddListener(Listener{
				Failed: func(from State, cause error) {
					m.logger.Error(cause, "service failed",
						"name", svc.Name(), "from", from.String())
				},
				Terminated: func(from State) {
					m.logger.Info("service terminated",
						"name", svc.Name(), "from", from.String())
				},
			}, DirectExecutor)
		}
	}
	return m
}

// Services returns the managed services, in registration order.
func (m *Manager) Services() []Service {
	out := make([]Service, len(m.services))
	copy(out, m.services)
	return out
}

// StartAsync requests every managed service to start. Failures to start do
// not prevent the remaining services from being started; the per-service
// errors are aggregated into the returned error.
func (m *Manager) StartAsync() error {
	var result *multierror.Error
	for _, svc := range m.services {
		if err := svc.StartAsync(); err != nil {
			result = multierror.Append(result,
				fmt.Errorf("service %s: %w", svc.Name(), err))
		}
	}
	return result.ErrorOrNil()
}

// StopAsync requests every managed service to stop. Per-service errors are
// aggregated into the returned error.
func (m *Manager) StopAsync() error {
	var result *multierror.Error
	for _, svc := range m.services {
		if err := svc.StopAsync(); err != nil {
			result = multierror.Append(result,
				fmt.Errorf("service %s: %w", svc.Name(), err))
		}
	}
	return result.ErrorOrNil()
}

// AwaitHealthy blocks until every managed service reaches Running.
func (m *Manager) AwaitHealthy() error {
	return m.AwaitHealthyCtx(context.Background())
}

// AwaitHealthyCtx blocks until every managed service reaches Running, the
// context deadline elapses or the context is cancelled. Services that settle
// into a state from which Running is unreachable contribute an invalid-state
// error to the aggregate.
func (m *Manager) AwaitHealthyCtx(ctx context.Context) error {
	return m.awaitAll(func(svc Service) error {
		return svc.AwaitRunningCtx(ctx)
	})
}

// AwaitStopped blocks until every managed service reaches a terminal state.
// Services that failed contribute their failure cause to the aggregate.
func (m *Manager) AwaitStopped() error {
	return m.AwaitStoppedCtx(context.Background())
}

// AwaitStoppedCtx blocks until every managed service reaches a terminal
// state, the context deadline elapses or the context is cancelled.
func (m *Manager) AwaitStoppedCtx(ctx context.Context) error {
	return m.awaitAll(func(svc Service) error {
		return svc.AwaitTerminatedCtx(ctx)
	})
}

// Healthy returns true if every managed service is currently Running.
func (m *Manager) Healthy() bool {
	for _, svc := range m.services {
		if !svc.Running() {
			return false
		}
	}
	return true
}

// awaitAll waits on every service concurrently and aggregates the failures,
// attributing each to the service it came from.
func (m *Manager) awaitAll(wait func(Service) error) error {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result *multierror.Error
	)
	for _, svc := range m.services {
		svc := svc
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := wait(svc); err != nil {
				mu.Lock()
				result = multierror.Append(result,
					fmt.Errorf("service %s: %w", svc.Name(), err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return result.ErrorOrNil()
}
