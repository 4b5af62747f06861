package service

// IdleHooks contain the callbacks for a service that needs no goroutine of
// its own while running, only during startup and shutdown.
type IdleHooks struct {
	// A friendly name for the service (optional).
	Name string
	// StartUp starts the service. Unlike a Controller start hook it may
	// block: it runs on a goroutine owned by the returned service, which
	// reports Running once StartUp returns nil and Failed otherwise.
	StartUp Hook
	// ShutDown stops the service. Like StartUp it may block; the service
	// reports Terminated once ShutDown returns nil and Failed otherwise.
	ShutDown Hook
}

// NewIdle creates a service whose start-up and shut-down work each run on a
// dedicated goroutine, with completion reported automatically. It returns
// nil if the hook structure, the start-up hook or the shut-down hook is nil.
func NewIdle(hooks *IdleHooks) *Controller {
	return NewIdleWithOptions(hooks, nil)
}

// NewIdleWithOptions creates an idle service with the provided hooks and
// options. It returns nil if the hook structure, the start-up hook or the
// shut-down hook is nil.
func NewIdleWithOptions(hooks *IdleHooks, opts *Options) *Controller {
	if hooks == nil || hooks.StartUp == nil || hooks.ShutDown == nil {
		return nil
	}
	h := *hooks
	var c *Controller
	c = NewControllerWithOptions(&Hooks{
		Name: h.Name,
		Start: func() error {
			go func() {
				if err := h.StartUp(); err != nil {
					c.NotifyFailed(err)
					return
				}
				c.NotifyStarted()
			}()
			return nil
		},
		Stop: func() error {
			go func() {
				if err := h.ShutDown(); err != nil {
					c.NotifyFailed(err)
					return
				}
				c.NotifyStopped()
			}()
			return nil
		},
	}, opts)
	return c
}
