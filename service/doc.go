// Package service provides a lifecycle state machine for long-running
// in-process services.
//
// A service moves through the states New, Starting, Running, Stopping and
// Terminated, with a terminal Failed state reachable whenever something goes
// wrong while starting, running or stopping. The Controller owns the state
// machine; the underlying service is plugged in through a pair of hooks that
// begin startup and shutdown, and reports completion back through the
// notify methods.
//
// A typical HTTP server could look like:
//
//	type MyHTTPServer struct {
//	    *service.Controller
//	    server *http.Server
//	}
//
//	func NewHTTPServer() *MyHTTPServer {
//	    s := &MyHTTPServer{server: &http.Server{Addr: ":8090"}}
//	    s.Controller = service.NewController(&service.Hooks{
//	        Name:  "http",
//	        Start: s.start,
//	        Stop:  s.stop,
//	    })
//	    return s
//	}
//
//	func (s *MyHTTPServer) start() error {
//	    go func() {
//	        if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
//	            s.NotifyFailed(err)
//	        }
//	    }()
//	    return s.NotifyStarted()
//	}
//
//	func (s *MyHTTPServer) stop() error {
//	    go func() {
//	        if err := s.server.Shutdown(context.Background()); err != nil {
//	            s.NotifyFailed(err)
//	            return
//	        }
//	        s.NotifyStopped()
//	    }()
//	    return nil
//	}
//
// Out of the box, this provides you with:
//
//	• StartAsync and StopAsync, returning immediately
//	• AwaitRunning and AwaitTerminated, blocking with optional deadlines
//	• Stop-while-starting handling: the stop hook is deferred until the
//	  pending start completes, so the two hooks never run concurrently
//	• Failure capture: hook errors and protocol violations drive the
//	  machine to Failed with the cause retained for inspection
//	• Listeners notified of every transition on an executor of their choice
//	• Logging by providing your logger
//
// Services whose start-up and shut-down work is naturally blocking can use
// NewIdle instead of implementing the prompt-return hook contract by hand.
// This package also provides a Manager, which drives multiple services as a
// single startable unit, and StopOnSignals for graceful shutdown on SIGINT
// or SIGTERM.
package service
