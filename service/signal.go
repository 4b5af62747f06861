package service

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// StopOnSignals requests a graceful stop of svc when one of the provided OS
// signals is received. If no signals are given, SIGINT and SIGTERM are used.
// The handler fires at most once and is then uninstalled. The returned
// function uninstalls the handler without stopping the service; calling it
// more than once is safe.
func StopOnSignals(svc Service, signals ...os.Signal) func() {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, signals...)

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() { close(done) })
	}

	go func() {
		defer signal.Stop(sc)
		select {
		case <-sc:
			svc.StopAsync()
		case <-done:
		}
	}()

	return cancel
}
