// Package server provides application lifecycle management: ordered
// startup, signal handling, and reverse-order shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service represents a long-running component that can be started and stopped.
type Service interface {
	// Start begins the service. It should block until the service is
	// finished or an error occurs.
	Start() error
	// Stop requests a cooperative stop.
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle manages the startup and shutdown of the application services:
// the game session in the foreground plus any background companions such
// as the database health loop. Services are started in order and stopped
// in reverse order.
type Lifecycle struct {
	logger   *zap.Logger
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service. Services are started in the order they
// are added; Add must not be called after Run.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts all services and blocks until the first service finishes,
// a service fails, or a termination signal arrives (SIGINT or SIGTERM).
// Services are then stopped in reverse order.
//
// Postcondition: All services are stopped when this method returns; the
// error of a failed service is returned, nil otherwise.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	doneCh := make(chan error, len(l.services))
	for _, ns := range l.services {
		ns := ns
		go func() {
			l.logger.Debug("starting service", zap.String("service", ns.name))
			if err := ns.service.Start(); err != nil {
				doneCh <- fmt.Errorf("service %s: %w", ns.name, err)
			} else {
				doneCh <- nil
			}
			cancel()
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		l.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-doneCh:
		if err != nil {
			l.logger.Error("service failed, shutting down", zap.Error(err))
			runErr = err
		}
	case <-ctx.Done():
	}

	// Stop services in reverse order.
	for i := len(l.services) - 1; i >= 0; i-- {
		ns := l.services[i]
		ns.service.Stop()
		l.logger.Debug("service stopped", zap.String("service", ns.name))
	}

	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(start)))
	return runErr
}
