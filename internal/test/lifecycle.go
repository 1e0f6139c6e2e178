package test

import (
	"context"
	"errors"

	"go.uber.org/fx"
)

// LifecycleRecorder stands in for fx.Lifecycle so tests can drive the
// server, sweeper and telemetry hooks without building an fx.App.
type LifecycleRecorder struct {
	Hooks   []fx.Hook
	started int
}

// Append stores hook for later invocation.
func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// Start runs OnStart hooks in registration order and stops at the first
// failure. Only hooks that started successfully are unwound by Stop.
func (l *LifecycleRecorder) Start(ctx context.Context) error {
	for l.started < len(l.Hooks) {
		hook := l.Hooks[l.started]
		if hook.OnStart != nil {
			if err := hook.OnStart(ctx); err != nil {
				return err
			}
		}
		l.started++
	}
	return nil
}

// Stop runs OnStop hooks of started hooks in reverse order, like fx does.
func (l *LifecycleRecorder) Stop(ctx context.Context) error {
	var errs []error
	for ; l.started > 0; l.started-- {
		hook := l.Hooks[l.started-1]
		if hook.OnStop != nil {
			if err := hook.OnStop(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// ShutdownerStub signals on Called when a background failure asks the app to exit.
type ShutdownerStub struct {
	Called chan struct{}
}

// Shutdown never blocks; a second signal is dropped when nobody is listening.
func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}
