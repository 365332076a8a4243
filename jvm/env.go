package jvm

import (
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/errors"
)

// Env is a scoped execution context: a thread's live handle into the
// runtime, acquired at construction and released by Close. If the
// construction attached the thread, Close detaches it; if the thread
// was already attached by an outer scope, Close leaves the attachment
// in place.
//
// An Env belongs to the goroutine that created it and must not cross
// goroutines. Construct one per call scope; nesting on the same
// goroutine reuses the existing attachment.
type Env struct {
	vm     *VM
	raw    engine.Env
	detach bool
	closed bool
}

// NewEnv acquires an execution context on the process-wide machine.
// daemon selects daemon attachment when this construction has to
// attach (the runtime does not wait for daemon threads at shutdown).
func NewEnv(daemon bool) (*Env, error) {
	return Get().NewEnv(daemon)
}

// NewEnv acquires an execution context for the calling goroutine.
func (vm *VM) NewEnv(daemon bool) (*Env, error) {
	// First check if we are already attached.
	raw, err := vm.engine.CurrentEnv()
	if err == nil {
		return &Env{vm: vm, raw: raw}, nil
	}
	if e, ok := err.(*errors.Error); !ok || e.Kind != errors.KindDetached {
		return nil, err
	}

	// Not attached: attach now and take responsibility for detaching.
	raw, err = vm.engine.Attach(daemon)
	if err != nil {
		return nil, err
	}
	return &Env{vm: vm, raw: raw, detach: true}, nil
}

// Raw returns the raw runtime call interface. This is the Env's
// primary value: callers use it to invoke raw runtime operations
// directly.
func (e *Env) Raw() engine.Env { return e.raw }

// Close releases the context, detaching the thread only if this Env
// attached it. Close is idempotent.
func (e *Env) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if e.detach {
		return e.vm.engine.Detach()
	}
	return nil
}
