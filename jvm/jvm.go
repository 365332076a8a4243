package jvm

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/engine/hosted"
	"github.com/wippyai/jvm-runtime/errors"
)

// Config holds configuration for virtual-machine creation.
type Config struct {
	// Options are opaque configuration strings passed verbatim to the
	// backend's init arguments. Unrecognized options are rejected, not
	// ignored.
	Options []string

	// Version selects the runtime's ABI revision. Zero means
	// engine.DefaultVersion.
	Version engine.Version

	// PropagateExceptions selects the exception policy: when true,
	// managed faults are translated into *Throwable errors; when
	// false, a fault terminates the process after describing itself.
	PropagateExceptions bool

	// AbortOnResolutionFailure restores the legacy fatal behavior for
	// class and member resolution failures instead of returning typed
	// errors.
	AbortOnResolutionFailure bool

	// Engine adopts an already-created runtime instead of creating
	// one, for hosts that manage the runtime themselves. Options and
	// Version are ignored when set.
	Engine engine.Engine

	// NewEngine overrides the backend factory. The default creates a
	// hosted (pure-Go) engine.
	NewEngine func(engine.InitArgs) (engine.Engine, error)
}

// VM is the process-wide handle to the embedded runtime. At most one
// exists per process; it is created once and destroyed exactly once by
// Shutdown.
type VM struct {
	engine         engine.Engine
	version        engine.Version
	propagate      bool
	abortOnResolve bool
}

var (
	mu       sync.Mutex
	instance *VM
	tornDown bool
)

// Create builds the process-wide virtual machine. It fails with an
// already_created error if one exists, and with a creation error if
// the backend rejects the configuration. First-time creation is
// serialized: concurrent Create/Get calls are safe.
func Create(cfg Config) (*VM, error) {
	mu.Lock()
	defer mu.Unlock()
	return createLocked(cfg)
}

func createLocked(cfg Config) (*VM, error) {
	if tornDown {
		return nil, errors.Unsupported(errors.PhaseCreate,
			"re-creating the virtual machine after teardown is not supported")
	}
	if instance != nil {
		return nil, errors.AlreadyCreated()
	}

	version := cfg.Version
	if version == 0 {
		version = engine.DefaultVersion
	}

	eng := cfg.Engine
	if eng == nil {
		newEngine := cfg.NewEngine
		if newEngine == nil {
			newEngine = func(args engine.InitArgs) (engine.Engine, error) {
				return hosted.New(args)
			}
		}
		var err error
		eng, err = newEngine(engine.InitArgs{Options: cfg.Options, Version: version})
		if err != nil {
			if _, ok := err.(*errors.Error); ok {
				return nil, err
			}
			return nil, errors.CreationFailed(err)
		}
		if eng == nil {
			return nil, errors.CreationFailed(nil)
		}
	}

	instance = &VM{
		engine:         eng,
		version:        version,
		propagate:      cfg.PropagateExceptions,
		abortOnResolve: cfg.AbortOnResolutionFailure,
	}
	return instance, nil
}

// Created reports whether the virtual machine exists. Pure query, no
// side effects.
func Created() bool {
	mu.Lock()
	defer mu.Unlock()
	return instance != nil
}

// Get returns the virtual machine, lazily creating it with default
// options if absent. Creation failure here is not recoverable: Get
// aborts the process if no instance can be produced.
func Get() *VM {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil && !tornDown {
		if _, err := createLocked(Config{}); err != nil {
			Logger().Fatal("virtual machine creation failed", zap.Error(err))
		}
	}
	if instance == nil {
		Logger().Fatal("virtual machine is not available")
	}
	return instance
}

// Shutdown destroys the virtual machine. It is the registered
// teardown action for process exit: defer it from main. Shutdown is
// idempotent; a failing teardown primitive is fatal. The machine
// cannot be re-created afterwards.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		return
	}
	if err := instance.engine.Destroy(); err != nil {
		Logger().Fatal("destroying the virtual machine is not supported", zap.Error(err))
	}
	instance = nil
	tornDown = true
}

// Engine exposes the underlying runtime handle.
func (vm *VM) Engine() engine.Engine { return vm.engine }

// Version returns the configured ABI revision tag.
func (vm *VM) Version() engine.Version { return vm.version }

// PropagatesExceptions reports the configured exception policy.
func (vm *VM) PropagatesExceptions() bool { return vm.propagate }
