package jvm

import (
	"go.uber.org/zap"

	"github.com/wippyai/jvm-runtime/engine"
)

// Throwable is a managed exception translated into a Go error. It
// carries the opaque fault-object handle (promoted to a global
// reference so it survives the call scope that produced it) plus the
// fault's class name, enough for a wrapper layer to pattern-match and
// rethrow typed managed exceptions.
type Throwable struct {
	// Object is the managed exception object.
	Object Object

	// Class is the slash-qualified class name of the exception.
	Class string
}

func (t *Throwable) Error() string {
	return "managed exception: " + t.Class
}

// check inspects env for a pending managed fault. Under the
// no-propagation policy a fault is described and the process
// terminates; under the propagation policy the fault object is
// captured, the pending state cleared, and a *Throwable returned.
// Either way the context is left in the no-fault state unless the
// process is terminating.
func (vm *VM) check(env engine.Env) error {
	if !env.ExceptionCheck() {
		return nil
	}

	if !vm.propagate {
		env.ExceptionDescribe()
		Logger().Fatal("caught a managed exception, not propagating")
		return nil // unreachable
	}

	ref := env.ExceptionOccurred()
	env.ExceptionClear()

	class := env.ObjectClassName(ref)

	// Promote before the enclosing scope releases, so the handle stays
	// valid for the caller.
	if global, err := env.NewGlobalRef(ref); err == nil && global != nil {
		ref = global
	} else if err != nil {
		Logger().Warn("failed to promote exception reference", zap.Error(err))
	}

	return &Throwable{Object: Object{ref: ref}, Class: class}
}
