// Package jvm provides the high-level embedding API: the process-wide
// virtual machine, scoped execution contexts, member resolution, and
// typed invocation dispatch.
//
// # Quick Start
//
//	vm, err := jvm.Create(jvm.Config{PropagateExceptions: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer jvm.Shutdown()
//
//	sig := descriptor.String.Method("length").Returns(descriptor.Int)
//	length, err := vm.FindMethod(sig)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, _ := vm.String("hello")
//	n, err := jvm.Invoke[int32](s, length)
//
// # Lifecycle
//
// At most one virtual machine exists per process. Create builds it
// explicitly; Get lazily creates it with defaults. Creation is
// serialized, so concurrent first-time Create/Get calls are safe; a
// second Create fails with already_created rather than replacing the
// first. Shutdown destroys the machine exactly once and must run at
// process exit (defer it from main); re-creation after Shutdown is
// unsupported.
//
// Hosts that already manage a runtime can inject it through
// Config.Engine instead of having Create build one.
//
// # Execution Contexts
//
// Every operation runs under an Env scoped to a call frame: acquired
// at construction, released by Close. Construction attaches the
// calling goroutine only if it is not already attached, and Close
// detaches only if construction attached; nested scopes on one
// goroutine share the outer attachment. Goroutines play the role of
// native threads; pin with runtime.LockOSThread if managed code cares
// about OS-thread identity.
//
// # Invocation
//
// The runtime call boundary offers one call primitive per primitive
// return kind, so dispatch is specialized over the closed Result set:
//
//	jvm.Invoke[int32](recv, method, args...)      instance
//	jvm.InvokeStatic[jvm.Object](method, args...) static
//	jvm.InvokeVoid(recv, method, args...)         void
//	jvm.Construct(ctor, args...)                  constructor
//	jvm.GetStaticField[float64](field)            static field
//
// Arguments are tagged Values; arity and kind are checked against the
// resolved signature before the call crosses the boundary.
//
// # Exceptions
//
// After every runtime call the exception bridge inspects the context.
// Under Config.PropagateExceptions a pending fault is captured,
// cleared, and returned as a *Throwable error whose Object survives
// the call scope; otherwise the fault is described to the diagnostic
// stream and the process terminates. Resolution failures are typed
// errors by default; Config.AbortOnResolutionFailure restores the
// legacy fatal behavior.
//
// # References
//
// Object results returned by the dispatchers (Construct, String, and
// the Object specializations of Invoke, InvokeStatic, and
// GetStaticField) are promoted to global references before their call
// scope closes: they stay valid on any goroutine until released with
// DeleteGlobalRef. References obtained through a raw Env remain local
// to the scope and goroutine that produced them; promote those with
// NewGlobalRef before crossing either boundary.
package jvm
