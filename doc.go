// Package jvmruntime provides an embedding layer for hosting a
// JVM-style managed runtime inside a Go process.
//
// The library lets a host process own a process-wide virtual machine,
// attach per-thread execution contexts, resolve classes and members by
// descriptor, invoke managed methods with typed native arguments, and
// translate managed exceptions into Go errors.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	jvmruntime/        Root package with the shared Kind/Value/Ref model
//	├── descriptor/    Pure type and member-signature descriptors
//	├── errors/        Structured error types for debugging
//	├── engine/        Runtime-boundary interfaces and attach tracking
//	│   ├── hosted/    Pure-Go backend with host-implemented classes
//	│   └── wasmvm/    wazero backend where classes are wasm modules
//	├── jvm/           High-level API: VM singleton, Env, dispatch
//	└── cmd/jrun/      CLI for loading classes and invoking members
//
// # Quick Start
//
//	vm, err := jvm.Create(jvm.Config{
//	    Options:             []string{"-Dgreeting=hello"},
//	    PropagateExceptions: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer jvm.Shutdown()
//
//	str := descriptor.String
//	sig := str.Method("length").Returns(descriptor.Int)
//
//	m, err := vm.FindMethod(sig)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, _ := vm.String("hello")
//	n, err := jvm.Invoke[int32](s, m)
//	fmt.Println(n) // 5
//
// # Value Model
//
// Values crossing the host/runtime boundary are tagged: the Kind set is
// closed (void, object, boolean, byte, char, short, int, long, float,
// double) because the runtime call boundary offers one call primitive
// per primitive return kind plus one for references and one for void.
// Arguments are an explicit ordered sequence of tagged Values so arity
// and kind mismatches are caught before a call crosses the boundary.
//
// # Thread Model
//
// The embedding layer is synchronous and imposes no scheduling of its
// own. Goroutines play the role of native threads: the attach slot is
// keyed per goroutine. Callers that need real OS-thread identity must
// pin with runtime.LockOSThread before attaching.
package jvmruntime
