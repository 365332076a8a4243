// Package wasmvm is the wazero backend: managed classes are
// WebAssembly modules.
//
// # Model
//
// A class is a compiled core wasm module registered with DefineModule
// under a slash-qualified name. The JNI-style member model maps onto
// module structure:
//
//	constructor      module instantiation; an exported "<init>"
//	                 function, when present, runs with the ctor args
//	instance method  exported function called on the object's own
//	                 module instance
//	static method    exported function called on a lazily created
//	                 shared instance of the class
//	static field     exported global read from the shared instance
//
// Method resolution checks the export's wasm signature against the
// descriptor-derived one: everything 32 bits or narrower travels as
// i32, long as i64, float as f32, double as f64. References cross the
// boundary as i32 handles through a process-local handle table; the
// null reference is handle 0.
//
// # Faults
//
// A guest trap (unreachable, out-of-bounds access, exhaustion) becomes
// the calling thread's pending fault, carried by an object of class
// wasm/Trap whose payload is the trap message. The exception bridge in
// package jvm turns it into a *Throwable like any other managed fault.
//
// # Example
//
//	eng, err := wasmvm.New(ctx, engine.InitArgs{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := eng.DefineModule("demo/Adder", wasmBytes); err != nil {
//	    log.Fatal(err)
//	}
//	vm, err := jvm.Create(jvm.Config{Engine: eng, PropagateExceptions: true})
package wasmvm
