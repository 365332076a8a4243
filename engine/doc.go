// Package engine defines the boundary between the embedding layer and
// a concrete managed-runtime backend.
//
// # Architecture
//
// Two interfaces make up the boundary:
//
//	Engine - the runtime handle: attach/detach threads, teardown
//	Env    - a thread's raw call interface: lookup, call, fault state
//
// Package jvm drives these interfaces and never depends on a concrete
// backend; backends live in subpackages:
//
//	engine/hosted  - pure-Go backend, classes implemented by Go code
//	engine/wasmvm  - wazero backend, classes are WebAssembly modules
//
// # Call Boundary
//
// The raw boundary offers one call path per primitive return kind plus
// one for references and one for void; Env selects the path with a
// Kind argument. Managed faults raised by a call travel through the
// per-thread pending-fault state (ExceptionCheck / ExceptionOccurred /
// ExceptionClear / ExceptionDescribe), mirroring how the native call
// boundary reports them. An Env's error returns carry structural
// misuse only.
//
// # Thread Attachment
//
// Attachment state is per thread, with goroutines playing the role of
// native threads. AttachTable provides the goroutine-keyed slot both
// backends use. An Env must never cross goroutines; local references
// minted under an attachment go stale when the attachment is released.
package engine
