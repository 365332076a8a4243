package engine

import (
	jvmruntime "github.com/wippyai/jvm-runtime"
)

// Version selects the runtime's ABI revision, carried verbatim into
// the backend's init arguments.
type Version int32

const (
	V1_6 Version = 0x00010006
	V1_8 Version = 0x00010008
	V9   Version = 0x00090000
	V21  Version = 0x00150000
)

// DefaultVersion is used when no version tag is configured.
const DefaultVersion = V21

// InitArgs carries the embedding configuration into a backend.
// Options are opaque configuration strings passed through verbatim;
// backends must reject options they do not recognize rather than
// ignore them.
type InitArgs struct {
	Options []string
	Version Version
}

// Engine is the runtime handle a backend implements: thread
// attachment, the per-thread Env, and teardown. Goroutines play the
// role of native threads; the attach slot is keyed per goroutine.
type Engine interface {
	// CurrentEnv returns the calling thread's live Env, or a detached
	// error if the thread holds no attachment.
	CurrentEnv() (Env, error)

	// Attach attaches the calling thread and returns its Env. A
	// daemon attachment is one the runtime does not wait for at
	// shutdown. Attaching an already-attached thread returns the
	// existing Env.
	Attach(daemon bool) (Env, error)

	// Detach releases the calling thread's attachment. Local
	// references minted under the attachment become stale.
	Detach() error

	// Destroy tears the runtime down. Destroy is called at most once.
	Destroy() error
}

// Env is a thread's raw call interface into the runtime. It mirrors
// the native call boundary: one call path per primitive return kind
// plus one for references and one for void, selected by the Kind
// argument. Backends verify the Kind argument and the argument arity
// against the resolved member before managed code runs, and report a
// disagreement as structural misuse.
//
// Operations that execute managed code report managed faults through
// the pending-fault state, not through their error return: after such
// a call, ExceptionCheck must be consulted before the result is used.
// The error return carries structural misuse only (stale references,
// detached thread, unknown member ids).
//
// An Env is valid on the thread that produced it, for the lifetime of
// that thread's attachment. It must not cross threads.
type Env interface {
	// FindClass resolves a slash-qualified class name to a class
	// reference.
	FindClass(name string) (jvmruntime.Ref, error)

	// GetMethodID looks up an instance method by name and
	// method-descriptor string.
	GetMethodID(class jvmruntime.Ref, name, descriptor string) (jvmruntime.MemberID, error)

	// GetStaticMethodID looks up a static method by name and
	// method-descriptor string. Static and instance lookup paths are
	// distinct: a static member never resolves via GetMethodID and
	// vice versa.
	GetStaticMethodID(class jvmruntime.Ref, name, descriptor string) (jvmruntime.MemberID, error)

	// GetStaticFieldID looks up a static field by name and
	// type-signature string.
	GetStaticFieldID(class jvmruntime.Ref, name, signature string) (jvmruntime.MemberID, error)

	// NewObject runs the constructor and returns the new object as a
	// local reference.
	NewObject(class jvmruntime.Ref, ctor jvmruntime.MemberID, args []jvmruntime.Value) (jvmruntime.Ref, error)

	// Call invokes an instance method on receiver with the given
	// return kind.
	Call(receiver jvmruntime.Ref, method jvmruntime.MemberID, ret jvmruntime.Kind, args []jvmruntime.Value) (jvmruntime.Value, error)

	// CallStatic invokes a static method on the declaring class.
	CallStatic(class jvmruntime.Ref, method jvmruntime.MemberID, ret jvmruntime.Kind, args []jvmruntime.Value) (jvmruntime.Value, error)

	// GetStaticField reads a static field with the given kind.
	GetStaticField(class jvmruntime.Ref, field jvmruntime.MemberID, kind jvmruntime.Kind) (jvmruntime.Value, error)

	// NewString constructs a managed string object from native text.
	NewString(s string) (jvmruntime.Ref, error)

	// ObjectClassName returns the slash-qualified class name of the
	// object behind ref, or "" for the null reference.
	ObjectClassName(ref jvmruntime.Ref) string

	// NewGlobalRef promotes ref to a lifetime independent of any
	// attachment. The caller must release it with DeleteGlobalRef.
	NewGlobalRef(ref jvmruntime.Ref) (jvmruntime.Ref, error)

	// DeleteGlobalRef releases a global reference. It is a no-op on
	// the null reference.
	DeleteGlobalRef(ref jvmruntime.Ref)

	// ExceptionCheck reports whether a managed fault is pending on
	// this thread.
	ExceptionCheck() bool

	// ExceptionOccurred returns the pending fault object, or nil.
	ExceptionOccurred() jvmruntime.Ref

	// ExceptionClear clears the pending-fault state.
	ExceptionClear()

	// ExceptionDescribe writes a description of the pending fault to
	// the diagnostic stream. The pending state is left untouched.
	ExceptionDescribe()
}
