package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCreate   Phase = "create"   // runtime creation
	PhaseAttach   Phase = "attach"   // execution-context attach/detach
	PhaseResolve  Phase = "resolve"  // class and member resolution
	PhaseInvoke   Phase = "invoke"   // method/constructor invocation
	PhaseTeardown Phase = "teardown" // runtime destruction
)

// Kind categorizes the error
type Kind string

const (
	KindAlreadyCreated Kind = "already_created"
	KindCreationFailed Kind = "creation_failed"
	KindBadOption      Kind = "bad_option"
	KindClassNotFound  Kind = "class_not_found"
	KindMemberNotFound Kind = "member_not_found"
	KindDetached       Kind = "detached"
	KindArityMismatch  Kind = "arity_mismatch"
	KindTypeMismatch   Kind = "type_mismatch"
	KindStaleRef       Kind = "stale_ref"
	KindException      Kind = "exception"
	KindTeardownFailed Kind = "teardown_failed"
	KindUnsupported    Kind = "unsupported"
	KindNotFound       Kind = "not_found"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause     error
	Phase     Phase
	Kind      Kind
	Class     string
	Member    string
	Signature string
	Detail    string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Class != "" {
		b.WriteString(": ")
		b.WriteString(e.Class)
		if e.Member != "" {
			b.WriteByte('.')
			b.WriteString(e.Member)
		}
		if e.Signature != "" {
			b.WriteString(e.Signature)
		}
	}

	if e.Detail != "" {
		if e.Class != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Class sets the declaring class name
func (b *Builder) Class(name string) *Builder {
	b.err.Class = name
	return b
}

// Member sets the member name
func (b *Builder) Member(name string) *Builder {
	b.err.Member = name
	return b
}

// Signature sets the member signature string
func (b *Builder) Signature(sig string) *Builder {
	b.err.Signature = sig
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// AlreadyCreated reports that the process-wide runtime already exists
func AlreadyCreated() *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindAlreadyCreated,
		Detail: "virtual machine already created",
	}
}

// CreationFailed reports a failed runtime creation primitive
func CreationFailed(cause error) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindCreationFailed,
		Detail: "failed to create virtual machine",
		Cause:  cause,
	}
}

// BadOption reports an init option the backend does not recognize.
// Unrecognized options are rejected rather than ignored.
func BadOption(option string) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindBadOption,
		Detail: fmt.Sprintf("unrecognized option %q", option),
	}
}

// ClassNotFound reports a class that did not resolve
func ClassNotFound(name string) *Error {
	return &Error{
		Phase: PhaseResolve,
		Kind:  KindClassNotFound,
		Class: name,
	}
}

// MemberNotFound reports a constructor, method, or field that did not
// resolve against its declaring class
func MemberNotFound(class, member, signature string) *Error {
	return &Error{
		Phase:     PhaseResolve,
		Kind:      KindMemberNotFound,
		Class:     class,
		Member:    member,
		Signature: signature,
	}
}

// Detached reports use of an execution context on a thread with no
// live attachment
func Detached() *Error {
	return &Error{
		Phase:  PhaseAttach,
		Kind:   KindDetached,
		Detail: "current thread is not attached",
	}
}

// ArityMismatch reports an argument list whose length does not match
// the resolved signature
func ArityMismatch(member string, want, got int) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindArityMismatch,
		Member: member,
		Detail: fmt.Sprintf("signature has %d parameter(s), got %d argument(s)", want, got),
	}
}

// TypeMismatch reports an argument whose kind does not match the
// resolved signature at the given position
func TypeMismatch(member string, index int, want, got string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindTypeMismatch,
		Member: member,
		Detail: fmt.Sprintf("argument %d: signature wants %s, got %s", index, want, got),
	}
}

// StaleRef reports use of a local reference after its owning
// attachment was released
func StaleRef() *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindStaleRef,
		Detail: "local reference used outside its execution context",
	}
}

// TeardownFailed reports a failed runtime destruction primitive
func TeardownFailed(cause error) *Error {
	return &Error{
		Phase:  PhaseTeardown,
		Kind:   KindTeardownFailed,
		Detail: "destroying the virtual machine failed",
		Cause:  cause,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error for non-member lookups
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
