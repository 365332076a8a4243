// Package errors provides structured error types for the jvm-runtime
// library.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type includes the declaring class,
// member name, and signature of the failing operation plus a cause
// chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindMemberNotFound).
//		Class("java/lang/String").
//		Member("length").
//		Signature("()I").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ClassNotFound("java/lang/String")
//	err := errors.MemberNotFound("java/lang/String", "length", "()I")
//
// All errors implement the standard error interface and support
// errors.Is/As.
package errors
