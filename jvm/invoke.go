package jvm

import (
	"go.uber.org/zap"

	jvmruntime "github.com/wippyai/jvm-runtime"
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/errors"
)

// Object is an opaque handle to a runtime-managed object. The zero
// Object is the null reference.
type Object struct {
	ref jvmruntime.Ref
}

// AsObject wraps a raw reference obtained from the engine boundary.
func AsObject(ref jvmruntime.Ref) Object { return Object{ref: ref} }

// Ref returns the underlying raw reference.
func (o Object) Ref() jvmruntime.Ref { return o.ref }

// IsNull reports whether o is the null reference.
func (o Object) IsNull() bool { return o.ref == nil }

// Result is the closed set of native return types the dispatcher
// supports: one per primitive return kind the runtime call boundary
// distinguishes, plus Object for references. There is no polymorphic
// call primitive at the boundary, so dispatch is specialized per
// member of this set.
type Result interface {
	bool | int8 | uint16 | int16 | int32 | int64 | float32 | float64 | Object
}

func kindFor[T Result]() jvmruntime.Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return jvmruntime.KindBoolean
	case int8:
		return jvmruntime.KindByte
	case uint16:
		return jvmruntime.KindChar
	case int16:
		return jvmruntime.KindShort
	case int32:
		return jvmruntime.KindInt
	case int64:
		return jvmruntime.KindLong
	case float32:
		return jvmruntime.KindFloat
	case float64:
		return jvmruntime.KindDouble
	default:
		return jvmruntime.KindObject
	}
}

// promote upgrades a reference minted inside env's scope to a global
// one: the dispatcher entries below open their own scope and close it
// before returning, so a scope-bound result would be stale by the time
// the caller sees it. A failed promotion leaves the local reference in
// place.
func promote(raw engine.Env, ref jvmruntime.Ref) jvmruntime.Ref {
	if ref == nil {
		return nil
	}
	global, err := raw.NewGlobalRef(ref)
	if err != nil {
		Logger().Warn("failed to promote result reference", zap.Error(err))
		return ref
	}
	if global == nil {
		return ref
	}
	return global
}

func valueAs[T Result](v jvmruntime.Value) T {
	var boxed any
	switch kindFor[T]() {
	case jvmruntime.KindBoolean:
		boxed = v.AsBool()
	case jvmruntime.KindByte:
		boxed = v.AsByte()
	case jvmruntime.KindChar:
		boxed = v.AsChar()
	case jvmruntime.KindShort:
		boxed = v.AsShort()
	case jvmruntime.KindInt:
		boxed = v.AsInt()
	case jvmruntime.KindLong:
		boxed = v.AsLong()
	case jvmruntime.KindFloat:
		boxed = v.AsFloat()
	case jvmruntime.KindDouble:
		boxed = v.AsDouble()
	default:
		boxed = Object{ref: v.AsRef()}
	}
	return boxed.(T)
}

// checkArgs verifies arity and per-position kind of the argument list
// against the resolved signature before anything crosses the runtime
// boundary.
func checkArgs(member string, params []jvmruntime.Kind, args []Value) error {
	if len(args) != len(params) {
		return errors.ArityMismatch(member, len(params), len(args))
	}
	for i, a := range args {
		if a.Kind() != params[i] {
			return errors.TypeMismatch(member, i, params[i].String(), a.Kind().String())
		}
	}
	return nil
}

func checkReturn(member string, want, got jvmruntime.Kind) error {
	if want != got {
		return errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Member(member).
			Detail("member returns %s, requested %s", want, got).
			Build()
	}
	return nil
}

// Invoke calls an instance method on receiver, specialized to the
// requested return type. The call opens a fresh execution context,
// performs the single matching call primitive, and runs the exception
// bridge before returning. An Object result is promoted to a global
// reference before the context closes; release it with
// DeleteGlobalRef.
func Invoke[T Result](receiver Object, m Method, args ...Value) (T, error) {
	var zero T
	if m.static {
		return zero, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Member(m.name).
			Detail("static method invoked through the instance path").
			Build()
	}
	if err := checkReturn(m.name, m.ret, kindFor[T]()); err != nil {
		return zero, err
	}
	if err := checkArgs(m.name, m.params, args); err != nil {
		return zero, err
	}

	env, err := m.vm.NewEnv(false)
	if err != nil {
		return zero, err
	}
	defer env.Close()

	out, err := env.raw.Call(receiver.ref, m.id, m.ret, args)
	if err != nil {
		return zero, err
	}
	if err := m.vm.check(env.raw); err != nil {
		return zero, err
	}
	if kindFor[T]() == jvmruntime.KindObject {
		out = jvmruntime.Object(promote(env.raw, out.AsRef()))
	}
	return valueAs[T](out), nil
}

// InvokeVoid calls a void instance method.
func InvokeVoid(receiver Object, m Method, args ...Value) error {
	if m.static {
		return errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Member(m.name).
			Detail("static method invoked through the instance path").
			Build()
	}
	if err := checkReturn(m.name, m.ret, jvmruntime.KindVoid); err != nil {
		return err
	}
	if err := checkArgs(m.name, m.params, args); err != nil {
		return err
	}

	env, err := m.vm.NewEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	if _, err := env.raw.Call(receiver.ref, m.id, jvmruntime.KindVoid, args); err != nil {
		return err
	}
	return m.vm.check(env.raw)
}

// InvokeStatic calls a static method, resolving the declaring class
// fresh within the call.
func InvokeStatic[T Result](m Method, args ...Value) (T, error) {
	var zero T
	if !m.static {
		return zero, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Member(m.name).
			Detail("instance method invoked through the static path").
			Build()
	}
	if err := checkReturn(m.name, m.ret, kindFor[T]()); err != nil {
		return zero, err
	}
	if err := checkArgs(m.name, m.params, args); err != nil {
		return zero, err
	}

	env, err := m.vm.NewEnv(false)
	if err != nil {
		return zero, err
	}
	defer env.Close()

	cls, err := m.vm.findClass(env.raw, m.class)
	if err != nil {
		return zero, err
	}
	out, err := env.raw.CallStatic(cls, m.id, m.ret, args)
	if err != nil {
		return zero, err
	}
	if err := m.vm.check(env.raw); err != nil {
		return zero, err
	}
	if kindFor[T]() == jvmruntime.KindObject {
		out = jvmruntime.Object(promote(env.raw, out.AsRef()))
	}
	return valueAs[T](out), nil
}

// InvokeStaticVoid calls a void static method.
func InvokeStaticVoid(m Method, args ...Value) error {
	if !m.static {
		return errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Member(m.name).
			Detail("instance method invoked through the static path").
			Build()
	}
	if err := checkReturn(m.name, m.ret, jvmruntime.KindVoid); err != nil {
		return err
	}
	if err := checkArgs(m.name, m.params, args); err != nil {
		return err
	}

	env, err := m.vm.NewEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	cls, err := m.vm.findClass(env.raw, m.class)
	if err != nil {
		return err
	}
	if _, err := env.raw.CallStatic(cls, m.id, jvmruntime.KindVoid, args); err != nil {
		return err
	}
	return m.vm.check(env.raw)
}

// Construct invokes a constructor through the same dispatch mechanism
// with reference-object return semantics. The declaring class is
// resolved fresh within the call; the new object comes back as a
// global reference, released with DeleteGlobalRef.
func Construct(c Constructor, args ...Value) (Object, error) {
	if err := checkArgs("<init>", c.params, args); err != nil {
		return Object{}, err
	}

	env, err := c.vm.NewEnv(false)
	if err != nil {
		return Object{}, err
	}
	defer env.Close()

	cls, err := c.vm.findClass(env.raw, c.class)
	if err != nil {
		return Object{}, err
	}
	ref, err := env.raw.NewObject(cls, c.id, args)
	if err != nil {
		return Object{}, err
	}
	if err := c.vm.check(env.raw); err != nil {
		return Object{}, err
	}
	return Object{ref: promote(env.raw, ref)}, nil
}

// GetStaticField reads a static field, specialized to the requested
// native type. Object values come back as global references.
func GetStaticField[T Result](f Field) (T, error) {
	var zero T
	if err := checkReturn(f.name, f.kind, kindFor[T]()); err != nil {
		return zero, err
	}

	env, err := f.vm.NewEnv(false)
	if err != nil {
		return zero, err
	}
	defer env.Close()

	cls, err := f.vm.findClass(env.raw, f.class)
	if err != nil {
		return zero, err
	}
	out, err := env.raw.GetStaticField(cls, f.id, f.kind)
	if err != nil {
		return zero, err
	}
	if err := f.vm.check(env.raw); err != nil {
		return zero, err
	}
	if kindFor[T]() == jvmruntime.KindObject {
		out = jvmruntime.Object(promote(env.raw, out.AsRef()))
	}
	return valueAs[T](out), nil
}

// String constructs a managed string object from native text via a
// freshly scoped execution context. The handle is a global reference.
func (vm *VM) String(s string) (Object, error) {
	env, err := vm.NewEnv(false)
	if err != nil {
		return Object{}, err
	}
	defer env.Close()

	ref, err := env.raw.NewString(s)
	if err != nil {
		return Object{}, err
	}
	return Object{ref: promote(env.raw, ref)}, nil
}

// NewGlobalRef promotes an object reference to a lifetime independent
// of any call scope. Release it with DeleteGlobalRef.
func (vm *VM) NewGlobalRef(o Object) (Object, error) {
	env, err := vm.NewEnv(false)
	if err != nil {
		return Object{}, err
	}
	defer env.Close()

	ref, err := env.raw.NewGlobalRef(o.ref)
	if err != nil {
		return Object{}, err
	}
	return Object{ref: ref}, nil
}

// DeleteGlobalRef releases a global reference. It is a no-op on the
// null reference.
func (vm *VM) DeleteGlobalRef(o Object) error {
	if o.IsNull() {
		return nil
	}
	env, err := vm.NewEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	env.raw.DeleteGlobalRef(o.ref)
	return nil
}
