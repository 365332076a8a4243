package jvm

import (
	jvmruntime "github.com/wippyai/jvm-runtime"
)

// Value is a tagged argument value. Argument lists are explicit
// ordered sequences of tagged values so arity and kind mismatches are
// caught before a call crosses the runtime boundary.
type Value = jvmruntime.Value

// Boolean tags a boolean argument.
func Boolean(v bool) Value { return jvmruntime.Boolean(v) }

// Byte tags a byte argument.
func Byte(v int8) Value { return jvmruntime.Byte(v) }

// Char tags a char argument.
func Char(v uint16) Value { return jvmruntime.Char(v) }

// Short tags a short argument.
func Short(v int16) Value { return jvmruntime.Short(v) }

// Int tags an int argument.
func Int(v int32) Value { return jvmruntime.Int(v) }

// Long tags a long argument.
func Long(v int64) Value { return jvmruntime.Long(v) }

// Float tags a float argument.
func Float(v float32) Value { return jvmruntime.Float(v) }

// Double tags a double argument.
func Double(v float64) Value { return jvmruntime.Double(v) }

// Obj tags an object argument.
func Obj(o Object) Value { return jvmruntime.Object(o.ref) }

// Null is the null object argument.
func Null() Value { return jvmruntime.Object(nil) }
