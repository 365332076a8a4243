package jvmruntime

import (
	"fmt"
	"math"
)

// Kind identifies one member of the closed set of value kinds the
// runtime call boundary distinguishes. The set is closed: the boundary
// offers one call primitive per primitive kind plus one for references
// and one for void, so there is nothing polymorphic to extend.
type Kind uint8

const (
	KindVoid Kind = iota
	KindObject
	KindBoolean
	KindByte
	KindChar
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
)

var kindNames = [...]string{
	KindVoid:    "void",
	KindObject:  "object",
	KindBoolean: "boolean",
	KindByte:    "byte",
	KindChar:    "char",
	KindShort:   "short",
	KindInt:     "int",
	KindLong:    "long",
	KindFloat:   "float",
	KindDouble:  "double",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// KindForSignature maps a type-signature string to its Kind. Array and
// reference signatures are object kinds; single-character tags map to
// their primitive kind.
func KindForSignature(sig string) Kind {
	if sig == "" {
		return KindVoid
	}
	switch sig[0] {
	case 'V':
		return KindVoid
	case 'Z':
		return KindBoolean
	case 'B':
		return KindByte
	case 'C':
		return KindChar
	case 'S':
		return KindShort
	case 'I':
		return KindInt
	case 'J':
		return KindLong
	case 'F':
		return KindFloat
	case 'D':
		return KindDouble
	default: // 'L', '['
		return KindObject
	}
}

// Ref is an opaque handle to a runtime-managed object. The concrete
// type belongs to the backend that minted it; nil is the null
// reference. Local references are valid only within the attachment
// that produced them; promote to a global reference to outlive it.
type Ref any

// MemberID is an opaque runtime-assigned identifier for a resolved
// constructor, method, or field. Valid only while the runtime that
// produced it stays alive and the declaring class stays loaded.
type MemberID any

// Value is a tagged value crossing the host/runtime boundary.
// Primitives are stored in 64 bits; object kinds carry a Ref.
type Value struct {
	ref  Ref
	bits uint64
	kind Kind
}

func (v Value) Kind() Kind { return v.kind }

// Boolean returns a boolean-kinded Value.
func Boolean(b bool) Value {
	var bits uint64
	if b {
		bits = 1
	}
	return Value{kind: KindBoolean, bits: bits}
}

// Byte returns a byte-kinded Value.
func Byte(v int8) Value { return Value{kind: KindByte, bits: uint64(uint8(v))} }

// Char returns a char-kinded Value. Managed chars are unsigned 16-bit
// code units.
func Char(v uint16) Value { return Value{kind: KindChar, bits: uint64(v)} }

// Short returns a short-kinded Value.
func Short(v int16) Value { return Value{kind: KindShort, bits: uint64(uint16(v))} }

// Int returns an int-kinded Value.
func Int(v int32) Value { return Value{kind: KindInt, bits: uint64(uint32(v))} }

// Long returns a long-kinded Value.
func Long(v int64) Value { return Value{kind: KindLong, bits: uint64(v)} }

// Float returns a float-kinded Value.
func Float(v float32) Value { return Value{kind: KindFloat, bits: uint64(math.Float32bits(v))} }

// Double returns a double-kinded Value.
func Double(v float64) Value { return Value{kind: KindDouble, bits: math.Float64bits(v)} }

// Object returns an object-kinded Value wrapping r. A nil r is the
// null reference.
func Object(r Ref) Value { return Value{kind: KindObject, ref: r} }

// Void is the zero Value, returned by void-kinded calls.
func Void() Value { return Value{kind: KindVoid} }

func (v Value) AsBool() bool      { return v.bits != 0 }
func (v Value) AsByte() int8      { return int8(uint8(v.bits)) }
func (v Value) AsChar() uint16    { return uint16(v.bits) }
func (v Value) AsShort() int16    { return int16(uint16(v.bits)) }
func (v Value) AsInt() int32      { return int32(uint32(v.bits)) }
func (v Value) AsLong() int64     { return int64(v.bits) }
func (v Value) AsFloat() float32  { return math.Float32frombits(uint32(v.bits)) }
func (v Value) AsDouble() float64 { return math.Float64frombits(v.bits) }
func (v Value) AsRef() Ref        { return v.ref }

// IsNull reports whether v is an object kind holding the null
// reference.
func (v Value) IsNull() bool { return v.kind == KindObject && v.ref == nil }

func (v Value) String() string {
	switch v.kind {
	case KindVoid:
		return "void"
	case KindObject:
		if v.ref == nil {
			return "null"
		}
		return fmt.Sprintf("object(%v)", v.ref)
	case KindBoolean:
		return fmt.Sprintf("%v", v.AsBool())
	case KindByte:
		return fmt.Sprintf("%d", v.AsByte())
	case KindChar:
		return fmt.Sprintf("%q", rune(v.AsChar()))
	case KindShort:
		return fmt.Sprintf("%d", v.AsShort())
	case KindInt:
		return fmt.Sprintf("%d", v.AsInt())
	case KindLong:
		return fmt.Sprintf("%d", v.AsLong())
	case KindFloat:
		return fmt.Sprintf("%g", v.AsFloat())
	case KindDouble:
		return fmt.Sprintf("%g", v.AsDouble())
	}
	return "invalid"
}
