package hosted

import (
	"fmt"

	jvmruntime "github.com/wippyai/jvm-runtime"
	"github.com/wippyai/jvm-runtime/errors"
)

// Object is a runtime-managed object: its class, named instance
// fields, and an optional builtin payload (e.g. the Go string behind a
// java/lang/String).
type Object struct {
	class  *Class
	fields map[string]jvmruntime.Value
	data   any
}

// ClassName returns the slash-qualified name of the object's class.
func (o *Object) ClassName() string { return o.class.name }

// Data returns the builtin payload, if any.
func (o *Object) Data() any { return o.data }

// SetData replaces the builtin payload.
func (o *Object) SetData(v any) { o.data = v }

// Field returns the named instance field.
func (o *Object) Field(name string) (jvmruntime.Value, bool) {
	v, ok := o.fields[name]
	return v, ok
}

// SetField stores the named instance field.
func (o *Object) SetField(name string, v jvmruntime.Value) {
	o.fields[name] = v
}

// Thrown is a managed fault raised by a host method implementation.
// It implements error; returning one from an Impl sets the calling
// thread's pending-fault state.
type Thrown struct {
	Class   string // slash-qualified exception class
	Message string
}

func (t *Thrown) Error() string {
	if t.Message == "" {
		return t.Class
	}
	return t.Class + ": " + t.Message
}

// Throw is shorthand for raising a managed fault from an Impl.
func Throw(class, format string, args ...any) *Thrown {
	return &Thrown{Class: class, Message: fmt.Sprintf(format, args...)}
}

// Call carries one invocation into a host method implementation.
type Call struct {
	// Recv is the receiver object. It is the freshly allocated object
	// for constructors and nil for static methods.
	Recv *Object

	// Args is the tagged argument list, arity-checked against the
	// member's descriptor before the implementation runs.
	Args []jvmruntime.Value

	env *env
}

// Object wraps o as an object Value whose reference is local to the
// current attachment.
func (c Call) Object(o *Object) jvmruntime.Value {
	return jvmruntime.Object(c.env.localRef(o))
}

// String constructs a managed string and wraps it as an object Value.
func (c Call) String(s string) jvmruntime.Value {
	return c.Object(c.env.e.newString(s))
}

// Deref resolves an object-kinded argument to its Object. The null
// reference yields (nil, nil).
func (c Call) Deref(v jvmruntime.Value) (*Object, error) {
	if v.Kind() != jvmruntime.KindObject {
		return nil, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Detail("expected object value, got %s", v.Kind()).
			Build()
	}
	return derefValue(v)
}

// Property returns the engine's system property for key, as set by a
// -D init option.
func (c Call) Property(key string) (string, bool) {
	v, ok := c.env.e.props[key]
	return v, ok
}

// Impl is a host method implementation. Returning a *Thrown as the
// error raises a managed fault; any other error is surfaced to the
// caller as structural misuse.
type Impl func(call Call) (jvmruntime.Value, error)

type member struct {
	class      *Class
	name       string
	descriptor string
	static     bool
	impl       Impl
	params     int // parameter count from the descriptor
}

type staticField struct {
	class     *Class
	name      string
	signature string
	value     jvmruntime.Value
	obj       *Object // payload for object-kinded fields
}

// Class is a host-implemented class definition. Build one with
// NewClass and the fluent definition methods, then register it with
// Engine.Define. Definitions are immutable after Define.
type Class struct {
	name    string
	ctors   map[string]*member      // keyed by descriptor
	methods map[string]*member      // keyed by name+descriptor
	statics map[string]*member      // keyed by name+descriptor
	fields  map[string]*staticField // keyed by name+signature
}

// NewClass starts a class definition for the given slash-qualified
// name.
func NewClass(name string) *Class {
	return &Class{
		name:    name,
		ctors:   make(map[string]*member),
		methods: make(map[string]*member),
		statics: make(map[string]*member),
		fields:  make(map[string]*staticField),
	}
}

// Name returns the slash-qualified class name.
func (c *Class) Name() string { return c.name }

// Constructor defines a constructor with the given method-descriptor
// string (always "(...)V"). The implementation receives the fresh
// object as Recv; its return value is ignored.
func (c *Class) Constructor(descriptor string, impl Impl) *Class {
	c.ctors[descriptor] = &member{
		class:      c,
		name:       "<init>",
		descriptor: descriptor,
		impl:       impl,
		params:     countParams(descriptor),
	}
	return c
}

// Method defines an instance method.
func (c *Class) Method(name, descriptor string, impl Impl) *Class {
	c.methods[name+descriptor] = &member{
		class:      c,
		name:       name,
		descriptor: descriptor,
		impl:       impl,
		params:     countParams(descriptor),
	}
	return c
}

// StaticMethod defines a static method. Static and instance lookup
// paths are distinct.
func (c *Class) StaticMethod(name, descriptor string, impl Impl) *Class {
	c.statics[name+descriptor] = &member{
		class:      c,
		name:       name,
		descriptor: descriptor,
		static:     true,
		impl:       impl,
		params:     countParams(descriptor),
	}
	return c
}

// StaticField defines a primitive static field with a fixed value.
func (c *Class) StaticField(name, signature string, value jvmruntime.Value) *Class {
	c.fields[name+signature] = &staticField{
		class:     c,
		name:      name,
		signature: signature,
		value:     value,
	}
	return c
}

// StaticObjectField defines an object-kinded static field backed by o.
func (c *Class) StaticObjectField(name, signature string, o *Object) *Class {
	c.fields[name+signature] = &staticField{
		class:     c,
		name:      name,
		signature: signature,
		obj:       o,
	}
	return c
}

// newObject allocates an instance of c without running a constructor.
func (c *Class) newObject() *Object {
	return &Object{class: c, fields: make(map[string]jvmruntime.Value)}
}

// countParams counts the parameters in a method-descriptor string.
func countParams(descriptor string) int {
	n := 0
	i := 1 // skip '('
	for i < len(descriptor) && descriptor[i] != ')' {
		switch descriptor[i] {
		case '[':
			i++
			continue
		case 'L':
			for i < len(descriptor) && descriptor[i] != ';' {
				i++
			}
		}
		n++
		i++
	}
	return n
}
