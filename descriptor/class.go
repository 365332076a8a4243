package descriptor

import "strings"

// Class describes a managed type: a slash-qualified name for reference
// types (e.g. "java/lang/String") or a single-character tag for
// primitives. Classes are immutable values; equality is structural.
type Class struct {
	name   string
	native bool
}

// Primitive singletons. The tag is the JVM-style single-character
// type signature.
var (
	Void    = Class{name: "V", native: true}
	Boolean = Class{name: "Z", native: true}
	Byte    = Class{name: "B", native: true}
	Char    = Class{name: "C", native: true}
	Short   = Class{name: "S", native: true}
	Int     = Class{name: "I", native: true}
	Long    = Class{name: "J", native: true}
	Float   = Class{name: "F", native: true}
	Double  = Class{name: "D", native: true}

	// String is a convenience singleton for the managed string type.
	String = Named("java/lang/String")
)

// Named returns the Class for a reference type with the given
// slash-qualified name.
func Named(name string) Class {
	return Class{name: name, native: false}
}

// Name returns the qualified name, or the tag for primitives.
func (c Class) Name() string { return c.name }

// Native reports whether c is a primitive type.
func (c Class) Native() bool { return c.native }

// ArrayOf returns the array type with c as its element type. It is
// pure: no runtime is consulted. The array name embeds the element
// signature, so "[I" for int arrays and "[Ljava/lang/String;" for
// string arrays; that form is also the loadable runtime name.
func (c Class) ArrayOf() Class {
	return Class{name: "[" + c.Signature(), native: c.native}
}

// Signature returns the runtime type-signature string: the tag itself
// for primitives, the array name as-is, or the name wrapped as
// "L<name>;" for reference types.
func (c Class) Signature() string {
	if c.native || strings.HasPrefix(c.name, "[") {
		return c.name
	}
	return "L" + c.name + ";"
}

// Constructor starts a constructor signature for c.
func (c Class) Constructor() ConstructorFinder {
	return ConstructorFinder{class: c}
}

// Method starts a method signature for the named method of c.
func (c Class) Method(name string) MethodFinder {
	return MethodFinder{class: c, name: name}
}

func (c Class) String() string { return c.name }
