package descriptor

import "strings"

// ConstructorFinder accumulates the ordered parameter list of a
// constructor signature. It is a pure value: Parameter returns a new
// finder and never mutates the receiver.
type ConstructorFinder struct {
	class  Class
	params []Class
}

// Parameter appends a parameter type. Order is significant: the
// ordered list is the call signature.
func (f ConstructorFinder) Parameter(c Class) ConstructorFinder {
	params := make([]Class, len(f.params), len(f.params)+1)
	copy(params, f.params)
	return ConstructorFinder{class: f.class, params: append(params, c)}
}

// Class returns the declaring class.
func (f ConstructorFinder) Class() Class { return f.class }

// Parameters returns a copy of the ordered parameter types.
func (f ConstructorFinder) Parameters() []Class {
	return append([]Class(nil), f.params...)
}

// Descriptor returns the method-descriptor string of the constructor.
// Constructors always have void return type.
func (f ConstructorFinder) Descriptor() string {
	return methodDescriptor(f.params, Void)
}

// MethodFinder accumulates the ordered parameter list of a named
// method; Returns completes it into a MethodSignature.
type MethodFinder struct {
	class  Class
	name   string
	params []Class
}

// Parameter appends a parameter type.
func (f MethodFinder) Parameter(c Class) MethodFinder {
	params := make([]Class, len(f.params), len(f.params)+1)
	copy(params, f.params)
	return MethodFinder{class: f.class, name: f.name, params: append(params, c)}
}

// Returns completes the signature with the method's return type.
func (f MethodFinder) Returns(ret Class) MethodSignature {
	return MethodSignature{
		class:  f.class,
		name:   f.name,
		ret:    ret,
		params: append([]Class(nil), f.params...),
	}
}

// MethodSignature is a complete method signature: declaring class,
// name, return type, and ordered parameter types.
type MethodSignature struct {
	class  Class
	name   string
	ret    Class
	params []Class
}

// Class returns the declaring class.
func (s MethodSignature) Class() Class { return s.class }

// Name returns the method name.
func (s MethodSignature) Name() string { return s.name }

// Returns returns the return type.
func (s MethodSignature) Returns() Class { return s.ret }

// Parameters returns a copy of the ordered parameter types.
func (s MethodSignature) Parameters() []Class {
	return append([]Class(nil), s.params...)
}

// Descriptor returns the method-descriptor string, e.g.
// "(Ljava/lang/String;I)Z". An empty parameter list produces "()".
func (s MethodSignature) Descriptor() string {
	return methodDescriptor(s.params, s.ret)
}

func methodDescriptor(params []Class, ret Class) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range params {
		b.WriteString(p.Signature())
	}
	b.WriteByte(')')
	b.WriteString(ret.Signature())
	return b.String()
}
