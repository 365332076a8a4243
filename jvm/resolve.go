package jvm

import (
	"go.uber.org/zap"

	jvmruntime "github.com/wippyai/jvm-runtime"
	"github.com/wippyai/jvm-runtime/descriptor"
	"github.com/wippyai/jvm-runtime/engine"
)

// Constructor is a resolved constructor handle: declaring class plus
// the opaque runtime member identifier. Handles are cheap and
// copyable; they stay valid only while the runtime and declaring class
// remain loaded.
type Constructor struct {
	vm     *VM
	class  descriptor.Class
	id     jvmruntime.MemberID
	params []jvmruntime.Kind
}

// Class returns the declaring class descriptor.
func (c Constructor) Class() descriptor.Class { return c.class }

// Method is a resolved method handle (instance or static).
type Method struct {
	vm     *VM
	class  descriptor.Class
	name   string
	id     jvmruntime.MemberID
	static bool
	ret    jvmruntime.Kind
	params []jvmruntime.Kind
}

// Class returns the declaring class descriptor.
func (m Method) Class() descriptor.Class { return m.class }

// Name returns the method name.
func (m Method) Name() string { return m.name }

// Static reports whether m resolved through the static lookup path.
func (m Method) Static() bool { return m.static }

// Field is a resolved static field handle.
type Field struct {
	vm    *VM
	class descriptor.Class
	name  string
	id    jvmruntime.MemberID
	kind  jvmruntime.Kind
}

// Class returns the declaring class descriptor.
func (f Field) Class() descriptor.Class { return f.class }

// Name returns the field name.
func (f Field) Name() string { return f.name }

func kindOf(c descriptor.Class) jvmruntime.Kind {
	return jvmruntime.KindForSignature(c.Signature())
}

func paramKinds(params []descriptor.Class) []jvmruntime.Kind {
	kinds := make([]jvmruntime.Kind, len(params))
	for i, p := range params {
		kinds[i] = kindOf(p)
	}
	return kinds
}

// findClass resolves a class descriptor within env, honoring the
// abort-on-resolution-failure policy.
func (vm *VM) findClass(env engine.Env, c descriptor.Class) (jvmruntime.Ref, error) {
	ref, err := env.FindClass(c.Name())
	if err != nil {
		if vm.abortOnResolve {
			Logger().Fatal("class not found", zap.String("class", c.Name()), zap.Error(err))
		}
		return nil, err
	}
	return ref, nil
}

// FindClass resolves a class descriptor to a loadable runtime type
// reference. The reference is valid within the calling scope only.
func (vm *VM) FindClass(c descriptor.Class) (jvmruntime.Ref, error) {
	env, err := vm.NewEnv(false)
	if err != nil {
		return nil, err
	}
	defer env.Close()
	return vm.findClass(env.raw, c)
}

type lookup func(class jvmruntime.Ref, name, descriptor string) (jvmruntime.MemberID, error)

func (vm *VM) findMember(env engine.Env, class descriptor.Class, name, desc string, find lookup) (jvmruntime.MemberID, error) {
	ref, err := vm.findClass(env, class)
	if err != nil {
		return nil, err
	}
	id, err := find(ref, name, desc)
	if err != nil {
		if vm.abortOnResolve {
			Logger().Fatal("member not found",
				zap.String("class", class.Name()),
				zap.String("member", name),
				zap.String("signature", desc),
				zap.Error(err))
		}
		return nil, err
	}
	return id, nil
}

// FindConstructor resolves a constructor signature to an invocable
// handle.
func (vm *VM) FindConstructor(f descriptor.ConstructorFinder) (Constructor, error) {
	env, err := vm.NewEnv(false)
	if err != nil {
		return Constructor{}, err
	}
	defer env.Close()

	desc := f.Descriptor()
	Logger().Debug("looking up constructor",
		zap.String("class", f.Class().Name()),
		zap.String("signature", desc))

	id, err := vm.findMember(env.raw, f.Class(), "<init>", desc, env.raw.GetMethodID)
	if err != nil {
		return Constructor{}, err
	}
	return Constructor{
		vm:     vm,
		class:  f.Class(),
		id:     id,
		params: paramKinds(f.Parameters()),
	}, nil
}

func (vm *VM) findMethod(s descriptor.MethodSignature, static bool) (Method, error) {
	env, err := vm.NewEnv(false)
	if err != nil {
		return Method{}, err
	}
	defer env.Close()

	desc := s.Descriptor()
	Logger().Debug("looking up method",
		zap.String("class", s.Class().Name()),
		zap.String("method", s.Name()),
		zap.String("signature", desc),
		zap.Bool("static", static))

	find := env.raw.GetMethodID
	if static {
		find = env.raw.GetStaticMethodID
	}
	id, err := vm.findMember(env.raw, s.Class(), s.Name(), desc, find)
	if err != nil {
		return Method{}, err
	}
	return Method{
		vm:     vm,
		class:  s.Class(),
		name:   s.Name(),
		id:     id,
		static: static,
		ret:    kindOf(s.Returns()),
		params: paramKinds(s.Parameters()),
	}, nil
}

// FindMethod resolves an instance method signature. Static members do
// not resolve through this path.
func (vm *VM) FindMethod(s descriptor.MethodSignature) (Method, error) {
	return vm.findMethod(s, false)
}

// FindStaticMethod resolves a static method signature.
func (vm *VM) FindStaticMethod(s descriptor.MethodSignature) (Method, error) {
	return vm.findMethod(s, true)
}

// FindStaticField resolves a static field of class by name and field
// type.
func (vm *VM) FindStaticField(class descriptor.Class, name string, typ descriptor.Class) (Field, error) {
	env, err := vm.NewEnv(false)
	if err != nil {
		return Field{}, err
	}
	defer env.Close()

	sig := typ.Signature()
	id, err := vm.findMember(env.raw, class, name, sig, env.raw.GetStaticFieldID)
	if err != nil {
		return Field{}, err
	}
	return Field{vm: vm, class: class, name: name, id: id, kind: kindOf(typ)}, nil
}
