package wasmvm

import (
	"fmt"
	"os"
	"strings"

	"github.com/tetratelabs/wazero/api"

	jvmruntime "github.com/wippyai/jvm-runtime"
	"github.com/wippyai/jvm-runtime/errors"
)

// parseDescriptor splits a method-descriptor string into parameter
// kinds and the return kind.
func parseDescriptor(desc string) ([]jvmruntime.Kind, jvmruntime.Kind, error) {
	if len(desc) < 3 || desc[0] != '(' {
		return nil, jvmruntime.KindVoid, errors.New(errors.PhaseResolve, errors.KindTypeMismatch).
			Detail("malformed descriptor %q", desc).
			Build()
	}
	var params []jvmruntime.Kind
	i := 1
	for i < len(desc) && desc[i] != ')' {
		start := i
		for desc[i] == '[' {
			i++
			if i >= len(desc) {
				return nil, jvmruntime.KindVoid, errors.New(errors.PhaseResolve, errors.KindTypeMismatch).
					Detail("malformed descriptor %q", desc).
					Build()
			}
		}
		if desc[i] == 'L' {
			for i < len(desc) && desc[i] != ';' {
				i++
			}
		}
		i++
		params = append(params, jvmruntime.KindForSignature(desc[start:]))
	}
	if i >= len(desc)-1 || desc[i] != ')' {
		return nil, jvmruntime.KindVoid, errors.New(errors.PhaseResolve, errors.KindTypeMismatch).
			Detail("malformed descriptor %q", desc).
			Build()
	}
	return params, jvmruntime.KindForSignature(desc[i+1:]), nil
}

// valueType maps a kind to its core wasm representation. Everything
// 32 bits or narrower travels as i32; references travel as i32
// handles.
func valueType(k jvmruntime.Kind) api.ValueType {
	switch k {
	case jvmruntime.KindLong:
		return api.ValueTypeI64
	case jvmruntime.KindFloat:
		return api.ValueTypeF32
	case jvmruntime.KindDouble:
		return api.ValueTypeF64
	default:
		return api.ValueTypeI32
	}
}

func typesMatch(kinds []jvmruntime.Kind, types []api.ValueType) bool {
	if len(kinds) != len(types) {
		return false
	}
	for i, k := range kinds {
		if valueType(k) != types[i] {
			return false
		}
	}
	return true
}

// env implements engine.Env for one attachment.
type env struct {
	e  *Engine
	at *attachment
}

func (v *env) localRef(o *object) jvmruntime.Ref {
	if o == nil {
		return nil
	}
	return &localRef{obj: o, scope: v.at}
}

func (v *env) FindClass(name string) (jvmruntime.Ref, error) {
	cls, ok := v.e.classes.Get(name)
	if !ok {
		return nil, errors.ClassNotFound(name)
	}
	return cls, nil
}

func classOf(ref jvmruntime.Ref) (*class, error) {
	cls, ok := ref.(*class)
	if !ok {
		return nil, errors.New(errors.PhaseResolve, errors.KindTypeMismatch).
			Detail("reference %T is not a class", ref).
			Build()
	}
	return cls, nil
}

// lookupMethod resolves an exported function whose wasm signature
// agrees with the descriptor-derived one.
func (v *env) lookupMethod(class jvmruntime.Ref, name, descriptor string, static bool) (jvmruntime.MemberID, error) {
	cls, err := classOf(class)
	if err != nil {
		return nil, err
	}
	params, ret, err := parseDescriptor(descriptor)
	if err != nil {
		return nil, err
	}

	def, ok := cls.compiled.ExportedFunctions()[name]
	if !ok {
		// A module without an exported "<init>" still has the implicit
		// no-argument constructor: instantiation is the construction.
		if name == "<init>" && descriptor == "()V" {
			return &member{class: cls, ret: jvmruntime.KindVoid}, nil
		}
		return nil, errors.MemberNotFound(cls.name, name, descriptor)
	}

	var want []api.ValueType
	if ret != jvmruntime.KindVoid {
		want = []api.ValueType{valueType(ret)}
	}
	if !typesMatch(params, def.ParamTypes()) || len(def.ResultTypes()) != len(want) ||
		(len(want) == 1 && def.ResultTypes()[0] != want[0]) {
		return nil, errors.MemberNotFound(cls.name, name, descriptor)
	}
	return &member{class: cls, name: name, static: static, ret: ret, params: params}, nil
}

func (v *env) GetMethodID(class jvmruntime.Ref, name, descriptor string) (jvmruntime.MemberID, error) {
	return v.lookupMethod(class, name, descriptor, false)
}

func (v *env) GetStaticMethodID(class jvmruntime.Ref, name, descriptor string) (jvmruntime.MemberID, error) {
	return v.lookupMethod(class, name, descriptor, true)
}

func (v *env) GetStaticFieldID(class jvmruntime.Ref, name, signature string) (jvmruntime.MemberID, error) {
	cls, err := classOf(class)
	if err != nil {
		return nil, err
	}
	shared, err := cls.sharedInstance(v.e.ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseResolve, errors.KindMemberNotFound, err,
			fmt.Sprintf("instantiate %s", cls.name))
	}
	kind := jvmruntime.KindForSignature(signature)
	g := shared.ExportedGlobal(name)
	if g == nil || g.Type() != valueType(kind) {
		return nil, errors.MemberNotFound(cls.name, name, signature)
	}
	return &member{class: cls, name: name, static: true, field: true, ret: kind}, nil
}

func memberOf(id jvmruntime.MemberID) (*member, error) {
	m, ok := id.(*member)
	if !ok {
		return nil, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Detail("member id %T is foreign", id).
			Build()
	}
	return m, nil
}

func (v *env) encodeArgs(args []jvmruntime.Value) ([]uint64, error) {
	raw := make([]uint64, 0, len(args))
	for _, a := range args {
		switch a.Kind() {
		case jvmruntime.KindBoolean:
			if a.AsBool() {
				raw = append(raw, 1)
			} else {
				raw = append(raw, 0)
			}
		case jvmruntime.KindByte:
			raw = append(raw, api.EncodeI32(int32(a.AsByte())))
		case jvmruntime.KindChar:
			raw = append(raw, api.EncodeI32(int32(a.AsChar())))
		case jvmruntime.KindShort:
			raw = append(raw, api.EncodeI32(int32(a.AsShort())))
		case jvmruntime.KindInt:
			raw = append(raw, api.EncodeI32(a.AsInt()))
		case jvmruntime.KindLong:
			raw = append(raw, api.EncodeI64(a.AsLong()))
		case jvmruntime.KindFloat:
			raw = append(raw, api.EncodeF32(a.AsFloat()))
		case jvmruntime.KindDouble:
			raw = append(raw, api.EncodeF64(a.AsDouble()))
		case jvmruntime.KindObject:
			obj, err := derefRef(a.AsRef())
			if err != nil {
				return nil, err
			}
			raw = append(raw, api.EncodeI32(v.e.handles.mint(obj)))
		default:
			return nil, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
				Detail("cannot pass %s argument", a.Kind()).
				Build()
		}
	}
	return raw, nil
}

func (v *env) decodeResult(ret jvmruntime.Kind, out []uint64) jvmruntime.Value {
	if ret == jvmruntime.KindVoid || len(out) == 0 {
		return jvmruntime.Void()
	}
	raw := out[0]
	switch ret {
	case jvmruntime.KindBoolean:
		return jvmruntime.Boolean(api.DecodeI32(raw) != 0)
	case jvmruntime.KindByte:
		return jvmruntime.Byte(int8(api.DecodeI32(raw)))
	case jvmruntime.KindChar:
		return jvmruntime.Char(uint16(api.DecodeU32(raw)))
	case jvmruntime.KindShort:
		return jvmruntime.Short(int16(api.DecodeI32(raw)))
	case jvmruntime.KindInt:
		return jvmruntime.Int(api.DecodeI32(raw))
	case jvmruntime.KindLong:
		return jvmruntime.Long(int64(raw))
	case jvmruntime.KindFloat:
		return jvmruntime.Float(api.DecodeF32(raw))
	case jvmruntime.KindDouble:
		return jvmruntime.Double(api.DecodeF64(raw))
	default:
		return jvmruntime.Object(v.localRef(v.e.handles.lookup(api.DecodeI32(raw))))
	}
}

// trap records a guest trap as the pending fault.
func (v *env) trap(err error) {
	v.at.pending = &object{class: TrapClass, data: err.Error()}
}

// checkRet verifies the caller-requested return kind against the
// resolved member.
func checkRet(m *member, ret jvmruntime.Kind) error {
	if ret != m.ret {
		return errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Class(m.class.name).
			Member(m.name).
			Detail("member returns %s, caller requested %s", m.ret, ret).
			Build()
	}
	return nil
}

func (v *env) callFunction(mod api.Module, m *member, args []jvmruntime.Value) (jvmruntime.Value, error) {
	if len(args) != len(m.params) {
		return jvmruntime.Void(), errors.ArityMismatch(m.class.name+"."+m.name, len(m.params), len(args))
	}
	fn := mod.ExportedFunction(m.name)
	if fn == nil {
		return jvmruntime.Void(), errors.MemberNotFound(m.class.name, m.name, "")
	}
	raw, err := v.encodeArgs(args)
	if err != nil {
		return jvmruntime.Void(), err
	}
	out, err := fn.Call(v.e.ctx, raw...)
	if err != nil {
		v.trap(err)
		return jvmruntime.Void(), nil
	}
	return v.decodeResult(m.ret, out), nil
}

func (v *env) NewObject(class jvmruntime.Ref, ctor jvmruntime.MemberID, args []jvmruntime.Value) (jvmruntime.Ref, error) {
	cls, err := classOf(class)
	if err != nil {
		return nil, err
	}
	m, err := memberOf(ctor)
	if err != nil {
		return nil, err
	}
	mod, err := v.e.instantiate(v.e.ctx, cls)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseInvoke, errors.KindCreationFailed, err,
			fmt.Sprintf("instantiate %s", cls.name))
	}
	o := &object{class: cls.name, mod: mod}
	if m.name != "" {
		if _, err := v.callFunction(mod, m, args); err != nil {
			return nil, err
		}
		if v.at.pending != nil {
			return nil, nil
		}
	}
	return v.localRef(o), nil
}

func (v *env) Call(receiver jvmruntime.Ref, method jvmruntime.MemberID, ret jvmruntime.Kind, args []jvmruntime.Value) (jvmruntime.Value, error) {
	recv, err := derefRef(receiver)
	if err != nil {
		return jvmruntime.Void(), err
	}
	m, err := memberOf(method)
	if err != nil {
		return jvmruntime.Void(), err
	}
	if err := checkRet(m, ret); err != nil {
		return jvmruntime.Void(), err
	}
	if recv == nil || recv.mod == nil {
		v.trap(fmt.Errorf("null or host receiver for %s.%s", m.class.name, m.name))
		return jvmruntime.Void(), nil
	}
	return v.callFunction(recv.mod, m, args)
}

func (v *env) CallStatic(class jvmruntime.Ref, method jvmruntime.MemberID, ret jvmruntime.Kind, args []jvmruntime.Value) (jvmruntime.Value, error) {
	cls, err := classOf(class)
	if err != nil {
		return jvmruntime.Void(), err
	}
	m, err := memberOf(method)
	if err != nil {
		return jvmruntime.Void(), err
	}
	if err := checkRet(m, ret); err != nil {
		return jvmruntime.Void(), err
	}
	shared, err := cls.sharedInstance(v.e.ctx)
	if err != nil {
		return jvmruntime.Void(), errors.Wrap(errors.PhaseInvoke, errors.KindCreationFailed, err,
			fmt.Sprintf("instantiate %s", cls.name))
	}
	return v.callFunction(shared, m, args)
}

func (v *env) GetStaticField(class jvmruntime.Ref, field jvmruntime.MemberID, kind jvmruntime.Kind) (jvmruntime.Value, error) {
	cls, err := classOf(class)
	if err != nil {
		return jvmruntime.Void(), err
	}
	m, err := memberOf(field)
	if err != nil {
		return jvmruntime.Void(), err
	}
	if kind != m.ret {
		return jvmruntime.Void(), errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Class(m.class.name).
			Member(m.name).
			Detail("field is %s, caller requested %s", m.ret, kind).
			Build()
	}
	shared, err := cls.sharedInstance(v.e.ctx)
	if err != nil {
		return jvmruntime.Void(), errors.Wrap(errors.PhaseInvoke, errors.KindCreationFailed, err,
			fmt.Sprintf("instantiate %s", cls.name))
	}
	g := shared.ExportedGlobal(m.name)
	if g == nil {
		return jvmruntime.Void(), errors.MemberNotFound(cls.name, m.name, "")
	}
	return v.decodeResult(m.ret, []uint64{g.Get()}), nil
}

func (v *env) NewString(s string) (jvmruntime.Ref, error) {
	return v.localRef(&object{class: "java/lang/String", data: s}), nil
}

func (v *env) ObjectClassName(ref jvmruntime.Ref) string {
	switch r := ref.(type) {
	case nil:
		return ""
	case *localRef:
		return r.obj.class
	case *class:
		return r.name
	}
	return ""
}

func (v *env) NewGlobalRef(ref jvmruntime.Ref) (jvmruntime.Ref, error) {
	obj, err := derefRef(ref)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return &localRef{obj: obj, scope: nil}, nil
}

func (v *env) DeleteGlobalRef(ref jvmruntime.Ref) {
	// Instance modules are closed with the runtime at Destroy; the
	// null no-op contract is all deletion needs here.
}

func (v *env) ExceptionCheck() bool {
	return v.at.pending != nil
}

func (v *env) ExceptionOccurred() jvmruntime.Ref {
	if v.at.pending == nil {
		return nil
	}
	return v.localRef(v.at.pending)
}

func (v *env) ExceptionClear() {
	v.at.pending = nil
}

func (v *env) ExceptionDescribe() {
	if v.at.pending == nil {
		return
	}
	msg, _ := v.at.pending.data.(string)
	name := strings.ReplaceAll(v.at.pending.class, "/", ".")
	if msg == "" {
		fmt.Fprintf(os.Stderr, "Exception in thread: %s\n", name)
	} else {
		fmt.Fprintf(os.Stderr, "Exception in thread: %s: %s\n", name, msg)
	}
}
