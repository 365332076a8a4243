package hosted

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"

	jvmruntime "github.com/wippyai/jvm-runtime"
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/errors"
)

// Engine is the pure-Go backend: classes are implemented by host Go
// functions registered in a process-local registry. It implements
// engine.Engine.
type Engine struct {
	classes   cmap.ConcurrentMap[string, *Class]
	attach    *engine.AttachTable[*attachment]
	props     map[string]string
	version   engine.Version
	destroyed atomic.Bool
}

// New creates a hosted engine from init arguments. Options of the
// form "-Dkey=value" become system properties; any other option, and
// any version tag the layer does not know, is rejected rather than
// ignored. Builtin java/lang classes are registered before New
// returns.
func New(args engine.InitArgs) (*Engine, error) {
	props := make(map[string]string)
	for _, opt := range args.Options {
		if v, ok := strings.CutPrefix(opt, "-D"); ok {
			key, val, _ := strings.Cut(v, "=")
			if key == "" {
				return nil, errors.BadOption(opt)
			}
			props[key] = val
			continue
		}
		return nil, errors.BadOption(opt)
	}

	version := args.Version
	if version == 0 {
		version = engine.DefaultVersion
	}
	switch version {
	case engine.V1_6, engine.V1_8, engine.V9, engine.V21:
	default:
		return nil, errors.Unsupported(errors.PhaseCreate,
			fmt.Sprintf("version tag %#x", int32(version)))
	}

	e := &Engine{
		classes: cmap.New[*Class](),
		attach:  engine.NewAttachTable[*attachment](),
		props:   props,
		version: version,
	}
	e.defineBuiltins()
	return e, nil
}

// Define registers a host class. Redefinition of an existing name is
// rejected.
func (e *Engine) Define(c *Class) error {
	if !e.classes.SetIfAbsent(c.name, c) {
		return errors.New(errors.PhaseCreate, errors.KindAlreadyCreated).
			Class(c.name).
			Detail("class already defined").
			Build()
	}
	Logger().Debug("defined host class", zap.String("class", c.name))
	return nil
}

// Property returns the system property for key, as set by a -D init
// option.
func (e *Engine) Property(key string) (string, bool) {
	v, ok := e.props[key]
	return v, ok
}

// Version returns the ABI revision the engine was initialized with.
func (e *Engine) Version() engine.Version { return e.version }

// attachment is one thread's live attach state: daemon flag, pending
// managed fault, and the staleness mark for local references minted
// under it.
type attachment struct {
	daemon   bool
	pending  *Object
	released atomic.Bool
}

// localRef is a scope-bound handle to an Object. A nil scope marks a
// global reference.
type localRef struct {
	obj   *Object
	scope *attachment
}

func derefValue(v jvmruntime.Value) (*Object, error) {
	return derefRef(v.AsRef())
}

// Deref resolves an object-kinded Value to its backing Object. The
// null reference yields (nil, nil); a reference whose attachment was
// released is an error.
func Deref(v jvmruntime.Value) (*Object, error) {
	return derefValue(v)
}

func derefRef(r jvmruntime.Ref) (*Object, error) {
	switch ref := r.(type) {
	case nil:
		return nil, nil
	case *localRef:
		if ref.scope != nil && ref.scope.released.Load() {
			return nil, errors.StaleRef()
		}
		return ref.obj, nil
	default:
		return nil, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Detail("foreign reference %T", r).
			Build()
	}
}

// CurrentEnv implements engine.Engine.
func (e *Engine) CurrentEnv() (engine.Env, error) {
	at, ok := e.attach.Current()
	if !ok {
		return nil, errors.Detached()
	}
	return &env{e: e, at: at}, nil
}

// Attach implements engine.Engine. Attaching an already-attached
// thread returns the existing Env and leaves the daemon flag of the
// original attachment in place.
func (e *Engine) Attach(daemon bool) (engine.Env, error) {
	if at, ok := e.attach.Current(); ok {
		return &env{e: e, at: at}, nil
	}
	at := &attachment{daemon: daemon}
	e.attach.Put(at)
	return &env{e: e, at: at}, nil
}

// Detach implements engine.Engine. Local references minted under the
// attachment become stale.
func (e *Engine) Detach() error {
	at, ok := e.attach.Current()
	if !ok {
		return errors.Detached()
	}
	at.released.Store(true)
	e.attach.Remove()
	return nil
}

// Destroy implements engine.Engine. Destruction fails while
// non-daemon attachments are still live.
func (e *Engine) Destroy() error {
	if e.destroyed.Swap(true) {
		return errors.TeardownFailed(fmt.Errorf("engine already destroyed"))
	}
	if n := e.attach.Count(); n > 0 {
		return errors.TeardownFailed(fmt.Errorf("%d thread(s) still attached", n))
	}
	return nil
}

func (e *Engine) findClass(name string) (*Class, bool) {
	return e.classes.Get(name)
}

func (e *Engine) newString(s string) *Object {
	cls, ok := e.findClass("java/lang/String")
	if !ok {
		// The builtin set always defines it; a synthetic class keeps
		// string construction total regardless.
		cls = NewClass("java/lang/String")
	}
	o := cls.newObject()
	o.data = s
	return o
}

// env implements engine.Env for one attachment.
type env struct {
	e  *Engine
	at *attachment
}

func (v *env) localRef(o *Object) jvmruntime.Ref {
	if o == nil {
		return nil
	}
	return &localRef{obj: o, scope: v.at}
}

func (v *env) FindClass(name string) (jvmruntime.Ref, error) {
	cls, ok := v.e.findClass(name)
	if !ok {
		return nil, errors.ClassNotFound(name)
	}
	return cls, nil
}

func classOf(ref jvmruntime.Ref) (*Class, error) {
	cls, ok := ref.(*Class)
	if !ok {
		return nil, errors.New(errors.PhaseResolve, errors.KindTypeMismatch).
			Detail("reference %T is not a class", ref).
			Build()
	}
	return cls, nil
}

func (v *env) GetMethodID(class jvmruntime.Ref, name, descriptor string) (jvmruntime.MemberID, error) {
	cls, err := classOf(class)
	if err != nil {
		return nil, err
	}
	if name == "<init>" {
		m, ok := cls.ctors[descriptor]
		if !ok {
			return nil, errors.MemberNotFound(cls.name, name, descriptor)
		}
		return m, nil
	}
	m, ok := cls.methods[name+descriptor]
	if !ok {
		return nil, errors.MemberNotFound(cls.name, name, descriptor)
	}
	return m, nil
}

func (v *env) GetStaticMethodID(class jvmruntime.Ref, name, descriptor string) (jvmruntime.MemberID, error) {
	cls, err := classOf(class)
	if err != nil {
		return nil, err
	}
	m, ok := cls.statics[name+descriptor]
	if !ok {
		return nil, errors.MemberNotFound(cls.name, name, descriptor)
	}
	return m, nil
}

func (v *env) GetStaticFieldID(class jvmruntime.Ref, name, signature string) (jvmruntime.MemberID, error) {
	cls, err := classOf(class)
	if err != nil {
		return nil, err
	}
	f, ok := cls.fields[name+signature]
	if !ok {
		return nil, errors.MemberNotFound(cls.name, name, signature)
	}
	return f, nil
}

func memberOf(id jvmruntime.MemberID) (*member, error) {
	m, ok := id.(*member)
	if !ok {
		return nil, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Detail("member id %T is not a method", id).
			Build()
	}
	return m, nil
}

// returnKind extracts the return kind from a method-descriptor string.
func returnKind(descriptor string) jvmruntime.Kind {
	if i := strings.IndexByte(descriptor, ')'); i >= 0 {
		return jvmruntime.KindForSignature(descriptor[i+1:])
	}
	return jvmruntime.KindVoid
}

// checkRet verifies the caller-requested return kind against the
// resolved member's descriptor.
func checkRet(m *member, ret jvmruntime.Kind) error {
	if want := returnKind(m.descriptor); ret != want {
		return errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Class(m.class.name).
			Member(m.name).
			Detail("member returns %s, caller requested %s", want, ret).
			Build()
	}
	return nil
}

// run executes a host implementation, routing a *Thrown into the
// pending-fault state. Arity is checked against the member's
// descriptor before the implementation runs.
func (v *env) run(m *member, recv *Object, args []jvmruntime.Value) (jvmruntime.Value, error) {
	if len(args) != m.params {
		return jvmruntime.Void(), errors.ArityMismatch(m.class.name+"."+m.name, m.params, len(args))
	}
	if m.impl == nil {
		return jvmruntime.Void(), nil
	}
	out, err := m.impl(Call{Recv: recv, Args: args, env: v})
	if err != nil {
		var thrown *Thrown
		if t, ok := err.(*Thrown); ok {
			thrown = t
		} else {
			return jvmruntime.Void(), err
		}
		v.at.pending = v.e.throwableObject(thrown)
		return jvmruntime.Void(), nil
	}
	return out, nil
}

// throwableObject materializes the fault object for a Thrown. The
// named class is used when registered; otherwise a synthetic class
// carries the name.
func (e *Engine) throwableObject(t *Thrown) *Object {
	cls, ok := e.findClass(t.Class)
	if !ok {
		cls = NewClass(t.Class)
	}
	o := cls.newObject()
	o.data = t.Message
	return o
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
	o := cls.newObject()
	if _, err := v.run(m, o, args); err != nil {
		return nil, err
	}
	if v.at.pending != nil {
		return nil, nil
	}
	return v.localRef(o), nil
}

func (v *env) Call(receiver jvmruntime.Ref, method jvmruntime.MemberID, ret jvmruntime.Kind, args []jvmruntime.Value) (jvmruntime.Value, error) {
	recv, err := derefRef(receiver)
	if err != nil {
		return jvmruntime.Void(), err
	}
	if recv == nil {
		v.at.pending = v.e.throwableObject(&Thrown{
			Class:   "java/lang/NullPointerException",
			Message: "null receiver",
		})
		return jvmruntime.Void(), nil
	}
	m, err := memberOf(method)
	if err != nil {
		return jvmruntime.Void(), err
	}
	if err := checkRet(m, ret); err != nil {
		return jvmruntime.Void(), err
	}
	return v.run(m, recv, args)
}

func (v *env) CallStatic(class jvmruntime.Ref, method jvmruntime.MemberID, ret jvmruntime.Kind, args []jvmruntime.Value) (jvmruntime.Value, error) {
	if _, err := classOf(class); err != nil {
		return jvmruntime.Void(), err
	}
	m, err := memberOf(method)
	if err != nil {
		return jvmruntime.Void(), err
	}
	if err := checkRet(m, ret); err != nil {
		return jvmruntime.Void(), err
	}
	return v.run(m, nil, args)
}

func (v *env) GetStaticField(class jvmruntime.Ref, field jvmruntime.MemberID, kind jvmruntime.Kind) (jvmruntime.Value, error) {
	if _, err := classOf(class); err != nil {
		return jvmruntime.Void(), err
	}
	f, ok := field.(*staticField)
	if !ok {
		return jvmruntime.Void(), errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Detail("member id %T is not a field", field).
			Build()
	}
	if want := jvmruntime.KindForSignature(f.signature); kind != want {
		return jvmruntime.Void(), errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Class(f.class.name).
			Member(f.name).
			Detail("field is %s, caller requested %s", want, kind).
			Build()
	}
	if f.obj != nil {
		return jvmruntime.Object(v.localRef(f.obj)), nil
	}
	return f.value, nil
}

func (v *env) NewString(s string) (jvmruntime.Ref, error) {
	return v.localRef(v.e.newString(s)), nil
}

func (v *env) ObjectClassName(ref jvmruntime.Ref) string {
	switch r := ref.(type) {
	case nil:
		return ""
	case *localRef:
		return r.obj.class.name
	case *Class:
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
	// References are garbage collected with the host; deletion only
	// needs the null no-op contract.
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
	name := strings.ReplaceAll(v.at.pending.class.name, "/", ".")
	if msg == "" {
		fmt.Fprintf(os.Stderr, "Exception in thread: %s\n", name)
	} else {
		fmt.Fprintf(os.Stderr, "Exception in thread: %s: %s\n", name, msg)
	}
}
