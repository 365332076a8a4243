package wasmvm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	jvmruntime "github.com/wippyai/jvm-runtime"
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/errors"
)

// TrapClass is the class name of fault objects minted for guest
// traps.
const TrapClass = "wasm/Trap"

// Engine is the wazero backend: a class is a compiled WebAssembly
// module registered under a slash-qualified name, objects are module
// instances, methods are exported functions, and static fields are
// exported globals. It implements engine.Engine.
type Engine struct {
	ctx       context.Context
	runtime   wazero.Runtime
	classes   cmap.ConcurrentMap[string, *class]
	attach    *engine.AttachTable[*attachment]
	handles   *handleTable
	props     map[string]string
	destroyed atomic.Bool
}

// New creates a wazero engine. Options of the form "-Dkey=value"
// become properties; any other option is rejected rather than
// ignored.
func New(ctx context.Context, args engine.InitArgs) (*Engine, error) {
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

	return &Engine{
		ctx:     ctx,
		runtime: wazero.NewRuntime(ctx),
		classes: cmap.New[*class](),
		attach:  engine.NewAttachTable[*attachment](),
		handles: newHandleTable(),
		props:   props,
	}, nil
}

// DefineModule compiles wasmBytes and registers it as the class with
// the given slash-qualified name. Redefinition is rejected.
func (e *Engine) DefineModule(name string, wasmBytes []byte) error {
	compiled, err := e.runtime.CompileModule(e.ctx, wasmBytes)
	if err != nil {
		return errors.Wrap(errors.PhaseCreate, errors.KindCreationFailed, err,
			fmt.Sprintf("compile module for class %q", name))
	}
	cls := &class{name: name, engine: e, compiled: compiled}
	if !e.classes.SetIfAbsent(name, cls) {
		_ = compiled.Close(e.ctx)
		return errors.New(errors.PhaseCreate, errors.KindAlreadyCreated).
			Class(name).
			Detail("class already defined").
			Build()
	}
	Logger().Debug("defined wasm class", zap.String("class", name))
	return nil
}

// Property returns the property for key, as set by a -D init option.
func (e *Engine) Property(key string) (string, bool) {
	v, ok := e.props[key]
	return v, ok
}

// class is one registered module: the compiled code plus the lazily
// created shared instance backing static members.
type class struct {
	name     string
	engine   *Engine
	compiled wazero.CompiledModule

	mu     sync.Mutex
	shared api.Module
	serial atomic.Uint64
}

// sharedInstance lazily instantiates the module instance that backs
// static methods and fields.
func (c *class) sharedInstance(ctx context.Context) (api.Module, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shared != nil {
		return c.shared, nil
	}
	mod, err := c.engine.instantiate(ctx, c)
	if err != nil {
		return nil, err
	}
	c.shared = mod
	return mod, nil
}

func (e *Engine) instantiate(ctx context.Context, c *class) (api.Module, error) {
	name := fmt.Sprintf("%s#%d", c.name, c.serial.Add(1))
	cfg := wazero.NewModuleConfig().
		WithName(name).
		WithStdout(os.Stdout).
		WithStderr(os.Stderr)
	return e.runtime.InstantiateModule(ctx, c.compiled, cfg)
}

// object is a runtime-managed object: a module instance for wasm
// classes, or a host payload (strings, trap faults).
type object struct {
	class string
	mod   api.Module
	data  any
}

// member identifies a resolved export: function name plus the
// descriptor-derived kinds.
type member struct {
	class  *class
	name   string
	static bool
	field  bool
	ret    jvmruntime.Kind
	params []jvmruntime.Kind
}

// attachment is one thread's attach state.
type attachment struct {
	daemon   bool
	pending  *object
	released atomic.Bool
}

// localRef is a scope-bound object handle; nil scope marks a global
// reference.
type localRef struct {
	obj   *object
	scope *attachment
}

func derefRef(r jvmruntime.Ref) (*object, error) {
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

// handleTable maps i32 handles to objects so references can cross the
// wasm boundary as plain integers.
type handleTable struct {
	mu      sync.Mutex
	next    int32
	entries map[int32]*object
}

func newHandleTable() *handleTable {
	return &handleTable{next: 1, entries: make(map[int32]*object)}
}

func (t *handleTable) mint(o *object) int32 {
	if o == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.next
	t.next++
	t.entries[h] = o
	return h
}

func (t *handleTable) lookup(h int32) *object {
	if h == 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries[h]
}

// CurrentEnv implements engine.Engine.
func (e *Engine) CurrentEnv() (engine.Env, error) {
	at, ok := e.attach.Current()
	if !ok {
		return nil, errors.Detached()
	}
	return &env{e: e, at: at}, nil
}

// Attach implements engine.Engine.
func (e *Engine) Attach(daemon bool) (engine.Env, error) {
	if at, ok := e.attach.Current(); ok {
		return &env{e: e, at: at}, nil
	}
	at := &attachment{daemon: daemon}
	e.attach.Put(at)
	return &env{e: e, at: at}, nil
}

// Detach implements engine.Engine.
func (e *Engine) Detach() error {
	at, ok := e.attach.Current()
	if !ok {
		return errors.Detached()
	}
	at.released.Store(true)
	e.attach.Remove()
	return nil
}

// Destroy implements engine.Engine, closing the wazero runtime and
// every compiled module with it.
func (e *Engine) Destroy() error {
	if e.destroyed.Swap(true) {
		return errors.TeardownFailed(fmt.Errorf("engine already destroyed"))
	}
	if n := e.attach.Count(); n > 0 {
		return errors.TeardownFailed(fmt.Errorf("%d thread(s) still attached", n))
	}
	if err := e.runtime.Close(e.ctx); err != nil {
		return errors.TeardownFailed(err)
	}
	return nil
}
