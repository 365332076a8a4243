package hosted_test

import (
	stderrors "errors"
	"testing"

	jvmruntime "github.com/wippyai/jvm-runtime"
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/engine/hosted"
	"github.com/wippyai/jvm-runtime/errors"
)

func newEngine(t *testing.T, options ...string) *hosted.Engine {
	t.Helper()
	e, err := hosted.New(engine.InitArgs{Options: options})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func attach(t *testing.T, e *hosted.Engine) engine.Env {
	t.Helper()
	env, err := e.Attach(false)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return env
}

func TestInitOptions(t *testing.T) {
	e := newEngine(t, "-Dfoo=bar", "-Dempty=")

	if v, ok := e.Property("foo"); !ok || v != "bar" {
		t.Errorf("foo: got %q, %v", v, ok)
	}
	if v, ok := e.Property("empty"); !ok || v != "" {
		t.Errorf("empty: got %q, %v", v, ok)
	}
	if _, ok := e.Property("missing"); ok {
		t.Error("missing property reported present")
	}
}

func TestInitRejectsUnknownOptions(t *testing.T) {
	for _, opt := range []string{"-Xmx512m", "-D", "bogus"} {
		_, err := hosted.New(engine.InitArgs{Options: []string{opt}})
		if !stderrors.Is(err, errors.BadOption("")) {
			t.Errorf("%q: got %v, want bad_option", opt, err)
		}
	}
}

func TestInitVersionTags(t *testing.T) {
	e := newEngine(t)
	if e.Version() != engine.DefaultVersion {
		t.Errorf("default version: got %#x", int32(e.Version()))
	}

	e, err := hosted.New(engine.InitArgs{Version: engine.V1_8})
	if err != nil {
		t.Fatalf("New(V1_8): %v", err)
	}
	if e.Version() != engine.V1_8 {
		t.Errorf("version: got %#x, want %#x", int32(e.Version()), int32(engine.V1_8))
	}

	if _, err := hosted.New(engine.InitArgs{Version: 0x00990000}); !stderrors.Is(err,
		errors.Unsupported(errors.PhaseCreate, "")) {
		t.Errorf("unknown version tag: got %v, want unsupported", err)
	}
}

func TestAttachDetachLifecycle(t *testing.T) {
	e := newEngine(t)

	if _, err := e.CurrentEnv(); !stderrors.Is(err, errors.Detached()) {
		t.Fatalf("CurrentEnv before attach: got %v, want detached", err)
	}

	attach(t, e)
	if _, err := e.CurrentEnv(); err != nil {
		t.Fatalf("CurrentEnv while attached: %v", err)
	}

	// Re-attaching an attached thread is a no-op onto the same
	// attachment; one Detach undoes it.
	attach(t, e)
	if err := e.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}

	if _, err := e.CurrentEnv(); !stderrors.Is(err, errors.Detached()) {
		t.Fatalf("CurrentEnv after detach: got %v, want detached", err)
	}
	if err := e.Detach(); !stderrors.Is(err, errors.Detached()) {
		t.Fatalf("double detach: got %v, want detached", err)
	}
}

func TestAttachmentsArePerGoroutine(t *testing.T) {
	e := newEngine(t)
	attach(t, e)
	defer e.Detach()

	done := make(chan error, 1)
	go func() {
		_, err := e.CurrentEnv()
		done <- err
	}()
	if err := <-done; !stderrors.Is(err, errors.Detached()) {
		t.Fatalf("other goroutine: got %v, want detached", err)
	}
}

func TestDefineAndCallStatic(t *testing.T) {
	e := newEngine(t)
	cls := hosted.NewClass("demo/Adder").
		StaticMethod("add", "(II)I", func(c hosted.Call) (jvmruntime.Value, error) {
			return jvmruntime.Int(c.Args[0].AsInt() + c.Args[1].AsInt()), nil
		})
	if err := e.Define(cls); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := e.Define(hosted.NewClass("demo/Adder")); err == nil {
		t.Fatal("redefinition accepted")
	}

	env := attach(t, e)
	defer e.Detach()

	ref, err := env.FindClass("demo/Adder")
	if err != nil {
		t.Fatalf("FindClass: %v", err)
	}
	id, err := env.GetStaticMethodID(ref, "add", "(II)I")
	if err != nil {
		t.Fatalf("GetStaticMethodID: %v", err)
	}

	out, err := env.CallStatic(ref, id, jvmruntime.KindInt, []jvmruntime.Value{
		jvmruntime.Int(2), jvmruntime.Int(40),
	})
	if err != nil {
		t.Fatalf("CallStatic: %v", err)
	}
	if got := out.AsInt(); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestResolutionFailures(t *testing.T) {
	e := newEngine(t)
	env := attach(t, e)
	defer e.Detach()

	if _, err := env.FindClass("no/such/Class"); !stderrors.Is(err, errors.ClassNotFound("")) {
		t.Errorf("FindClass: got %v, want class_not_found", err)
	}

	ref, err := env.FindClass("java/lang/String")
	if err != nil {
		t.Fatalf("FindClass: %v", err)
	}
	if _, err := env.GetMethodID(ref, "nope", "()V"); !stderrors.Is(err, errors.MemberNotFound("", "", "")) {
		t.Errorf("GetMethodID: got %v, want member_not_found", err)
	}
	// Instance and static lookup paths are distinct.
	if _, err := env.GetStaticMethodID(ref, "length", "()I"); err == nil {
		t.Error("instance method resolved through the static path")
	}
}

func TestConstructAndCall(t *testing.T) {
	e := newEngine(t)
	env := attach(t, e)
	defer e.Detach()

	cls, err := env.FindClass("java/lang/Integer")
	if err != nil {
		t.Fatalf("FindClass: %v", err)
	}
	ctor, err := env.GetMethodID(cls, "<init>", "(I)V")
	if err != nil {
		t.Fatalf("constructor id: %v", err)
	}
	obj, err := env.NewObject(cls, ctor, []jvmruntime.Value{jvmruntime.Int(7)})
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	if obj == nil {
		t.Fatal("NewObject returned null without a pending fault")
	}

	intValue, err := env.GetMethodID(cls, "intValue", "()I")
	if err != nil {
		t.Fatalf("intValue id: %v", err)
	}
	out, err := env.Call(obj, intValue, jvmruntime.KindInt, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got := out.AsInt(); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}

func TestRawCallArityChecked(t *testing.T) {
	e := newEngine(t)
	env := attach(t, e)
	defer e.Detach()

	cls, _ := env.FindClass("java/lang/String")
	concat, err := env.GetMethodID(cls, "concat", "(Ljava/lang/String;)Ljava/lang/String;")
	if err != nil {
		t.Fatalf("concat id: %v", err)
	}
	recv, _ := env.NewString("a")

	if _, err := env.Call(recv, concat, jvmruntime.KindObject, nil); !stderrors.Is(err,
		errors.ArityMismatch("", 0, 0)) {
		t.Errorf("short argument list: got %v, want arity_mismatch", err)
	}
	arg, _ := env.NewString("b")
	if _, err := env.Call(recv, concat, jvmruntime.KindObject, []jvmruntime.Value{
		jvmruntime.Object(arg), jvmruntime.Object(arg),
	}); !stderrors.Is(err, errors.ArityMismatch("", 0, 0)) {
		t.Errorf("long argument list: got %v, want arity_mismatch", err)
	}
	// Structural misuse surfaces through the error return, not the
	// pending-fault state.
	if env.ExceptionCheck() {
		t.Error("arity mismatch raised a managed fault")
	}
}

func TestRawCallReturnKindChecked(t *testing.T) {
	e := newEngine(t)
	env := attach(t, e)
	defer e.Detach()

	cls, _ := env.FindClass("java/lang/String")
	length, _ := env.GetMethodID(cls, "length", "()I")
	recv, _ := env.NewString("abc")
	if _, err := env.Call(recv, length, jvmruntime.KindLong, nil); !stderrors.Is(err,
		errors.TypeMismatch("", 0, "", "")) {
		t.Errorf("Call with wrong kind: got %v, want type_mismatch", err)
	}

	intCls, _ := env.FindClass("java/lang/Integer")
	parseInt, _ := env.GetStaticMethodID(intCls, "parseInt", "(Ljava/lang/String;)I")
	arg, _ := env.NewString("1")
	if _, err := env.CallStatic(intCls, parseInt, jvmruntime.KindObject, []jvmruntime.Value{
		jvmruntime.Object(arg),
	}); !stderrors.Is(err, errors.TypeMismatch("", 0, "", "")) {
		t.Errorf("CallStatic with wrong kind: got %v, want type_mismatch", err)
	}

	id, _ := env.GetStaticFieldID(intCls, "MAX_VALUE", "I")
	if _, err := env.GetStaticField(intCls, id, jvmruntime.KindLong); !stderrors.Is(err,
		errors.TypeMismatch("", 0, "", "")) {
		t.Errorf("GetStaticField with wrong kind: got %v, want type_mismatch", err)
	}
}

func TestNullReceiverRaisesFault(t *testing.T) {
	e := newEngine(t)
	env := attach(t, e)
	defer e.Detach()

	cls, _ := env.FindClass("java/lang/String")
	id, err := env.GetMethodID(cls, "length", "()I")
	if err != nil {
		t.Fatalf("length id: %v", err)
	}

	if _, err := env.Call(nil, id, jvmruntime.KindInt, nil); err != nil {
		t.Fatalf("Call on null returned a structural error: %v", err)
	}
	if !env.ExceptionCheck() {
		t.Fatal("no pending fault after null receiver")
	}
	fault := env.ExceptionOccurred()
	if got := env.ObjectClassName(fault); got != "java/lang/NullPointerException" {
		t.Errorf("fault class: got %q", got)
	}
	env.ExceptionClear()
	if env.ExceptionCheck() {
		t.Error("fault survived ExceptionClear")
	}
}

func TestThrownBecomesPendingFault(t *testing.T) {
	e := newEngine(t)
	env := attach(t, e)
	defer e.Detach()

	cls, _ := env.FindClass("java/lang/Integer")
	id, err := env.GetStaticMethodID(cls, "parseInt", "(Ljava/lang/String;)I")
	if err != nil {
		t.Fatalf("parseInt id: %v", err)
	}

	arg, err := env.NewString("not a number")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	out, err := env.CallStatic(cls, id, jvmruntime.KindInt, []jvmruntime.Value{jvmruntime.Object(arg)})
	if err != nil {
		t.Fatalf("CallStatic: %v", err)
	}
	if out.Kind() != jvmruntime.KindVoid {
		t.Errorf("faulted call returned %v, want the void placeholder", out)
	}
	fault := env.ExceptionOccurred()
	if got := env.ObjectClassName(fault); got != "java/lang/NumberFormatException" {
		t.Errorf("fault class: got %q", got)
	}
	env.ExceptionClear()

	// The happy path still works after clearing.
	arg, _ = env.NewString("123")
	out, err = env.CallStatic(cls, id, jvmruntime.KindInt, []jvmruntime.Value{jvmruntime.Object(arg)})
	if err != nil || env.ExceptionCheck() {
		t.Fatalf("parseInt(123): err=%v pending=%v", err, env.ExceptionCheck())
	}
	if got := out.AsInt(); got != 123 {
		t.Errorf("got %d, want 123", got)
	}
}

func TestLocalRefsGoStaleOnDetach(t *testing.T) {
	e := newEngine(t)
	env := attach(t, e)

	ref, err := env.NewString("short-lived")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	cls, _ := env.FindClass("java/lang/String")
	length, err := env.GetMethodID(cls, "length", "()I")
	if err != nil {
		t.Fatalf("length id: %v", err)
	}
	if err := e.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}

	env = attach(t, e)
	defer e.Detach()
	if _, err := env.Call(ref, length, jvmruntime.KindInt, nil); !stderrors.Is(err, errors.StaleRef()) {
		t.Fatalf("stale local ref: got %v, want stale_ref", err)
	}
}

func TestGlobalRefsSurviveDetach(t *testing.T) {
	e := newEngine(t)
	env := attach(t, e)

	local, _ := env.NewString("durable")
	global, err := env.NewGlobalRef(local)
	if err != nil {
		t.Fatalf("NewGlobalRef: %v", err)
	}
	cls, _ := env.FindClass("java/lang/String")
	length, _ := env.GetMethodID(cls, "length", "()I")
	e.Detach()

	env = attach(t, e)
	defer e.Detach()
	out, err := env.Call(global, length, jvmruntime.KindInt, nil)
	if err != nil {
		t.Fatalf("Call via global ref: %v", err)
	}
	if got := out.AsInt(); got != 7 {
		t.Errorf("length: got %d, want 7", got)
	}
	env.DeleteGlobalRef(global)
	env.DeleteGlobalRef(nil)
}

func TestStaticFields(t *testing.T) {
	e := newEngine(t)
	env := attach(t, e)
	defer e.Detach()

	cls, _ := env.FindClass("java/lang/Integer")
	id, err := env.GetStaticFieldID(cls, "MAX_VALUE", "I")
	if err != nil {
		t.Fatalf("MAX_VALUE id: %v", err)
	}
	out, err := env.GetStaticField(cls, id, jvmruntime.KindInt)
	if err != nil {
		t.Fatalf("GetStaticField: %v", err)
	}
	if got := out.AsInt(); got != 1<<31-1 {
		t.Errorf("MAX_VALUE: got %d", got)
	}

	boolCls, _ := env.FindClass("java/lang/Boolean")
	id, err = env.GetStaticFieldID(boolCls, "TRUE", "Ljava/lang/Boolean;")
	if err != nil {
		t.Fatalf("TRUE id: %v", err)
	}
	out, err = env.GetStaticField(boolCls, id, jvmruntime.KindObject)
	if err != nil {
		t.Fatalf("GetStaticField: %v", err)
	}
	if out.IsNull() {
		t.Fatal("TRUE is null")
	}
	boolValue, _ := env.GetMethodID(boolCls, "booleanValue", "()Z")
	v, err := env.Call(out.AsRef(), boolValue, jvmruntime.KindBoolean, nil)
	if err != nil || !v.AsBool() {
		t.Errorf("TRUE.booleanValue: %v, err=%v", v, err)
	}
}

func TestSystemGetProperty(t *testing.T) {
	e := newEngine(t, "-Dgreeting=hello")
	env := attach(t, e)
	defer e.Detach()

	cls, _ := env.FindClass("java/lang/System")
	id, err := env.GetStaticMethodID(cls, "getProperty", "(Ljava/lang/String;)Ljava/lang/String;")
	if err != nil {
		t.Fatalf("getProperty id: %v", err)
	}

	key, _ := env.NewString("greeting")
	out, err := env.CallStatic(cls, id, jvmruntime.KindObject, []jvmruntime.Value{jvmruntime.Object(key)})
	if err != nil {
		t.Fatalf("CallStatic: %v", err)
	}
	obj, derr := hosted.Deref(out)
	if derr != nil {
		t.Fatalf("deref: %v", derr)
	}
	if s, _ := hosted.StringData(obj); s != "hello" {
		t.Errorf("got %q, want hello", s)
	}

	key, _ = env.NewString("absent")
	out, err = env.CallStatic(cls, id, jvmruntime.KindObject, []jvmruntime.Value{jvmruntime.Object(key)})
	if err != nil {
		t.Fatalf("CallStatic: %v", err)
	}
	if !out.IsNull() {
		t.Error("missing property should return null")
	}
}

func TestDestroy(t *testing.T) {
	e := newEngine(t)
	attach(t, e)
	if err := e.Destroy(); !stderrors.Is(err, errors.TeardownFailed(nil)) {
		t.Fatalf("Destroy with live attachment: got %v, want teardown_failed", err)
	}
	e.Detach()

	e = newEngine(t)
	if err := e.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if err := e.Destroy(); !stderrors.Is(err, errors.TeardownFailed(nil)) {
		t.Fatalf("double Destroy: got %v, want teardown_failed", err)
	}
}
