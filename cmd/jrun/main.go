package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/jvm-runtime/descriptor"
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/engine/wasmvm"
	"github.com/wippyai/jvm-runtime/jvm"
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to a wasm class file")
		className   = flag.String("class", "", "Class name to register the module under (default: file stem)")
		methodName  = flag.String("method", "", "Static method to call (optional)")
		argList     = flag.String("args", "", "Arguments (comma-separated)")
		options     = flag.String("options", "", "VM options (comma-separated, e.g. -Dkey=val)")
		list        = flag.Bool("list", false, "List exported members and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: jrun -wasm <file.wasm> [-class name] [-method name -args a,b]")
		fmt.Fprintln(os.Stderr, "       jrun -wasm <file.wasm> -list")
		fmt.Fprintln(os.Stderr, "       jrun -wasm <file.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			jvm.SetLogger(logger)
			wasmvm.SetLogger(logger)
		}
	}

	name := *className
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(*wasmFile), ".wasm")
	}

	if *interactive {
		if err := runInteractive(*wasmFile, name, splitList(*options)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*wasmFile, name, *methodName, splitList(*argList), splitList(*options), *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	jvm.Shutdown()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// boot registers the wasm file as a class and brings the machine up
// around the engine.
func boot(wasmFile, className string, options []string) (*jvm.VM, *wasmvm.Engine, error) {
	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	eng, err := wasmvm.New(context.Background(), engine.InitArgs{Options: options})
	if err != nil {
		return nil, nil, err
	}
	if err := eng.DefineModule(className, data); err != nil {
		return nil, nil, err
	}

	vm, err := jvm.Create(jvm.Config{Engine: eng, PropagateExceptions: true})
	if err != nil {
		return nil, nil, err
	}
	return vm, eng, nil
}

func run(wasmFile, className, methodName string, rawArgs, options []string, listOnly bool) error {
	vm, eng, err := boot(wasmFile, className, options)
	if err != nil {
		return err
	}

	exports, err := eng.Exports(className)
	if err != nil {
		return err
	}

	if listOnly || methodName == "" {
		fmt.Printf("%s (%d exported function(s)):\n", className, len(exports))
		for _, e := range exports {
			fmt.Printf("  %s%s\n", e.Name, exportDescriptor(e))
		}
		return nil
	}

	var target *wasmvm.Export
	for i := range exports {
		if exports[i].Name == methodName {
			target = &exports[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no exported function %q in %s", methodName, className)
	}

	sig, err := exportSignature(className, *target)
	if err != nil {
		return err
	}
	method, err := vm.FindStaticMethod(sig)
	if err != nil {
		return err
	}

	args, err := parseArgs(rawArgs, sig.Parameters())
	if err != nil {
		return err
	}

	result, err := invoke(method, sig.Returns(), args)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}

// exportSignature builds the method signature implied by an export's
// wasm types.
func exportSignature(className string, e wasmvm.Export) (descriptor.MethodSignature, error) {
	finder := descriptor.Named(className).Method(e.Name)
	for _, p := range e.Params {
		cls, err := classForValueType(p)
		if err != nil {
			return descriptor.MethodSignature{}, err
		}
		finder = finder.Parameter(cls)
	}
	ret := descriptor.Void
	if len(e.Results) == 1 {
		cls, err := classForValueType(e.Results[0])
		if err != nil {
			return descriptor.MethodSignature{}, err
		}
		ret = cls
	} else if len(e.Results) > 1 {
		return descriptor.MethodSignature{}, fmt.Errorf("%s: multi-value results are not callable", e.Name)
	}
	return finder.Returns(ret), nil
}

func classForValueType(t byte) (descriptor.Class, error) {
	switch t {
	case 0x7f: // i32
		return descriptor.Int, nil
	case 0x7e: // i64
		return descriptor.Long, nil
	case 0x7d: // f32
		return descriptor.Float, nil
	case 0x7c: // f64
		return descriptor.Double, nil
	}
	return descriptor.Class{}, fmt.Errorf("unsupported wasm value type 0x%x", t)
}

func exportDescriptor(e wasmvm.Export) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range e.Params {
		if cls, err := classForValueType(p); err == nil {
			b.WriteString(cls.Signature())
		} else {
			b.WriteByte('?')
		}
	}
	b.WriteByte(')')
	if len(e.Results) == 0 {
		b.WriteString("V")
	} else if cls, err := classForValueType(e.Results[0]); err == nil {
		b.WriteString(cls.Signature())
	} else {
		b.WriteByte('?')
	}
	return b.String()
}

func parseArgs(raw []string, params []descriptor.Class) ([]jvm.Value, error) {
	if len(raw) != len(params) {
		return nil, fmt.Errorf("method takes %d argument(s), got %d", len(params), len(raw))
	}
	args := make([]jvm.Value, len(raw))
	for i, s := range raw {
		switch params[i] {
		case descriptor.Int:
			n, err := strconv.ParseInt(s, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args[i] = jvm.Int(int32(n))
		case descriptor.Long:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args[i] = jvm.Long(n)
		case descriptor.Float:
			f, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args[i] = jvm.Float(float32(f))
		case descriptor.Double:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args[i] = jvm.Double(f)
		default:
			return nil, fmt.Errorf("argument %d: unsupported parameter type %s", i, params[i])
		}
	}
	return args, nil
}

func invoke(m jvm.Method, ret descriptor.Class, args []jvm.Value) (string, error) {
	switch ret {
	case descriptor.Void:
		if err := jvm.InvokeStaticVoid(m, args...); err != nil {
			return "", err
		}
		return "ok", nil
	case descriptor.Int:
		v, err := jvm.InvokeStatic[int32](m, args...)
		return fmt.Sprintf("%d", v), err
	case descriptor.Long:
		v, err := jvm.InvokeStatic[int64](m, args...)
		return fmt.Sprintf("%d", v), err
	case descriptor.Float:
		v, err := jvm.InvokeStatic[float32](m, args...)
		return fmt.Sprintf("%g", v), err
	case descriptor.Double:
		v, err := jvm.InvokeStatic[float64](m, args...)
		return fmt.Sprintf("%g", v), err
	}
	return "", fmt.Errorf("unsupported return type %s", ret)
}
