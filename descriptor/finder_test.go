package descriptor_test

import (
	"testing"

	"github.com/wippyai/jvm-runtime/descriptor"
)

func TestMethodDescriptor(t *testing.T) {
	tests := []struct {
		name string
		sig  descriptor.MethodSignature
		want string
	}{
		{
			name: "no parameters",
			sig:  descriptor.Named("java/lang/Object").Method("hashCode").Returns(descriptor.Int),
			want: "()I",
		},
		{
			name: "void return",
			sig:  descriptor.Named("java/lang/Thread").Method("run").Returns(descriptor.Void),
			want: "()V",
		},
		{
			name: "mixed parameters",
			sig: descriptor.Named("java/lang/String").Method("regionMatches").
				Parameter(descriptor.Boolean).
				Parameter(descriptor.Int).
				Parameter(descriptor.String).
				Parameter(descriptor.Int).
				Parameter(descriptor.Int).
				Returns(descriptor.Boolean),
			want: "(ZILjava/lang/String;II)Z",
		},
		{
			name: "array parameter",
			sig: descriptor.Named("java/util/Arrays").Method("toString").
				Parameter(descriptor.Int.ArrayOf()).
				Returns(descriptor.String),
			want: "([I)Ljava/lang/String;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sig.Descriptor(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParameterOrderMatters(t *testing.T) {
	base := descriptor.Named("pkg/Thing").Method("f")
	ab := base.Parameter(descriptor.Int).Parameter(descriptor.Long).Returns(descriptor.Void)
	ba := base.Parameter(descriptor.Long).Parameter(descriptor.Int).Returns(descriptor.Void)

	if ab.Descriptor() == ba.Descriptor() {
		t.Fatalf("parameter order lost: both produce %q", ab.Descriptor())
	}
	if got := ab.Descriptor(); got != "(IJ)V" {
		t.Errorf("got %q, want (IJ)V", got)
	}
}

func TestFinderIsPure(t *testing.T) {
	base := descriptor.Named("pkg/Thing").Method("f").Parameter(descriptor.Int)
	one := base.Parameter(descriptor.Long).Returns(descriptor.Void)
	two := base.Parameter(descriptor.Double).Returns(descriptor.Void)

	if got := one.Descriptor(); got != "(IJ)V" {
		t.Errorf("first branch: got %q, want (IJ)V", got)
	}
	if got := two.Descriptor(); got != "(ID)V" {
		t.Errorf("second branch: got %q, want (ID)V", got)
	}
}

func TestConstructorDescriptor(t *testing.T) {
	empty := descriptor.Named("java/lang/Object").Constructor()
	if got := empty.Descriptor(); got != "()V" {
		t.Errorf("no-arg: got %q, want ()V", got)
	}

	withArgs := descriptor.Named("java/io/File").Constructor().
		Parameter(descriptor.String).
		Parameter(descriptor.String)
	if got := withArgs.Descriptor(); got != "(Ljava/lang/String;Ljava/lang/String;)V" {
		t.Errorf("two-arg: got %q", got)
	}
}

func TestSignatureAccessors(t *testing.T) {
	sig := descriptor.Named("pkg/Thing").Method("f").
		Parameter(descriptor.Int).
		Returns(descriptor.Long)

	if sig.Class() != descriptor.Named("pkg/Thing") {
		t.Error("class accessor mismatch")
	}
	if sig.Name() != "f" {
		t.Errorf("name: got %q", sig.Name())
	}
	if sig.Returns() != descriptor.Long {
		t.Error("return type mismatch")
	}
	params := sig.Parameters()
	if len(params) != 1 || params[0] != descriptor.Int {
		t.Errorf("parameters: got %v", params)
	}

	// The returned slice is a copy; mutating it must not leak back.
	params[0] = descriptor.Double
	if sig.Parameters()[0] != descriptor.Int {
		t.Error("Parameters exposed internal state")
	}
}
