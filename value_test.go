package jvmruntime_test

import (
	"math"
	"testing"

	jvmruntime "github.com/wippyai/jvm-runtime"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		value jvmruntime.Value
		kind  jvmruntime.Kind
	}{
		{jvmruntime.Void(), jvmruntime.KindVoid},
		{jvmruntime.Boolean(true), jvmruntime.KindBoolean},
		{jvmruntime.Byte(-1), jvmruntime.KindByte},
		{jvmruntime.Char('A'), jvmruntime.KindChar},
		{jvmruntime.Short(-2), jvmruntime.KindShort},
		{jvmruntime.Int(3), jvmruntime.KindInt},
		{jvmruntime.Long(-4), jvmruntime.KindLong},
		{jvmruntime.Float(1.5), jvmruntime.KindFloat},
		{jvmruntime.Double(2.5), jvmruntime.KindDouble},
		{jvmruntime.Object(nil), jvmruntime.KindObject},
	}

	for _, tt := range tests {
		if got := tt.value.Kind(); got != tt.kind {
			t.Errorf("%v: kind %v, want %v", tt.value, got, tt.kind)
		}
	}
}

func TestValueRoundTrip(t *testing.T) {
	if !jvmruntime.Boolean(true).AsBool() || jvmruntime.Boolean(false).AsBool() {
		t.Error("boolean round trip")
	}
	if got := jvmruntime.Byte(-128).AsByte(); got != -128 {
		t.Errorf("byte: got %d", got)
	}
	if got := jvmruntime.Char(0xFFFF).AsChar(); got != 0xFFFF {
		t.Errorf("char: got %d", got)
	}
	if got := jvmruntime.Short(-32768).AsShort(); got != -32768 {
		t.Errorf("short: got %d", got)
	}
	if got := jvmruntime.Int(math.MinInt32).AsInt(); got != math.MinInt32 {
		t.Errorf("int: got %d", got)
	}
	if got := jvmruntime.Long(math.MinInt64).AsLong(); got != math.MinInt64 {
		t.Errorf("long: got %d", got)
	}
	if got := jvmruntime.Float(-1.25).AsFloat(); got != -1.25 {
		t.Errorf("float: got %g", got)
	}
	if got := jvmruntime.Double(math.Pi).AsDouble(); got != math.Pi {
		t.Errorf("double: got %g", got)
	}
	if got := jvmruntime.Double(math.Inf(-1)).AsDouble(); !math.IsInf(got, -1) {
		t.Errorf("double -inf: got %g", got)
	}
}

func TestValueNull(t *testing.T) {
	if !jvmruntime.Object(nil).IsNull() {
		t.Error("nil ref should be null")
	}
	if jvmruntime.Object("something").IsNull() {
		t.Error("non-nil ref reported null")
	}
	if jvmruntime.Int(0).IsNull() {
		t.Error("primitive zero reported null")
	}
}

func TestKindForSignature(t *testing.T) {
	tests := []struct {
		sig  string
		kind jvmruntime.Kind
	}{
		{"V", jvmruntime.KindVoid},
		{"Z", jvmruntime.KindBoolean},
		{"B", jvmruntime.KindByte},
		{"C", jvmruntime.KindChar},
		{"S", jvmruntime.KindShort},
		{"I", jvmruntime.KindInt},
		{"J", jvmruntime.KindLong},
		{"F", jvmruntime.KindFloat},
		{"D", jvmruntime.KindDouble},
		{"Ljava/lang/String;", jvmruntime.KindObject},
		{"[I", jvmruntime.KindObject},
		{"[Ljava/lang/String;", jvmruntime.KindObject},
		{"", jvmruntime.KindVoid},
	}

	for _, tt := range tests {
		if got := jvmruntime.KindForSignature(tt.sig); got != tt.kind {
			t.Errorf("%q: got %v, want %v", tt.sig, got, tt.kind)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := jvmruntime.KindLong.String(); got != "long" {
		t.Errorf("got %q", got)
	}
	if got := jvmruntime.Kind(200).String(); got != "kind(200)" {
		t.Errorf("got %q", got)
	}
}
