package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/wippyai/jvm-runtime/errors"
)

func TestConstructorsSetPhaseAndKind(t *testing.T) {
	tests := []struct {
		err   *errors.Error
		phase errors.Phase
		kind  errors.Kind
	}{
		{errors.AlreadyCreated(), errors.PhaseCreate, errors.KindAlreadyCreated},
		{errors.CreationFailed(nil), errors.PhaseCreate, errors.KindCreationFailed},
		{errors.BadOption("-Xbogus"), errors.PhaseCreate, errors.KindBadOption},
		{errors.ClassNotFound("a/b/C"), errors.PhaseResolve, errors.KindClassNotFound},
		{errors.MemberNotFound("a/b/C", "f", "()V"), errors.PhaseResolve, errors.KindMemberNotFound},
		{errors.Detached(), errors.PhaseAttach, errors.KindDetached},
		{errors.ArityMismatch("f", 2, 1), errors.PhaseInvoke, errors.KindArityMismatch},
		{errors.TypeMismatch("f", 0, "int", "long"), errors.PhaseInvoke, errors.KindTypeMismatch},
		{errors.StaleRef(), errors.PhaseInvoke, errors.KindStaleRef},
		{errors.TeardownFailed(nil), errors.PhaseTeardown, errors.KindTeardownFailed},
	}

	for _, tt := range tests {
		if tt.err.Phase != tt.phase {
			t.Errorf("%v: phase %q, want %q", tt.err, tt.err.Phase, tt.phase)
		}
		if tt.err.Kind != tt.kind {
			t.Errorf("%v: kind %q, want %q", tt.err, tt.err.Kind, tt.kind)
		}
	}
}

func TestIsMatchesPhaseAndKind(t *testing.T) {
	err := errors.ClassNotFound("a/b/C")

	if !stderrors.Is(err, errors.ClassNotFound("other/D")) {
		t.Error("same phase+kind should match regardless of class")
	}
	if stderrors.Is(err, errors.MemberNotFound("a/b/C", "f", "()V")) {
		t.Error("different kind must not match")
	}
	if stderrors.Is(err, errors.Detached()) {
		t.Error("different phase must not match")
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	inner := errors.ClassNotFound("a/b/C")
	wrapped := fmt.Errorf("resolving dependency: %w", inner)

	if !stderrors.Is(wrapped, errors.ClassNotFound("")) {
		t.Error("wrapped error lost its identity")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("backend exploded")
	err := errors.CreationFailed(cause)

	if !stderrors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	if stderrors.Unwrap(err) != cause {
		t.Error("Unwrap did not return the cause")
	}
}

func TestErrorMessage(t *testing.T) {
	err := errors.MemberNotFound("java/lang/String", "charAt", "(I)C")
	msg := err.Error()

	for _, want := range []string{"[resolve]", "member_not_found", "java/lang/String.charAt", "(I)C"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestBuilder(t *testing.T) {
	cause := stderrors.New("boom")
	err := errors.New(errors.PhaseInvoke, errors.KindException).
		Class("a/B").
		Member("f").
		Signature("()V").
		Cause(cause).
		Detail("argument %d is off", 3).
		Build()

	if err.Phase != errors.PhaseInvoke || err.Kind != errors.KindException {
		t.Fatalf("builder lost phase/kind: %v", err)
	}
	if err.Class != "a/B" || err.Member != "f" || err.Signature != "()V" {
		t.Errorf("builder lost member fields: %+v", err)
	}
	if err.Detail != "argument 3 is off" {
		t.Errorf("detail: got %q", err.Detail)
	}
	if stderrors.Unwrap(err) != cause {
		t.Error("builder lost cause")
	}
}
