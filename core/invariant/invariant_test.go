package invariant_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/JustAGod1/fosh/core/invariant"
)

func expectPanic(t *testing.T, fragment string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		msg := fmt.Sprintf("%v", r)
		if !strings.Contains(msg, fragment) {
			t.Errorf("panic %q does not mention %q", msg, fragment)
		}
		if !strings.Contains(msg, " at ") {
			t.Errorf("panic %q carries no caller location", msg)
		}
	}()
	fn()
}

func TestPreconditionPass(t *testing.T) {
	invariant.Precondition(true, "fine")
	invariant.Precondition(len("x") > 0, "fine")
}

func TestPreconditionFail(t *testing.T) {
	expectPanic(t, "PRECONDITION VIOLATION", func() {
		invariant.Precondition(false, "data must not be empty")
	})
}

func TestInvariantFail(t *testing.T) {
	expectPanic(t, "INVARIANT VIOLATION", func() {
		invariant.Invariant(1 == 2, "math broke: %d", 2)
	})
}

func TestNotNil(t *testing.T) {
	invariant.NotNil("value", "name")
	expectPanic(t, "name must not be nil", func() {
		invariant.NotNil(nil, "name")
	})
}

func TestUnreachable(t *testing.T) {
	expectPanic(t, "UNREACHABLE", func() {
		invariant.Unreachable("kind %s cannot reach this pass", "Piped")
	})
}
