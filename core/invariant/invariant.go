// Package invariant provides contract assertions.
//
// All functions panic on violation. A violation is a programming error in
// the shell itself, never a user error: user programs are reported through
// the diagnostics bundle and must not reach these checks.
package invariant

import (
	"fmt"
	"runtime"
)

// Precondition checks an input contract at function entry.
func Precondition(condition bool, format string, args ...any) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Invariant checks an internal consistency condition.
func Invariant(condition bool, format string, args ...any) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil.
func NotNil(value any, name string) {
	if value == nil {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

// Unreachable marks a branch the caller has proven impossible, such as a
// node kind the current pass can never receive.
func Unreachable(format string, args ...any) {
	fail("UNREACHABLE", format, args...)
}

func fail(class, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if _, file, line, ok := runtime.Caller(2); ok {
		panic(fmt.Sprintf("%s VIOLATION: %s at %s:%d", class, msg, file, line))
	}
	panic(fmt.Sprintf("%s VIOLATION: %s", class, msg))
}
