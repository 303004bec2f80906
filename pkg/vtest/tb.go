package vtest

import (
	"github.com/vango-dev/vangotest/internal/errors"
)

// TB is the part of testing.TB the harness reports failures through.
type TB interface {
	Helper()
	Fatal(args ...any)
}

// CleanupTB is a TB that can register cleanup functions.
type CleanupTB interface {
	TB
	Cleanup(func())
}

// fail reports err as a fatal test failure.
func fail(tb TB, err *errors.HarnessError) {
	tb.Helper()
	tb.Fatal(err)
}
