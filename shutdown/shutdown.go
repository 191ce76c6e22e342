/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package shutdown centralizes process exit codes so that cmd/jrm and
// the core agree on what each failure mode means, grounded on the
// teacher's shutdown.Exit(shutdown.JVM_EXCEPTION) convention.
package shutdown

import "os"

const (
	OK           = 0
	JVM_EXCEPTION = 1
	APP_EXCEPTION = 2
)

// exitFunc is a var so tests can intercept process exit.
var exitFunc = os.Exit

func Exit(code int) { exitFunc(code) }
