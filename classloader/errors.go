/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"jrm/trace"
)

// ParseError is returned for every malformed-class-file condition in
// spec.md §7: truncated input, bad magic, unsupported version, unknown
// tag, bad index, kind mismatch, bad access flags, bad descriptor.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

// cfe ("class format error") builds a ParseError, appending the
// caller's file and line the way the teacher's cfe() does, and traces
// it before returning so a silent caller still leaves a stderr record.
func cfe(msg string) error {
	errMsg := "Class Format Error: " + msg

	pc, _, _, ok := runtime.Caller(1)
	if ok {
		fn := runtime.FuncForPC(pc)
		fileName, fileLine := fn.FileLine(pc)
		errMsg += "\n  detected by file: " + filepath.Base(fileName) +
			", line: " + strconv.Itoa(fileLine)
	}
	trace.Error(errMsg)
	return &ParseError{Msg: errMsg}
}

// indexRangeError reports a constant-pool index outside 1..cpCount,
// matching the literal form spec.md §8 scenario 2 expects.
func indexRangeError(index, cpCount int) error {
	return cfe(fmt.Sprintf("index %d not in 1..%d", index, cpCount))
}

// ClassNotFoundError is returned by the MethodArea when a binary name
// cannot be resolved via the bootstrap resource reader or any
// filesystem search root.
type ClassNotFoundError struct {
	Name string
}

func (e *ClassNotFoundError) Error() string {
	return "class not found: " + e.Name
}

// innerError signals a broken invariant: a lookup that "can't fail"
// because its index was already validated, failed anyway. It is a bug
// in this runtime, never a malformed-input condition, and is never
// swallowed.
type innerError struct {
	Msg string
}

func (e *innerError) Error() string { return "internal error: " + e.Msg }

func newInnerError(msg string) error {
	err := &innerError{Msg: msg}
	trace.Error(err.Error())
	return err
}
