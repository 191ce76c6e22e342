/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package gfunction is the native method table: host-implemented Go
// functions standing in for methods the class file declares `native`,
// addressed by `class/name(descriptor)return` (spec.md §6 "native
// method table"). The defining file for this table itself did not
// survive retrieval from the teacher, but the convention is real: the
// teacher's own javaLangString.go/javaLangThread.go populate a package
// map of this same name and key shape, and this package continues it.
package gfunction

import (
	"jrm/classloader"
	"jrm/frame"
	"jrm/object"
	"jrm/stringpool"
)

// Context is everything a native hook may need beyond its arguments:
// the heap it allocates on, the string pool it interns through, and
// the method area it can resolve classes against (for e.g. a hook
// that loads a class by name). This is the "context (heap handle,
// string interner, static-field resolver)" spec.md §6 describes.
type Context struct {
	Heap    *object.Heap
	Strings *stringpool.Pool
	Classes *classloader.MethodArea
}

// GFunction is a native method body: given the call context and the
// argument slots already popped off the caller's operand stack (this,
// then each parameter, in declaration order), it returns the method's
// result, or nil for a void method.
type GFunction func(ctx *Context, params []frame.Slot) (*frame.Slot, error)

// GMeth pairs a GFunction with the number of operand-stack slots the
// interpreter must pop to build params — long/double parameters still
// occupy one Slot each in this design (spec.md §9), so ParamSlots
// equals len(params), not the JVM's two-slot-wide convention.
type GMeth struct {
	ParamSlots int
	GFunction  GFunction
}

// MethodSignatures is the process-wide native method table, keyed by
// "class/binary/Name.method(descriptor)return". The load* functions in
// this package populate it at init time; thread's invokestatic handler
// is the only opcode that consults it so far (invokevirtual and
// invokespecial, and any Code-attribute fallback for a method with no
// registered hook, are not implemented).
var MethodSignatures = make(map[string]GMeth)

// justReturn is a GFunction for natives whose Go-visible behavior is
// a no-op (e.g. registerNatives); the teacher's javaLangThread.go
// assigns a "justReturn" GFunction to registerNatives the same way.
func justReturn(ctx *Context, params []frame.Slot) (*frame.Slot, error) {
	return nil, nil
}

func init() {
	loadLangObject()
	loadLangString()
	loadLangThread()
}
