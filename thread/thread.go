/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package thread is the bytecode interpreter: a Thread owns a Frame
// stack and dispatches opcodes against the shared classloader,
// heap, and string pool, per spec.md §4.10.
package thread

import (
	"fmt"

	"jrm/classloader"
	"jrm/frame"
	"jrm/object"
	"jrm/stringpool"
	"jrm/trace"
)

type State int

const (
	Running State = iota
	Blocked
	Terminated
)

// JavaException models a thrown Java object for the purposes of
// exception-table dispatch: only the catch-matching class name
// matters to the interpreter core, not the exception instance's
// fields (spec.md §4.10 "Exception semantics").
type JavaException struct {
	ClassName string
	Message   string
}

func (e *JavaException) Error() string {
	if e.Message == "" {
		return e.ClassName
	}
	return e.ClassName + ": " + e.Message
}

// Thread is one JVM thread of execution: a Frame stack plus shared
// handles to the state every Frame may touch. Frames are never shared
// across Threads (spec.md §5); MethodArea, Heap and Strings are.
type Thread struct {
	Frames []*frame.Frame
	State  State

	Classes *classloader.MethodArea
	Heap    *object.Heap
	Strings *stringpool.Pool

	// Result is the slot for the return value of the thread's initial
	// call. No dispatched opcode returns from a frame, so Run never sets
	// it and it stays nil. Err is the error that terminated Run: the
	// *JavaException when one unwound past the root frame, any other
	// handler error as returned, or nil.
	Result *frame.Slot
	Err     error
}

func NewThread(classes *classloader.MethodArea, heap *object.Heap, strings *stringpool.Pool) *Thread {
	return &Thread{Classes: classes, Heap: heap, Strings: strings, State: Running}
}

// PushFrame starts a new activation on top of the stack.
func (t *Thread) PushFrame(f *frame.Frame) {
	t.Frames = append(t.Frames, f)
}

// CurrentFrame returns the top-of-stack frame, or nil if the stack is
// empty (the thread has nothing left to run).
func (t *Thread) CurrentFrame() *frame.Frame {
	if len(t.Frames) == 0 {
		return nil
	}
	return t.Frames[len(t.Frames)-1]
}

func (t *Thread) popFrame() {
	t.Frames = t.Frames[:len(t.Frames)-1]
}

// NewMethodFrame builds the activation record for one invocation of m
// on cls: sizes Locals/Operand from m.Code, and resolves each
// exception_table entry's constant-pool catch_type index into the
// binary class name FindHandler/isInstanceOf compare against, so a
// frame built this way unwinds real thrown exceptions the same way a
// hand-built test fixture's literal CatchType strings do. m.Code must
// be non-nil (callers are expected to have already rejected abstract
// and native methods).
func NewMethodFrame(cls *classloader.Class, m *classloader.Method) (*frame.Frame, error) {
	code := m.Code
	excTable := make([]frame.ExceptionHandler, 0, len(code.ExceptionTable))
	for _, e := range code.ExceptionTable {
		catchType := ""
		if e.CatchType != 0 {
			name, err := cls.ConstantPool.GetClassName(int(e.CatchType))
			if err != nil {
				return nil, err
			}
			catchType = name
		}
		excTable = append(excTable, frame.ExceptionHandler{
			StartPc:   int(e.StartPc),
			EndPc:     int(e.EndPc),
			HandlerPc: int(e.HandlerPc),
			CatchType: catchType,
		})
	}

	return frame.NewFrame(
		cls.Name, m.Id.Name, m.Id.Descriptor,
		code.Code, int(code.MaxLocals), int(code.MaxStack), excTable,
	), nil
}

// Run drives the fetch-dispatch-advance cycle until the frame stack
// drains (normal termination) or an exception unwinds past the root
// frame (spec.md's Running → Terminated transition). It never yields
// mid-instruction.
func (t *Thread) Run() error {
	for t.State == Running {
		f := t.CurrentFrame()
		if f == nil {
			t.State = Terminated
			return nil
		}

		if f.PC >= len(f.Code) {
			return fmt.Errorf("program counter %d past end of code (length %d)", f.PC, len(f.Code))
		}

		opcode := f.Code[f.PC]
		err := t.execute(f, opcode)
		if err == nil {
			continue
		}

		exc, isException := err.(*JavaException)
		if !isException {
			t.State = Terminated
			t.Err = err
			return err
		}

		if !t.unwind(exc) {
			t.State = Terminated
			t.Err = exc
			return exc
		}
	}
	return t.Err
}

// unwind implements spec.md §4.10's exception search: scan the
// current frame's table for a covering, catch-type-matching entry;
// on match, resume at handler_pc in the same frame; on miss, pop the
// frame and retry in the caller. Returns false once the frame stack
// is exhausted, meaning the thread terminates with exc as its result.
func (t *Thread) unwind(exc *JavaException) bool {
	for {
		f := t.CurrentFrame()
		if f == nil {
			return false
		}

		handler, ok := f.FindHandler(f.PC, func(catchType string) bool {
			return t.isInstanceOf(exc.ClassName, catchType)
		})
		if ok {
			f.PC = handler.HandlerPc
			return true
		}

		trace.Trace(fmt.Sprintf("unwinding %s past frame %s.%s", exc.ClassName, f.ClassName, f.MethodName))
		t.popFrame()
	}
}

// isInstanceOf walks the superclass chain of className (via the
// shared MethodArea) looking for catchType, so a handler declared for
// a supertype still matches a thrown subtype.
func (t *Thread) isInstanceOf(className, catchType string) bool {
	if className == catchType {
		return true
	}
	name := className
	for name != "" {
		cls, ok := t.Classes.Get(name)
		if !ok {
			return false
		}
		if cls.SuperName == catchType {
			return true
		}
		name = cls.SuperName
	}
	return false
}
