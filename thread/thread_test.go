/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package thread

import (
	"testing"

	"jrm/classloader"
	"jrm/frame"
	"jrm/object"
	"jrm/stringpool"
)

func newTestThread() *Thread {
	heap := object.NewHeap()
	return NewThread(classloader.NewMethodArea(), heap, stringpool.NewPool(heap))
}

// TestNopThenIconstM1 is spec.md §8 scenario 6: starting pc=0, empty
// operand stack, code [0x00, 0x02]. After nop, pc=1 and the stack is
// still empty; after iconst_m1, pc=2 and the stack top is i32 -1.
func TestNopThenIconstM1(t *testing.T) {
	th := newTestThread()
	f := frame.NewFrame("Main", "m", "()V", []byte{0x00, 0x02}, 0, 2, nil)
	th.PushFrame(f)

	if err := th.execute(f, f.Code[f.PC]); err != nil {
		t.Fatalf("nop: unexpected error: %v", err)
	}
	if f.PC != 1 || f.Operand.Len() != 0 {
		t.Fatalf("after nop: pc=%d len=%d, want pc=1 len=0", f.PC, f.Operand.Len())
	}

	if err := th.execute(f, f.Code[f.PC]); err != nil {
		t.Fatalf("iconst_m1: unexpected error: %v", err)
	}
	if f.PC != 2 {
		t.Fatalf("after iconst_m1: pc=%d, want 2", f.PC)
	}
	top, err := f.Operand.Peek()
	if err != nil {
		t.Fatalf("unexpected error peeking stack: %v", err)
	}
	if top.AsInt32() != -1 {
		t.Fatalf("stack top = %d, want -1", top.AsInt32())
	}
}

// TestExceptionTableMatchAndMiss is spec.md §8 scenario 7.
func TestExceptionTableMatchAndMiss(t *testing.T) {
	th := newTestThread()
	f := frame.NewFrame("Main", "m", "()V", []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0, 0, []frame.ExceptionHandler{
		{StartPc: 0, EndPc: 5, HandlerPc: 10, CatchType: ""},
	})
	th.PushFrame(f)

	f.PC = 3
	if !th.unwind(&JavaException{ClassName: "java/lang/Throwable"}) {
		t.Fatalf("expected handler match at pc=3")
	}
	if f.PC != 10 {
		t.Fatalf("pc after match = %d, want 10", f.PC)
	}

	th2 := newTestThread()
	f2 := frame.NewFrame("Main", "m", "()V", make([]byte, 11), 0, 0, []frame.ExceptionHandler{
		{StartPc: 0, EndPc: 5, HandlerPc: 10, CatchType: ""},
	})
	th2.PushFrame(f2)
	f2.PC = 6
	if th2.unwind(&JavaException{ClassName: "java/lang/Throwable"}) {
		t.Fatalf("expected no handler match at pc=6, frame should pop")
	}
	if th2.CurrentFrame() != nil {
		t.Fatalf("expected frame stack to be empty after unmatched unwind")
	}
}

// TestNewMethodFrameResolvesCatchType covers NewMethodFrame's
// resolution of a Code attribute's exception_table catch_type
// constant-pool index into the binary class name FindHandler compares
// against, and confirms a thrown exception matching that name is
// actually caught when run through the frame it built.
func TestNewMethodFrameResolvesCatchType(t *testing.T) {
	cp := []classloader.Constant{
		classloader.Invalid{},
		classloader.Utf8{Value: "java/lang/ArithmeticException"},
		classloader.ClassConst{NameIndex: 1},
	}
	cls := classloader.NewTestClassWithConstants("Main", "", cp)
	m := &classloader.Method{
		Id: classloader.MethodId{ClassName: "Main", Name: "m", Descriptor: "()V"},
		Code: &classloader.CodeAttribute{
			MaxStack:  1,
			MaxLocals: 0,
			Code:      []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			ExceptionTable: []classloader.ExceptionTableEntry{
				{StartPc: 0, EndPc: 5, HandlerPc: 10, CatchType: 2},
			},
		},
	}

	f, err := NewMethodFrame(cls, m)
	if err != nil {
		t.Fatalf("NewMethodFrame: unexpected error: %v", err)
	}

	th := newTestThread()
	th.PushFrame(f)
	f.PC = 3

	if !th.unwind(&JavaException{ClassName: "java/lang/ArithmeticException"}) {
		t.Fatalf("expected the resolved catch type to match the thrown exception")
	}
	if f.PC != 10 {
		t.Fatalf("pc after match = %d, want 10", f.PC)
	}
}
