/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package frame

import "testing"

func TestSlotBitExactFloatRoundTrip(t *testing.T) {
	want := float32(3.14159)
	s := FromFloat32(want)
	if got := s.AsFloat32(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSlotBitExactDoubleRoundTrip(t *testing.T) {
	want := 2.71828182845
	s := FromFloat64(want)
	if got := s.AsFloat64(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSlotWrongKindConversionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic converting a Bits32 slot to int64")
		}
	}()
	FromInt32(5).AsInt64()
}

func TestOperandStackOverflow(t *testing.T) {
	s := NewOperandStack(2)
	if err := s.Push(FromInt32(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Push(FromInt32(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Push(FromInt32(3)); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestOperandStackUnderflow(t *testing.T) {
	s := NewOperandStack(2)
	if _, err := s.Pop(); err == nil {
		t.Fatalf("expected underflow error")
	}
}

func TestOperandStackPushPopOrder(t *testing.T) {
	s := NewOperandStack(4)
	s.Push(FromInt32(1))
	s.Push(FromInt32(2))
	top, _ := s.Pop()
	if top.AsInt32() != 2 {
		t.Errorf("expected LIFO order, got %d", top.AsInt32())
	}
}

func TestLocalsOutOfRange(t *testing.T) {
	l := NewLocals(2)
	if _, err := l.Get(5); err == nil {
		t.Fatalf("expected out-of-range error")
	}
	if err := l.Set(-1, FromInt32(0)); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestFrameFindHandlerMatchesRange(t *testing.T) {
	f := NewFrame("C", "m", "()V", nil, 0, 0, []ExceptionHandler{
		{StartPc: 0, EndPc: 10, HandlerPc: 20, CatchType: "java/lang/Exception"},
	})
	h, ok := f.FindHandler(5, func(ct string) bool { return ct == "java/lang/Exception" })
	if !ok || h.HandlerPc != 20 {
		t.Fatalf("expected a matching handler at pc 20, got %+v, ok=%v", h, ok)
	}
	if _, ok := f.FindHandler(15, func(string) bool { return true }); ok {
		t.Fatalf("expected no handler outside the covered range")
	}
}
