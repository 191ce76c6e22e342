/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"testing"

	"jrm/classloader"
	"jrm/frame"
	"jrm/object"
	"jrm/stringpool"
)

func newTestContext() (*Context, *object.Heap, *stringpool.Pool) {
	heap := object.NewHeap()
	strings := stringpool.NewPool(heap)
	return &Context{Heap: heap, Strings: strings, Classes: classloader.NewMethodArea()}, heap, strings
}

func TestMethodSignaturesRegistersCoreHooks(t *testing.T) {
	for _, key := range []string{
		"java/lang/Object.<init>()V",
		"java/lang/Object.registerNatives()V",
		"java/lang/Object.hashCode()I",
		"java/lang/String.intern()Ljava/lang/String;",
		"java/lang/Thread.registerNatives()V",
		"java/lang/Thread.currentThread()Ljava/lang/Thread;",
	} {
		if _, ok := MethodSignatures[key]; !ok {
			t.Errorf("expected %q to be registered in MethodSignatures", key)
		}
	}
}

func TestObjectHashCodeReturnsIdentityHash(t *testing.T) {
	ctx, heap, _ := newTestContext()
	ref := heap.AllocateInstance("java/lang/Object", nil)

	result, err := objectHashCode(ctx, []frame.Slot{frame.FromRef(ref)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AsInt32() != int32(ref) {
		t.Errorf("hashCode = %d, want %d", result.AsInt32(), int32(ref))
	}
}

func TestStringInternRoundTripsThroughBackingArray(t *testing.T) {
	ctx, _, strings := newTestContext()
	this := strings.Intern("hi")

	result, err := stringIntern(ctx, []frame.Slot{frame.FromRef(this)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AsRef() != this {
		t.Errorf("String.intern() of an already-interned string returned a different ref: %v vs %v", result.AsRef(), this)
	}
}

func TestThreadCurrentThreadReturnsStableRef(t *testing.T) {
	ctx, _, _ := newTestContext()
	first, err := threadCurrentThread(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := threadCurrentThread(ctx, nil)
	if first.AsRef() != second.AsRef() {
		t.Errorf("currentThread() refs differ across calls: %v vs %v", first.AsRef(), second.AsRef())
	}
}
