/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import (
	"testing"

	"jrm/types"
)

func TestAllocateInstanceZeroesFields(t *testing.T) {
	h := NewHeap()
	ref := h.AllocateInstance("java/lang/Object", []Field{
		{Name: "count", Type: types.Type{Kind: int(types.Int)}},
		{Name: "name", Type: types.Type{Kind: int(types.Ref), BinaryName: "java/lang/String"}},
	})
	if ref.IsNull() {
		t.Fatalf("expected a non-null ref")
	}

	inst, ok := h.GetInstance(ref)
	if !ok {
		t.Fatalf("instance not found for ref %d", ref)
	}
	if inst.Fields["count"].Value.Int != 0 {
		t.Errorf("expected zero int field, got %d", inst.Fields["count"].Value.Int)
	}
	if !inst.Fields["name"].Value.Ref.IsNull() {
		t.Errorf("expected null ref field")
	}
}

func TestAllocateArrayRejectsNegativeLength(t *testing.T) {
	h := NewHeap()
	if _, err := h.AllocateArray(types.Type{Kind: int(types.Int)}, []int{-1}); err == nil {
		t.Fatalf("expected error for negative array length")
	}
}

func TestAllocateArrayRejectsNegativeInnerDimension(t *testing.T) {
	h := NewHeap()
	if _, err := h.AllocateArray(types.Type{Kind: int(types.Int)}, []int{2, -1}); err == nil {
		t.Fatalf("expected error for a negative inner dimension")
	}
}

func TestAllocateArrayRejectsEmptyDimensionList(t *testing.T) {
	h := NewHeap()
	if _, err := h.AllocateArray(types.Type{Kind: int(types.Int)}, nil); err == nil {
		t.Fatalf("expected error for an empty dimension list")
	}
}

func TestAllocateArrayRejectsVoid(t *testing.T) {
	h := NewHeap()
	if _, err := h.AllocateArray(types.Type{Kind: int(types.Void)}, []int{4}); err == nil {
		t.Fatalf("expected error for array of void")
	}
}

func TestAllocateArrayZeroFilled(t *testing.T) {
	h := NewHeap()
	ref, err := h.AllocateArray(types.Type{Kind: int(types.Boolean)}, []int{3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := h.GetArray(ref)
	if !ok {
		t.Fatalf("array not found for ref %d", ref)
	}
	if arr.Length() != 3 {
		t.Errorf("expected length 3, got %d", arr.Length())
	}
	for i, v := range arr.Elements {
		if v.Bool != false {
			t.Errorf("element %d: expected false, got %v", i, v.Bool)
		}
	}
}

// TestAllocateArrayNestedDimensionsMatchArrayAllocProperty is spec.md
// §8's array.alloc property: for dimensions [d1,...,dn], length(root)
// == d1 and every inner array recursively satisfies the same property
// with [d2,...,dn].
func TestAllocateArrayNestedDimensionsMatchArrayAllocProperty(t *testing.T) {
	h := NewHeap()
	ref, err := h.AllocateArray(types.Type{Kind: int(types.Int)}, []int{2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root, ok := h.GetArray(ref)
	if !ok {
		t.Fatalf("root array not found for ref %d", ref)
	}
	if root.Length() != 2 {
		t.Fatalf("root length = %d, want 2", root.Length())
	}

	for i, v := range root.Elements {
		inner, ok := h.GetArray(v.Ref)
		if !ok {
			t.Fatalf("element %d: expected a live inner array ref", i)
		}
		if inner.Length() != 3 {
			t.Errorf("inner array %d: length = %d, want 3", i, inner.Length())
		}
		for j, iv := range inner.Elements {
			if iv.Int != 0 {
				t.Errorf("inner array %d element %d: expected zero Int, got %d", i, j, iv.Int)
			}
		}
	}
}

func TestByteArrayRoundTrip(t *testing.T) {
	original := []byte("hello")
	elems := JavaByteArrayFromGoBytes(original)
	back := GoBytesFromJavaByteArray(elems)
	if string(back) != string(original) {
		t.Errorf("round trip mismatch: got %q, want %q", back, original)
	}
}

func TestAddressesAreMonotonicAndNeverNull(t *testing.T) {
	h := NewHeap()
	seen := make(map[Ref]bool)
	for i := 0; i < 10; i++ {
		ref := h.AllocateInstance("java/lang/Object", nil)
		if ref.IsNull() {
			t.Fatalf("allocation %d produced a null ref", i)
		}
		if seen[ref] {
			t.Fatalf("allocation %d reused ref %d", i, ref)
		}
		seen[ref] = true
	}
}
