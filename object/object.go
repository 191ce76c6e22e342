/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package object is the runtime heap: object identity, instance
// fields, and arrays. Grounded on the teacher's object package (Object
// / Field / FieldTable) and, for the exact value shapes, on the
// original Rust runtime's heap::Instance / heap::Array / ObjectRef.
package object

import (
	"fmt"
	"sync"

	"jrm/types"
)

// Ref is an opaque heap address. Zero is the null reference, matching
// the Rust runtime's ObjectRef::null(); no live allocation is ever
// given address 0.
type Ref int32

func (r Ref) IsNull() bool { return r == 0 }

// Value is the tagged union a Field or array element holds: exactly
// one of the typed fields is meaningful, selected by the owning
// Field's Type.Kind or the owning Array's ElemType.Kind. This mirrors
// FieldValue/ArrayValue in the original Rust heap rather than the
// teacher's any-typed Fvalue, so zero-initialization and descriptor
// round trips stay type-safe.
type Value struct {
	Bool   bool
	Byte   int8
	Char   types.JavaChar
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64
	Ref    Ref
}

// Field is one instance or static field slot of an object.
type Field struct {
	Name  string
	Type  types.Type
	Value Value
}

// Instance is a heap-allocated object: the class it was built from and
// its field table, keyed by name the way the teacher's FieldTable map
// is, since a small linear/object model doesn't need the compact
// positional layout a production JVM would use.
type Instance struct {
	ClassName string
	Fields    map[string]*Field
}

// Array is a heap-allocated array: a homogeneous run of Values whose
// kind is fixed at allocation time, plus the element type for
// re-descriptor-ing (e.g. by an array-store native hook).
type Array struct {
	ElemType types.Type
	Elements []Value
}

func (a *Array) Length() int { return len(a.Elements) }

// Heap is the single shared object table, protected by one mutex the
// way MethodArea guards its class table. Addresses are assigned
// monotonically starting at 1 and never reused, so a Ref remains valid
// for the life of the process even if nothing still reaches it — this
// runtime has no garbage collector of its own and relies on Go's.
type Heap struct {
	mu        sync.Mutex
	nextAddr  int32
	instances map[Ref]*Instance
	arrays    map[Ref]*Array
}

func NewHeap() *Heap {
	return &Heap{nextAddr: 1, instances: make(map[Ref]*Instance), arrays: make(map[Ref]*Array)}
}

// AllocateInstance creates a new Instance for className with the given
// zero-initialized fields and returns its Ref.
func (h *Heap) AllocateInstance(className string, fields []Field) Ref {
	inst := &Instance{ClassName: className, Fields: make(map[string]*Field, len(fields))}
	for i := range fields {
		f := fields[i]
		inst.Fields[f.Name] = &f
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	ref := Ref(h.nextAddr)
	h.nextAddr++
	h.instances[ref] = inst
	return ref
}

// AllocateArray allocates a zero-filled array of elemType over
// dimensions (spec.md §4.8 "allocate_array"): dimensions[0] is the
// length of the array returned; if more dimensions remain, each
// element is itself a freshly allocated sub-array built by recursing
// on dimensions[1:] with the same elemType, so a 3-dimension call
// builds a root array of 2-dimension arrays of elemType arrays. An
// empty dimensions list, a negative length at any level, and a Void
// elemType are all runtime errors, checked at every level of the
// recursion (not just the top), so a malformed inner dimension fails
// the same way a malformed outer one does.
func (h *Heap) AllocateArray(elemType types.Type, dimensions []int) (Ref, error) {
	if len(dimensions) == 0 {
		return 0, fmt.Errorf("allocate_array: empty dimension list")
	}
	if types.Kind(elemType.Kind) == types.Void {
		return 0, fmt.Errorf("cannot allocate an array of void")
	}
	length := dimensions[0]
	if length < 0 {
		return 0, fmt.Errorf("negative array length: %d", length)
	}

	if len(dimensions) == 1 {
		elems := make([]Value, length)
		for i := range elems {
			elems[i] = zeroValue(elemType)
		}
		return h.AllocateArrayWithValue(elemType, elems), nil
	}

	elems := make([]Value, length)
	for i := range elems {
		sub, err := h.AllocateArray(elemType, dimensions[1:])
		if err != nil {
			return 0, err
		}
		elems[i] = Value{Ref: sub}
	}
	return h.AllocateArrayWithValue(types.Type{Kind: int(types.Array), Elem: &elemType}, elems), nil
}

// AllocateArrayWithValue wraps a pre-built element slice (e.g. one
// decoded from a Utf8-derived byte array, or built up dimension by
// dimension for a multianewarray).
func (h *Heap) AllocateArrayWithValue(elemType types.Type, elements []Value) Ref {
	arr := &Array{ElemType: elemType, Elements: elements}

	h.mu.Lock()
	defer h.mu.Unlock()
	ref := Ref(h.nextAddr)
	h.nextAddr++
	h.arrays[ref] = arr
	return ref
}

func (h *Heap) GetInstance(ref Ref) (*Instance, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.instances[ref]
	return inst, ok
}

func (h *Heap) GetArray(ref Ref) (*Array, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	arr, ok := h.arrays[ref]
	return arr, ok
}

// zeroValue produces a field/array-element's default value, keyed off
// the type's Kind: references and arrays start null, everything
// numeric starts at its zero.
func zeroValue(t types.Type) Value {
	switch types.Kind(t.Kind) {
	case types.Boolean:
		return Value{Bool: false}
	case types.Ref, types.Array:
		return Value{Ref: 0}
	default:
		return Value{}
	}
}
