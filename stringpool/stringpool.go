/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package stringpool interns Java string constants onto a single heap
// object per distinct content, grounded on the original Rust runtime's
// string_pool.rs (a name -> ObjectRef map) and written in the
// teacher's mutex-guarded-singleton style (globals.GetGlobalRef).
package stringpool

import (
	"sync"

	"jrm/object"
	"jrm/types"
)

// Pool maps Go string content to the heap Ref of the java/lang/String
// instance already allocated for it, so two ldc instructions loading
// the same String constant (even from different classes) return the
// same reference, matching JVMS §5.1's string-constant interning rule.
type Pool struct {
	mu   sync.Mutex
	heap *object.Heap
	refs map[string]object.Ref
}

func NewPool(heap *object.Heap) *Pool {
	return &Pool{heap: heap, refs: make(map[string]object.Ref)}
}

// Intern returns the Ref for s, allocating a backing String instance
// on first use and reusing it on every subsequent call with the same
// content. The coder recorded on the instance follows JVMS/JEP 254's
// compact-strings rule: Latin-1 when every code point fits in a byte,
// UTF-16 otherwise (spec.md §4.8 "string coder selection").
func (p *Pool) Intern(s string) object.Ref {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ref, ok := p.refs[s]; ok {
		return ref
	}

	coder := coderFor(s)
	valueRef := p.allocateBackingArray(s, coder)
	ref := p.heap.AllocateInstance("java/lang/String", []object.Field{
		{Name: "value", Value: object.Value{Ref: valueRef}},
		{Name: "coder", Value: object.Value{Byte: int8(coder)}},
	})
	p.refs[s] = ref
	return ref
}

// allocateBackingArray materializes s's content as the byte/char array
// a java/lang/String's private "value" field actually points at (JEP
// 254's compact-strings layout): one Value.Byte per rune for Latin-1,
// one Value.Char per rune for UTF-16. Without this, a String's "value"
// field would be null and any native hook that reads it back (e.g.
// intern()) would have nothing to decode.
func (p *Pool) allocateBackingArray(s string, coder int) object.Ref {
	runes := []rune(s)
	elems := make([]object.Value, len(runes))
	elemKind := types.Byte
	if coder == types.StringCoderUTF16 {
		elemKind = types.Char
	}
	for i, r := range runes {
		if coder == types.StringCoderUTF16 {
			elems[i] = object.Value{Char: types.JavaChar(r)}
		} else {
			elems[i] = object.Value{Byte: int8(r)}
		}
	}
	return p.heap.AllocateArrayWithValue(types.Type{Kind: int(elemKind)}, elems)
}

// Lookup reports whether s has already been interned, without
// allocating.
func (p *Pool) Lookup(s string) (object.Ref, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ref, ok := p.refs[s]
	return ref, ok
}

// Size returns the number of distinct strings interned so far.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.refs)
}

func coderFor(s string) int {
	for _, r := range s {
		if r > 0xFF {
			return types.StringCoderUTF16
		}
	}
	return types.StringCoderLatin1
}
