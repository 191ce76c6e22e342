/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package frame holds the interpreter's per-call state: operand
// stack, local variable array, and the Slot value they're both built
// from. Grounded on the original Rust runtime's slot.rs Bits32/
// Bits64/Ref union; Go has no tagged-union builtin, so Slot carries an
// explicit Kind discriminator instead of relying on an enum match.
package frame

import (
	"fmt"
	"math"

	"jrm/object"
)

type SlotKind int

const (
	Bits32 SlotKind = iota
	Bits64
	RefSlot
)

// Slot is one operand-stack/local-variable cell. long and double each
// occupy a single Slot (not two, as in a real JVM's operand stack
// layout) since nothing here needs to address a half of a 64-bit
// value independently — the bit-exact From*/As* pairs below are the
// only sanctioned way in or out.
type Slot struct {
	Kind SlotKind
	bits uint64
	ref  object.Ref
}

func FromInt32(v int32) Slot  { return Slot{Kind: Bits32, bits: uint64(uint32(v))} }
func FromUint32(v uint32) Slot { return Slot{Kind: Bits32, bits: uint64(v)} }
func FromFloat32(v float32) Slot {
	return Slot{Kind: Bits32, bits: uint64(math.Float32bits(v))}
}
func FromInt64(v int64) Slot { return Slot{Kind: Bits64, bits: uint64(v)} }
func FromFloat64(v float64) Slot {
	return Slot{Kind: Bits64, bits: math.Float64bits(v)}
}
func FromBool(v bool) Slot {
	if v {
		return Slot{Kind: Bits32, bits: 1}
	}
	return Slot{Kind: Bits32, bits: 0}
}
func FromRef(r object.Ref) Slot { return Slot{Kind: RefSlot, ref: r} }

// AsInt32 panics if s is not a Bits32 slot, matching the original
// Slot::from's "failed to convert" panic: a type mismatch here is a
// bug in bytecode verification/dispatch, not a recoverable runtime
// condition, so there is no error return to check.
func (s Slot) AsInt32() int32 {
	s.requireKind(Bits32)
	return int32(uint32(s.bits))
}

func (s Slot) AsUint32() uint32 {
	s.requireKind(Bits32)
	return uint32(s.bits)
}

func (s Slot) AsFloat32() float32 {
	s.requireKind(Bits32)
	return math.Float32frombits(uint32(s.bits))
}

func (s Slot) AsInt64() int64 {
	s.requireKind(Bits64)
	return int64(s.bits)
}

func (s Slot) AsFloat64() float64 {
	s.requireKind(Bits64)
	return math.Float64frombits(s.bits)
}

func (s Slot) AsBool() bool {
	s.requireKind(Bits32)
	return s.bits != 0
}

func (s Slot) AsRef() object.Ref {
	s.requireKind(RefSlot)
	return s.ref
}

func (s Slot) requireKind(want SlotKind) {
	if s.Kind != want {
		panic(fmt.Sprintf("slot conversion: expected kind %d, got %d", want, s.Kind))
	}
}
