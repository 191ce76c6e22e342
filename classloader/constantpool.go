/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "fmt"

// Constant pool tags, per JVMS §4.4. These are the wire values read
// from the one-byte tag that selects each entry's layout.
const (
	TagUtf8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldref           = 9
	TagMethodref          = 10
	TagInterfaceMethodref = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
	TagModule             = 19
	TagPackage            = 20
)

// Constant is the common interface every constant-pool entry kind
// satisfies. Tag identifies which concrete type the value is, so
// callers can type-switch without a reflection-based visitor.
type Constant interface {
	Tag() byte
}

// Invalid occupies index 0 (the JVMS-mandated "unusable" slot) and the
// filler slot that follows every Long/Double entry (see the "two
// indices per 8-byte constant" note on decodeConstantPool).
type Invalid struct{}

func (Invalid) Tag() byte { return 0 }

type Utf8 struct{ Value string }

func (Utf8) Tag() byte { return TagUtf8 }

type IntegerConst struct{ Value int32 }

func (IntegerConst) Tag() byte { return TagInteger }

type FloatConst struct{ Value float32 }

func (FloatConst) Tag() byte { return TagFloat }

type LongConst struct{ Value int64 }

func (LongConst) Tag() byte { return TagLong }

type DoubleConst struct{ Value float64 }

func (DoubleConst) Tag() byte { return TagDouble }

type ClassConst struct{ NameIndex uint16 }

func (ClassConst) Tag() byte { return TagClass }

type StringConst struct{ StringIndex uint16 }

func (StringConst) Tag() byte { return TagString }

type FieldrefConst struct {
	ClassIndex uint16
	NatIndex   uint16
}

func (FieldrefConst) Tag() byte { return TagFieldref }

type MethodrefConst struct {
	ClassIndex uint16
	NatIndex   uint16
}

func (MethodrefConst) Tag() byte { return TagMethodref }

type InterfaceMethodrefConst struct {
	ClassIndex uint16
	NatIndex   uint16
}

func (InterfaceMethodrefConst) Tag() byte { return TagInterfaceMethodref }

type NameAndTypeConst struct {
	NameIndex uint16
	DescIndex uint16
}

func (NameAndTypeConst) Tag() byte { return TagNameAndType }

type MethodHandleConst struct {
	RefKind  byte
	RefIndex uint16
}

func (MethodHandleConst) Tag() byte { return TagMethodHandle }

type MethodTypeConst struct{ DescIndex uint16 }

func (MethodTypeConst) Tag() byte { return TagMethodType }

type DynamicConst struct {
	BootstrapIndex uint16
	NatIndex       uint16
}

func (DynamicConst) Tag() byte { return TagDynamic }

type InvokeDynamicConst struct {
	BootstrapIndex uint16
	NatIndex       uint16
}

func (InvokeDynamicConst) Tag() byte { return TagInvokeDynamic }

type ModuleConst struct{ NameIndex uint16 }

func (ModuleConst) Tag() byte { return TagModule }

type PackageConst struct{ NameIndex uint16 }

func (PackageConst) Tag() byte { return TagPackage }

// ConstantPool owns the decoded tagged-union constant table for one
// class file. It is built once by decodeConstantPool and, once
// attached to a Class, is read-only: Go's garbage collector plays the
// role the spec's "frozen, reference-counted" pool plays in the
// source language, since every holder keeps a plain *ConstantPool.
type ConstantPool struct {
	entries []Constant
}

// Count returns cp_count, i.e. len(entries) including the index-0
// sentinel and the filler slots after Long/Double entries.
func (cp *ConstantPool) Count() int { return len(cp.entries) }

// Get returns the raw entry at index, bounds-checked against 1..Count()
// (index 0 is reserved and never returned to a caller as valid).
func (cp *ConstantPool) Get(index int) (Constant, error) {
	if index < 1 || index >= len(cp.entries) {
		return nil, indexRangeError(index, len(cp.entries))
	}
	return cp.entries[index], nil
}

// GetUtf8 resolves index and requires it to be a Utf8 entry; this is
// the single most common lookup in the decoder (every name and
// descriptor is threaded through a Utf8 entry).
func (cp *ConstantPool) GetUtf8(index int) (string, error) {
	c, err := cp.Get(index)
	if err != nil {
		return "", err
	}
	u, ok := c.(Utf8)
	if !ok {
		return "", cfe(fmt.Sprintf("expected Utf8 at index %d, got tag %d", index, c.Tag()))
	}
	return u.Value, nil
}

func (cp *ConstantPool) GetClass(index int) (ClassConst, error) {
	c, err := cp.Get(index)
	if err != nil {
		return ClassConst{}, err
	}
	v, ok := c.(ClassConst)
	if !ok {
		return ClassConst{}, cfe(fmt.Sprintf("expected Class at index %d, got tag %d", index, c.Tag()))
	}
	return v, nil
}

// GetClassName resolves a Class constant all the way through to its
// UTF-8 binary name in one call, since nearly every caller wants the
// string, not the intermediate ClassConst.
func (cp *ConstantPool) GetClassName(index int) (string, error) {
	cls, err := cp.GetClass(index)
	if err != nil {
		return "", err
	}
	return cp.GetUtf8(int(cls.NameIndex))
}

func (cp *ConstantPool) GetString(index int) (StringConst, error) {
	c, err := cp.Get(index)
	if err != nil {
		return StringConst{}, err
	}
	v, ok := c.(StringConst)
	if !ok {
		return StringConst{}, cfe(fmt.Sprintf("expected String at index %d, got tag %d", index, c.Tag()))
	}
	return v, nil
}

func (cp *ConstantPool) GetNameAndType(index int) (NameAndTypeConst, error) {
	c, err := cp.Get(index)
	if err != nil {
		return NameAndTypeConst{}, err
	}
	v, ok := c.(NameAndTypeConst)
	if !ok {
		return NameAndTypeConst{}, cfe(fmt.Sprintf("expected NameAndType at index %d, got tag %d", index, c.Tag()))
	}
	return v, nil
}

func (cp *ConstantPool) GetFieldref(index int) (FieldrefConst, error) {
	c, err := cp.Get(index)
	if err != nil {
		return FieldrefConst{}, err
	}
	v, ok := c.(FieldrefConst)
	if !ok {
		return FieldrefConst{}, cfe(fmt.Sprintf("expected Fieldref at index %d, got tag %d", index, c.Tag()))
	}
	return v, nil
}

func (cp *ConstantPool) GetMethodref(index int) (MethodrefConst, error) {
	c, err := cp.Get(index)
	if err != nil {
		return MethodrefConst{}, err
	}
	v, ok := c.(MethodrefConst)
	if !ok {
		return MethodrefConst{}, cfe(fmt.Sprintf("expected Methodref at index %d, got tag %d", index, c.Tag()))
	}
	return v, nil
}

func (cp *ConstantPool) GetInterfaceMethodref(index int) (InterfaceMethodrefConst, error) {
	c, err := cp.Get(index)
	if err != nil {
		return InterfaceMethodrefConst{}, err
	}
	v, ok := c.(InterfaceMethodrefConst)
	if !ok {
		return InterfaceMethodrefConst{}, cfe(fmt.Sprintf("expected InterfaceMethodref at index %d, got tag %d", index, c.Tag()))
	}
	return v, nil
}

func (cp *ConstantPool) GetMethodHandle(index int) (MethodHandleConst, error) {
	c, err := cp.Get(index)
	if err != nil {
		return MethodHandleConst{}, err
	}
	v, ok := c.(MethodHandleConst)
	if !ok {
		return MethodHandleConst{}, cfe(fmt.Sprintf("expected MethodHandle at index %d, got tag %d", index, c.Tag()))
	}
	return v, nil
}

// NameAndTypeStrings resolves a NameAndType constant's two UTF-8
// payloads (name, descriptor) in one call.
func (cp *ConstantPool) NameAndTypeStrings(index int) (name, desc string, err error) {
	nat, err := cp.GetNameAndType(index)
	if err != nil {
		return "", "", err
	}
	name, err = cp.GetUtf8(int(nat.NameIndex))
	if err != nil {
		return "", "", err
	}
	desc, err = cp.GetUtf8(int(nat.DescIndex))
	if err != nil {
		return "", "", err
	}
	return name, desc, nil
}

// decodeConstantPool reads cp_count, inserts the Invalid sentinel at
// index 0, then decodes entries one tag-dispatched layout at a time
// until the table holds cp_count elements (spec.md §4.2).
//
// Long and Double each occupy two constant-pool indices in the wire
// format even though this design collapses them to one 64-bit Slot at
// run time (spec.md §9 "Slot width"). We preserve the wire-level index
// arithmetic the way the spec mandates: insert an Invalid filler right
// after every Long/Double entry, so index N+1 after a Long at index N
// is never resolvable — exactly as javac emits it and exactly what a
// legal class file's other indexes assume.
func decodeConstantPool(r *ByteReader, cpCount int) (*ConstantPool, error) {
	cp := &ConstantPool{entries: make([]Constant, 1, cpCount)}
	cp.entries[0] = Invalid{}

	for len(cp.entries) < cpCount {
		tag, ok := r.ReadU8()
		if !ok {
			return nil, cfe("truncated constant pool")
		}

		entry, filler, err := decodeConstantEntry(r, tag)
		if err != nil {
			return nil, err
		}
		cp.entries = append(cp.entries, entry)
		if filler {
			if len(cp.entries) >= cpCount {
				return nil, cfe("Long/Double constant at last index has no room for its filler slot")
			}
			cp.entries = append(cp.entries, Invalid{})
		}
	}
	return cp, nil
}

// decodeConstantEntry dispatches on tag to the one layout reader that
// tag selects, per spec.md §4.2. filler reports whether the entry
// consumes a second wire-level index (Long/Double only).
func decodeConstantEntry(r *ByteReader, tag byte) (entry Constant, filler bool, err error) {
	switch tag {
	case TagUtf8:
		length, ok := r.ReadU16()
		if !ok {
			return nil, false, cfe("truncated Utf8 length")
		}
		raw, ok := r.ReadBytes(int(length))
		if !ok {
			return nil, false, cfe("truncated Utf8 bytes")
		}
		s, err := decodeModifiedUTF8(raw)
		if err != nil {
			return nil, false, cfe("invalid UTF-8 in Utf8 constant: " + err.Error())
		}
		return Utf8{Value: s}, false, nil

	case TagInteger:
		v, ok := r.ReadU32()
		if !ok {
			return nil, false, cfe("truncated Integer constant")
		}
		return IntegerConst{Value: int32(v)}, false, nil

	case TagFloat:
		v, ok := r.ReadU32()
		if !ok {
			return nil, false, cfe("truncated Float constant")
		}
		return FloatConst{Value: bitsToFloat32(v)}, false, nil

	case TagLong:
		hi, ok1 := r.ReadU32()
		lo, ok2 := r.ReadU32()
		if !ok1 || !ok2 {
			return nil, false, cfe("truncated Long constant")
		}
		return LongConst{Value: bitsToInt64(hi, lo)}, true, nil

	case TagDouble:
		hi, ok1 := r.ReadU32()
		lo, ok2 := r.ReadU32()
		if !ok1 || !ok2 {
			return nil, false, cfe("truncated Double constant")
		}
		return DoubleConst{Value: bitsToFloat64(hi, lo)}, true, nil

	case TagClass:
		idx, ok := r.ReadU16()
		if !ok {
			return nil, false, cfe("truncated Class constant")
		}
		return ClassConst{NameIndex: idx}, false, nil

	case TagString:
		idx, ok := r.ReadU16()
		if !ok {
			return nil, false, cfe("truncated String constant")
		}
		return StringConst{StringIndex: idx}, false, nil

	case TagFieldref:
		c, n, ok := readRefPair(r)
		if !ok {
			return nil, false, cfe("truncated Fieldref constant")
		}
		return FieldrefConst{ClassIndex: c, NatIndex: n}, false, nil

	case TagMethodref:
		c, n, ok := readRefPair(r)
		if !ok {
			return nil, false, cfe("truncated Methodref constant")
		}
		return MethodrefConst{ClassIndex: c, NatIndex: n}, false, nil

	case TagInterfaceMethodref:
		c, n, ok := readRefPair(r)
		if !ok {
			return nil, false, cfe("truncated InterfaceMethodref constant")
		}
		return InterfaceMethodrefConst{ClassIndex: c, NatIndex: n}, false, nil

	case TagNameAndType:
		n, d, ok := readRefPair(r)
		if !ok {
			return nil, false, cfe("truncated NameAndType constant")
		}
		return NameAndTypeConst{NameIndex: n, DescIndex: d}, false, nil

	case TagMethodHandle:
		kind, ok1 := r.ReadU8()
		idx, ok2 := r.ReadU16()
		if !ok1 || !ok2 {
			return nil, false, cfe("truncated MethodHandle constant")
		}
		return MethodHandleConst{RefKind: kind, RefIndex: idx}, false, nil

	case TagMethodType:
		idx, ok := r.ReadU16()
		if !ok {
			return nil, false, cfe("truncated MethodType constant")
		}
		return MethodTypeConst{DescIndex: idx}, false, nil

	case TagDynamic:
		b, n, ok := readRefPair(r)
		if !ok {
			return nil, false, cfe("truncated Dynamic constant")
		}
		return DynamicConst{BootstrapIndex: b, NatIndex: n}, false, nil

	case TagInvokeDynamic:
		b, n, ok := readRefPair(r)
		if !ok {
			return nil, false, cfe("truncated InvokeDynamic constant")
		}
		return InvokeDynamicConst{BootstrapIndex: b, NatIndex: n}, false, nil

	case TagModule:
		idx, ok := r.ReadU16()
		if !ok {
			return nil, false, cfe("truncated Module constant")
		}
		return ModuleConst{NameIndex: idx}, false, nil

	case TagPackage:
		idx, ok := r.ReadU16()
		if !ok {
			return nil, false, cfe("truncated Package constant")
		}
		return PackageConst{NameIndex: idx}, false, nil

	default:
		return nil, false, cfe(fmt.Sprintf("unknown constant pool tag %d", tag))
	}
}

func readRefPair(r *ByteReader) (a, b uint16, ok bool) {
	a, ok1 := r.ReadU16()
	b, ok2 := r.ReadU16()
	return a, b, ok1 && ok2
}
