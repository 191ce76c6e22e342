/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"fmt"

	"jrm/globals"
	"jrm/trace"
)

const classMagic = 0xCAFEBABE

// ParsedClass is the wire-faithful decode of a .class file: indexes
// still point into ConstantPool, nothing has been resolved to names
// yet. class.go's BuildClass turns this into the semantic Class the
// interpreter actually runs against (spec.md §4.6).
type ParsedClass struct {
	MinorVersion uint16
	MajorVersion uint16

	ConstantPool *ConstantPool

	AccessFlags     ClassAccessFlags
	ThisClassIndex  uint16
	SuperClassIndex uint16 // 0 only for java/lang/Object

	InterfaceIndexes []uint16

	Fields  []ParsedField
	Methods []ParsedMethod

	Attributes []Attribute
}

type ParsedField struct {
	AccessFlags FieldAccessFlags
	NameIndex   uint16
	DescIndex   uint16
	Attributes  []Attribute
}

type ParsedMethod struct {
	AccessFlags MethodAccessFlags
	NameIndex   uint16
	DescIndex   uint16
	Attributes  []Attribute
}

// DecodeClassFile drives the top-level pipeline of spec.md §4.4:
// header → constant pool → access/this/super → interfaces → fields →
// methods → attributes. Each stage either returns a populated
// ParsedClass field or propagates the first ParseError encountered;
// there is no partial-success return.
func DecodeClassFile(raw []byte) (*ParsedClass, error) {
	r := NewByteReader(raw)
	pc := &ParsedClass{}

	if err := decodeMagicAndVersion(r, pc); err != nil {
		return nil, err
	}

	cpCount16, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated constant pool count")
	}
	cpCount := int(cpCount16)
	if cpCount < 1 {
		return nil, cfe(fmt.Sprintf("invalid constant pool count: %d", cpCount))
	}

	pool, err := decodeConstantPool(r, cpCount)
	if err != nil {
		return nil, err
	}
	pc.ConstantPool = pool
	ctx := &ParserContext{Pool: pool, CPCount: cpCount}

	accessFlags, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated class file: no class access flags after the constant pool")
	}
	pc.AccessFlags = ClassAccessFlags(accessFlags)
	if err := pc.AccessFlags.validate(); err != nil {
		return nil, err
	}

	thisClass, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated this_class")
	}
	if err := ctx.CheckIndex(int(thisClass)); err != nil {
		return nil, err
	}
	if _, err := pool.GetClass(int(thisClass)); err != nil {
		return nil, err
	}
	pc.ThisClassIndex = thisClass

	superClass, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated super_class")
	}
	if superClass != 0 {
		if err := ctx.CheckIndex(int(superClass)); err != nil {
			return nil, err
		}
		if _, err := pool.GetClass(int(superClass)); err != nil {
			return nil, err
		}
	}
	pc.SuperClassIndex = superClass

	ifaceCount, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated interfaces_count")
	}
	ctx.Count = int(ifaceCount)
	for i := 0; i < ctx.Count; i++ {
		idx, ok := r.ReadU16()
		if !ok {
			return nil, cfe("truncated interface index")
		}
		if err := ctx.CheckIndex(int(idx)); err != nil {
			return nil, err
		}
		if _, err := pool.GetClass(int(idx)); err != nil {
			return nil, err
		}
		pc.InterfaceIndexes = append(pc.InterfaceIndexes, idx)
	}

	fieldCount, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated fields_count")
	}
	ctx.Count = int(fieldCount)
	for i := 0; i < ctx.Count; i++ {
		f, err := decodeField(r, pool)
		if err != nil {
			return nil, err
		}
		pc.Fields = append(pc.Fields, f)
	}

	methodCount, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated methods_count")
	}
	ctx.Count = int(methodCount)
	for i := 0; i < ctx.Count; i++ {
		m, err := decodeMethod(r, pool)
		if err != nil {
			return nil, err
		}
		pc.Methods = append(pc.Methods, m)
	}

	attrCount, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated class attributes_count")
	}
	attrs, err := decodeAttributes(r, pool, int(attrCount))
	if err != nil {
		return nil, err
	}
	pc.Attributes = attrs

	trace.Finest(fmt.Sprintf("DecodeClassFile: decoded %d fields, %d methods, %d attributes",
		len(pc.Fields), len(pc.Methods), len(pc.Attributes)))

	return pc, nil
}

func decodeMagicAndVersion(r *ByteReader, pc *ParsedClass) error {
	magic, ok := r.ReadU32()
	if !ok {
		return cfe("truncated magic number")
	}
	if magic != classMagic {
		return cfe(fmt.Sprintf("invalid magic number: 0x%08X", magic))
	}

	minor, ok := r.ReadU16()
	if !ok {
		return cfe("truncated minor version")
	}
	major, ok := r.ReadU16()
	if !ok {
		return cfe("truncated major version")
	}

	g := globals.GetGlobalRef()
	if int(major) < g.MinJavaVersion || int(major) > g.MaxJavaVersionRaw {
		return cfe(fmt.Sprintf("unsupported class file major version %d (supported: %d..%d)",
			major, g.MinJavaVersion, g.MaxJavaVersionRaw))
	}

	pc.MinorVersion = minor
	pc.MajorVersion = major
	return nil
}

func decodeField(r *ByteReader, cp *ConstantPool) (ParsedField, error) {
	accessFlags, ok := r.ReadU16()
	if !ok {
		return ParsedField{}, cfe("truncated field access flags")
	}
	flags := FieldAccessFlags(accessFlags)
	if err := flags.validate(); err != nil {
		return ParsedField{}, err
	}

	nameIdx, ok := r.ReadU16()
	if !ok {
		return ParsedField{}, cfe("truncated field name_index")
	}
	if _, err := cp.GetUtf8(int(nameIdx)); err != nil {
		return ParsedField{}, err
	}

	descIdx, ok := r.ReadU16()
	if !ok {
		return ParsedField{}, cfe("truncated field descriptor_index")
	}
	if _, err := cp.GetUtf8(int(descIdx)); err != nil {
		return ParsedField{}, err
	}

	attrCount, ok := r.ReadU16()
	if !ok {
		return ParsedField{}, cfe("truncated field attributes_count")
	}
	attrs, err := decodeAttributes(r, cp, int(attrCount))
	if err != nil {
		return ParsedField{}, err
	}

	return ParsedField{AccessFlags: flags, NameIndex: nameIdx, DescIndex: descIdx, Attributes: attrs}, nil
}

func decodeMethod(r *ByteReader, cp *ConstantPool) (ParsedMethod, error) {
	accessFlags, ok := r.ReadU16()
	if !ok {
		return ParsedMethod{}, cfe("truncated method access flags")
	}
	flags := MethodAccessFlags(accessFlags)
	if err := flags.validate(); err != nil {
		return ParsedMethod{}, err
	}

	nameIdx, ok := r.ReadU16()
	if !ok {
		return ParsedMethod{}, cfe("truncated method name_index")
	}
	if _, err := cp.GetUtf8(int(nameIdx)); err != nil {
		return ParsedMethod{}, err
	}

	descIdx, ok := r.ReadU16()
	if !ok {
		return ParsedMethod{}, cfe("truncated method descriptor_index")
	}
	if _, err := cp.GetUtf8(int(descIdx)); err != nil {
		return ParsedMethod{}, err
	}

	attrCount, ok := r.ReadU16()
	if !ok {
		return ParsedMethod{}, cfe("truncated method attributes_count")
	}
	attrs, err := decodeAttributes(r, cp, int(attrCount))
	if err != nil {
		return ParsedMethod{}, err
	}

	return ParsedMethod{AccessFlags: flags, NameIndex: nameIdx, DescIndex: descIdx, Attributes: attrs}, nil
}
